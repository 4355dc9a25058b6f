package buffer

import (
	"testing"

	"github.com/iw2rmb/zinc/delta"
)

func TestUndoRedo_RestoresTextAndSelection(t *testing.T) {
	b := New("ab", Options{})
	b.SetSelection(2, 0, SourceUser)
	b.InsertText(2, "c", nil, SourceUser)

	if !b.CanUndo() {
		t.Fatalf("expected undo available")
	}
	if !b.Undo() {
		t.Fatalf("undo returned false")
	}
	if got, want := b.Text(), "ab\n"; got != want {
		t.Fatalf("after undo: got %q, want %q", got, want)
	}
	if r, _ := b.Selection(); r.Index != 2 {
		t.Fatalf("selection after undo: got %+v", r)
	}

	if !b.Redo() {
		t.Fatalf("redo returned false")
	}
	if got, want := b.Text(), "abc\n"; got != want {
		t.Fatalf("after redo: got %q, want %q", got, want)
	}
}

func TestUndo_NewEditClearsRedo(t *testing.T) {
	b := New("", Options{})
	b.InsertText(0, "a", nil, SourceUser)
	b.Undo()
	b.InsertText(0, "b", nil, SourceUser)

	if b.CanRedo() {
		t.Fatalf("redo must be cleared by a new edit")
	}
}

func TestUndo_EmitsTextChange(t *testing.T) {
	b := New("", Options{})
	b.InsertText(0, "abc", nil, SourceUser)

	var delta string
	b.On(TextChange, func(ev Event) { delta = ev.OldDelta.Text() })
	b.Undo()

	if delta != "abc\n" {
		t.Fatalf("old contents on undo: got %q", delta)
	}
}

func TestUndo_HistoryLimit(t *testing.T) {
	b := New("", Options{HistoryLimit: 2})
	for _, s := range []string{"a", "b", "c"} {
		b.InsertText(0, s, nil, SourceUser)
	}
	steps := 0
	for b.Undo() {
		steps++
	}
	if steps != 2 {
		t.Fatalf("undo steps: got %d, want 2", steps)
	}
	if got, want := b.Text(), "a\n"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
}

func TestDiffCells_TrimsCommonEnds(t *testing.T) {
	before := cellsFromText("hello\n", nil)
	after := cellsFromText("help\n", nil)
	d := diffCells(before, after)

	if got, want := d.Length(), 3+2+1; got != want {
		t.Fatalf("delta length: got %d, want %d (%+v)", got, want, d.Ops)
	}
}

func TestSetContents_ReplacesDocument(t *testing.T) {
	b := New("old text", Options{})
	b.SetSelection(4, 0, SourceUser)

	var got []Event
	b.On(TextChange, func(ev Event) { got = append(got, ev) })

	b.SetContents(delta.New().
		Insert("Title", nil).
		Insert("\n", delta.Attributes{"header": "1"}).
		Insert("body", nil), SourceAPI)

	if got, want := b.Text(), "Title\nbody\n"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
	if f := b.Format(Range{Index: 0}); f["header"] != "1" {
		t.Fatalf("header line format lost: %v", f)
	}
	if sel, _ := b.Selection(); sel != (Range{}) {
		t.Fatalf("selection: got %+v, want collapsed at 0", sel)
	}
	if len(got) != 1 || got[0].Source != SourceAPI {
		t.Fatalf("events: got %+v", got)
	}

	b.ClearHistory()
	if b.CanUndo() || b.Undo() {
		t.Fatalf("cleared history must not undo")
	}
}
