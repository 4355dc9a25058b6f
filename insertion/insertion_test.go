package insertion

import (
	"errors"
	"testing"

	"github.com/iw2rmb/zinc/buffer"
	"github.com/iw2rmb/zinc/convert"
	"github.com/iw2rmb/zinc/toplayer"
	"github.com/iw2rmb/zinc/trigger"
)

func newBuffer(text string, cursor int) *buffer.Buffer {
	b := buffer.New(text, buffer.Options{})
	b.SetSelection(cursor, 0, buffer.SourceUser)
	return b
}

func typeText(b *buffer.Buffer, s string) {
	for _, r := range s {
		sel, _ := b.Selection()
		b.InsertText(sel.Index, string(r), nil, buffer.SourceUser)
	}
}

func TestInsert_ViaTriggerReplacesQuery(t *testing.T) {
	b := newBuffer("hello ", 6)
	p := New(b, nil)
	trig := trigger.New(trigger.Config{
		ID:         t.Name(),
		Candidates: []trigger.Candidate{{Label: "Thanks", Format: trigger.FormatInsert, Value: "<p>Thanks!</p>"}},
		Inserter:   p,
		Registry:   trigger.NewRegistry(),
		TopLayer:   toplayer.New(),
	})
	trig.Attach(b)

	typeText(b, "/th")
	if !trig.IsOpen() {
		t.Fatalf("palette must be open")
	}
	if err := trig.Accept(); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if got, want := b.Text(), "hello Thanks!\n"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
	if sel, _ := b.Selection(); sel.Index != 13 {
		t.Fatalf("cursor: got %d, want 13", sel.Index)
	}
	if trig.IsOpen() {
		t.Fatalf("palette must close")
	}
}

func TestInsert_RemovesExactlyTheSpan(t *testing.T) {
	b := newBuffer("x /abc tail", 6)
	end, err := New(b, nil).Insert(Span{Index: 2, Length: 4}, convert.TextFragment("Z"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got, want := b.Text(), "x Z tail\n"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
	if end != 3 {
		t.Fatalf("cursor: got %d, want 3", end)
	}
}

func TestInsert_AddsSpaceAfterWord(t *testing.T) {
	b := newBuffer("ab/x", 4)
	end, err := New(b, nil).Insert(Span{Index: 2, Length: 2}, convert.TextFragment("Z"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got, want := b.Text(), "ab Z\n"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
	if end != 4 {
		t.Fatalf("cursor: got %d, want 4", end)
	}
}

func TestInsert_NoSpaceAtDocumentStartOrAfterNewline(t *testing.T) {
	b := newBuffer("/x", 2)
	New(b, nil).Insert(Span{Index: 0, Length: 2}, convert.TextFragment("Z"))
	if got, want := b.Text(), "Z\n"; got != want {
		t.Fatalf("start: got %q, want %q", got, want)
	}

	b = newBuffer("a\n/x", 4)
	New(b, nil).Insert(Span{Index: 2, Length: 2}, convert.TextFragment("Z"))
	if got, want := b.Text(), "a\nZ\n"; got != want {
		t.Fatalf("after newline: got %q, want %q", got, want)
	}
}

func TestInsert_SingleUndoRevertsEverything(t *testing.T) {
	b := newBuffer("ab/x", 4)
	New(b, nil).Insert(Span{Index: 2, Length: 2}, convert.HTMLFragment("<b>bold</b>"))

	if !b.Undo() {
		t.Fatalf("undo failed")
	}
	if got, want := b.Text(), "ab/x\n"; got != want {
		t.Fatalf("after undo: got %q, want %q", got, want)
	}
	if b.CanUndo() {
		t.Fatalf("insertion must be a single undo step")
	}
}

func TestInsert_EmitsOneTextChange(t *testing.T) {
	b := newBuffer("ab/x", 4)
	calls := 0
	b.On(buffer.TextChange, func(buffer.Event) { calls++ })

	New(b, nil).Insert(Span{Index: 2, Length: 2}, convert.TextFragment("Z"))
	if calls != 1 {
		t.Fatalf("text-change events: got %d, want 1", calls)
	}
}

func TestInsert_EmptyContentStillRemovesQuery(t *testing.T) {
	b := newBuffer("a /q", 4)
	end, err := New(b, nil).Insert(Span{Index: 2, Length: 2}, convert.HTMLFragment(""))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got, want := b.Text(), "a \n"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
	if end != 2 {
		t.Fatalf("cursor: got %d, want 2", end)
	}
}

func TestInsert_ConversionErrorLeavesDocument(t *testing.T) {
	b := newBuffer("a /q", 4)
	_, err := New(b, nil).Insert(Span{Index: 2, Length: 2}, convert.Fragment{Kind: convert.Kind(42)})
	if err == nil {
		t.Fatalf("expected error")
	}
	if got, want := b.Text(), "a /q\n"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
}

func TestInsert_KeepsFormatting(t *testing.T) {
	b := newBuffer("", 0)
	end, _ := New(b, nil).Insert(Span{}, convert.HTMLFragment("<b>hi</b> you"))
	if end != 6 {
		t.Fatalf("cursor: got %d, want 6", end)
	}
	if got := b.Format(buffer.Range{Index: 0, Length: 2})["bold"]; got != true {
		t.Fatalf("bold lost: %v", got)
	}
}

func TestReplaceSelection(t *testing.T) {
	b := newBuffer("one two three", 0)
	b.SetSelection(4, 3, buffer.SourceUser)

	end, err := New(b, nil).ReplaceSelection(convert.TextFragment("2"))
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got, want := b.Text(), "one 2 three\n"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
	if end != 5 {
		t.Fatalf("cursor: got %d, want 5", end)
	}
}

func TestInsertAtSelection(t *testing.T) {
	b := newBuffer("one three", 0)
	b.SetSelection(4, 5, buffer.SourceUser)

	if _, err := New(b, nil).InsertAtSelection(convert.TextFragment("two ")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got, want := b.Text(), "one two three\n"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
}

func TestInsertText_AtCursor(t *testing.T) {
	b := newBuffer("due ", 4)
	end, err := New(b, nil).InsertText("2026-10-17")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got, want := b.Text(), "due 2026-10-17\n"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
	if end != 14 {
		t.Fatalf("cursor: got %d", end)
	}
}

func TestSelectionRelativeInsertsNeedSelection(t *testing.T) {
	b := newBuffer("x", 0)
	b.Blur(buffer.SourceUser)
	p := New(b, nil)

	if _, err := p.InsertText("y"); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("InsertText: got %v", err)
	}
	if err := p.InsertCandidate(trigger.State{}, trigger.Candidate{}); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("InsertCandidate: got %v", err)
	}
}

func TestSpanFromState(t *testing.T) {
	got := SpanFromState(trigger.State{StartIndex: 5, Query: "ab", Open: true}, 8)
	if got != (Span{Index: 5, Length: 3}) {
		t.Fatalf("got %+v", got)
	}
}
