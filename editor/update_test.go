package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/zinc/buffer"
	"github.com/iw2rmb/zinc/convert"
	"github.com/iw2rmb/zinc/surface"
)

func selectionOf(t *testing.T, m Model) buffer.Range {
	t.Helper()
	r, ok := m.Buffer().Selection()
	if !ok {
		t.Fatalf("no selection")
	}
	return r
}

func TestUpdate_TypingMovementAndDelete(t *testing.T) {
	m := newTestModel(t, Config{Text: "ab"})

	m = press(m, tea.KeyRight)
	m = typeString(m, "X")
	if got := m.Buffer().Text(); got != "aXb\n" {
		t.Fatalf("text after insert: got %q, want %q", got, "aXb\n")
	}
	if got := selectionOf(t, m); got != (buffer.Range{Index: 2}) {
		t.Fatalf("selection after insert: got %v", got)
	}

	m = press(m, tea.KeyBackspace)
	if got := m.Buffer().Text(); got != "ab\n" {
		t.Fatalf("text after backspace: got %q, want %q", got, "ab\n")
	}
	if got := selectionOf(t, m); got != (buffer.Range{Index: 1}) {
		t.Fatalf("selection after backspace: got %v", got)
	}

	m = press(m, tea.KeyDelete)
	if got := m.Buffer().Text(); got != "a\n" {
		t.Fatalf("text after delete: got %q, want %q", got, "a\n")
	}
}

func TestUpdate_SpaceAndTabAreTyped(t *testing.T) {
	m := newTestModel(t, Config{})
	m = typeString(m, "a")
	m = press(m, tea.KeySpace)
	m = press(m, tea.KeyTab)
	if got := m.Buffer().Text(); got != "a \t\n" {
		t.Fatalf("text: got %q", got)
	}
}

func TestUpdate_ReadOnly_IgnoresMutations(t *testing.T) {
	m := newTestModel(t, Config{Text: "ab", ReadOnly: true})

	m = press(m, tea.KeyRight)
	if got := selectionOf(t, m); got != (buffer.Range{Index: 1}) {
		t.Fatalf("selection after move: got %v", got)
	}

	m = typeString(m, "X")
	m = press(m, tea.KeyBackspace)
	m = press(m, tea.KeyEnter)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	if got := m.Buffer().Text(); got != "ab\n" {
		t.Fatalf("text in read-only: got %q, want %q", got, "ab\n")
	}
	if m.Buffer().CanUndo() {
		t.Fatalf("read-only editor recorded an undo step")
	}
}

func TestUpdate_UndoRedo(t *testing.T) {
	m := newTestModel(t, Config{})
	m = typeString(m, "ab")

	m = press(m, tea.KeyCtrlZ)
	if got := m.Buffer().Text(); got != "a\n" {
		t.Fatalf("text after undo: got %q, want %q", got, "a\n")
	}
	m = press(m, tea.KeyCtrlY)
	if got := m.Buffer().Text(); got != "ab\n" {
		t.Fatalf("text after redo: got %q, want %q", got, "ab\n")
	}
}

func TestUpdate_ShiftSelectionKeepsDirection(t *testing.T) {
	m := newTestModel(t, Config{Text: "hello"})
	m.Buffer().SetSelection(3, 0, surface.SourceAPI)

	m = press(m, tea.KeyShiftLeft)
	m = press(m, tea.KeyShiftLeft)
	if got := selectionOf(t, m); got != (buffer.Range{Index: 1, Length: 2}) {
		t.Fatalf("selection after shift+left x2: got %v", got)
	}
	m = press(m, tea.KeyShiftRight)
	if got := selectionOf(t, m); got != (buffer.Range{Index: 2, Length: 1}) {
		t.Fatalf("selection after shift+right: got %v", got)
	}

	m = press(m, tea.KeyLeft)
	if got := selectionOf(t, m); got != (buffer.Range{Index: 2}) {
		t.Fatalf("left on a selection collapses to its start: got %v", got)
	}
}

func TestUpdate_WordMovement(t *testing.T) {
	m := newTestModel(t, Config{Text: "foo bar.baz"})

	for _, want := range []int{3, 7, 11, 11} {
		m = press(m, tea.KeyCtrlRight)
		if got := selectionOf(t, m).Index; got != want {
			t.Fatalf("word right: got %d, want %d", got, want)
		}
	}
	for _, want := range []int{8, 4, 0} {
		m = press(m, tea.KeyCtrlLeft)
		if got := selectionOf(t, m).Index; got != want {
			t.Fatalf("word left: got %d, want %d", got, want)
		}
	}
}

func TestUpdate_HomeEndAndVertical(t *testing.T) {
	m := newTestModel(t, Config{Text: "abc\nde"})
	m = m.SetSize(20, 5)

	m = press(m, tea.KeyEnd)
	if got := selectionOf(t, m).Index; got != 3 {
		t.Fatalf("end: got %d, want 3", got)
	}
	m = press(m, tea.KeyDown)
	if got := selectionOf(t, m).Index; got != 6 {
		t.Fatalf("down clamps to the shorter line: got %d, want 6", got)
	}
	m = press(m, tea.KeyHome)
	if got := selectionOf(t, m).Index; got != 4 {
		t.Fatalf("home: got %d, want 4", got)
	}
	m = press(m, tea.KeyUp)
	if got := selectionOf(t, m).Index; got != 0 {
		t.Fatalf("up: got %d, want 0", got)
	}
}

func TestUpdate_ClipboardCopyCutPaste(t *testing.T) {
	cb := &memClipboard{}
	m := newTestModel(t, Config{Text: "hello world", Clipboard: cb})

	for range 5 {
		m = press(m, tea.KeyShiftRight)
	}
	m = press(m, tea.KeyCtrlC)
	if cb.s != "hello" {
		t.Fatalf("copied: got %q, want %q", cb.s, "hello")
	}

	m = press(m, tea.KeyCtrlX)
	if got := m.Buffer().Text(); got != " world\n" {
		t.Fatalf("text after cut: got %q", got)
	}

	m = press(m, tea.KeyEnd)
	cb.s = "!\r\nok"
	m = press(m, tea.KeyCtrlV)
	if got := m.Buffer().Text(); got != " world!\nok\n" {
		t.Fatalf("text after paste: got %q", got)
	}
}

func TestUpdate_BracketedPasteInsertsLiterally(t *testing.T) {
	m := newTestModel(t, Config{})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/bold"), Paste: true})
	if got := m.Buffer().Text(); got != "/bold\n" {
		t.Fatalf("text: got %q", got)
	}
	if m.Trigger().IsOpen() {
		t.Fatalf("pasted text must not open the palette")
	}
}

func TestUpdate_EnterContinuesListAndEndsHeader(t *testing.T) {
	m := newTestModel(t, Config{Text: "one"})
	b := m.Buffer()
	b.FormatLine(0, 0, "list", "bullet", surface.SourceAPI)

	m = press(m, tea.KeyEnd)
	m = press(m, tea.KeyEnter)
	if got := b.Text(); got != "one\n\n" {
		t.Fatalf("text after enter: got %q", got)
	}
	if got := b.Format(buffer.Range{Index: 4})["list"]; got != "bullet" {
		t.Fatalf("new line list format: got %v", got)
	}

	m = press(m, tea.KeyEnter)
	if got := b.Text(); got != "one\n\n" {
		t.Fatalf("enter on an empty item must not insert: got %q", got)
	}
	if got := b.Format(buffer.Range{Index: 4})["list"]; got != nil {
		t.Fatalf("enter on an empty item ends the list: got %v", got)
	}
	if got := b.Format(buffer.Range{Index: 0})["list"]; got != "bullet" {
		t.Fatalf("first item lost its format: got %v", got)
	}

	h := newTestModel(t, Config{Text: "Title"})
	h.Buffer().FormatLine(0, 0, "header", "1", surface.SourceAPI)
	h = press(h, tea.KeyEnd)
	h = press(h, tea.KeyEnter)
	if got := h.Buffer().Format(buffer.Range{Index: 0})["header"]; got != "1" {
		t.Fatalf("heading line: got %v", got)
	}
	if got := h.Buffer().Format(buffer.Range{Index: 6})["header"]; got != nil {
		t.Fatalf("line after a heading is plain: got %v", got)
	}
	if !h.Buffer().Undo() || h.Buffer().Text() != "Title\n" {
		t.Fatalf("enter must be one undo step: got %q", h.Buffer().Text())
	}
}

func TestUpdate_BackspaceAtLineStartClearsLineFormat(t *testing.T) {
	m := newTestModel(t, Config{Text: "a\nb"})
	b := m.Buffer()
	b.FormatLine(2, 0, "blockquote", true, surface.SourceAPI)
	b.SetSelection(2, 0, surface.SourceAPI)

	m = press(m, tea.KeyBackspace)
	if got := b.Text(); got != "a\nb\n" {
		t.Fatalf("first backspace keeps text: got %q", got)
	}
	if got := b.Format(buffer.Range{Index: 2})["blockquote"]; got != nil {
		t.Fatalf("blockquote not cleared: got %v", got)
	}

	m = press(m, tea.KeyBackspace)
	if got := b.Text(); got != "ab\n" {
		t.Fatalf("second backspace joins lines: got %q", got)
	}
}

func TestUpdate_FormatKeys(t *testing.T) {
	m := newTestModel(t, Config{Text: "hello"})
	m.Buffer().SetSelection(0, 5, surface.SourceAPI)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	if got := m.Buffer().Format(buffer.Range{Index: 0, Length: 5})["bold"]; got != true {
		t.Fatalf("bold: got %v", got)
	}
	if b, _ := m.Toolbar().Button("bold"); !b.Active {
		t.Fatalf("bold button not active")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	if got := m.Buffer().Format(buffer.Range{Index: 0, Length: 5})["bold"]; got != nil {
		t.Fatalf("bold after toggle: got %v", got)
	}
}

func TestUpdate_TypedTextTakesArmedFormats(t *testing.T) {
	m := newTestModel(t, Config{})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = typeString(m, "ab")

	b := m.Buffer()
	if got := b.Format(buffer.Range{Index: 0, Length: 2})["italic"]; got != true {
		t.Fatalf("typed text italic: got %v", got)
	}
}

func TestUpdate_AIRewrite(t *testing.T) {
	m := newTestModel(t, Config{Text: "hello world"})
	m.Buffer().SetSelection(6, 5, surface.SourceAPI)

	m, _ = m.Update(AIRewriteMsg{Content: convert.TextFragment("there"), Replace: true})
	if got := m.Buffer().Text(); got != "hello there\n" {
		t.Fatalf("replace: got %q", got)
	}

	m.Buffer().SetSelection(0, 0, surface.SourceAPI)
	m, _ = m.Update(AIRewriteMsg{Content: convert.MarkdownFragment("**Hi**")})
	if got := m.Buffer().Text(); got != "Hihello there\n" {
		t.Fatalf("insert: got %q", got)
	}
	if got := m.Buffer().Format(buffer.Range{Index: 0, Length: 2})["bold"]; got != true {
		t.Fatalf("markdown bold: got %v", got)
	}
}

func TestOnChange_FiresOnMutationsAndSkipsNoOps(t *testing.T) {
	var events []ChangeEvent
	m := newTestModel(t, Config{
		Text:     "ab",
		OnChange: func(ev ChangeEvent) { events = append(events, ev) },
	})

	m = press(m, tea.KeyRight)
	if len(events) != 1 {
		t.Fatalf("events after move: got %d, want 1", len(events))
	}
	if got := events[0].Selection.Range; got != (buffer.Range{Index: 1}) {
		t.Fatalf("event selection: got %v", got)
	}

	m = press(m, tea.KeyEnd)
	m = press(m, tea.KeyRight)
	if len(events) != 2 {
		t.Fatalf("events after no-op: got %d, want 2", len(events))
	}

	m = typeString(m, "X")
	if len(events) != 3 || events[2].Text != "abX\n" {
		t.Fatalf("event after insert: %+v", events)
	}
}
