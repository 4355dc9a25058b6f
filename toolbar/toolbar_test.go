package toolbar

import (
	"testing"
	"time"

	"github.com/iw2rmb/zinc/buffer"
	"github.com/iw2rmb/zinc/delta"
	"github.com/iw2rmb/zinc/toplayer"
)

func newSync(t *testing.T, b *buffer.Buffer) (*Synchronizer, *toplayer.Manager) {
	t.Helper()
	top := toplayer.New()
	s := New(Config{
		TopLayer: top,
		Now:      func() time.Time { return time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC) },
	})
	s.Attach(b)
	t.Cleanup(s.Detach)
	return s, top
}

func indexOf(t *testing.T, s *Synchronizer, format string) int {
	t.Helper()
	for i, c := range s.controls {
		switch c := c.(type) {
		case *Button:
			if c.Format == format {
				return i
			}
		case *Dropdown:
			if c.Name == format {
				return i
			}
		}
	}
	t.Fatalf("no control %q", format)
	return -1
}

func TestSync_BoldOnlySelection(t *testing.T) {
	b := buffer.New("hello world", buffer.Options{})
	b.FormatText(0, 5, "bold", true, buffer.SourceAPI)
	b.SetSelection(1, 2, buffer.SourceUser)
	s, _ := newSync(t, b)

	for _, format := range []string{"bold", "italic", "underline"} {
		btn, ok := s.Button(format)
		if !ok {
			t.Fatalf("missing button %q", format)
		}
		if got, want := btn.Active, format == "bold"; got != want {
			t.Fatalf("%s active: got %v, want %v", format, got, want)
		}
	}

	hdr, _ := s.Dropdown("header")
	if hdr.TriggerIcon != "match_case" || hdr.Tinted {
		t.Fatalf("header trigger: got (%q, %v)", hdr.TriggerIcon, hdr.Tinted)
	}
	if !hdr.Entries[2].Checked {
		t.Fatalf("normal entry must be checked")
	}
}

func TestSync_IsIdempotent(t *testing.T) {
	b := buffer.New("hello", buffer.Options{})
	b.SetSelection(0, 5, buffer.SourceUser)
	s, _ := newSync(t, b)

	paints := s.Paints()
	if s.Sync() {
		t.Fatalf("second sync must not change controls")
	}
	if s.Paints() != paints {
		t.Fatalf("paints: got %d, want %d", s.Paints(), paints)
	}
}

func TestSync_FollowsExternalFormatChange(t *testing.T) {
	b := buffer.New("hello", buffer.Options{})
	b.SetSelection(0, 5, buffer.SourceUser)
	s, _ := newSync(t, b)

	b.FormatText(0, 5, "italic", true, buffer.SourceAPI)

	if btn, _ := s.Button("italic"); !btn.Active {
		t.Fatalf("italic must be active after external format")
	}
}

func TestSync_WithoutSelectionDoesNothing(t *testing.T) {
	b := buffer.New("hello", buffer.Options{})
	b.Blur(buffer.SourceUser)
	s, _ := newSync(t, b)

	if s.Sync() {
		t.Fatalf("sync without selection must report no change")
	}
	if s.Paints() != 0 {
		t.Fatalf("paints: got %d, want 0", s.Paints())
	}
}

func TestSync_HeaderDropdownShowsLevel(t *testing.T) {
	b := buffer.New("title\nbody", buffer.Options{})
	b.FormatLine(0, 0, "header", "1", buffer.SourceAPI)
	b.SetSelection(2, 0, buffer.SourceUser)
	s, _ := newSync(t, b)

	hdr, _ := s.Dropdown("header")
	if hdr.TriggerIcon != "format_h1" || !hdr.Tinted {
		t.Fatalf("header trigger: got (%q, %v)", hdr.TriggerIcon, hdr.Tinted)
	}
	checked := 0
	for _, e := range hdr.Entries {
		if e.Checked {
			checked++
		}
	}
	if checked != 1 || !hdr.Entries[0].Checked {
		t.Fatalf("exactly the H1 entry must be checked: %+v", hdr.Entries)
	}

	b.SetSelection(8, 0, buffer.SourceUser)
	hdr, _ = s.Dropdown("header")
	if hdr.TriggerIcon != "match_case" || hdr.Tinted {
		t.Fatalf("header trigger on body: got (%q, %v)", hdr.TriggerIcon, hdr.Tinted)
	}
}

func TestSync_MultiDropdownTint(t *testing.T) {
	b := buffer.New("hello", buffer.Options{})
	b.FormatText(0, 5, "strike", true, buffer.SourceAPI)
	b.SetSelection(0, 5, buffer.SourceUser)
	s, _ := newSync(t, b)

	d, _ := s.Dropdown("text-format")
	if !d.Tinted || !d.Entries[0].Checked {
		t.Fatalf("strike entry must be checked and trigger tinted")
	}
	if d.TriggerIcon != "format_color_text" {
		t.Fatalf("multi trigger keeps its icon: got %q", d.TriggerIcon)
	}
}

func TestCallFormat_TogglesBold(t *testing.T) {
	b := buffer.New("hello", buffer.Options{})
	b.SetSelection(0, 5, buffer.SourceUser)
	s, _ := newSync(t, b)

	s.Press(indexOf(t, s, "bold"))
	if got := b.Format(buffer.Range{Index: 0, Length: 5})["bold"]; got != true {
		t.Fatalf("bold: got %v", got)
	}
	if btn, _ := s.Button("bold"); !btn.Active {
		t.Fatalf("bold button must be active")
	}

	s.Press(indexOf(t, s, "bold"))
	if _, ok := b.Format(buffer.Range{Index: 0, Length: 5})["bold"]; ok {
		t.Fatalf("second press must clear bold")
	}
}

func TestCallFormat_LinkDefaultsToTrue(t *testing.T) {
	b := buffer.New("hello", buffer.Options{})
	b.SetSelection(0, 5, buffer.SourceUser)
	s, _ := newSync(t, b)

	s.CallFormat("link", nil)
	if got := b.Format(buffer.Range{Index: 0, Length: 5})["link"]; got != true {
		t.Fatalf("link: got %v", got)
	}
}

func TestCallFormat_CleanSelection(t *testing.T) {
	b := buffer.New("hello world", buffer.Options{})
	b.FormatText(0, 11, "bold", true, buffer.SourceAPI)
	b.SetSelection(0, 5, buffer.SourceUser)
	s, _ := newSync(t, b)

	s.CallFormat("clean", nil)

	if _, ok := b.Format(buffer.Range{Index: 0, Length: 5})["bold"]; ok {
		t.Fatalf("selection must be cleaned")
	}
	if got := b.Format(buffer.Range{Index: 6, Length: 5})["bold"]; got != true {
		t.Fatalf("text outside the selection keeps bold")
	}
}

func TestCallFormat_CleanWithoutSelectionCleansDocument(t *testing.T) {
	b := buffer.New("hello\nworld", buffer.Options{})
	b.FormatText(0, 11, "italic", true, buffer.SourceAPI)
	b.FormatLine(6, 0, "header", "2", buffer.SourceAPI)
	b.Blur(buffer.SourceUser)
	s, _ := newSync(t, b)

	s.CallFormat("clean", nil)

	for _, op := range b.Contents().Ops {
		if len(op.Attributes) > 0 {
			t.Fatalf("document must be clean, got %+v", b.Contents().Ops)
		}
	}
}

func TestCallFormat_PendingAtCollapsedSelection(t *testing.T) {
	b := buffer.New("hello", buffer.Options{})
	b.SetSelection(3, 0, buffer.SourceUser)
	s, _ := newSync(t, b)

	s.CallFormat("bold", nil)
	if btn, _ := s.Button("bold"); !btn.Active {
		t.Fatalf("armed bold must show as active")
	}
	if got := s.Pending(); got["bold"] != true {
		t.Fatalf("pending: got %v", got)
	}
	if len(b.Contents().Ops) != 1 {
		t.Fatalf("document must not change: %+v", b.Contents().Ops)
	}

	b.SetSelection(1, 0, buffer.SourceUser)
	if len(s.Pending()) != 0 {
		t.Fatalf("moving the cursor must drop pending formats")
	}
	if btn, _ := s.Button("bold"); btn.Active {
		t.Fatalf("bold must be inactive after moving")
	}
}

func TestCallFormat_LineFormatAtCollapsedSelection(t *testing.T) {
	b := buffer.New("one\ntwo", buffer.Options{})
	b.SetSelection(5, 0, buffer.SourceUser)
	s, _ := newSync(t, b)

	s.CallFormat("list", "bullet")

	if got := b.Format(buffer.Range{Index: 5})["list"]; got != "bullet" {
		t.Fatalf("list on line two: got %v", got)
	}
	if _, ok := b.Format(buffer.Range{Index: 1})["list"]; ok {
		t.Fatalf("line one must not be a list")
	}
}

func TestHandlers_Divider(t *testing.T) {
	b := buffer.New("abc", buffer.Options{})
	b.SetSelection(3, 0, buffer.SourceUser)
	s, _ := newSync(t, b)

	s.CallFormat("divider", nil)

	if got, want := b.Text(), "abc\n\n\n"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
	if got := b.Format(buffer.Range{Index: 4})["divider"]; got != true {
		t.Fatalf("divider line: got %v", got)
	}
	if sel, _ := b.Selection(); sel.Index != 5 {
		t.Fatalf("cursor: got %d, want 5", sel.Index)
	}

	s.CallFormat("undo", nil)
	if got := b.Text(); got != "abc\n" {
		t.Fatalf("divider must undo in one step, got %q", got)
	}
}

func TestHandlers_DateAndRedo(t *testing.T) {
	b := buffer.New("on ", buffer.Options{})
	b.SetSelection(3, 0, buffer.SourceUser)
	s, _ := newSync(t, b)

	s.CallFormat("date", nil)
	if got, want := b.Text(), "on 2026-03-09\n"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}

	s.CallFormat("undo", nil)
	s.CallFormat("redo", nil)
	if got, want := b.Text(), "on 2026-03-09\n"; got != want {
		t.Fatalf("after redo: got %q, want %q", got, want)
	}
}

func TestAddHandler_OverridesFormat(t *testing.T) {
	b := buffer.New("hello", buffer.Options{})
	b.SetSelection(0, 5, buffer.SourceUser)
	s, _ := newSync(t, b)

	var got []any
	s.AddHandler("link", func(v any) { got = append(got, v) })
	s.CallFormat("link", nil)

	if len(got) != 1 || got[0] != true {
		t.Fatalf("handler values: got %v", got)
	}
	if _, ok := b.Format(buffer.Range{Index: 0, Length: 5})["link"]; ok {
		t.Fatalf("handler must replace the default behaviour")
	}
}

func TestMenu_OpenPressClose(t *testing.T) {
	b := buffer.New("hello", buffer.Options{})
	b.SetSelection(0, 5, buffer.SourceUser)
	s, top := newSync(t, b)

	s.Press(indexOf(t, s, "header"))
	if !top.IsOpen(toplayer.KindMenu) {
		t.Fatalf("menu must be registered")
	}
	if _, ok := s.OpenDropdown(); !ok {
		t.Fatalf("dropdown must be open")
	}

	s.PressEntry(1)

	if top.IsOpen(toplayer.KindMenu) {
		t.Fatalf("menu must close after an entry is pressed")
	}
	if got := b.Format(buffer.Range{Index: 0, Length: 5})["header"]; got != "2" {
		t.Fatalf("header: got %v", got)
	}
	hdr, _ := s.Dropdown("header")
	if hdr.TriggerIcon != "format_h2" {
		t.Fatalf("trigger icon: got %q", hdr.TriggerIcon)
	}
}

func TestMenu_RegistrationIsPerEditor(t *testing.T) {
	top := toplayer.New()
	a := New(Config{ID: "a", TopLayer: top})
	b := New(Config{ID: "b", TopLayer: top})
	a.Attach(buffer.New("one", buffer.Options{}))
	b.Attach(buffer.New("two", buffer.Options{}))
	t.Cleanup(a.Detach)
	t.Cleanup(b.Detach)

	a.OpenMenu(indexOf(t, a, "header"))
	b.OpenMenu(indexOf(t, b, "header"))
	if got := top.Count(toplayer.KindMenu); got != 2 {
		t.Fatalf("menus registered: got %d, want 2", got)
	}

	b.CloseMenu()
	if _, open := a.OpenDropdown(); !open {
		t.Fatalf("closing b must not close a")
	}
	if !top.IsOpen(toplayer.KindMenu) {
		t.Fatalf("a's menu must stay registered after b closes")
	}
}

func TestMenu_MultiEntryToggles(t *testing.T) {
	b := buffer.New("hello", buffer.Options{})
	b.SetSelection(0, 5, buffer.SourceUser)
	s, _ := newSync(t, b)

	i := indexOf(t, s, "text-format")
	s.Press(i)
	s.PressEntry(0)
	if got := b.Format(buffer.Range{Index: 0, Length: 5})["strike"]; got != true {
		t.Fatalf("strike: got %v", got)
	}
	s.Press(i)
	s.PressEntry(0)
	if _, ok := b.Format(buffer.Range{Index: 0, Length: 5})["strike"]; ok {
		t.Fatalf("strike must toggle off")
	}
}

func TestView_ControlAtMatchesLayout(t *testing.T) {
	b := buffer.New("hello", buffer.Options{})
	s, _ := newSync(t, b)
	st := DefaultStyle()

	if got := s.ControlAt(st, 0); got != 0 {
		t.Fatalf("first cell: got %d, want 0", got)
	}
	if got := s.ControlAt(st, 1_000); got != -1 {
		t.Fatalf("past the end: got %d, want -1", got)
	}
	if got := s.ControlAt(st, s.MenuOffset(st)); got != 0 {
		t.Fatalf("closed menu offset maps to first control, got %d", got)
	}
}

func TestView_ControlOffsetAndLabel(t *testing.T) {
	b := buffer.New("hello", buffer.Options{})
	s, _ := newSync(t, b)
	st := DefaultStyle()

	bold := indexOf(t, s, "bold")
	if got := s.ControlAt(st, s.ControlOffset(st, bold)); got != bold {
		t.Fatalf("offset of bold maps to control %d, want %d", got, bold)
	}
	if got, want := s.ControlLabel(bold), "Bold"; got != want {
		t.Fatalf("bold label: got %q, want %q", got, want)
	}
	if got, want := s.ControlLabel(indexOf(t, s, "text-format")), "Text format"; got != want {
		t.Fatalf("dropdown label: got %q, want %q", got, want)
	}
	if got := s.ControlLabel(-1); got != "" {
		t.Fatalf("out of range label: got %q", got)
	}
}

func TestSnapshot_MergesPendingUnset(t *testing.T) {
	b := buffer.New("hello", buffer.Options{})
	b.FormatText(0, 5, "bold", true, buffer.SourceAPI)
	b.SetSelection(3, 0, buffer.SourceUser)
	s, _ := newSync(t, b)

	s.CallFormat("bold", nil)

	got, ok := s.Snapshot()
	if !ok {
		t.Fatalf("snapshot must exist")
	}
	if _, set := got["bold"]; set {
		t.Fatalf("armed unset must hide bold, got %v", got)
	}
	if !got.Equal(delta.Attributes{}) {
		t.Fatalf("snapshot: got %v", got)
	}
}
