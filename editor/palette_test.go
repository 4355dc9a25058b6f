package editor

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/zinc/buffer"
	"github.com/iw2rmb/zinc/commandsource"
	"github.com/iw2rmb/zinc/trigger"
)

type stubFetcher struct {
	calls int
	rs    []commandsource.Response
}

func (f *stubFetcher) Fetch(context.Context, string) ([]commandsource.Response, error) {
	f.calls++
	return f.rs, nil
}

func TestPalette_ActionAppliesToNextTypedText(t *testing.T) {
	m := newTestModel(t, Config{})

	m = typeString(m, "/bo")
	if !m.Trigger().IsOpen() {
		t.Fatalf("palette not open after typing /bo")
	}
	if c, ok := m.Trigger().Active(); !ok || c.Label != "Bold" {
		t.Fatalf("active candidate: got %+v, %v", c, ok)
	}

	m = press(m, tea.KeyEnter)
	if m.Trigger().IsOpen() {
		t.Fatalf("palette still open after accept")
	}
	if got := m.Buffer().Text(); got != "\n" {
		t.Fatalf("trigger span not removed: got %q", got)
	}

	m = typeString(m, "x")
	if got := m.Buffer().Format(buffer.Range{Index: 0, Length: 1})["bold"]; got != true {
		t.Fatalf("typed text bold: got %v", got)
	}
}

func TestPalette_ToolbarClickClosesWithoutMutation(t *testing.T) {
	m := newTestModel(t, Config{})
	m = m.SetSize(60, 10)

	m = typeString(m, "/bo")
	if !m.Trigger().IsOpen() {
		t.Fatalf("palette not open after typing /bo")
	}

	tb := m.cfg.Style.Toolbar
	m = click(m, m.Toolbar().ControlOffset(tb, 0), 0)
	if m.Trigger().IsOpen() {
		t.Fatalf("palette still open after toolbar click")
	}
	if got, want := m.Buffer().Text(), "/bo\n"; got != want {
		t.Fatalf("text after toolbar click: got %q, want %q", got, want)
	}
}

func TestPalette_NavigationKeysDoNotMoveCursor(t *testing.T) {
	m := newTestModel(t, Config{Text: "a\nb"})
	m.Buffer().SetSelection(1, 0, buffer.SourceAPI)

	m = typeString(m, " /")
	m = press(m, tea.KeyDown)
	if got := m.Trigger().State().ActiveIndex; got != 1 {
		t.Fatalf("active after down: got %d, want 1", got)
	}
	if got := selectionOf(t, m); got != (buffer.Range{Index: 3}) {
		t.Fatalf("cursor moved while palette open: got %v", got)
	}

	m = press(m, tea.KeyEsc)
	if m.Trigger().IsOpen() {
		t.Fatalf("esc did not dismiss")
	}
	if got := m.Buffer().Text(); got != "a /\nb\n" {
		t.Fatalf("dismiss changed text: got %q", got)
	}
}

func TestPalette_InsertCandidateFromConfig(t *testing.T) {
	m := newTestModel(t, Config{
		Text: "Hi",
		CannedResponses: []commandsource.Response{
			{Title: "Thanks", Content: "<b>Thank you</b>", Labels: []string{"polite"}},
		},
	})
	m = press(m, tea.KeyEnd)
	m = typeString(m, " /#pol")

	if c, ok := m.Trigger().Active(); !ok || c.Label != "Thanks" {
		t.Fatalf("active candidate: got %+v, %v", c, ok)
	}
	m = press(m, tea.KeyEnter)
	if got := m.Buffer().Text(); got != "Hi Thank you\n" {
		t.Fatalf("text after insert: got %q", got)
	}
	if got := m.Buffer().Format(buffer.Range{Index: 3, Length: 9})["bold"]; got != true {
		t.Fatalf("inserted html lost bold: got %v", got)
	}
}

func TestPalette_CommandSourceRefreshesOnOpen(t *testing.T) {
	f := &stubFetcher{rs: []commandsource.Response{{Title: "Remote reply", Content: "remote"}}}
	src := commandsource.NewSource("mem://responses", f, nil)
	m := newTestModel(t, Config{CommandSource: src})

	if m.Init() == nil {
		t.Fatalf("Init must load the command source")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd != nil {
		t.Fatalf("refresh must only start when the palette opens")
	}

	m = press(m, tea.KeyEsc)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" ")})
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if cmd == nil {
		t.Fatalf("opening the palette did not start a refresh")
	}
	m, _ = m.Update(cmd())
	if f.calls != 1 {
		t.Fatalf("fetch calls: got %d, want 1", f.calls)
	}

	m = typeString(m, "remote")
	c, ok := m.Trigger().Active()
	if !ok || c.Label != "Remote reply" || c.Format != trigger.FormatInsert {
		t.Fatalf("remote candidate: got %+v, %v", c, ok)
	}
}

func TestPalette_DialogInsertsCannedResponse(t *testing.T) {
	m := newTestModel(t, Config{
		CannedResponses: []commandsource.Response{
			{Title: "First", Content: "one"},
			{Title: "Second", Content: "<p>two</p>"},
		},
	})
	m = m.SetSize(40, 12)

	m = typeString(m, "/canned")
	m = press(m, tea.KeyEnter)
	if !m.DialogOpen() {
		t.Fatalf("dialog not open")
	}
	if got := m.Buffer().Text(); got != "\n" {
		t.Fatalf("trigger span not removed: got %q", got)
	}
	if !strings.Contains(m.View(), "Second") {
		t.Fatalf("dialog not rendered:\n%s", m.View())
	}

	m = press(m, tea.KeyDown)
	m = press(m, tea.KeyEnter)
	if m.DialogOpen() {
		t.Fatalf("dialog still open")
	}
	if got := m.Buffer().Text(); got != "two\n" {
		t.Fatalf("text after dialog: got %q", got)
	}
}

func TestPalette_ClickAcceptsCandidate(t *testing.T) {
	m := newTestModel(t, Config{})
	m = m.SetSize(40, 12)
	m = typeString(m, "/")

	p, ok := m.palette()
	if !ok {
		t.Fatalf("palette not laid out")
	}
	if !strings.Contains(m.View(), "Bold") {
		t.Fatalf("palette not rendered:\n%s", m.View())
	}

	// Row 1 of the unfiltered list is Bold.
	m = click(m, p.x, p.y+1+toolbarHeight)
	if m.Trigger().IsOpen() {
		t.Fatalf("palette still open after click")
	}
	if got := m.Toolbar().Pending()["bold"]; got != true {
		t.Fatalf("bold not armed: got %v", got)
	}
}

func TestPalette_ClickOutsideCloses(t *testing.T) {
	m := newTestModel(t, Config{})
	m = m.SetSize(40, 12)
	m = typeString(m, "/")

	m = click(m, 10, 200)
	if m.Trigger().IsOpen() {
		t.Fatalf("palette still open after clicking outside")
	}
	if got := m.Buffer().Text(); got != "/\n" {
		t.Fatalf("click outside changed text: got %q", got)
	}
}

func TestPalette_CloseReleasesRegistry(t *testing.T) {
	reg := trigger.NewRegistry()
	m := New(Config{ID: "note", Registry: reg})
	m = typeString(m, "/")
	if _, ok := reg.Open("note"); !ok {
		t.Fatalf("registry has no open palette")
	}

	m.Close()
	if _, ok := reg.Open("note"); ok {
		t.Fatalf("palette still registered after Close")
	}
	if got := len(reg.Triggers("note")); got != 0 {
		t.Fatalf("triggers after Close: got %d", got)
	}
}
