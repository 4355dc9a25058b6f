// Package trigger implements the "/" command palette: it detects the
// trigger character, tracks the typed query, filters candidates and routes
// the accepted one.
package trigger

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/iw2rmb/zinc/internal/logging"
	"github.com/iw2rmb/zinc/surface"
	"github.com/iw2rmb/zinc/toplayer"
)

// DefaultChar opens the palette.
const DefaultChar = '/'

// State is the palette state. StartIndex is the offset of the trigger
// character and is meaningful only while Open. ActiveIndex is -1 when no
// candidate matches.
type State struct {
	StartIndex  int
	Query       string
	Open        bool
	ActiveIndex int
}

func closedState() State { return State{StartIndex: -1, ActiveIndex: -1} }

// ActionDispatcher applies toolbar actions such as "bold" or "header".
type ActionDispatcher interface {
	CallFormat(format string, value any)
}

// ContentInserter replaces the trigger span with a candidate's content.
type ContentInserter interface {
	InsertCandidate(st State, c Candidate) error
}

// Config configures a Trigger. Zero fields get defaults in New.
type Config struct {
	// ID names the editable surface the trigger belongs to. Triggers sharing
	// an ID exclude each other through the Registry.
	ID   string
	Char rune

	Candidates []Candidate

	Actions  ActionDispatcher
	Inserter ContentInserter
	// OnDialog runs when a FormatDialog candidate is accepted.
	OnDialog func()

	Registry *Registry
	TopLayer *toplayer.Manager
	Logger   *log.Logger
}

// Trigger is the palette for one editable surface.
type Trigger struct {
	cfg  Config
	surf surface.Surface
	off  []func()

	candidates []Candidate
	filtered   []Candidate
	st         State
}

func New(cfg Config) *Trigger {
	if cfg.Char == 0 {
		cfg.Char = DefaultChar
	}
	if cfg.Registry == nil {
		cfg.Registry = DefaultRegistry
	}
	if cfg.TopLayer == nil {
		cfg.TopLayer = toplayer.Default
	}
	cfg.Logger = logging.OrDiscard(cfg.Logger)

	t := &Trigger{cfg: cfg, st: closedState()}
	t.candidates = arrange(cfg.Candidates)
	cfg.Registry.add(t)
	return t
}

// Attach subscribes the trigger to s. Listeners run in registration order,
// so attach after any listener that must observe a change first.
func (t *Trigger) Attach(s surface.Surface) {
	t.Detach()
	t.surf = s
	t.off = append(t.off,
		s.On(surface.TextChange, t.OnTextChange),
		s.On(surface.SelectionChange, t.OnSelectionChange),
	)
}

// Detach unsubscribes, closes the palette and leaves the registry.
func (t *Trigger) Detach() {
	for _, off := range t.off {
		off()
	}
	t.off = nil
	t.close()
}

// Release detaches and forgets the trigger in its registry.
func (t *Trigger) Release() {
	t.Detach()
	t.cfg.Registry.remove(t)
}

func (t *Trigger) ID() string { return t.cfg.ID }

// State returns a copy of the current state.
func (t *Trigger) State() State { return t.st }

func (t *Trigger) IsOpen() bool { return t.st.Open }

// Candidates returns the filtered list shown while open.
func (t *Trigger) Candidates() []Candidate {
	return append([]Candidate(nil), t.filtered...)
}

// Active returns the highlighted candidate.
func (t *Trigger) Active() (Candidate, bool) {
	if !t.st.Open || t.st.ActiveIndex < 0 || t.st.ActiveIndex >= len(t.filtered) {
		return Candidate{}, false
	}
	return t.filtered[t.st.ActiveIndex], true
}

// SetCandidates replaces the full candidate list and refilters.
func (t *Trigger) SetCandidates(cs []Candidate) {
	t.candidates = arrange(cs)
	if t.st.Open {
		t.refilter(true)
	}
}

// OnTextChange reacts to a document mutation.
func (t *Trigger) OnTextChange(ev surface.Event) {
	if t.surf == nil {
		return
	}
	cursor, ok := t.cursor()
	if !ok {
		t.close()
		return
	}

	if t.st.Open {
		t.recompute(cursor)
		return
	}
	if ev.Source != surface.SourceUser {
		return
	}
	if t.shouldOpen(cursor) {
		t.open(cursor - 1)
	}
}

// OnSelectionChange closes the palette when the cursor leaves the query.
func (t *Trigger) OnSelectionChange(surface.Event) {
	if !t.st.Open || t.surf == nil {
		return
	}
	cursor, ok := t.cursor()
	if !ok {
		t.close()
		return
	}
	t.recompute(cursor)
}

func (t *Trigger) cursor() (int, bool) {
	r, ok := t.surf.Selection()
	if !ok || !r.IsCollapsed() {
		return 0, false
	}
	return r.Index, true
}

// shouldOpen reports whether the rune before cursor is the trigger char and
// it starts a word.
func (t *Trigger) shouldOpen(cursor int) bool {
	if cursor < 1 {
		return false
	}
	if r, _ := utf8.DecodeRuneInString(t.surf.GetText(cursor-1, 1)); r != t.cfg.Char {
		return false
	}
	if cursor == 1 {
		return true
	}
	prev, _ := utf8.DecodeRuneInString(t.surf.GetText(cursor-2, 1))
	return unicode.IsSpace(prev)
}

func (t *Trigger) recompute(cursor int) {
	start := t.st.StartIndex
	if cursor <= start {
		t.close()
		return
	}
	if r, _ := utf8.DecodeRuneInString(t.surf.GetText(start, 1)); r != t.cfg.Char {
		t.close()
		return
	}
	query := t.surf.GetText(start+1, cursor-start-1)
	if strings.IndexFunc(query, unicode.IsSpace) >= 0 {
		t.close()
		return
	}
	reset := query != t.st.Query
	t.st.Query = query
	t.refilter(reset)
}

func (t *Trigger) open(start int) {
	t.cfg.Registry.claim(t)
	t.st = State{StartIndex: start, Open: true, ActiveIndex: -1}
	t.cfg.TopLayer.Register(t.registration())
	t.refilter(true)
	t.cfg.Logger.Debug("palette opened", "surface", t.cfg.ID, "start", start)
}

func (t *Trigger) close() {
	if !t.st.Open {
		return
	}
	t.st = closedState()
	t.filtered = nil
	t.cfg.TopLayer.Unregister(t.registration())
	t.cfg.Registry.release(t)
}

func (t *Trigger) registration() toplayer.Registration {
	return toplayer.Registration{ID: fmt.Sprintf("trigger:%s:%p", t.cfg.ID, t), Kind: toplayer.KindMenu}
}

func (t *Trigger) refilter(reset bool) {
	t.filtered = Filter(t.candidates, t.st.Query)
	switch {
	case len(t.filtered) == 0:
		t.st.ActiveIndex = -1
	case reset || t.st.ActiveIndex < 0:
		t.st.ActiveIndex = 0
	case t.st.ActiveIndex >= len(t.filtered):
		t.st.ActiveIndex = len(t.filtered) - 1
	}
}

// Next moves the highlight down, wrapping to the first candidate.
func (t *Trigger) Next() { t.move(1) }

// Prev moves the highlight up, wrapping to the last candidate.
func (t *Trigger) Prev() { t.move(-1) }

func (t *Trigger) move(step int) {
	n := len(t.filtered)
	if !t.st.Open || n == 0 {
		return
	}
	t.st.ActiveIndex = ((t.st.ActiveIndex+step)%n + n) % n
}

func (t *Trigger) First() {
	if t.st.Open && len(t.filtered) > 0 {
		t.st.ActiveIndex = 0
	}
}

func (t *Trigger) Last() {
	if t.st.Open && len(t.filtered) > 0 {
		t.st.ActiveIndex = len(t.filtered) - 1
	}
}

// Select highlights candidate i of the filtered list, e.g. on hover.
func (t *Trigger) Select(i int) {
	if t.st.Open && i >= 0 && i < len(t.filtered) {
		t.st.ActiveIndex = i
	}
}

// Dismiss closes the palette without touching the document.
func (t *Trigger) Dismiss() { t.close() }

// ClickOutside handles a press outside both the editor and the palette.
func (t *Trigger) ClickOutside() { t.close() }

// Accept routes the highlighted candidate. With nothing highlighted it is a
// no-op and the palette stays open.
func (t *Trigger) Accept() error {
	c, ok := t.Active()
	if !ok {
		return nil
	}
	return t.accept(c)
}

// AcceptAt accepts candidate i of the filtered list, e.g. on click.
func (t *Trigger) AcceptAt(i int) error {
	if !t.st.Open || i < 0 || i >= len(t.filtered) {
		return nil
	}
	t.st.ActiveIndex = i
	return t.accept(t.filtered[i])
}

func (t *Trigger) accept(c Candidate) error {
	st := t.st
	cursor, ok := t.cursor()
	if !ok {
		t.close()
		return nil
	}
	st.Query = t.surf.GetText(st.StartIndex+1, cursor-st.StartIndex-1)
	t.close()

	switch c.Format {
	case FormatInsert:
		if t.cfg.Inserter == nil {
			return nil
		}
		if err := t.cfg.Inserter.InsertCandidate(st, c); err != nil {
			return fmt.Errorf("trigger: insert %q: %w", c.Label, err)
		}
		return nil
	case FormatDialog:
		t.removeSpan(st, cursor)
		if t.cfg.OnDialog != nil {
			t.cfg.OnDialog()
		}
		return nil
	}

	t.removeSpan(st, cursor)
	if t.cfg.Actions != nil {
		t.cfg.Actions.CallFormat(c.Format, c.Value)
	}
	return nil
}

// removeSpan deletes the trigger char and query and leaves the cursor where
// the trigger char was.
func (t *Trigger) removeSpan(st State, cursor int) {
	_ = t.surf.Transact(surface.SourceUser, func() error {
		t.surf.DeleteText(st.StartIndex, cursor-st.StartIndex, surface.SourceUser)
		t.surf.SetSelection(st.StartIndex, 0, surface.SourceUser)
		return nil
	})
}
