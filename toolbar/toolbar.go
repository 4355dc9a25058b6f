// Package toolbar keeps toolbar controls in step with the format at the
// selection and turns control presses into document mutations.
package toolbar

import (
	"maps"
	"time"

	"github.com/charmbracelet/log"

	"github.com/iw2rmb/zinc/delta"
	"github.com/iw2rmb/zinc/insertion"
	"github.com/iw2rmb/zinc/internal/logging"
	"github.com/iw2rmb/zinc/surface"
	"github.com/iw2rmb/zinc/toplayer"
)

// Handler overrides the default behaviour of a format key.
type Handler func(value any)

// Config configures a Synchronizer. The zero value is usable.
type Config struct {
	// ID scopes the menu registration to one editor.
	ID string

	// Layout defaults to DefaultLayout().
	Layout []Control

	TopLayer *toplayer.Manager
	Logger   *log.Logger

	// Now is used by the date action. Defaults to time.Now.
	Now        func() time.Time
	DateLayout string
}

// Synchronizer owns the toolbar state for one editor.
type Synchronizer struct {
	cfg      Config
	controls []Control
	handlers map[string]Handler

	surf    surface.Surface
	ins     *insertion.Pipeline
	off     []func()
	pending delta.Attributes

	menu    int
	paints  int
	menuReg toplayer.Registration
}

func New(cfg Config) *Synchronizer {
	if cfg.Layout == nil {
		cfg.Layout = DefaultLayout()
	}
	if cfg.TopLayer == nil {
		cfg.TopLayer = toplayer.Default
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.DateLayout == "" {
		cfg.DateLayout = "2006-01-02"
	}
	cfg.Logger = logging.OrDiscard(cfg.Logger)

	s := &Synchronizer{
		cfg:      cfg,
		controls: cloneLayout(cfg.Layout),
		handlers: make(map[string]Handler),
		menu:     -1,
	}
	s.menuReg = toplayer.Registration{ID: "toolbar-menu:" + cfg.ID, Kind: toplayer.KindMenu}
	s.installDefaultHandlers()
	return s
}

// Attach subscribes to selection and text changes of surf and syncs once.
func (s *Synchronizer) Attach(surf surface.Surface) {
	s.Detach()
	s.surf = surf
	s.ins = insertion.New(surf, s.cfg.Logger)
	s.off = append(s.off,
		surf.On(surface.SelectionChange, s.onSelectionChange),
		surf.On(surface.TextChange, s.onTextChange),
	)
	s.Sync()
}

func (s *Synchronizer) Detach() {
	for _, off := range s.off {
		off()
	}
	s.off = nil
	s.CloseMenu()
}

func (s *Synchronizer) onSelectionChange(ev surface.Event) {
	if ev.HadOldRange && ev.HasRange && ev.OldRange.Index != ev.Range.Index {
		s.pending = nil
	}
	s.Sync()
}

func (s *Synchronizer) onTextChange(surface.Event) { s.Sync() }

// Click re-syncs after a press inside the editing surface.
func (s *Synchronizer) Click() bool { return s.Sync() }

// Snapshot returns the formats at the selection, including formats armed
// for the next typed text. ok is false without a selection.
func (s *Synchronizer) Snapshot() (delta.Attributes, bool) {
	if s.surf == nil {
		return nil, false
	}
	r, ok := s.surf.Selection()
	if !ok {
		return nil, false
	}
	formats := s.surf.Format(r)
	if r.IsCollapsed() && len(s.pending) > 0 {
		formats = maps.Clone(formats)
		if formats == nil {
			formats = delta.Attributes{}
		}
		for k, v := range s.pending {
			if v == nil {
				delete(formats, k)
				continue
			}
			formats[k] = v
		}
	}
	return formats, true
}

// Pending returns inline formats armed at a collapsed selection. The editor
// applies them to typed text.
func (s *Synchronizer) Pending() delta.Attributes {
	var out delta.Attributes
	for k, v := range s.pending {
		if v == nil {
			continue
		}
		if out == nil {
			out = delta.Attributes{}
		}
		out[k] = v
	}
	return out
}

// Sync reads the snapshot and repaints controls that differ from it. It
// reports whether anything changed. Without a selection it does nothing.
func (s *Synchronizer) Sync() bool {
	formats, ok := s.Snapshot()
	if !ok {
		return false
	}

	changed := false
	for _, c := range s.controls {
		switch c := c.(type) {
		case *Button:
			if !c.Toggle {
				continue
			}
			active := truthy(formats[c.Format])
			if c.Active != active {
				c.Active = active
				changed = true
			}
		case *Dropdown:
			if syncDropdown(c, formats) {
				changed = true
			}
		}
	}
	if changed {
		s.paints++
	}
	return changed
}

func syncDropdown(d *Dropdown, formats delta.Attributes) bool {
	changed := false
	icon, tinted := d.DefaultIcon, false
	checkedOne := false

	for i := range d.Entries {
		e := &d.Entries[i]
		var checked bool
		if d.Multi {
			checked = e.Format != "clean" && truthy(formats[e.Format])
		} else {
			checked = !checkedOne && formatString(formats[e.Format]) == e.Value
		}
		if checked {
			checkedOne = true
			if d.Multi || e.Value != "" {
				tinted = true
			}
			if !d.Multi && e.Value != "" {
				icon = e.Icon
			}
		}
		if e.Checked != checked {
			e.Checked = checked
			changed = true
		}
	}

	if d.TriggerIcon != icon || d.Tinted != tinted {
		d.TriggerIcon, d.Tinted = icon, tinted
		changed = true
	}
	return changed
}

// Paints counts syncs that changed at least one control.
func (s *Synchronizer) Paints() int { return s.paints }

// Controls returns a copy of the current controls.
func (s *Synchronizer) Controls() []Control { return cloneLayout(s.controls) }

// Button returns the button bound to format.
func (s *Synchronizer) Button(format string) (Button, bool) {
	for _, c := range s.controls {
		if b, ok := c.(*Button); ok && b.Format == format {
			return *b, true
		}
	}
	return Button{}, false
}

// Dropdown returns the dropdown called name.
func (s *Synchronizer) Dropdown(name string) (Dropdown, bool) {
	for _, c := range s.controls {
		if d, ok := c.(*Dropdown); ok && d.Name == name {
			out := *d
			out.Entries = append([]MenuEntry(nil), d.Entries...)
			return out, true
		}
	}
	return Dropdown{}, false
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	default:
		return true
	}
}

func formatString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	case bool:
		if t {
			return "true"
		}
		return ""
	default:
		return ""
	}
}
