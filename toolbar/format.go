package toolbar

import (
	"errors"

	"github.com/iw2rmb/zinc/delta"
	"github.com/iw2rmb/zinc/surface"
)

// ErrDetached is returned when a control is pressed before Attach.
var ErrDetached = errors.New("toolbar: not attached")

// AddHandler registers h for key, replacing any earlier handler.
func (s *Synchronizer) AddHandler(key string, h Handler) {
	if h == nil {
		delete(s.handlers, key)
		return
	}
	s.handlers[key] = h
}

// CallFormat applies a format the way a control press does.
//
// A nil value means "not given": header and color unset, link creates a
// link, any other format toggles its current value. Registered handlers
// run first. "clean" removes formatting from the selection, or from the
// whole document without one.
func (s *Synchronizer) CallFormat(key string, value any) {
	if value == nil {
		switch key {
		case "header", "color":
			value = ""
		case "link":
			value = true
		}
	}

	if h, ok := s.handlers[key]; ok {
		h(value)
		s.Sync()
		return
	}
	if s.surf == nil {
		s.cfg.Logger.Warn("format ignored", "key", key, "err", ErrDetached)
		return
	}

	r, ok := s.surf.Selection()
	if key == "clean" {
		s.pending = nil
		if ok {
			s.surf.RemoveFormat(r.Index, r.Length, surface.SourceUser)
		} else {
			s.surf.RemoveFormat(0, s.surf.Length(), surface.SourceUser)
		}
		s.Sync()
		return
	}
	if !ok {
		return
	}

	if value == nil {
		current, _ := s.Snapshot()
		value = !truthy(current[key])
	}

	if r.IsCollapsed() && !surface.IsLineFormat(key) {
		if s.pending == nil {
			s.pending = delta.Attributes{}
		}
		if truthy(value) {
			s.pending[key] = value
		} else {
			s.pending[key] = nil
		}
		s.Sync()
		return
	}

	s.surf.FormatText(r.Index, r.Length, key, value, surface.SourceUser)
	s.Sync()
}

// Press runs the control at index i of the layout. Toggle and action
// buttons call their format; dropdowns open or close their menu.
func (s *Synchronizer) Press(i int) {
	if i < 0 || i >= len(s.controls) {
		return
	}
	switch c := s.controls[i].(type) {
	case *Button:
		s.CloseMenu()
		s.CallFormat(c.Format, c.Value)
	case *Dropdown:
		if s.menu == i {
			s.CloseMenu()
			return
		}
		s.OpenMenu(i)
	}
}

// OpenMenu shows the entries of the dropdown at index i.
func (s *Synchronizer) OpenMenu(i int) {
	if i < 0 || i >= len(s.controls) {
		return
	}
	if _, ok := s.controls[i].(*Dropdown); !ok {
		return
	}
	s.menu = i
	s.cfg.TopLayer.Register(s.menuReg)
}

func (s *Synchronizer) CloseMenu() {
	if s.menu < 0 {
		return
	}
	s.menu = -1
	s.cfg.TopLayer.Unregister(s.menuReg)
}

// OpenDropdown returns the dropdown whose menu is shown.
func (s *Synchronizer) OpenDropdown() (Dropdown, bool) {
	if s.menu < 0 {
		return Dropdown{}, false
	}
	d := s.controls[s.menu].(*Dropdown)
	out := *d
	out.Entries = append([]MenuEntry(nil), d.Entries...)
	return out, true
}

// PressEntry applies entry j of the open menu and closes it. Checkbox
// entries of multi dropdowns toggle; others set their value.
func (s *Synchronizer) PressEntry(j int) {
	if s.menu < 0 {
		return
	}
	d := s.controls[s.menu].(*Dropdown)
	if j < 0 || j >= len(d.Entries) {
		return
	}
	e := d.Entries[j]
	s.CloseMenu()

	if d.Multi {
		s.CallFormat(e.Format, nil)
		return
	}
	s.CallFormat(e.Format, e.Value)
}
