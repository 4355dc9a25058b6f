package toolbar

import (
	"github.com/iw2rmb/zinc/delta"
	"github.com/iw2rmb/zinc/surface"
)

func (s *Synchronizer) installDefaultHandlers() {
	s.AddHandler("undo", func(any) { s.history(surface.History.Undo) })
	s.AddHandler("redo", func(any) { s.history(surface.History.Redo) })
	s.AddHandler("divider", func(any) { s.insertDivider() })
	s.AddHandler("date", s.insertDate)
}

func (s *Synchronizer) history(step func(surface.History) bool) {
	h, ok := s.surf.(surface.History)
	if !ok {
		return
	}
	step(h)
}

// insertDivider puts a rule line after the selection. A newline is added
// first when the selection does not end at a line start.
func (s *Synchronizer) insertDivider() {
	if s.surf == nil {
		return
	}
	index := s.surf.Length() - 1
	if r, ok := s.surf.Selection(); ok {
		index = r.End()
	}

	_ = s.surf.Transact(surface.SourceUser, func() error {
		if index > 0 && s.surf.GetText(index-1, 1) != "\n" {
			s.surf.InsertText(index, "\n", nil, surface.SourceUser)
			index++
		}
		s.surf.InsertText(index, "\n", delta.Attributes{"divider": true}, surface.SourceUser)
		s.surf.SetSelection(index+1, 0, surface.SourceUser)
		return nil
	})
}

// insertDate inserts value when it is a non-empty string, today's date
// otherwise.
func (s *Synchronizer) insertDate(value any) {
	if s.ins == nil {
		return
	}
	text, _ := value.(string)
	if text == "" {
		text = s.cfg.Now().Format(s.cfg.DateLayout)
	}
	if _, err := s.ins.InsertText(text); err != nil {
		s.cfg.Logger.Debug("date not inserted", "err", err)
	}
}
