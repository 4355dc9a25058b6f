// Package surface defines the editable-surface capabilities consumed by the
// palette, toolbar and insertion packages: read the selection, mutate
// content, subscribe to changes.
//
// *buffer.Buffer implements Surface. Another document engine can be
// substituted by implementing the same method set.
package surface

import (
	"github.com/iw2rmb/zinc/buffer"
	"github.com/iw2rmb/zinc/delta"
)

type (
	Range     = buffer.Range
	Rect      = buffer.Rect
	Source    = buffer.Source
	Event     = buffer.Event
	EventKind = buffer.EventKind
	Listener  = buffer.Listener
)

const (
	SourceUser   = buffer.SourceUser
	SourceAPI    = buffer.SourceAPI
	SourceSilent = buffer.SourceSilent

	TextChange      = buffer.TextChange
	SelectionChange = buffer.SelectionChange
	EditorChange    = buffer.EditorChange
)

// Reader is the read side of a surface.
type Reader interface {
	Selection() (Range, bool)
	Length() int
	GetText(index, length int) string
	Format(r Range) delta.Attributes
	Bounds(index int) Rect
}

// Mutator is the write side of a surface. Every call takes the source the
// resulting events will carry.
type Mutator interface {
	SetSelection(index, length int, src Source)
	InsertText(index int, text string, attrs delta.Attributes, src Source) delta.Delta
	DeleteText(index, length int, src Source) delta.Delta
	FormatText(index, length int, key string, value any, src Source) delta.Delta
	FormatLine(index, length int, key string, value any, src Source) delta.Delta
	RemoveFormat(index, length int, src Source) delta.Delta
	UpdateContents(d delta.Delta, src Source) delta.Delta

	// Transact runs fn as one undo step with events deferred until it
	// returns.
	Transact(src Source, fn func() error) error
}

// Notifier delivers change events.
type Notifier interface {
	On(kind EventKind, fn Listener) (off func())
}

// Surface is the full capability set.
type Surface interface {
	Reader
	Mutator
	Notifier
}

// History is implemented by surfaces that keep an undo stack.
type History interface {
	Undo() bool
	Redo() bool
	CanUndo() bool
	CanRedo() bool
}

// IsLineFormat reports whether key formats whole lines rather than runes.
func IsLineFormat(key string) bool { return buffer.IsLineFormat(key) }

// Cursor returns the caret offset: the end of the selection. ok is false when
// the surface has no selection.
func Cursor(s Reader) (int, bool) {
	r, ok := s.Selection()
	if !ok {
		return 0, false
	}
	return r.End(), true
}

var (
	_ Surface = (*buffer.Buffer)(nil)
	_ History = (*buffer.Buffer)(nil)
)
