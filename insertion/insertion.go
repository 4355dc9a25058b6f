// Package insertion replaces a span of the document with converted content
// as one user-sourced transaction: a single undo reverts the whole insert.
package insertion

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/iw2rmb/zinc/convert"
	"github.com/iw2rmb/zinc/delta"
	"github.com/iw2rmb/zinc/internal/logging"
	"github.com/iw2rmb/zinc/surface"
	"github.com/iw2rmb/zinc/trigger"
)

// ErrNoSelection is returned by selection-relative inserts on a blurred
// surface.
var ErrNoSelection = errors.New("insertion: no selection")

// Span is the document range to replace: [Index, Index+Length).
type Span struct {
	Index  int
	Length int
}

// SpanFromState returns the span covering the trigger char and the typed
// query, ending at cursor.
func SpanFromState(st trigger.State, cursor int) Span {
	return Span{Index: st.StartIndex, Length: max(cursor-st.StartIndex, 0)}
}

// Pipeline inserts fragments into a surface. It holds no reference to the
// document beyond the surface it mutates through.
type Pipeline struct {
	Surface surface.Surface
	Logger  *log.Logger
}

func New(s surface.Surface, logger *log.Logger) *Pipeline {
	return &Pipeline{Surface: s, Logger: logging.OrDiscard(logger)}
}

// Insert deletes span, separates the content from a preceding word with a
// space, inserts frag and moves the cursor after it. It returns the cursor
// offset. Conversion happens before any mutation, so a conversion error
// leaves the document untouched.
func (p *Pipeline) Insert(span Span, frag convert.Fragment) (int, error) {
	return p.replace(span, frag, true)
}

// InsertCandidate implements trigger.ContentInserter. String values are
// treated as HTML; a convert.Fragment value is used as is.
func (p *Pipeline) InsertCandidate(st trigger.State, c trigger.Candidate) error {
	cursor, ok := surface.Cursor(p.Surface)
	if !ok {
		return ErrNoSelection
	}

	var frag convert.Fragment
	switch v := c.Value.(type) {
	case convert.Fragment:
		frag = v
	case string:
		frag = convert.HTMLFragment(v)
	case nil:
		frag = convert.TextFragment("")
	default:
		return fmt.Errorf("insertion: candidate %q has unsupported value %T", c.Label, c.Value)
	}
	_, err := p.Insert(SpanFromState(st, cursor), frag)
	return err
}

// InsertAtSelection inserts frag at the start of the selection without
// removing anything.
func (p *Pipeline) InsertAtSelection(frag convert.Fragment) (int, error) {
	r, ok := p.Surface.Selection()
	if !ok {
		return 0, ErrNoSelection
	}
	return p.replace(Span{Index: r.Index}, frag, false)
}

// ReplaceSelection replaces the selected text with frag.
func (p *Pipeline) ReplaceSelection(frag convert.Fragment) (int, error) {
	r, ok := p.Surface.Selection()
	if !ok {
		return 0, ErrNoSelection
	}
	return p.replace(Span{Index: r.Index, Length: r.Length}, frag, false)
}

// InsertText inserts plain text at the cursor.
func (p *Pipeline) InsertText(text string) (int, error) {
	cursor, ok := surface.Cursor(p.Surface)
	if !ok {
		return 0, ErrNoSelection
	}
	return p.replace(Span{Index: cursor}, convert.TextFragment(text), false)
}

func (p *Pipeline) replace(span Span, frag convert.Fragment, spaced bool) (int, error) {
	content, err := frag.Delta()
	if err != nil {
		return 0, fmt.Errorf("insertion: %w", err)
	}

	var end int
	err = p.Surface.Transact(surface.SourceUser, func() error {
		s := p.Surface
		s.DeleteText(span.Index, span.Length, surface.SourceUser)

		at := span.Index
		if spaced && at > 0 && !isSpaceAt(s, at-1) {
			s.InsertText(at, " ", nil, surface.SourceUser)
			at++
		}

		if len(content.Ops) > 0 {
			s.UpdateContents(delta.New().Retain(at, nil).Concat(content), surface.SourceUser)
		}
		end = at + content.InsertLength()
		s.SetSelection(end, 0, surface.SourceUser)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("insertion: %w", err)
	}
	p.logger().Debug("content inserted", "kind", frag.Kind, "at", span.Index, "cursor", end)
	return end, nil
}

func (p *Pipeline) logger() *log.Logger {
	if p.Logger == nil {
		p.Logger = logging.Discard()
	}
	return p.Logger
}

func isSpaceAt(s surface.Reader, index int) bool {
	r, _ := utf8.DecodeRuneInString(s.GetText(index, 1))
	return unicode.IsSpace(r)
}

var _ trigger.ContentInserter = (*Pipeline)(nil)
