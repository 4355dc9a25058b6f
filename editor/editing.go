package editor

import (
	"unicode/utf8"

	"github.com/iw2rmb/zinc/buffer"
	"github.com/iw2rmb/zinc/delta"
	"github.com/iw2rmb/zinc/internal/grapheme"
	"github.com/iw2rmb/zinc/surface"
)

// spanOf returns the range between two offsets in either order.
func spanOf(a, b int) buffer.Range {
	if b < a {
		a, b = b, a
	}
	return buffer.Range{Index: a, Length: b - a}
}

// caret returns the anchor and head of the selection. The document stores
// ranges without direction, so a selection made in this editor keeps its
// own; any other selection is read as anchored at its start.
func (m Model) caret() (anchor, head int) {
	r, ok := m.buf.Selection()
	if !ok {
		return 0, 0
	}
	if m.st.extending && spanOf(m.st.anchor, m.st.head) == r {
		return m.st.anchor, m.st.head
	}
	return r.Index, r.End()
}

// moveTo moves the head to index. Without extend the selection collapses
// there.
func (m Model) moveTo(index int, extend bool) {
	index = max(0, min(index, m.buf.Length()-1))
	anchor, _ := m.caret()
	if !extend {
		anchor = index
	}
	m.st.anchor, m.st.head, m.st.extending = anchor, index, extend
	r := spanOf(anchor, index)
	m.buf.SetSelection(r.Index, r.Length, surface.SourceUser)
}

func (m Model) moveHorizontal(dir int, extend bool) {
	r, ok := m.buf.Selection()
	if !ok {
		return
	}
	if !extend && r.Length > 0 {
		if dir < 0 {
			m.moveTo(r.Index, false)
		} else {
			m.moveTo(r.End(), false)
		}
		return
	}
	_, head := m.caret()
	if dir < 0 {
		m.moveTo(m.prevBoundary(head), extend)
		return
	}
	m.moveTo(m.nextBoundary(head), extend)
}

func (m *Model) moveVertical(dir int, extend bool) {
	if _, ok := m.buf.Selection(); !ok {
		return
	}
	_, head := m.caret()
	lo := m.ensureLayout()
	if len(lo.rows) == 0 {
		return
	}
	row := lo.rowFor(head)
	target := row + dir
	switch {
	case target < 0:
		m.moveTo(0, extend)
	case target >= len(lo.rows):
		m.moveTo(m.buf.Length()-1, extend)
	default:
		m.moveTo(lo.indexAt(target, lo.cellOf(row, head)), extend)
	}
}

// prevBoundary returns the start of the grapheme cluster ending at index.
func (m Model) prevBoundary(index int) int {
	if index <= 0 {
		return 0
	}
	if m.buf.GetText(index-1, 1) == "\n" {
		return index - 1
	}
	line := m.buf.LineRange(index - 1)
	clusters := grapheme.Split(m.buf.GetText(line.Index, index-line.Index))
	if len(clusters) == 0 {
		return index - 1
	}
	return index - utf8.RuneCountInString(clusters[len(clusters)-1])
}

// nextBoundary returns the end of the grapheme cluster starting at index.
func (m Model) nextBoundary(index int) int {
	last := m.buf.Length() - 1
	if index >= last {
		return last
	}
	if m.buf.GetText(index, 1) == "\n" {
		return index + 1
	}
	line := m.buf.LineRange(index)
	clusters := grapheme.Split(m.buf.GetText(index, line.End()-index))
	if len(clusters) == 0 {
		return index + 1
	}
	return index + utf8.RuneCountInString(clusters[0])
}

func isWordBreak(cluster string) bool {
	return cluster == "\n" || grapheme.IsSpace(cluster) || grapheme.IsPunct(cluster)
}

func (m Model) wordLeft(index int) int {
	pos := index
	for pos > 0 {
		p := m.prevBoundary(pos)
		if !isWordBreak(m.buf.GetText(p, pos-p)) {
			break
		}
		pos = p
	}
	for pos > 0 {
		p := m.prevBoundary(pos)
		if isWordBreak(m.buf.GetText(p, pos-p)) {
			break
		}
		pos = p
	}
	return pos
}

func (m Model) wordRight(index int) int {
	last := m.buf.Length() - 1
	pos := index
	for pos < last {
		n := m.nextBoundary(pos)
		if !isWordBreak(m.buf.GetText(pos, n-pos)) {
			break
		}
		pos = n
	}
	for pos < last {
		n := m.nextBoundary(pos)
		if isWordBreak(m.buf.GetText(pos, n-pos)) {
			break
		}
		pos = n
	}
	return pos
}

// deleteSelection removes selected text. It reports whether there was any.
func (m Model) deleteSelection() bool {
	r, ok := m.buf.Selection()
	if !ok || r.IsCollapsed() {
		return false
	}
	_ = m.buf.Transact(surface.SourceUser, func() error {
		m.buf.DeleteText(r.Index, r.Length, surface.SourceUser)
		m.buf.SetSelection(r.Index, 0, surface.SourceUser)
		return nil
	})
	return true
}

// deleteBackward removes the cluster before the cursor. At the start of a
// formatted line the line formats are removed first.
func (m Model) deleteBackward() {
	if m.deleteSelection() {
		return
	}
	r, ok := m.buf.Selection()
	if !ok {
		return
	}
	line := m.buf.LineRange(r.Index)
	if r.Index == line.Index {
		if lf := m.lineFormats(r.Index); len(lf) > 0 {
			m.clearLineFormats(r.Index, lf)
			return
		}
	}
	if r.Index == 0 {
		return
	}
	prev := m.prevBoundary(r.Index)
	_ = m.buf.Transact(surface.SourceUser, func() error {
		m.buf.DeleteText(prev, r.Index-prev, surface.SourceUser)
		m.buf.SetSelection(prev, 0, surface.SourceUser)
		return nil
	})
}

func (m Model) deleteForward() {
	if m.deleteSelection() {
		return
	}
	r, ok := m.buf.Selection()
	if !ok || r.Index >= m.buf.Length()-1 {
		return
	}
	next := m.nextBoundary(r.Index)
	m.buf.DeleteText(r.Index, next-r.Index, surface.SourceUser)
}

// insertNewline splits the line at the cursor as one undo step. The
// second half keeps the block formats of the line except header and
// divider. Enter on an empty list item ends the list instead.
func (m Model) insertNewline() {
	_ = m.buf.Transact(surface.SourceUser, func() error {
		m.splitLine()
		return nil
	})
}

func (m Model) splitLine() {
	m.deleteSelection()
	r, ok := m.buf.Selection()
	if !ok {
		return
	}
	lf := m.lineFormats(r.Index)
	line := m.buf.LineRange(r.Index)
	if line.Length == 0 && lf["list"] != nil {
		m.buf.FormatLine(r.Index, 0, "list", nil, surface.SourceUser)
		return
	}

	var full delta.Attributes
	if len(lf) > 0 {
		full = lf
	}
	m.buf.InsertText(r.Index, "\n", full, surface.SourceUser)
	for _, k := range []string{"header", "divider"} {
		if lf[k] != nil {
			m.buf.FormatLine(r.Index+1, 0, k, nil, surface.SourceUser)
		}
	}
	m.buf.SetSelection(r.Index+1, 0, surface.SourceUser)
}

// lineFormats returns the formats stored on the newline ending the line
// that holds index.
func (m Model) lineFormats(index int) delta.Attributes {
	out := delta.Attributes{}
	for k, v := range m.buf.Format(buffer.Range{Index: index}) {
		if buffer.IsLineFormat(k) {
			out[k] = v
		}
	}
	return out
}

func (m Model) clearLineFormats(index int, lf delta.Attributes) {
	_ = m.buf.Transact(surface.SourceUser, func() error {
		for k := range lf {
			m.buf.FormatLine(index, 0, k, nil, surface.SourceUser)
		}
		return nil
	})
}

func inlineOnly(attrs delta.Attributes) delta.Attributes {
	var out delta.Attributes
	for k, v := range attrs {
		if buffer.IsLineFormat(k) {
			continue
		}
		if out == nil {
			out = delta.Attributes{}
		}
		out[k] = v
	}
	return out
}
