package editor

import (
	"github.com/iw2rmb/zinc/selection"
	"github.com/iw2rmb/zinc/surface"
)

// ScreenToIndex maps a cell of the document area to a document offset.
// (0,0) is the top-left cell below the toolbar. Coordinates are clamped
// into the document.
func (m Model) ScreenToIndex(x, y int) int {
	return (&m).screenToIndex(x, y)
}

// IndexToScreen maps a document offset to a cell of the document area.
// ok is false when the offset is scrolled out of view.
func (m Model) IndexToScreen(index int) (x, y int, ok bool) {
	return (&m).indexToScreen(index)
}

func (m *Model) screenToIndex(x, y int) int {
	lo := m.ensureLayout()
	if len(lo.rows) == 0 {
		return 0
	}
	row := max(0, min(m.viewport.YOffset+y, len(lo.rows)-1))
	return lo.indexAt(row, max(x, 0))
}

func (m *Model) indexToScreen(index int) (x, y int, ok bool) {
	lo := m.ensureLayout()
	if len(lo.rows) == 0 {
		return 0, 0, false
	}
	row := lo.rowFor(index)
	y = row - m.viewport.YOffset
	if y < 0 || (m.viewport.Height > 0 && y >= m.viewport.Height) {
		return 0, 0, false
	}
	return lo.cellOf(row, index), y, true
}

// syncHost rebuilds the selection host's tree when the text changed since
// it was last built.
func (m Model) syncHost() {
	text := m.buf.Text()
	if m.st.hostText == text && m.st.bridge.Root != nil {
		return
	}
	m.st.hostText = text
	m.st.host.Replace(selection.BuildTree(text))
	m.st.bridge = selection.Bridge{Scope: m.st.host, Root: m.st.host.Top()}
}

// selectRange writes anchor..head as the host's native selection and reads
// it back into the document, the way a pointer selection reaches the
// editor.
func (m Model) selectRange(anchor, head int) {
	m.syncHost()
	b := m.st.bridge
	a, h := b.FromIndex(anchor), b.FromIndex(head)
	b.SetNativeRange(a.Node, a.Offset, h.Node, h.Offset, false)

	nr := b.NativeRange()
	if nr == nil {
		m.st.log.Debug("pointer selection outside the editor")
		return
	}
	start, end := b.ToIndex(nr.Start), b.ToIndex(nr.End)
	m.st.anchor, m.st.head, m.st.extending = anchor, head, true
	r := spanOf(start, end)
	m.buf.SetSelection(r.Index, r.Length, surface.SourceUser)
}
