package selection

// Host is an in-memory scope holding a single tree. It implements Scope,
// RangeSource, BaseExtentSetter and Focuser; the editor uses it to turn
// mouse positions into document offsets.
type Host struct {
	top    *Node
	active *Node

	has           bool
	anchor, focus Point
}

// NewHost returns a host whose tree is top.
func NewHost(top *Node) *Host {
	return &Host{top: top}
}

// Top returns the host's tree.
func (h *Host) Top() *Node { return h.top }

// Replace swaps the tree. Focus and selection are kept only when they still
// point into the new tree.
func (h *Host) Replace(top *Node) {
	h.top = top
	if !h.Contains(h.active) {
		h.active = nil
	}
	if h.has && (!h.Contains(h.anchor.Node) || !h.Contains(h.focus.Node)) {
		h.has = false
	}
}

func (h *Host) ActiveElement() *Node { return h.active }

func (h *Host) Contains(n *Node) bool {
	return n != nil && h.top != nil && h.top.Contains(n)
}

func (h *Host) Focus(n *Node) {
	if h.Contains(n) {
		h.active = n
	}
}

// Blur drops focus.
func (h *Host) Blur() { h.active = nil }

func (h *Host) SetBaseAndExtent(anchor *Node, anchorOffset int, focus *Node, focusOffset int) {
	if !h.Contains(anchor) || !h.Contains(focus) {
		return
	}
	h.anchor = Point{Node: anchor, Offset: anchorOffset}
	h.focus = Point{Node: focus, Offset: focusOffset}
	h.has = true
}

func (h *Host) RangeCount() int {
	if !h.has {
		return 0
	}
	return 1
}

// RangeAt returns the selection as anchor to focus, unnormalised.
func (h *Host) RangeAt(i int) Range {
	if i != 0 || !h.has {
		return Range{}
	}
	return Range{Start: h.anchor, End: h.focus}
}

// Clear removes the selection.
func (h *Host) Clear() { h.has = false }
