package selection

// Scope is the view scope an editor lives in. ActiveElement is scoped to
// it, not to the whole program: a different scope may hold focus without
// affecting HasFocus.
type Scope interface {
	ActiveElement() *Node
	// Contains reports whether n is connected to the scope.
	Contains(n *Node) bool
}

// ScopedSelector is implemented by scopes exposing their own selection.
type ScopedSelector interface {
	ScopedSelection() (Range, bool)
}

// ComposedRanger is implemented by scopes that report selections crossing
// scope boundaries, given the roots they may pierce.
type ComposedRanger interface {
	ComposedRanges(roots ...*Node) []Range
}

// RangeSource is the standard range accessor.
type RangeSource interface {
	RangeCount() int
	RangeAt(i int) Range
}

// BaseExtentSetter writes a selection from anchor and focus boundaries.
type BaseExtentSetter interface {
	SetBaseAndExtent(anchor *Node, anchorOffset int, focus *Node, focusOffset int)
}

// Focuser moves focus within a scope.
type Focuser interface {
	Focus(n *Node)
}

// Bridge reads and writes the selection of an editable root inside a scope.
// Capabilities are discovered by probing the scope's method set.
type Bridge struct {
	Scope Scope
	Root  *Node
}

// HasFocus reports whether the scope's active element is the root.
func (b Bridge) HasFocus() bool {
	if b.Scope == nil || b.Root == nil {
		return false
	}
	return b.Scope.ActiveElement() == b.Root
}

// NativeRange returns the current selection with Start preceding End, or
// nil when no accessor yields a range inside the root or the root is
// detached.
func (b Bridge) NativeRange() *Range {
	if !b.attached(b.Root) {
		return nil
	}
	for _, probe := range []func() (Range, bool){b.scoped, b.composed, b.standard} {
		r, ok := guard(probe)
		if !ok {
			continue
		}
		if !b.attached(r.Start.Node) || !b.attached(r.End.Node) {
			continue
		}
		n := b.normalize(r)
		return &n
	}
	return nil
}

func (b Bridge) scoped() (Range, bool) {
	s, ok := b.Scope.(ScopedSelector)
	if !ok {
		return Range{}, false
	}
	return s.ScopedSelection()
}

func (b Bridge) composed() (Range, bool) {
	c, ok := b.Scope.(ComposedRanger)
	if !ok {
		return Range{}, false
	}
	ranges := c.ComposedRanges(b.Root)
	if len(ranges) == 0 {
		return Range{}, false
	}
	return ranges[0], true
}

func (b Bridge) standard() (Range, bool) {
	s, ok := b.Scope.(RangeSource)
	if !ok || s.RangeCount() == 0 {
		return Range{}, false
	}
	return s.RangeAt(0), true
}

// guard calls fn, turning a panic into a miss.
func guard(fn func() (Range, bool)) (r Range, ok bool) {
	defer func() {
		if recover() != nil {
			r, ok = Range{}, false
		}
	}()
	return fn()
}

func (b Bridge) normalize(r Range) Range {
	if b.ToIndex(r.Start) > b.ToIndex(r.End) {
		r.Start, r.End = r.End, r.Start
	}
	return r
}

// SetNativeRange selects from the start boundary to the end boundary. A
// line-break boundary is written as its parent plus the break's child index.
// The root is focused first when force is set or focus is elsewhere. Nodes
// outside the root are ignored.
func (b Bridge) SetNativeRange(startNode *Node, startOffset int, endNode *Node, endOffset int, force bool) {
	if !b.attached(startNode) || !b.attached(endNode) {
		return
	}
	startNode, startOffset = lineBreakBoundary(startNode, startOffset)
	endNode, endOffset = lineBreakBoundary(endNode, endOffset)

	if force || !b.HasFocus() {
		if f, ok := b.Scope.(Focuser); ok {
			f.Focus(b.Root)
		}
	}
	if s, ok := b.Scope.(BaseExtentSetter); ok {
		s.SetBaseAndExtent(startNode, startOffset, endNode, endOffset)
	}
}

func lineBreakBoundary(n *Node, offset int) (*Node, int) {
	if n.Kind != LineBreakNode || n.Parent == nil {
		return n, offset
	}
	return n.Parent, n.Index()
}

func (b Bridge) attached(n *Node) bool {
	if n == nil || b.Root == nil || b.Scope == nil {
		return false
	}
	return b.Root.Contains(n) && b.Scope.Contains(b.Root)
}

// ToIndex returns the document offset of p. Offsets are clamped to the
// node's extent.
func (b Bridge) ToIndex(p Point) int {
	if p.Node == nil || b.Root == nil {
		return 0
	}
	start, ok := offsetOf(b.Root, p.Node)
	if !ok {
		return 0
	}
	switch p.Node.Kind {
	case TextNode, LineBreakNode:
		return start + max(0, min(p.Offset, p.Node.Len()))
	}
	idx := start
	for i, c := range p.Node.Children {
		if i >= p.Offset {
			break
		}
		idx += c.Len()
	}
	return idx
}

// offsetOf returns the document offset at which target starts.
func offsetOf(root, target *Node) (int, bool) {
	pos := 0
	var walk func(n *Node) bool
	walk = func(n *Node) bool {
		if n == target {
			return true
		}
		if n.Kind != ElementNode {
			pos += n.Len()
			return false
		}
		for _, c := range n.Children {
			if walk(c) {
				return true
			}
		}
		return false
	}
	if !walk(root) {
		return 0, false
	}
	return pos, true
}

// FromIndex returns the point for a document offset. Offsets inside or at
// the end of a text node resolve to that node; an offset on an empty line
// resolves to the paragraph and the line break's child index.
func (b Bridge) FromIndex(index int) Point {
	if b.Root == nil {
		return Point{}
	}
	index = max(index, 0)
	pos := 0
	var last Point
	var found *Point
	var walk func(n *Node)
	walk = func(n *Node) {
		if found != nil {
			return
		}
		switch n.Kind {
		case TextNode:
			l := n.Len()
			if index <= pos+l {
				found = &Point{Node: n, Offset: index - pos}
				return
			}
			pos += l
			last = Point{Node: n, Offset: l}
		case LineBreakNode:
			if index == pos {
				p := Point{Node: n.Parent, Offset: n.Index()}
				found = &p
				return
			}
			pos++
			last = Point{Node: n.Parent, Offset: n.Index() + 1}
		default:
			for _, c := range n.Children {
				walk(c)
			}
		}
	}
	walk(b.Root)
	if found != nil {
		return *found
	}
	return last
}
