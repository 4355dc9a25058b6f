// Package selection maps between a rendered view tree and document offsets
// and reads or writes the native selection held by the tree's scope.
//
// The tree mirrors what the editor renders: a root element, one paragraph
// element per line, each holding an optional text node followed by a
// line-break node standing for the line's newline.
package selection

import "unicode/utf8"

type NodeKind uint8

const (
	ElementNode NodeKind = iota
	TextNode
	LineBreakNode
)

// Node is a view tree node.
type Node struct {
	Kind     NodeKind
	Text     string
	Parent   *Node
	Children []*Node
}

// NewElement returns an element with children attached.
func NewElement(children ...*Node) *Node {
	n := &Node{Kind: ElementNode}
	for _, c := range children {
		n.Append(c)
	}
	return n
}

func NewText(s string) *Node { return &Node{Kind: TextNode, Text: s} }

func NewLineBreak() *Node { return &Node{Kind: LineBreakNode} }

// Append attaches c as the last child of n, detaching it from any previous
// parent.
func (n *Node) Append(c *Node) {
	c.Detach()
	c.Parent = n
	n.Children = append(n.Children, c)
}

// Detach removes n from its parent.
func (n *Node) Detach() {
	p := n.Parent
	if p == nil {
		return
	}
	if i := n.Index(); i >= 0 {
		p.Children = append(p.Children[:i:i], p.Children[i+1:]...)
	}
	n.Parent = nil
}

// Index returns n's position among its parent's children, or -1.
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// Len is the number of document runes n spans. A line break counts as one.
func (n *Node) Len() int {
	switch n.Kind {
	case TextNode:
		return utf8.RuneCountInString(n.Text)
	case LineBreakNode:
		return 1
	}
	total := 0
	for _, c := range n.Children {
		total += c.Len()
	}
	return total
}

// BuildTree renders text into a root element. text is expected to end with
// a newline, as document text does; a missing one is implied.
func BuildTree(text string) *Node {
	root := NewElement()
	line := NewElement()
	start := 0
	flush := func(end int) {
		if end > start {
			line.Append(NewText(text[start:end]))
		}
		line.Append(NewLineBreak())
		root.Append(line)
		line = NewElement()
	}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			flush(i)
			start = i + 1
		}
	}
	if start < len(text) || len(root.Children) == 0 {
		flush(len(text))
	}
	return root
}

// Point is a boundary in the tree: a node and an offset within it. For text
// nodes the offset counts runes; for elements it is a child index.
type Point struct {
	Node   *Node
	Offset int
}

// Range is a native selection range. Start may follow End when the user
// selected backwards; Bridge.NativeRange normalises it.
type Range struct {
	Start Point
	End   Point
}

// Collapsed reports whether both boundaries are the same point.
func (r Range) Collapsed() bool { return r.Start == r.End }
