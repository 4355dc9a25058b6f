package buffer

import (
	"strings"

	"github.com/iw2rmb/zinc/delta"
)

type cell struct {
	r     rune
	attrs delta.Attributes
}

type selectionState struct {
	active bool
	r      Range
}

// Buffer is the document state: formatted text and selection.
type Buffer struct {
	cells   []cell
	version uint64

	sel selectionState

	opt  Options
	hist historyState
	ev   eventBus
	tx   *transaction
}

// New creates a buffer holding text. A trailing newline is added when text
// does not already end with one. The selection starts collapsed at 0.
func New(text string, opt Options) *Buffer {
	if opt.HistoryLimit == 0 {
		opt.HistoryLimit = 1000
	}
	b := &Buffer{
		opt: opt,
		sel: selectionState{active: true},
	}
	b.cells = cellsFromText(text, nil)
	if n := len(b.cells); n == 0 || b.cells[n-1].r != '\n' {
		b.cells = append(b.cells, cell{r: '\n'})
	}
	return b
}

func cellsFromText(text string, attrs delta.Attributes) []cell {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	out := make([]cell, 0, len(text))
	inline, line := splitAttributes(attrs)
	for _, r := range text {
		if r == '\n' {
			out = append(out, cell{r: r, attrs: line.Clone()})
			continue
		}
		out = append(out, cell{r: r, attrs: inline.Clone()})
	}
	return out
}

// Text returns the whole document, including the trailing newline.
func (b *Buffer) Text() string {
	var sb strings.Builder
	sb.Grow(len(b.cells))
	for _, c := range b.cells {
		sb.WriteRune(c.r)
	}
	return sb.String()
}

// Length returns the document length in runes.
func (b *Buffer) Length() int { return len(b.cells) }

func (b *Buffer) Version() uint64 { return b.version }

// GetText returns the text in [index, index+length), clamped to the document.
func (b *Buffer) GetText(index, length int) string {
	r := b.clampRange(Range{Index: index, Length: length})
	var sb strings.Builder
	for _, c := range b.cells[r.Index:r.End()] {
		sb.WriteRune(c.r)
	}
	return sb.String()
}

// Selection returns the current selection. ok is false when the editor has
// no selection (blurred).
func (b *Buffer) Selection() (Range, bool) {
	if !b.sel.active {
		return Range{}, false
	}
	return b.sel.r, true
}

// Contents returns the document as an insert-only delta.
func (b *Buffer) Contents() delta.Delta {
	return contentsOf(b.cells)
}

func contentsOf(cells []cell) delta.Delta {
	var (
		ops  []delta.Op
		text []rune
		cur  delta.Attributes
	)
	flush := func() {
		if len(text) > 0 {
			ops = append(ops, delta.Op{Insert: string(text), Attributes: cur.Clone()})
		}
		text = text[:0]
	}
	for _, c := range cells {
		if len(text) > 0 && !cur.Equal(c.attrs) {
			flush()
		}
		if len(text) == 0 {
			cur = c.attrs
		}
		text = append(text, c.r)
	}
	flush()
	return delta.Delta{Ops: ops}
}

// Bounds returns the logical row and rune column of index.
func (b *Buffer) Bounds(index int) Rect {
	p := b.PosFromIndex(index)
	return Rect{Row: p.Row, Col: p.Col}
}

// PosFromIndex converts a document offset to a (row, col) position.
func (b *Buffer) PosFromIndex(index int) Pos {
	index = clampInt(index, 0, len(b.cells)-1)
	row, col := 0, 0
	for i := 0; i < index; i++ {
		if b.cells[i].r == '\n' {
			row++
			col = 0
			continue
		}
		col++
	}
	return Pos{Row: row, Col: col}
}

// IndexFromPos converts a (row, col) position to a document offset. The
// position is clamped into document bounds first.
func (b *Buffer) IndexFromPos(p Pos) int {
	starts := b.lineStarts()
	p = ClampPos(p, len(starts), func(row int) int { return b.lineLen(starts, row) })
	return starts[p.Row] + p.Col
}

// LineCount returns the number of logical lines.
func (b *Buffer) LineCount() int { return len(b.lineStarts()) }

// Line returns the text of row without its newline.
func (b *Buffer) Line(row int) string {
	starts := b.lineStarts()
	if row < 0 || row >= len(starts) {
		return ""
	}
	return b.GetText(starts[row], b.lineLen(starts, row))
}

// LineRange returns the span of the line containing index, excluding the
// terminating newline.
func (b *Buffer) LineRange(index int) Range {
	index = clampInt(index, 0, len(b.cells)-1)
	start := index
	for start > 0 && b.cells[start-1].r != '\n' {
		start--
	}
	end := index
	for end < len(b.cells) && b.cells[end].r != '\n' {
		end++
	}
	return Range{Index: start, Length: end - start}
}

func (b *Buffer) lineStarts() []int {
	starts := []int{0}
	for i, c := range b.cells {
		if c.r == '\n' && i+1 < len(b.cells) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (b *Buffer) lineLen(starts []int, row int) int {
	if row < 0 || row >= len(starts) {
		return 0
	}
	n := 0
	for i := starts[row]; i < len(b.cells) && b.cells[i].r != '\n'; i++ {
		n++
	}
	return n
}

func (b *Buffer) clampRange(r Range) Range {
	if r.Length < 0 {
		r.Index += r.Length
		r.Length = -r.Length
	}
	r.Index = clampInt(r.Index, 0, len(b.cells))
	r.Length = clampInt(r.Length, 0, len(b.cells)-r.Index)
	return r
}
