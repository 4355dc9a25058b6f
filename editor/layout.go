package editor

import (
	"strconv"
	"strings"

	"github.com/iw2rmb/zinc/buffer"
	"github.com/iw2rmb/zinc/delta"
	"github.com/iw2rmb/zinc/internal/grapheme"
)

type styledRune struct {
	r     rune
	attrs delta.Attributes
}

// docLine is one logical line. format holds the line formats stored on
// its newline.
type docLine struct {
	start  int
	runes  []styledRune
	format delta.Attributes
}

func (l docLine) end() int { return l.start + len(l.runes) }

func splitLines(contents delta.Delta) []docLine {
	var (
		out []docLine
		cur = docLine{}
		pos = 0
	)
	for _, op := range contents.Ops {
		for _, r := range op.Insert {
			if r == '\n' {
				cur.format = op.Attributes
				out = append(out, cur)
				pos++
				cur = docLine{start: pos}
				continue
			}
			cur.runes = append(cur.runes, styledRune{r: r, attrs: op.Attributes})
			pos++
		}
	}
	if len(cur.runes) > 0 {
		out = append(out, cur)
	}
	if len(out) == 0 {
		out = append(out, docLine{})
	}
	return out
}

// visualRow is one screen row of the document. [start, end) are document
// offsets; cells holds the width of each rune.
type visualRow struct {
	line    int
	start   int
	end     int
	prefix  string
	cells   []int
	last    bool
	divider bool
}

func (r visualRow) prefixWidth() int { return grapheme.Width(r.prefix) }

type layoutCacheKey struct {
	version  uint64
	width    int
	tabWidth int
}

type layout struct {
	key   layoutCacheKey
	valid bool

	lines []docLine
	rows  []visualRow
}

func buildLayout(b *buffer.Buffer, width, tabWidth int) layout {
	lo := layout{
		key:   layoutCacheKey{version: b.Version(), width: width, tabWidth: tabWidth},
		valid: true,
		lines: splitLines(b.Contents()),
	}

	ordinal := 0
	for i, line := range lo.lines {
		if line.format["list"] == "ordered" {
			ordinal++
		} else {
			ordinal = 0
		}
		prefix := linePrefix(line.format, ordinal)

		if truthy(line.format["divider"]) && len(line.runes) == 0 {
			lo.rows = append(lo.rows, visualRow{line: i, start: line.start, end: line.start, last: true, divider: true})
			continue
		}

		avail := max(width-grapheme.Width(prefix), 1)
		if width <= 0 {
			avail = int(^uint(0) >> 1)
		}
		row := visualRow{line: i, start: line.start, prefix: prefix}
		used := 0
		for j, sr := range line.runes {
			w := grapheme.RuneWidth(sr.r, used, tabWidth)
			if used > 0 && used+w > avail {
				row.end = line.start + j
				lo.rows = append(lo.rows, row)
				row = visualRow{line: i, start: line.start + j, prefix: strings.Repeat(" ", grapheme.Width(prefix))}
				used = 0
				w = grapheme.RuneWidth(sr.r, 0, tabWidth)
			}
			row.cells = append(row.cells, w)
			used += w
		}
		row.end = line.end()
		row.last = true
		lo.rows = append(lo.rows, row)
	}
	return lo
}

// linePrefix returns the marker drawn before a line's text.
func linePrefix(format delta.Attributes, ordinal int) string {
	var sb strings.Builder
	if truthy(format["blockquote"]) {
		sb.WriteString("│ ")
	}
	switch format["list"] {
	case "bullet":
		sb.WriteString("• ")
	case "ordered":
		sb.WriteString(strconv.Itoa(ordinal) + ". ")
	case "checked":
		sb.WriteString("☑ ")
	case "unchecked":
		sb.WriteString("☐ ")
	}
	if h, ok := format["header"].(string); ok && h != "" {
		if n, err := strconv.Atoi(h); err == nil && n > 0 && n <= 6 {
			sb.WriteString(strings.Repeat("#", n) + " ")
		}
	}
	return sb.String()
}

// rowFor returns the visual row holding index. An index at a wrap point
// belongs to the following row.
func (lo layout) rowFor(index int) int {
	for i, r := range lo.rows {
		if index < r.start {
			continue
		}
		if index < r.end || (r.last && index == r.end) {
			return i
		}
	}
	return max(len(lo.rows)-1, 0)
}

// cellOf returns the column of index within row i, prefix included.
func (lo layout) cellOf(i, index int) int {
	r := lo.rows[i]
	x := r.prefixWidth()
	for j := 0; j < index-r.start && j < len(r.cells); j++ {
		x += r.cells[j]
	}
	return x
}

// indexAt maps a column within row i to a document offset. Columns in the
// prefix map to the row start; a click on the right half of a wide rune
// lands after it.
func (lo layout) indexAt(i, x int) int {
	r := lo.rows[i]
	x -= r.prefixWidth()
	if x <= 0 {
		return r.start
	}
	used := 0
	for j, w := range r.cells {
		if x < used+w {
			if x-used >= (w+1)/2 && w > 1 {
				return r.start + j + 1
			}
			return r.start + j
		}
		used += w
	}
	if !r.last && r.end > r.start {
		return r.end - 1
	}
	return r.end
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	default:
		return true
	}
}
