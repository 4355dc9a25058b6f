package buffer

import "github.com/iw2rmb/zinc/delta"

var lineFormats = map[string]struct{}{
	"header":     {},
	"list":       {},
	"blockquote": {},
	"code-block": {},
	"align":      {},
	"divider":    {},
}

// IsLineFormat reports whether key is stored on the line's newline rather
// than on each rune.
func IsLineFormat(key string) bool {
	_, ok := lineFormats[key]
	return ok
}

// isUnset reports whether v clears a format.
func isUnset(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	default:
		return false
	}
}

func splitAttributes(attrs delta.Attributes) (inline, line delta.Attributes) {
	for k, v := range attrs {
		if IsLineFormat(k) {
			if line == nil {
				line = delta.Attributes{}
			}
			line[k] = v
			continue
		}
		if inline == nil {
			inline = delta.Attributes{}
		}
		inline[k] = v
	}
	return inline, line
}

// applyAttributes merges patch into base; unset values remove keys.
func applyAttributes(base, patch delta.Attributes) delta.Attributes {
	if len(patch) == 0 {
		return base
	}
	out := base.Clone()
	if out == nil {
		out = delta.Attributes{}
	}
	for k, v := range patch {
		if isUnset(v) {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Format returns the formats shared by every rune in r.
//
// For a collapsed range the inline formats of the rune before the cursor
// apply, merged with the formats of the line holding the cursor.
func (b *Buffer) Format(r Range) delta.Attributes {
	r = b.clampRange(r)

	var inline delta.Attributes
	if r.Length == 0 {
		if r.Index > 0 && b.cells[r.Index-1].r != '\n' {
			inline = b.cells[r.Index-1].attrs.Clone()
		}
	} else {
		first := true
		for _, c := range b.cells[r.Index:r.End()] {
			if c.r == '\n' {
				continue
			}
			if first {
				inline = c.attrs.Clone()
				first = false
				continue
			}
			inline = intersect(inline, c.attrs)
		}
	}

	var line delta.Attributes
	first := true
	for _, nl := range b.lineEnds(r) {
		attrs := b.cells[nl].attrs
		if first {
			line = attrs.Clone()
			first = false
			continue
		}
		line = intersect(line, attrs)
	}

	out := delta.Attributes{}
	for k, v := range inline {
		out[k] = v
	}
	for k, v := range line {
		out[k] = v
	}
	return out
}

func intersect(a, b delta.Attributes) delta.Attributes {
	var out delta.Attributes
	for k, v := range a {
		if w, ok := b[k]; ok && w == v {
			if out == nil {
				out = delta.Attributes{}
			}
			out[k] = v
		}
	}
	return out
}

// lineEnds returns the newline offsets of every line r touches.
func (b *Buffer) lineEnds(r Range) []int {
	var out []int
	i := r.Index
	for {
		for i < len(b.cells) && b.cells[i].r != '\n' {
			i++
		}
		if i >= len(b.cells) {
			break
		}
		out = append(out, i)
		if i >= r.End()-1 || i >= len(b.cells)-1 {
			break
		}
		i++
	}
	return out
}
