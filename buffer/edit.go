package buffer

import (
	"slices"

	"github.com/iw2rmb/zinc/delta"
)

// InsertText inserts text at index with attrs.
func (b *Buffer) InsertText(index int, text string, attrs delta.Attributes, src Source) delta.Delta {
	return b.UpdateContents(delta.New().Retain(index, nil).Insert(text, attrs), src)
}

// DeleteText deletes length runes starting at index. The trailing newline is
// never removed.
func (b *Buffer) DeleteText(index, length int, src Source) delta.Delta {
	r := b.clampRange(Range{Index: index, Length: length})
	return b.UpdateContents(delta.New().Retain(r.Index, nil).Delete(r.Length), src)
}

// FormatText sets key to value on [index, index+length). Line formats are
// routed to FormatLine. An unset value (nil, false, "") removes the format.
func (b *Buffer) FormatText(index, length int, key string, value any, src Source) delta.Delta {
	if IsLineFormat(key) {
		return b.FormatLine(index, length, key, value, src)
	}
	r := b.clampRange(Range{Index: index, Length: length})
	if r.Length == 0 {
		return delta.Delta{}
	}
	d := delta.New().Retain(r.Index, nil).Retain(r.Length, delta.Attributes{key: formatValue(value)})
	return b.UpdateContents(d, src)
}

// FormatLine sets a line format on every line touched by [index, index+length).
func (b *Buffer) FormatLine(index, length int, key string, value any, src Source) delta.Delta {
	r := b.clampRange(Range{Index: index, Length: length})
	d := delta.New()
	pos := 0
	for _, nl := range b.lineEnds(r) {
		d = d.Retain(nl-pos, nil).Retain(1, delta.Attributes{key: formatValue(value)})
		pos = nl + 1
	}
	return b.UpdateContents(d, src)
}

// RemoveFormat clears inline formats in the range and line formats of every
// line it touches.
func (b *Buffer) RemoveFormat(index, length int, src Source) delta.Delta {
	r := b.clampRange(Range{Index: index, Length: length})

	inline := delta.New()
	if r.Length > 0 {
		keys := map[string]struct{}{}
		for _, c := range b.cells[r.Index:r.End()] {
			if c.r == '\n' {
				continue
			}
			for k := range c.attrs {
				keys[k] = struct{}{}
			}
		}
		if len(keys) > 0 {
			patch := delta.Attributes{}
			for k := range keys {
				patch[k] = nil
			}
			inline = inline.Retain(r.Index, nil).Retain(r.Length, patch)
		}
	}

	line := delta.New()
	pos := 0
	for _, nl := range b.lineEnds(r) {
		if len(b.cells[nl].attrs) == 0 {
			continue
		}
		patch := delta.Attributes{}
		for k := range b.cells[nl].attrs {
			patch[k] = nil
		}
		line = line.Retain(nl-pos, nil).Retain(1, patch)
		pos = nl + 1
	}

	return b.UpdateContents(delta.Compose(inline, line), src)
}

// UpdateContents applies d to the document and returns the effective delta.
func (b *Buffer) UpdateContents(d delta.Delta, src Source) delta.Delta {
	if len(d.Ops) == 0 {
		return delta.Delta{}
	}

	prev := b.snapshot()
	old := contentsOf(b.cells)
	prevSel := b.sel

	applied, changed := b.applyOps(d)
	if !changed {
		return delta.Delta{}
	}
	if b.sel.active {
		b.sel.r = b.clampSelection(transformRange(b.sel.r, applied))
	}
	b.version++

	if b.tx != nil {
		b.tx.add(applied)
		return applied
	}

	b.recordUndo(prev)
	b.emitText(applied, old, src)
	b.emitSelection(prevSel, src)
	return applied
}

// SetSelection moves the selection. The range is clamped so that it never
// includes the trailing newline.
func (b *Buffer) SetSelection(index, length int, src Source) {
	prev := b.sel
	b.sel = selectionState{active: true, r: b.clampSelection(Range{Index: index, Length: length})}
	if prev == b.sel {
		return
	}
	b.version++
	if b.tx != nil {
		return
	}
	b.emitSelection(prev, src)
}

// Blur drops the selection; Selection reports ok=false afterwards.
func (b *Buffer) Blur(src Source) {
	prev := b.sel
	if !prev.active {
		return
	}
	b.sel = selectionState{}
	b.version++
	if b.tx != nil {
		return
	}
	b.emitSelection(prev, src)
}

func (b *Buffer) clampSelection(r Range) Range {
	if r.Length < 0 {
		r.Index += r.Length
		r.Length = -r.Length
	}
	last := len(b.cells) - 1
	r.Index = clampInt(r.Index, 0, last)
	r.Length = clampInt(r.Length, 0, last-r.Index)
	return r
}

func formatValue(v any) any {
	if isUnset(v) {
		return nil
	}
	return v
}

// applyOps mutates cells. Inserts past the trailing newline are placed
// before it and deletes never consume it.
func (b *Buffer) applyOps(d delta.Delta) (delta.Delta, bool) {
	applied := delta.New()
	changed := false
	i := 0

	for _, op := range d.Ops {
		switch {
		case op.IsInsert():
			at := i
			if at > len(b.cells)-1 {
				at = len(b.cells) - 1
				applied = backUp(applied, i-at)
			}
			ins := cellsFromText(op.Insert, op.Attributes)
			b.cells = slices.Insert(b.cells, at, ins...)
			applied = applied.Insert(op.Insert, op.Attributes)
			i = at + len(ins)
			changed = true

		case op.IsDelete():
			n := clampInt(op.Delete, 0, len(b.cells)-1-i)
			if n == 0 {
				continue
			}
			b.cells = slices.Delete(b.cells, i, i+n)
			applied = applied.Delete(n)
			changed = true

		case op.IsRetain():
			n := clampInt(op.Retain, 0, len(b.cells)-i)
			if n == 0 {
				continue
			}
			if len(op.Attributes) == 0 {
				applied = applied.Retain(n, nil)
				i += n
				continue
			}
			inline, line := splitAttributes(op.Attributes)
			// One retain per run of cells sharing the same patch: inline
			// keys for text runes, line keys for newlines.
			runStart, runLine := i, b.cells[i].r == '\n'
			flush := func(end int) {
				patch := inline
				if runLine {
					patch = line
				}
				applied = applied.Retain(end-runStart, patch)
			}
			for j := i; j < i+n; j++ {
				isLine := b.cells[j].r == '\n'
				if isLine != runLine {
					flush(j)
					runStart, runLine = j, isLine
				}
				patch := inline
				if isLine {
					patch = line
				}
				next := applyAttributes(b.cells[j].attrs, patch)
				if !next.Equal(b.cells[j].attrs) {
					changed = true
				}
				b.cells[j].attrs = next
			}
			flush(i + n)
			i += n
		}
	}
	return applied.Chop(), changed
}

// transformIndex shifts index through d. An insert at the index pushes it
// forward, so a cursor follows text typed at its position.
func transformIndex(index int, d delta.Delta) int {
	offset := 0
	for _, op := range d.Ops {
		if offset > index {
			break
		}
		n := op.Len()
		switch {
		case op.IsDelete():
			index -= min(n, index-offset)
			continue
		case op.IsInsert():
			index += n
		}
		offset += n
	}
	return index
}

func transformRange(r Range, d delta.Delta) Range {
	start := transformIndex(r.Index, d)
	end := transformIndex(r.End(), d)
	if r.Length == 0 {
		end = start
	}
	return Range{Index: start, Length: max(end-start, 0)}
}

// backUp shortens a trailing plain retain by n.
func backUp(d delta.Delta, n int) delta.Delta {
	if len(d.Ops) == 0 || n <= 0 {
		return d
	}
	last := d.Ops[len(d.Ops)-1]
	if !last.IsRetain() || len(last.Attributes) > 0 {
		return d
	}
	ops := append([]delta.Op(nil), d.Ops[:len(d.Ops)-1]...)
	if last.Retain > n {
		ops = append(ops, delta.Op{Retain: last.Retain - n})
	}
	return delta.Delta{Ops: ops}
}
