package buffer

import "github.com/iw2rmb/zinc/delta"

type bufferSnapshot struct {
	cells []cell
	sel   selectionState
}

type historyState struct {
	undo []bufferSnapshot
	redo []bufferSnapshot
}

func (b *Buffer) snapshot() bufferSnapshot {
	cells := make([]cell, len(b.cells))
	for i, c := range b.cells {
		cells[i] = cell{r: c.r, attrs: c.attrs.Clone()}
	}
	return bufferSnapshot{cells: cells, sel: b.sel}
}

func (b *Buffer) restore(s bufferSnapshot) {
	b.cells = s.cells
	b.sel = s.sel
	if b.sel.active {
		b.sel.r = b.clampSelection(b.sel.r)
	}
}

func (b *Buffer) recordUndo(prev bufferSnapshot) {
	limit := b.opt.HistoryLimit
	if limit <= 0 {
		return
	}

	b.hist.undo = append(b.hist.undo, prev)
	if len(b.hist.undo) > limit {
		b.hist.undo = b.hist.undo[len(b.hist.undo)-limit:]
	}
	b.hist.redo = nil
}

func (b *Buffer) CanUndo() bool { return len(b.hist.undo) > 0 }

func (b *Buffer) CanRedo() bool { return len(b.hist.redo) > 0 }

// Undo reverts the most recent undo step. A transaction is one step.
func (b *Buffer) Undo() bool {
	if len(b.hist.undo) == 0 || b.tx != nil {
		return false
	}

	cur := b.snapshot()
	i := len(b.hist.undo) - 1
	prev := b.hist.undo[i]
	b.hist.undo = b.hist.undo[:i]
	b.hist.redo = append(b.hist.redo, cur)

	b.swapTo(cur, prev)
	return true
}

func (b *Buffer) Redo() bool {
	if len(b.hist.redo) == 0 || b.tx != nil {
		return false
	}

	cur := b.snapshot()
	i := len(b.hist.redo) - 1
	next := b.hist.redo[i]
	b.hist.redo = b.hist.redo[:i]

	if limit := b.opt.HistoryLimit; limit > 0 {
		b.hist.undo = append(b.hist.undo, cur)
		if len(b.hist.undo) > limit {
			b.hist.undo = b.hist.undo[len(b.hist.undo)-limit:]
		}
	}

	b.swapTo(cur, next)
	return true
}

func (b *Buffer) swapTo(cur, next bufferSnapshot) {
	b.restore(next)
	b.version++
	b.emitText(diffCells(cur.cells, b.cells), contentsOf(cur.cells), SourceUser)
	b.emitSelection(cur.sel, SourceUser)
}

// diffCells returns a delta turning before into after by trimming the common
// prefix and suffix and replacing the middle.
func diffCells(before, after []cell) delta.Delta {
	prefix := 0
	for prefix < len(before) && prefix < len(after) && sameCell(before[prefix], after[prefix]) {
		prefix++
	}
	suffix := 0
	for suffix < len(before)-prefix && suffix < len(after)-prefix &&
		sameCell(before[len(before)-1-suffix], after[len(after)-1-suffix]) {
		suffix++
	}

	d := delta.New().Retain(prefix, nil).Delete(len(before) - prefix - suffix)
	return d.Concat(contentsOf(after[prefix : len(after)-suffix]))
}

func sameCell(a, b cell) bool {
	return a.r == b.r && a.attrs.Equal(b.attrs)
}

// ClearHistory drops all undo and redo steps.
func (b *Buffer) ClearHistory() {
	b.hist = historyState{}
}
