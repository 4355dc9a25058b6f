package buffer

import "github.com/iw2rmb/zinc/delta"

// SetContents replaces the whole document with the inserts of d. Retains
// and deletes in d are ignored. A trailing newline is added when d does not
// end with one, and the selection collapses to 0. The change is one undo
// step.
func (b *Buffer) SetContents(d delta.Delta, src Source) {
	var cells []cell
	for _, op := range d.Ops {
		if op.IsInsert() {
			cells = append(cells, cellsFromText(op.Insert, op.Attributes)...)
		}
	}
	if n := len(cells); n == 0 || cells[n-1].r != '\n' {
		cells = append(cells, cell{r: '\n'})
	}

	prev := b.snapshot()
	old := contentsOf(b.cells)
	b.cells = cells
	if b.sel.active {
		b.sel.r = Range{}
	}
	b.version++

	b.recordUndo(prev)
	b.emitText(diffCells(prev.cells, b.cells), old, src)
	b.emitSelection(prev.sel, src)
}
