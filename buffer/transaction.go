package buffer

import "github.com/iw2rmb/zinc/delta"

type transaction struct {
	src    Source
	before bufferSnapshot
	old    delta.Delta
	delta  delta.Delta
}

func (tx *transaction) add(d delta.Delta) {
	tx.delta = delta.Compose(tx.delta, d)
}

// Transact runs fn as a single undo step. Events are held back until fn
// returns and are then emitted once: a TextChange carrying the composed
// delta, followed by a SelectionChange if the selection moved. Mutations
// inside fn may use any source; the events carry src.
//
// Nested calls join the outermost transaction. When fn returns an error the
// document is rolled back and no events fire.
func (b *Buffer) Transact(src Source, fn func() error) error {
	if b.tx != nil {
		return fn()
	}

	tx := &transaction{
		src:    src,
		before: b.snapshot(),
		old:    contentsOf(b.cells),
	}
	b.tx = tx

	err := fn()
	b.tx = nil
	if err != nil {
		b.restore(tx.before)
		b.version++
		return err
	}

	textChanged := len(tx.delta.Ops) > 0
	if textChanged {
		b.recordUndo(tx.before)
		b.emitText(tx.delta, tx.old, src)
	}
	b.emitSelection(tx.before.sel, src)
	return nil
}
