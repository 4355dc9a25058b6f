package delta

import "math"

const infinity = math.MaxInt

// Compose returns a delta equivalent to applying a then b.
func Compose(a, b Delta) Delta {
	ia := newIterator(a.Ops)
	ib := newIterator(b.Ops)
	out := New()

	for ia.hasNext() || ib.hasNext() {
		switch {
		case ib.peekKind() == kindInsert:
			out = out.push(ib.next(infinity))
		case ia.peekKind() == kindDelete:
			out = out.push(ia.next(infinity))
		default:
			n := min(ia.peekLen(), ib.peekLen())
			opA := ia.next(n)
			opB := ib.next(n)
			switch {
			case opB.IsRetain():
				op := Op{Retain: n}
				if opA.IsInsert() {
					op = Op{Insert: opA.Insert}
				}
				op.Attributes = composeAttributes(opA.Attributes, opB.Attributes, opA.IsRetain())
				out = out.push(op)
			case opB.IsDelete() && opA.IsRetain():
				out = out.push(opB)
			}
		}
	}
	return out.Chop()
}

func composeAttributes(a, b Attributes, keepNil bool) Attributes {
	out := Attributes{}
	for k, v := range b {
		if v == nil && !keepNil {
			continue
		}
		out[k] = v
	}
	for k, v := range a {
		if _, ok := b[k]; !ok {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

type opKind uint8

const (
	kindRetain opKind = iota
	kindInsert
	kindDelete
)

type iterator struct {
	ops    []Op
	index  int
	offset int
}

func newIterator(ops []Op) *iterator {
	return &iterator{ops: ops}
}

func (it *iterator) hasNext() bool {
	return it.peekLen() < infinity
}

func (it *iterator) peekLen() int {
	if it.index >= len(it.ops) {
		return infinity
	}
	return it.ops[it.index].Len() - it.offset
}

func (it *iterator) peekKind() opKind {
	if it.index >= len(it.ops) {
		return kindRetain
	}
	op := it.ops[it.index]
	switch {
	case op.IsInsert():
		return kindInsert
	case op.IsDelete():
		return kindDelete
	default:
		return kindRetain
	}
}

// next consumes up to n units of the current op.
func (it *iterator) next(n int) Op {
	if it.index >= len(it.ops) {
		return Op{Retain: n}
	}
	op := it.ops[it.index]
	offset := it.offset
	remaining := op.Len() - offset
	if n >= remaining {
		n = remaining
		it.index++
		it.offset = 0
	} else {
		it.offset += n
	}

	switch {
	case op.IsDelete():
		return Op{Delete: n}
	case op.IsRetain():
		return Op{Retain: n, Attributes: op.Attributes}
	default:
		runes := []rune(op.Insert)
		return Op{Insert: string(runes[offset : offset+n]), Attributes: op.Attributes}
	}
}
