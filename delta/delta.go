// Package delta implements the op sequence used to describe document
// content and mutations.
//
// A Delta is an ordered list of insert, retain and delete operations.
// Lengths are measured in runes.
package delta

import (
	"maps"
	"unicode/utf8"
)

// Attributes holds formats for an insert or retain op.
//
// Toggle formats carry bool values, multi-value formats carry strings.
// A nil value on a retain removes the format.
type Attributes map[string]any

// Clone returns a shallow copy of a.
func (a Attributes) Clone() Attributes {
	if len(a) == 0 {
		return nil
	}
	return maps.Clone(a)
}

// Equal reports whether a and b hold the same keys and values.
func (a Attributes) Equal(b Attributes) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || v != w {
			return false
		}
	}
	return true
}

// Op is a single operation. Exactly one of Insert, Retain or Delete is set.
type Op struct {
	Insert     string
	Retain     int
	Delete     int
	Attributes Attributes
}

// Len returns the rune length the op spans.
func (o Op) Len() int {
	switch {
	case o.Delete > 0:
		return o.Delete
	case o.Retain > 0:
		return o.Retain
	default:
		return utf8.RuneCountInString(o.Insert)
	}
}

// IsInsert reports whether o inserts text.
func (o Op) IsInsert() bool { return o.Insert != "" }

// IsRetain reports whether o retains text.
func (o Op) IsRetain() bool { return o.Insert == "" && o.Retain > 0 }

// IsDelete reports whether o deletes text.
func (o Op) IsDelete() bool { return o.Insert == "" && o.Retain == 0 && o.Delete > 0 }

// Delta is an op sequence.
type Delta struct {
	Ops []Op
}

// New returns an empty delta.
func New() Delta { return Delta{} }

// Insert appends an insert op.
func (d Delta) Insert(text string, attrs Attributes) Delta {
	if text == "" {
		return d
	}
	return d.push(Op{Insert: text, Attributes: attrs.Clone()})
}

// Retain appends a retain op.
func (d Delta) Retain(n int, attrs Attributes) Delta {
	if n <= 0 {
		return d
	}
	return d.push(Op{Retain: n, Attributes: attrs.Clone()})
}

// Delete appends a delete op.
func (d Delta) Delete(n int) Delta {
	if n <= 0 {
		return d
	}
	return d.push(Op{Delete: n})
}

// Concat appends all ops of other.
func (d Delta) Concat(other Delta) Delta {
	for _, op := range other.Ops {
		d = d.push(op)
	}
	return d
}

// Length returns the total rune length spanned by d.
func (d Delta) Length() int {
	n := 0
	for _, op := range d.Ops {
		n += op.Len()
	}
	return n
}

// InsertLength returns the rune length of inserted text only.
func (d Delta) InsertLength() int {
	n := 0
	for _, op := range d.Ops {
		if op.IsInsert() {
			n += op.Len()
		}
	}
	return n
}

// Chop removes a trailing plain retain.
func (d Delta) Chop() Delta {
	if len(d.Ops) == 0 {
		return d
	}
	last := d.Ops[len(d.Ops)-1]
	if last.IsRetain() && len(last.Attributes) == 0 {
		d.Ops = append([]Op(nil), d.Ops[:len(d.Ops)-1]...)
	}
	return d
}

// Text concatenates the inserted text of d.
func (d Delta) Text() string {
	var out []byte
	for _, op := range d.Ops {
		if op.IsInsert() {
			out = append(out, op.Insert...)
		}
	}
	return string(out)
}

// push appends op, merging it into the previous op when both share a kind
// and attributes. Inserts are kept before deletes at the same position.
func (d Delta) push(op Op) Delta {
	ops := append([]Op(nil), d.Ops...)
	n := len(ops)
	if n == 0 {
		return Delta{Ops: append(ops, op)}
	}

	last := &ops[n-1]
	switch {
	case op.IsDelete() && last.IsDelete():
		last.Delete += op.Delete
		return Delta{Ops: ops}
	case op.IsInsert() && last.IsDelete():
		if n >= 2 && ops[n-2].IsInsert() && ops[n-2].Attributes.Equal(op.Attributes) {
			ops[n-2].Insert += op.Insert
			return Delta{Ops: ops}
		}
		ops = append(ops, Op{})
		copy(ops[n:], ops[n-1:])
		ops[n-1] = op
		return Delta{Ops: ops}
	case op.IsInsert() && last.IsInsert() && last.Attributes.Equal(op.Attributes):
		last.Insert += op.Insert
		return Delta{Ops: ops}
	case op.IsRetain() && last.IsRetain() && last.Attributes.Equal(op.Attributes):
		last.Retain += op.Retain
		return Delta{Ops: ops}
	}
	return Delta{Ops: append(ops, op)}
}
