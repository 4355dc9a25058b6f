package buffer

import "github.com/iw2rmb/zinc/delta"

// EventKind identifies a document event.
type EventKind uint8

const (
	TextChange EventKind = iota
	SelectionChange
	// EditorChange fires after every TextChange and SelectionChange.
	EditorChange
)

func (k EventKind) String() string {
	switch k {
	case TextChange:
		return "text-change"
	case SelectionChange:
		return "selection-change"
	case EditorChange:
		return "editor-change"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners.
//
// For text changes Delta describes the mutation and OldDelta the document
// contents before it. For selection changes Range/OldRange carry the new
// and previous selection; HasRange is false when the selection was cleared.
type Event struct {
	Kind   EventKind
	Source Source

	Delta    delta.Delta
	OldDelta delta.Delta

	// Cause is TextChange or SelectionChange for EditorChange events.
	Cause       EventKind
	Range       Range
	OldRange    Range
	HasRange    bool
	HadOldRange bool
}

// Listener receives document events.
type Listener func(Event)

type listenerEntry struct {
	id uint64
	fn Listener
}

type eventBus struct {
	nextID    uint64
	listeners map[EventKind][]listenerEntry
}

// On registers fn for kind and returns a function that removes it.
// Listeners run in registration order.
func (b *Buffer) On(kind EventKind, fn Listener) (off func()) {
	if fn == nil {
		return func() {}
	}
	if b.ev.listeners == nil {
		b.ev.listeners = make(map[EventKind][]listenerEntry)
	}
	b.ev.nextID++
	id := b.ev.nextID
	b.ev.listeners[kind] = append(b.ev.listeners[kind], listenerEntry{id: id, fn: fn})
	return func() {
		entries := b.ev.listeners[kind]
		for i, e := range entries {
			if e.id == id {
				b.ev.listeners[kind] = append(entries[:i:i], entries[i+1:]...)
				return
			}
		}
	}
}

func (b *Buffer) emit(ev Event) {
	if ev.Source == SourceSilent {
		return
	}
	// Snapshot so listeners may unsubscribe while being called.
	entries := append([]listenerEntry(nil), b.ev.listeners[ev.Kind]...)
	for _, e := range entries {
		e.fn(ev)
	}
	if ev.Kind == EditorChange {
		return
	}
	editor := ev
	editor.Kind = EditorChange
	editor.Cause = ev.Kind
	for _, e := range append([]listenerEntry(nil), b.ev.listeners[EditorChange]...) {
		e.fn(editor)
	}
}

func (b *Buffer) emitText(d, old delta.Delta, src Source) {
	b.emit(Event{Kind: TextChange, Source: src, Delta: d, OldDelta: old})
}

func (b *Buffer) emitSelection(prev selectionState, src Source) {
	if prev == b.sel {
		return
	}
	b.emit(Event{
		Kind:        SelectionChange,
		Source:      src,
		Range:       b.sel.r,
		HasRange:    b.sel.active,
		OldRange:    prev.r,
		HadOldRange: prev.active,
	})
}
