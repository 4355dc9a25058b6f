// Package toplayer tracks which transient overlays are open.
//
// The registry is advisory: it never closes anything. Components poll
// IsOpen to decide whether to show themselves, e.g. a tooltip stays hidden
// while a menu is open.
package toplayer

import "sync"

// Kind is an overlay category.
type Kind uint8

const (
	KindMenu Kind = iota
	KindTooltip
)

func (k Kind) String() string {
	switch k {
	case KindMenu:
		return "menu"
	case KindTooltip:
		return "tooltip"
	default:
		return "unknown"
	}
}

// Registration identifies one mounted overlay.
type Registration struct {
	ID   string
	Kind Kind
}

// Manager holds one set of open overlays per kind. Safe for concurrent use.
type Manager struct {
	mu   sync.Mutex
	open map[Kind]map[string]struct{}
}

// Default is shared by editors that are not given their own manager.
var Default = New()

func New() *Manager {
	return &Manager{open: make(map[Kind]map[string]struct{})}
}

// Register records r as open. Registering twice is a no-op.
func (m *Manager) Register(r Registration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set := m.open[r.Kind]
	if set == nil {
		set = make(map[string]struct{})
		m.open[r.Kind] = set
	}
	set[r.ID] = struct{}{}
}

// Unregister forgets r. Unknown registrations are ignored.
func (m *Manager) Unregister(r Registration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.open[r.Kind], r.ID)
}

// IsOpen reports whether any overlay of kind is registered.
func (m *Manager) IsOpen(kind Kind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.open[kind]) > 0
}

// Count returns the number of open overlays of kind.
func (m *Manager) Count(kind Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.open[kind])
}
