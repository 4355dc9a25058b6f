package trigger

import "sync"

// Registry tracks triggers per editable surface. At most one trigger per
// surface ID is open; opening another closes the first. Surfaces with
// different IDs never interfere.
type Registry struct {
	mu      sync.Mutex
	members map[string][]*Trigger
	open    map[string]*Trigger
}

// DefaultRegistry is used when a Config has none.
var DefaultRegistry = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{
		members: make(map[string][]*Trigger),
		open:    make(map[string]*Trigger),
	}
}

// Open returns the open trigger for a surface, if any.
func (r *Registry) Open(id string) (*Trigger, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.open[id]
	return t, ok
}

// Triggers returns the triggers registered for a surface.
func (r *Registry) Triggers(id string) []*Trigger {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*Trigger(nil), r.members[id]...)
}

func (r *Registry) add(t *Trigger) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.members[t.cfg.ID] = append(r.members[t.cfg.ID], t)
}

func (r *Registry) remove(t *Trigger) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ms := r.members[t.cfg.ID]
	for i, m := range ms {
		if m == t {
			r.members[t.cfg.ID] = append(ms[:i:i], ms[i+1:]...)
			break
		}
	}
	if len(r.members[t.cfg.ID]) == 0 {
		delete(r.members, t.cfg.ID)
	}
	if r.open[t.cfg.ID] == t {
		delete(r.open, t.cfg.ID)
	}
}

// claim marks t open for its surface and closes the previous holder.
func (r *Registry) claim(t *Trigger) {
	r.mu.Lock()
	prev := r.open[t.cfg.ID]
	r.open[t.cfg.ID] = t
	r.mu.Unlock()

	if prev != nil && prev != t {
		prev.close()
	}
}

func (r *Registry) release(t *Trigger) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.open[t.cfg.ID] == t {
		delete(r.open, t.cfg.ID)
	}
}
