package session

import (
	"sort"
	"sync"
)

// Handle delivers outbound payloads to one connection. Send must not block
// on the network; delivery failures are the transport's concern.
type Handle interface {
	Send(data []byte) error
}

// Registry maps connected client identifiers to their handles. At most one
// handle is registered per identifier.
type Registry struct {
	mu      sync.RWMutex
	handles map[string]Handle
}

func NewRegistry() *Registry {
	return &Registry{handles: map[string]Handle{}}
}

// Register adds the handle for id. It fails with ErrInvalidIdentifier for an
// empty id and ErrAlreadyConnected if id already has a handle.
func (r *Registry) Register(id string, h Handle) error {
	if id == "" {
		return ErrInvalidIdentifier
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handles[id]; ok {
		return ErrAlreadyConnected
	}
	r.handles[id] = h
	return nil
}

// Unregister removes id only while it still maps to h, so a rejected
// duplicate connection cannot evict the live one.
func (r *Registry) Unregister(id string, h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.handles[id]
	if !ok || cur != h {
		return false
	}
	delete(r.handles, id)
	return true
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.handles[id]
	return ok
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.handles)
}

// ForEach calls fn for every registration in identifier order. The set is
// copied first, so fn may register or unregister without affecting the pass.
func (r *Registry) ForEach(fn func(id string, h Handle)) {
	for _, e := range r.snapshot() {
		fn(e.id, e.handle)
	}
}

type entry struct {
	id     string
	handle Handle
}

func (r *Registry) snapshot() []entry {
	r.mu.RLock()
	entries := make([]entry, 0, len(r.handles))
	for id, h := range r.handles {
		entries = append(entries, entry{id: id, handle: h})
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
	return entries
}
