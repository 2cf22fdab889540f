package adapter

import (
	"sort"
	"sync"
)

// Adapter is an upstream provider the service talks to (OCR, geocoding,
// directions, weather).
type Adapter interface {
	ID() string
	// Mock reports whether the adapter serves canned data instead of calling out.
	Mock() bool
}

// ClosableAdapter is an optional interface for adapters that need cleanup.
type ClosableAdapter interface {
	Adapter
	Close() error
}

// Registry holds registered adapters and provides lookup and registration methods.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry creates a new adapter registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register registers an adapter with the registry, replacing any adapter with the same ID.
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.ID()] = a
}

// Get retrieves a registered adapter by ID.
func (r *Registry) Get(id string) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[id]
	return a, ok
}

// All returns every registered adapter ordered by ID.
func (r *Registry) All() []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Adapter, 0, len(r.adapters))
	for _, a := range r.adapters {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Status maps each adapter ID to "mock" or "live".
func (r *Registry) Status() map[string]string {
	status := make(map[string]string)
	for _, a := range r.All() {
		if a.Mock() {
			status[a.ID()] = "mock"
		} else {
			status[a.ID()] = "live"
		}
	}
	return status
}

// CloseAll closes all adapters that support it and returns the first error.
func (r *Registry) CloseAll() error {
	var firstErr error
	for _, a := range r.All() {
		if ca, ok := a.(ClosableAdapter); ok {
			if err := ca.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
