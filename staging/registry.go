package staging

import (
	"context"
	"slices"
	"sync"
)

// Callback is invoked by the driver when the activation is pausing. A
// callback typically calls Persist or PersistValue; it may suspend internally
// (I/O, serialization), and the driver awaits its completion before moving to
// the next one.
type Callback func(ctx context.Context) error

type registration struct {
	cb Callback
}

// Registry is the ordered collection of pause callbacks for one activation.
// It never invokes callbacks itself — the driver snapshots them via Callbacks
// at pause time. Registration and disposal are safe for concurrent use;
// removal is by entry identity, so disposing one subscription never shifts
// another's position.
type Registry struct {
	mu      sync.Mutex
	entries []*registration
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterOnPausing appends cb to the registry and returns a Subscription
// that revokes this exact registration. Returns ErrNilCallback for a nil
// callback.
func (r *Registry) RegisterOnPausing(cb Callback) (*Subscription, error) {
	if cb == nil {
		return nil, ErrNilCallback
	}

	reg := &registration{cb: cb}
	r.mu.Lock()
	r.entries = append(r.entries, reg)
	r.mu.Unlock()

	return &Subscription{registry: r, entry: reg}, nil
}

// Callbacks returns the registered callbacks in registration order. The
// driver invokes each in sequence, awaiting completion; the registry performs
// no error suppression of its own.
func (r *Registry) Callbacks() []Callback {
	r.mu.Lock()
	defer r.mu.Unlock()

	cbs := make([]Callback, len(r.entries))
	for i, reg := range r.entries {
		cbs[i] = reg.cb
	}
	return cbs
}

// Len returns the number of active registrations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) remove(target *registration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, reg := range r.entries {
		if reg == target {
			r.entries = slices.Delete(r.entries, i, i+1)
			return
		}
	}
}

// Subscription revokes a single pause callback registration.
type Subscription struct {
	registry *Registry
	entry    *registration
}

// Dispose removes the subscribed callback from the registry if it is still
// present. Idempotent: disposing twice, or after the driver has already
// snapshotted the callbacks, has no observable effect.
func (s *Subscription) Dispose() {
	if s == nil || s.registry == nil {
		return
	}
	s.registry.remove(s.entry)
}
