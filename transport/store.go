// Package transport moves harvested activation state between the pause and
// resume sides of a handoff. Stores are keyed by activation ID; the entries
// under one ID are the staging store's harvested key→bytes map.
package transport

import "context"

// Entry is one harvested key/value pair. Keys are caller-defined strings
// with no reserved prefixes or escaping rules.
type Entry struct {
	Key   string `json:"key"`
	Value []byte `json:"value"`
}

// Store persists harvested state across the pause boundary. Implementations
// are stateless — they perform I/O on each call without caching.
type Store interface {
	// List returns the activation IDs with stored state.
	List(ctx context.Context) ([]string, error)
	// Load retrieves the entries harvested for an activation.
	Load(ctx context.Context, activationID string) ([]Entry, error)
	// Save persists harvested entries for an activation, replacing any
	// previously stored state for the same ID.
	Save(ctx context.Context, activationID string, entries []Entry) error
	// Delete removes an activation's stored state. Missing IDs are ignored.
	Delete(ctx context.Context, activationID string) error
}
