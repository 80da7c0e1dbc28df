package transport

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
)

type memoryStore struct {
	harvests map[string][]Entry
	mu       sync.RWMutex
}

// NewMemoryStore creates a Store that holds harvests in process memory.
// Suitable for single-process handoffs and tests. Safe for concurrent use.
func NewMemoryStore() Store {
	return &memoryStore{
		harvests: make(map[string][]Entry),
	}
}

func (s *memoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.harvests))
	for id := range s.harvests {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *memoryStore) Load(_ context.Context, activationID string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, exists := s.harvests[activationID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrActivationNotFound, activationID)
	}
	return cloneEntries(entries), nil
}

func (s *memoryStore) Save(_ context.Context, activationID string, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.harvests[activationID] = cloneEntries(entries)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, activationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.harvests, activationID)
	return nil
}

func cloneEntries(entries []Entry) []Entry {
	copied := make([]Entry, len(entries))
	for i, e := range entries {
		copied[i] = Entry{Key: e.Key, Value: slices.Clone(e.Value)}
	}
	return copied
}
