// Package staging implements the per-activation key/value handoff store. It
// holds two maps: a read side populated once per activation with the previous
// cycle's harvested bytes and consumed destructively via Take, and a write
// side of deferred-write sinks filled via Persist just before a pause.
//
// A Store belongs to exactly one activation. It performs no internal locking;
// the driver constructs one store per session and serializes access.
package staging

import (
	"fmt"
	"io"
	"slices"

	"github.com/pausepoint/handoff/codec"
)

// Store stages byte state across a pause/resume boundary. Construct one per
// activation with New and discard it when the activation ends.
type Store struct {
	codec    codec.Codec
	existing map[string][]byte // read side, nil until initialized
	staged   map[string]*Sink  // write side, one sink per key per cycle
}

// New creates an empty Store. The codec backs PersistValue and TakeValue
// only; a nil codec leaves the raw Persist/Take primitives fully usable.
func New(c codec.Codec) *Store {
	return &Store{
		codec:  c,
		staged: make(map[string]*Sink),
	}
}

// InitializeExistingState injects the previous cycle's harvested state as
// this activation's read side. Called exactly once by the driver before any
// consumer runs. A second call returns ErrAlreadyInitialized regardless of
// its argument; a first call with a nil map returns ErrNilState. The map and
// its byte slices are copied, so later driver-side mutation cannot reach
// consumers.
func (s *Store) InitializeExistingState(state map[string][]byte) error {
	if s.existing != nil {
		return ErrAlreadyInitialized
	}
	if state == nil {
		return ErrNilState
	}
	existing := make(map[string][]byte, len(state))
	for key, value := range state {
		existing[key] = slices.Clone(value)
	}
	s.existing = existing
	return nil
}

// Take looks up key on the read side and removes it, so a second Take for
// the same key reports not-found. A Take before the driver has supplied any
// state is not an error — it reports not-found, supporting speculative
// lookups. Returns ErrEmptyKey for an empty key.
func (s *Store) Take(key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	if s.existing == nil {
		return nil, false, nil
	}
	data, ok := s.existing[key]
	if !ok {
		return nil, false, nil
	}
	delete(s.existing, key)
	return data, true, nil
}

// Persist allocates a sink under key, runs write synchronously against it,
// and seals it. The sink becomes visible to Harvest only after Persist
// returns, so no partial entry is ever harvestable. Persisting a key twice
// in one cycle is a collaborator bug and returns ErrDuplicateKey; a failing
// write leaves no entry behind.
func (s *Store) Persist(key string, write func(w io.Writer) error) error {
	if key == "" {
		return ErrEmptyKey
	}
	if write == nil {
		return ErrNilWriter
	}
	if _, exists := s.staged[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
	}

	sink := newSink()
	s.staged[key] = sink
	if err := write(sink); err != nil {
		delete(s.staged, key)
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return sink.Close()
}

// PersistValue encodes value with the store's codec and stages the result
// under key. Same duplicate-key and empty-key failures as Persist.
func (s *Store) PersistValue(key string, value any) error {
	if s.codec == nil {
		return ErrNilCodec
	}
	return s.Persist(key, func(w io.Writer) error {
		data, err := s.codec.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		_, err = w.Write(data)
		return err
	})
}

// TakeValue takes key's bytes from the read side and decodes them into
// value, which must be a pointer. Not-found is reported as (false, nil);
// malformed bytes are reported as an ErrDecode-wrapped error, letting the
// caller decide whether corrupt and missing state are equivalent. Like Take,
// the entry is removed even when decoding fails.
func (s *Store) TakeValue(key string, value any) (bool, error) {
	if s.codec == nil {
		return false, ErrNilCodec
	}
	data, ok, err := s.Take(key)
	if err != nil || !ok {
		return false, err
	}
	if err := s.codec.Unmarshal(data, value); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrDecode, key, err)
	}
	return true, nil
}

// Harvest collects the completed write-side sinks as a key→bytes map for
// transport to the next activation. Every sink is sealed by the time Persist
// returns, so all staged entries are valid to harvest. The returned slices
// alias sink buffers and must be treated as read-only.
func (s *Store) Harvest() map[string][]byte {
	harvested := make(map[string][]byte, len(s.staged))
	for key, sink := range s.staged {
		harvested[key] = sink.Bytes()
	}
	return harvested
}
