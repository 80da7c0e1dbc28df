// Package handoff composes the staging store, pause callback registry, and
// transport store into a per-activation driver.
//
// The driver initializes from configuration via New, creating a fresh
// store/registry pair per activation. Functional options allow overrides of
// any subsystem. The pair is threaded to collaborators explicitly — there is
// no ambient or global lookup.
//
//	m, err := handoff.New(&cfg)
//	sub, _ := m.OnPausing().RegisterOnPausing(saveState)
//	err = m.Pause(ctx)
package handoff

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pausepoint/handoff/codec"
	"github.com/pausepoint/handoff/observability"
	"github.com/pausepoint/handoff/staging"
	"github.com/pausepoint/handoff/transport"
)

// Option configures a Manager after config-driven initialization.
// Applied by New before the staging store is constructed — overrides replace
// config-created defaults.
type Option func(*Manager)

// WithCodec overrides the config-selected codec.
func WithCodec(c codec.Codec) Option {
	return func(m *Manager) { m.codec = c }
}

// WithTransport overrides the config-created transport store.
func WithTransport(s transport.Store) Option {
	return func(m *Manager) { m.transport = s }
}

// WithObserver overrides the default NoOpObserver.
func WithObserver(o observability.Observer) Option {
	return func(m *Manager) { m.observer = o }
}

// Manager drives one activation: it owns the staging store and pause
// callback registry for that activation, invokes the callbacks at pause
// time, and moves harvested state through the transport store. Like the
// staging store it manages, a Manager is bound to a single activation and
// is not safe for concurrent use.
type Manager struct {
	id        string
	codec     codec.Codec
	state     *staging.Store
	registry  *staging.Registry
	transport transport.Store
	observer  observability.Observer
	paused    bool
}

// New creates a Manager from configuration with a fresh store/registry pair
// and a unique UUIDv7 activation ID. Functional options applied after
// initialization can override the codec, transport, or observer.
func New(cfg *Config, opts ...Option) (*Manager, error) {
	c, err := codec.Get(cfg.Codec)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve codec: %w", err)
	}

	store, err := transport.NewStore(&cfg.Transport)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport store: %w", err)
	}

	m := &Manager{
		id:        uuid.Must(uuid.NewV7()).String(),
		codec:     c,
		transport: store,
		observer:  observability.NoOpObserver{},
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.observer == nil {
		m.observer = observability.NoOpObserver{}
	}

	m.state = staging.New(m.codec)
	m.registry = staging.NewRegistry()
	return m, nil
}

// ID returns the unique activation identifier. Harvested state is stored
// under this ID for the next activation to resume from.
func (m *Manager) ID() string {
	return m.id
}

// State returns the activation's staging store.
func (m *Manager) State() *staging.Store {
	return m.state
}

// OnPausing returns the activation's pause callback registry.
func (m *Manager) OnPausing() *staging.Registry {
	return m.registry
}

// Pause drives the pause sequence: it invokes every registered callback in
// registration order, awaiting each before the next, then harvests the
// write-side map and saves it through the transport store under the
// activation ID. A failing callback does not stop the sequence; all failures
// are aggregated into the returned error. Returns ErrAlreadyPaused on a
// second call.
func (m *Manager) Pause(ctx context.Context) error {
	if m.paused {
		return ErrAlreadyPaused
	}
	m.paused = true

	callbacks := m.registry.Callbacks()
	m.emit(ctx, EventPauseStart, observability.LevelVerbose, map[string]any{
		"callbacks": len(callbacks),
	})

	var errs []error
	for i, cb := range callbacks {
		if err := cb(ctx); err != nil {
			errs = append(errs, fmt.Errorf("pause callback %d: %w", i, err))
			m.emit(ctx, EventCallbackError, observability.LevelError, map[string]any{
				"callback": i,
				"error":    err.Error(),
			})
		}
	}

	harvested := m.state.Harvest()
	entries := make([]transport.Entry, 0, len(harvested))
	for key, value := range harvested {
		entries = append(entries, transport.Entry{Key: key, Value: value})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	if err := m.transport.Save(ctx, m.id, entries); err != nil {
		errs = append(errs, fmt.Errorf("save harvested state: %w", err))
	}

	m.emit(ctx, EventPauseComplete, observability.LevelInfo, map[string]any{
		"keys":   len(entries),
		"errors": len(errs),
	})

	return errors.Join(errs...)
}

// Resume loads the state harvested under activationID from the transport
// store, initializes this activation's read side with it exactly once, and
// removes the stored harvest so no second activation can consume it.
func (m *Manager) Resume(ctx context.Context, activationID string) error {
	entries, err := m.transport.Load(ctx, activationID)
	if err != nil {
		return fmt.Errorf("load activation %s: %w", activationID, err)
	}

	state := make(map[string][]byte, len(entries))
	for _, e := range entries {
		state[e.Key] = e.Value
	}
	if err := m.state.InitializeExistingState(state); err != nil {
		return err
	}

	if err := m.transport.Delete(ctx, activationID); err != nil {
		return fmt.Errorf("delete consumed activation %s: %w", activationID, err)
	}

	m.emit(ctx, EventResume, observability.LevelInfo, map[string]any{
		"from": activationID,
		"keys": len(state),
	})
	return nil
}

func (m *Manager) emit(ctx context.Context, t observability.EventType, level observability.Level, data map[string]any) {
	m.observer.OnEvent(ctx, observability.Event{
		Type:      t,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "handoff",
		Data:      data,
	})
}
