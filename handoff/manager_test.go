package handoff_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/pausepoint/handoff/handoff"
	"github.com/pausepoint/handoff/observability"
	"github.com/pausepoint/handoff/transport"
)

func newManager(t *testing.T, opts ...handoff.Option) *handoff.Manager {
	t.Helper()
	cfg := handoff.DefaultConfig()
	m, err := handoff.New(&cfg, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestNew_UnknownCodec(t *testing.T) {
	cfg := handoff.DefaultConfig()
	cfg.Codec = "carrier-pigeon"

	if _, err := handoff.New(&cfg); err == nil {
		t.Error("New() error = nil, want unknown codec error")
	}
}

func TestNew_UniqueActivationIDs(t *testing.T) {
	first := newManager(t)
	second := newManager(t)

	if first.ID() == "" {
		t.Error("ID() is empty")
	}
	if first.ID() == second.ID() {
		t.Errorf("two managers share activation ID %q", first.ID())
	}
}

func TestManager_PauseResumeRoundTrip(t *testing.T) {
	shared := transport.NewMemoryStore()

	before := newManager(t, handoff.WithTransport(shared))
	if _, err := before.OnPausing().RegisterOnPausing(func(context.Context) error {
		return before.State().PersistValue("greeting", "hello")
	}); err != nil {
		t.Fatalf("RegisterOnPausing() error = %v", err)
	}
	if _, err := before.OnPausing().RegisterOnPausing(func(context.Context) error {
		return before.State().Persist("count", func(w io.Writer) error {
			_, err := w.Write([]byte{1, 2, 3})
			return err
		})
	}); err != nil {
		t.Fatalf("RegisterOnPausing() error = %v", err)
	}

	if err := before.Pause(context.Background()); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}

	after := newManager(t, handoff.WithTransport(shared))
	if err := after.Resume(context.Background(), before.ID()); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}

	var greeting string
	found, err := after.State().TakeValue("greeting", &greeting)
	if err != nil {
		t.Fatalf("TakeValue() error = %v", err)
	}
	if !found || greeting != "hello" {
		t.Errorf("TakeValue() = (%q, %v), want (hello, true)", greeting, found)
	}

	count, found, err := after.State().Take("count")
	if err != nil {
		t.Fatalf("Take() error = %v", err)
	}
	if !found || !bytes.Equal(count, []byte{1, 2, 3}) {
		t.Errorf("Take() = (%v, %v), want ([1 2 3], true)", count, found)
	}

	if _, found, _ := after.State().Take("count"); found {
		t.Error("second Take() found = true, want false")
	}
}

func TestManager_Resume_ConsumesHarvest(t *testing.T) {
	shared := transport.NewMemoryStore()

	before := newManager(t, handoff.WithTransport(shared))
	if err := before.State().PersistValue("k", 1); err != nil {
		t.Fatalf("PersistValue() error = %v", err)
	}
	if err := before.Pause(context.Background()); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}

	first := newManager(t, handoff.WithTransport(shared))
	if err := first.Resume(context.Background(), before.ID()); err != nil {
		t.Fatalf("first Resume() error = %v", err)
	}

	// The harvest is handed to exactly one activation.
	second := newManager(t, handoff.WithTransport(shared))
	err := second.Resume(context.Background(), before.ID())
	if !errors.Is(err, transport.ErrActivationNotFound) {
		t.Errorf("second Resume() error = %v, want %v", err, transport.ErrActivationNotFound)
	}
}

func TestManager_Pause_Twice(t *testing.T) {
	m := newManager(t)

	if err := m.Pause(context.Background()); err != nil {
		t.Fatalf("first Pause() error = %v", err)
	}

	if err := m.Pause(context.Background()); !errors.Is(err, handoff.ErrAlreadyPaused) {
		t.Errorf("second Pause() error = %v, want %v", err, handoff.ErrAlreadyPaused)
	}
}

func TestManager_Pause_CallbackOrder(t *testing.T) {
	m := newManager(t)

	var order []int
	for i := 1; i <= 3; i++ {
		if _, err := m.OnPausing().RegisterOnPausing(func(context.Context) error {
			order = append(order, i)
			return nil
		}); err != nil {
			t.Fatalf("RegisterOnPausing(%d) error = %v", i, err)
		}
	}

	if err := m.Pause(context.Background()); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("callback order = %v, want [1 2 3]", order)
	}
}

func TestManager_Pause_FailingCallbackDoesNotStopOthers(t *testing.T) {
	shared := transport.NewMemoryStore()
	m := newManager(t, handoff.WithTransport(shared))

	boom := errors.New("boom")
	if _, err := m.OnPausing().RegisterOnPausing(func(context.Context) error {
		return boom
	}); err != nil {
		t.Fatalf("RegisterOnPausing() error = %v", err)
	}

	survived := false
	if _, err := m.OnPausing().RegisterOnPausing(func(context.Context) error {
		survived = true
		return m.State().PersistValue("k", "v")
	}); err != nil {
		t.Fatalf("RegisterOnPausing() error = %v", err)
	}

	err := m.Pause(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Pause() error = %v, want aggregate containing %v", err, boom)
	}
	if !survived {
		t.Error("callback after failing one was not invoked")
	}

	// The successful callback's state is still harvested and saved.
	entries, loadErr := shared.Load(context.Background(), m.ID())
	if loadErr != nil {
		t.Fatalf("Load() error = %v", loadErr)
	}
	if len(entries) != 1 || entries[0].Key != "k" {
		t.Errorf("harvested entries = %+v, want single entry under k", entries)
	}
}

func TestManager_Pause_DisposedSubscriptionSkipped(t *testing.T) {
	m := newManager(t)

	invoked := false
	sub, err := m.OnPausing().RegisterOnPausing(func(context.Context) error {
		invoked = true
		return nil
	})
	if err != nil {
		t.Fatalf("RegisterOnPausing() error = %v", err)
	}
	sub.Dispose()

	if err := m.Pause(context.Background()); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if invoked {
		t.Error("disposed callback was invoked during Pause")
	}
}

func TestManager_FileTransportAcrossManagers(t *testing.T) {
	cfg := handoff.DefaultConfig()
	cfg.Transport.Path = t.TempDir()

	before, err := handoff.New(&cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := before.State().PersistValue("answer", 42); err != nil {
		t.Fatalf("PersistValue() error = %v", err)
	}
	if err := before.Pause(context.Background()); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}

	after, err := handoff.New(&cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := after.Resume(context.Background(), before.ID()); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}

	var answer int
	found, err := after.State().TakeValue("answer", &answer)
	if err != nil {
		t.Fatalf("TakeValue() error = %v", err)
	}
	if !found || answer != 42 {
		t.Errorf("TakeValue() = (%d, %v), want (42, true)", answer, found)
	}
}

type recordingObserver struct {
	mu     sync.Mutex
	events []observability.Event
}

func (r *recordingObserver) OnEvent(_ context.Context, event observability.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingObserver) types() []observability.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]observability.EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}

func TestManager_ObserverEvents(t *testing.T) {
	shared := transport.NewMemoryStore()
	obs := &recordingObserver{}

	before := newManager(t, handoff.WithTransport(shared), handoff.WithObserver(obs))
	if _, err := before.OnPausing().RegisterOnPausing(func(context.Context) error {
		return errors.New("boom")
	}); err != nil {
		t.Fatalf("RegisterOnPausing() error = %v", err)
	}
	_ = before.Pause(context.Background())

	after := newManager(t, handoff.WithTransport(shared), handoff.WithObserver(obs))
	if err := after.Resume(context.Background(), before.ID()); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}

	want := []observability.EventType{
		handoff.EventPauseStart,
		handoff.EventCallbackError,
		handoff.EventPauseComplete,
		handoff.EventResume,
	}
	got := obs.types()
	if len(got) != len(want) {
		t.Fatalf("observed %d events (%v), want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	for _, e := range obs.events {
		if e.Source != "handoff" {
			t.Errorf("event %s source = %q, want %q", e.Type, e.Source, "handoff")
		}
		if !strings.HasPrefix(string(e.Type), "handoff.") {
			t.Errorf("event type %q missing handoff. prefix", e.Type)
		}
	}
}
