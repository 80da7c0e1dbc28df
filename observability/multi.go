package observability

import "context"

// MultiObserver fans an activation's events out to several observers, e.g.
// an slog emitter for operators next to a metrics recorder:
//
//	m, _ := handoff.New(&cfg, handoff.WithObserver(
//		observability.NewMultiObserver(
//			observability.NewSlogObserver(logger),
//			metricsObserver,
//		),
//	))
//
// A nil MultiObserver or one with no targets discards events.
type MultiObserver struct {
	targets []Observer
}

// NewMultiObserver creates a MultiObserver over the non-nil observers.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	m := &MultiObserver{}
	for _, obs := range observers {
		if obs != nil {
			m.targets = append(m.targets, obs)
		}
	}
	return m
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	if m == nil {
		return
	}
	for _, obs := range m.targets {
		obs.OnEvent(ctx, event)
	}
}
