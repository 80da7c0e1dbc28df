package handoff

import "github.com/pausepoint/handoff/observability"

// Event types emitted by the Manager during the activation lifecycle.
const (
	EventPauseStart    observability.EventType = "handoff.pause.start"
	EventCallbackError observability.EventType = "handoff.pause.callback_error"
	EventPauseComplete observability.EventType = "handoff.pause.complete"
	EventResume        observability.EventType = "handoff.resume"
)
