package handoff

import "errors"

// ErrAlreadyPaused is returned by Pause when the manager has already driven
// its pause sequence; a manager covers exactly one pause event.
var ErrAlreadyPaused = errors.New("activation already paused")
