package transport

import "errors"

// Sentinel errors for store operations.
var (
	ErrActivationNotFound = errors.New("activation not found")
	ErrLoadFailed         = errors.New("load failed")
	ErrSaveFailed         = errors.New("save failed")
)
