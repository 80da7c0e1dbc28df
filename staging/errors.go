package staging

import "errors"

// Sentinel errors for store and registry operations. Not-found is never an
// error — Take and TakeValue report it as a boolean outcome.
var (
	ErrEmptyKey           = errors.New("key is empty")
	ErrNilWriter          = errors.New("writer function is nil")
	ErrNilCallback        = errors.New("callback is nil")
	ErrNilState           = errors.New("existing state map is nil")
	ErrNilCodec           = errors.New("codec is nil")
	ErrAlreadyInitialized = errors.New("existing state already initialized")
	ErrDuplicateKey       = errors.New("key already persisted this cycle")
	ErrDecode             = errors.New("decode failed")
	ErrSinkClosed         = errors.New("sink is closed")
)
