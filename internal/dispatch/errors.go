package dispatch

import "errors"

// Sentinel errors for dispatcher registration.
var (
	ErrFrozen = errors.New("dispatcher is frozen")
	ErrNilAPI = errors.New("api is nil")
)
