package router

import "errors"

// Sentinel errors for route construction.
var (
	ErrEmptyRoute = errors.New("api route must not be empty")
	ErrFrozen     = errors.New("api is frozen")
)
