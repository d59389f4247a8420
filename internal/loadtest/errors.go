package loadtest

import "errors"

// Sentinel errors returned by Run.
var (
	ErrUnhealthy    = errors.New("service is not healthy")
	ErrUnexpected   = errors.New("unexpected responses")
	ErrCounterDrift = errors.New("dispatcher counters do not match the plan")
	ErrInvalidRun   = errors.New("invalid load test config")
)
