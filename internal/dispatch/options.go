package dispatch

import (
	"net/http"

	"github.com/okian/apiroute/pkg/logger"
)

// DefaultRequestIDHeader carries the request id in and out.
const DefaultRequestIDHeader = "X-Request-ID"

// Option applies a configuration option to the Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithArgs appends per-request values to the extra args every handler
// receives after the Match.
func WithArgs(fn func(r *http.Request) []any) Option {
	return func(d *Dispatcher) {
		d.args = fn
	}
}

// WithNotFound replaces the JSON 404 written when nothing matches.
func WithNotFound(h http.HandlerFunc) Option {
	return func(d *Dispatcher) {
		if h != nil {
			d.notFound = h
		}
	}
}

// WithRequestIDHeader changes the request id header name.
func WithRequestIDHeader(name string) Option {
	return func(d *Dispatcher) {
		if name != "" {
			d.requestIDHeader = name
		}
	}
}
