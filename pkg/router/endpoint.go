// Package router matches requests to handlers by literal route and path prefixes.
package router

import "net/http"

// HandlerFunc handles a dispatched request. Extra args are whatever the
// caller passed to ExecuteHandlerArgs, in the same order.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, args ...any)

// Func adapts a plain http.HandlerFunc; extra args are dropped.
func Func(f http.HandlerFunc) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ ...any) {
		f(w, r)
	}
}

// Handler adapts an http.Handler; extra args are dropped.
func Handler(h http.Handler) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ ...any) {
		h.ServeHTTP(w, r)
	}
}

// Endpoint binds a path suffix and a method to a handler.
type Endpoint struct {
	path    string
	method  string
	handler HandlerFunc
}

// NewEndpoint creates an endpoint. No validation is performed.
func NewEndpoint(path, method string, handler HandlerFunc) *Endpoint {
	return &Endpoint{
		path:    path,
		method:  method,
		handler: handler,
	}
}

// Path returns the suffix matched against the request remainder.
func (e *Endpoint) Path() string { return e.path }

// Method returns the method token this endpoint accepts.
func (e *Endpoint) Method() string { return e.method }

// CheckMethod reports whether method equals the endpoint method exactly.
func (e *Endpoint) CheckMethod(method string) bool {
	return method == e.method
}

// ExecuteHandler invokes the handler. Panics raised by the handler reach the caller.
func (e *Endpoint) ExecuteHandler(w http.ResponseWriter, r *http.Request) {
	e.handler(w, r)
}

// ExecuteHandlerArgs invokes the handler with extra args.
func (e *Endpoint) ExecuteHandlerArgs(w http.ResponseWriter, r *http.Request, args ...any) {
	e.handler(w, r, args...)
}
