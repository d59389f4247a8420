package router

import (
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
)

// Api owns a route prefix and an ordered list of endpoints.
//
// Endpoints are matched in registration order and the first whose path is a
// prefix of the remainder wins, regardless of method. Registering "/u" before
// "/users" therefore makes "/users" unreachable.
type Api struct {
	route     string
	endpoints []*Endpoint
	frozen    atomic.Bool
}

// New creates an Api for route.
func New(route string) (*Api, error) {
	if route == "" {
		return nil, ErrEmptyRoute
	}
	return &Api{route: route}, nil
}

// Route returns the prefix this Api claims.
func (a *Api) Route() string { return a.route }

// Endpoints returns a copy of the registered endpoints in match order.
func (a *Api) Endpoints() []*Endpoint {
	out := make([]*Endpoint, len(a.endpoints))
	copy(out, a.endpoints)
	return out
}

// AddEndpoint appends an endpoint. It panics once the Api is frozen.
func (a *Api) AddEndpoint(endpoint *Endpoint) {
	if a.frozen.Load() {
		panic(fmt.Errorf("router: add %s %s to %s: %w", endpoint.method, endpoint.path, a.route, ErrFrozen))
	}
	a.endpoints = append(a.endpoints, endpoint)
}

// Freeze ends registration. Lookups are safe for concurrent use afterwards.
func (a *Api) Freeze() { a.frozen.Store(true) }

// Frozen reports whether Freeze has been called.
func (a *Api) Frozen() bool { return a.frozen.Load() }

// CheckRoute reports whether url starts with the route.
func (a *Api) CheckRoute(url string) bool {
	return strings.HasPrefix(url, a.route)
}

// FindEndpoint removes the first occurrence of the route from endpointPath
// and returns the first endpoint whose path prefixes what is left, or nil.
//
// The route is replaced wherever it first appears, not only at the start:
// under "/api", "/files/api/users" leaves "/files/users".
func (a *Api) FindEndpoint(endpointPath string) *Endpoint {
	remainder := Remainder(endpointPath, a.route)
	for _, ep := range a.endpoints {
		if strings.HasPrefix(remainder, ep.path) {
			return ep
		}
	}
	return nil
}

// FindEndpointCheckMethod finds the endpoint for the request URL and returns
// it only if the method matches too. A path match with another method is nil.
func (a *Api) FindEndpointCheckMethod(r *http.Request) *Endpoint {
	ep := a.FindEndpoint(URL(r))
	if ep != nil && ep.CheckMethod(r.Method) {
		return ep
	}
	return nil
}

// CheckFindExecute dispatches r to the matching endpoint. It returns false,
// without invoking anything, when the route or the endpoint does not match.
func (a *Api) CheckFindExecute(w http.ResponseWriter, r *http.Request) bool {
	ep := a.checkFind(r)
	if ep == nil {
		return false
	}
	ep.ExecuteHandler(w, r)
	return true
}

// CheckFindExecuteArgs is CheckFindExecute passing args through to the handler.
func (a *Api) CheckFindExecuteArgs(w http.ResponseWriter, r *http.Request, args ...any) bool {
	ep := a.checkFind(r)
	if ep == nil {
		return false
	}
	ep.ExecuteHandlerArgs(w, r, args...)
	return true
}

func (a *Api) checkFind(r *http.Request) *Endpoint {
	if !a.CheckRoute(URL(r)) {
		return nil
	}
	return a.FindEndpointCheckMethod(r)
}

// Remainder removes the first occurrence of route from url.
func Remainder(url, route string) string {
	return strings.Replace(url, route, "", 1)
}

// URL returns the request target as received: path plus query.
func URL(r *http.Request) string {
	if r.RequestURI != "" {
		return r.RequestURI
	}
	return r.URL.RequestURI()
}
