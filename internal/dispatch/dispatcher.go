// Package dispatch hands incoming requests to the first router.Api that
// claims their URL.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/apiroute/pkg/logger"
	"github.com/okian/apiroute/pkg/metrics"
	"github.com/okian/apiroute/pkg/router"
)

const maxRequestIDLen = 128

// Match is passed to every handler as its first extra arg.
type Match struct {
	RequestID string
	Route     string
}

// MatchFrom returns the Match among a handler's extra args.
func MatchFrom(args []any) (Match, bool) {
	for _, a := range args {
		if m, ok := a.(Match); ok {
			return m, true
		}
	}
	return Match{}, false
}

// RouteInfo describes one registered endpoint.
type RouteInfo struct {
	Route  string `json:"route"`
	Path   string `json:"path"`
	Method string `json:"method"`
}

// Stats counts dispatch decisions since start.
type Stats struct {
	Matched    uint64 `json:"matched"`
	NoRoute    uint64 `json:"no_route"`
	NoEndpoint uint64 `json:"no_endpoint"`
	Panics     uint64 `json:"panics"`
}

// Dispatcher is an http.Handler over an ordered list of Apis.
//
// The first Api whose route prefixes the request URL decides the outcome;
// later Apis are not consulted even when the claiming Api has no endpoint.
type Dispatcher struct {
	apis            []*router.Api
	frozen          atomic.Bool
	logger          logger.Logger
	args            func(r *http.Request) []any
	notFound        http.HandlerFunc
	requestIDHeader string

	matched    atomic.Uint64
	noRoute    atomic.Uint64
	noEndpoint atomic.Uint64
	panics     atomic.Uint64
}

// New creates an empty dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		logger:          logger.Nop(),
		notFound:        writeNotFound,
		requestIDHeader: DefaultRequestIDHeader,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register appends api. Registration order is claim order.
func (d *Dispatcher) Register(api *router.Api) {
	if api == nil {
		panic(ErrNilAPI)
	}
	if d.frozen.Load() {
		panic(fmt.Errorf("dispatch: register %s: %w", api.Route(), ErrFrozen))
	}
	for _, prev := range d.apis {
		if strings.HasPrefix(api.Route(), prev.Route()) {
			d.logger.Warn(context.Background(), "route is shadowed by an earlier route",
				logger.String("route", api.Route()),
				logger.String("shadowed_by", prev.Route()),
			)
		}
	}
	d.apis = append(d.apis, api)
}

// Handler freezes the dispatcher and every registered Api and returns it.
func (d *Dispatcher) Handler() http.Handler {
	if !d.frozen.Swap(true) {
		for _, api := range d.apis {
			api.Freeze()
			metrics.SetRegisteredEndpoints(api.Route(), len(api.Endpoints()))
		}
	}
	return d
}

// Apis returns the registered Apis in claim order.
func (d *Dispatcher) Apis() []*router.Api {
	out := make([]*router.Api, len(d.apis))
	copy(out, d.apis)
	return out
}

// Routes lists every endpoint in match order.
func (d *Dispatcher) Routes() []RouteInfo {
	var out []RouteInfo
	for _, api := range d.apis {
		for _, ep := range api.Endpoints() {
			out = append(out, RouteInfo{Route: api.Route(), Path: ep.Path(), Method: ep.Method()})
		}
	}
	return out
}

// Stats returns a snapshot of the dispatch counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Matched:    d.matched.Load(),
		NoRoute:    d.noRoute.Load(),
		NoEndpoint: d.noEndpoint.Load(),
		Panics:     d.panics.Load(),
	}
}

// ServeHTTP dispatches r. Call Handler before serving.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id := r.Header.Get(d.requestIDHeader)
	if id == "" || len(id) > maxRequestIDLen {
		id = uuid.NewString()
	}
	w.Header().Set(d.requestIDHeader, id)
	r = r.WithContext(logger.WithRequestID(r.Context(), id))

	url := router.URL(r)
	for _, api := range d.apis {
		if !api.CheckRoute(url) {
			continue
		}
		if d.execute(w, r, api, Match{RequestID: id, Route: api.Route()}) {
			d.matched.Add(1)
			d.record(r, api.Route(), metrics.OutcomeMatched, start)
			return
		}
		d.noEndpoint.Add(1)
		d.record(r, api.Route(), metrics.OutcomeNoEndpoint, start)
		d.notFound(w, r)
		return
	}

	d.noRoute.Add(1)
	d.record(r, "", metrics.OutcomeNoRoute, start)
	d.notFound(w, r)
}

// execute runs the claiming Api. Handler panics are counted and re-raised as is.
func (d *Dispatcher) execute(w http.ResponseWriter, r *http.Request, api *router.Api, m Match) bool {
	defer func() {
		if p := recover(); p != nil {
			if p == http.ErrAbortHandler {
				panic(p)
			}
			d.panics.Add(1)
			metrics.RecordHandlerPanic(api.Route())
			d.logger.Error(r.Context(), "handler panicked",
				logger.String("route", api.Route()),
				logger.String("method", r.Method),
				logger.String("url", router.URL(r)),
				logger.Any("panic", p),
			)
			panic(p)
		}
	}()

	args := []any{m}
	if d.args != nil {
		args = append(args, d.args(r)...)
	}
	return api.CheckFindExecuteArgs(w, r, args...)
}

func (d *Dispatcher) record(r *http.Request, route, outcome string, start time.Time) {
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordDispatch(route, outcome, elapsed)
	d.logger.Debug(r.Context(), "dispatched",
		logger.String("method", r.Method),
		logger.String("url", router.URL(r)),
		logger.String("route", route),
		logger.String("outcome", outcome),
		logger.Float64("duration_ms", elapsed),
	)
}

type notFoundResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(notFoundResponse{
		Code:    "not_found",
		Message: fmt.Sprintf("no endpoint for %s %s", r.Method, r.URL.Path),
	})
}
