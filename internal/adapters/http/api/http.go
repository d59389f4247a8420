// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/apiroute/internal/adapters/http/swagger"
	"github.com/okian/apiroute/internal/dispatch"
	"github.com/okian/apiroute/pkg/router"
)

// Version is reported in the generated OpenAPI document.
const Version = "1.0.0"

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider
	RoutesProvider
}

// Server wires HTTP routes for the public and system Apis.
type Server struct {
	apiRoute    string
	systemRoute string

	healthHandler  *HealthHandler
	metricsHandler *MetricsHandler
	statsHandler   *StatsHandler
	routesHandler  *RoutesHandler
	timeHandler    *TimeHandler
	uuidHandler    *UUIDHandler
	echoHandler    *EchoHandler
	whoamiHandler  *WhoAmIHandler
	swaggerHandler *swagger.Handler
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	apiRoute     string
	systemRoute  string
	maxBodyBytes int64
	clock        func() time.Time
}

// WithAPIRoute sets the public Api prefix.
func WithAPIRoute(route string) ServerOption {
	return func(o *serverOptions) {
		if route != "" {
			o.apiRoute = route
		}
	}
}

// WithSystemRoute sets the system Api prefix.
func WithSystemRoute(route string) ServerOption {
	return func(o *serverOptions) {
		if route != "" {
			o.systemRoute = route
		}
	}
}

// WithMaxBodyBytes caps bodies read by the echo endpoint.
func WithMaxBodyBytes(n int64) ServerOption {
	return func(o *serverOptions) {
		if n > 0 {
			o.maxBodyBytes = n
		}
	}
}

// WithClock overrides time.Now for the time endpoint.
func WithClock(clock func() time.Time) ServerOption {
	return func(o *serverOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	o := serverOptions{
		apiRoute:     "/api",
		systemRoute:  "/system",
		maxBodyBytes: 1 << 20,
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Server{
		apiRoute:       o.apiRoute,
		systemRoute:    o.systemRoute,
		healthHandler:  NewHealthHandler(),
		metricsHandler: NewMetricsHandler(),
		statsHandler:   NewStatsHandler(deps),
		routesHandler:  NewRoutesHandler(deps),
		timeHandler:    NewTimeHandler(o.clock),
		uuidHandler:    NewUUIDHandler(),
		echoHandler:    NewEchoHandler(o.maxBodyBytes),
		whoamiHandler:  NewWhoAmIHandler(),
		swaggerHandler: swagger.NewHandler(deps, "apiroute", Version, o.systemRoute+"/openapi.yaml"),
	}
}

// Register builds the system and public Apis and adds them to d, system first.
// Each path carries one method: a path match with another method is a 404.
func (s *Server) Register(_ context.Context, d *dispatch.Dispatcher) error {
	system, err := router.New(s.systemRoute)
	if err != nil {
		return fmt.Errorf("system api: %w", err)
	}
	system.AddEndpoint(router.NewEndpoint("/healthz", http.MethodGet, MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")))
	system.AddEndpoint(router.NewEndpoint("/metrics", http.MethodGet, s.metricsHandler.HandleMetrics))
	system.AddEndpoint(router.NewEndpoint("/stats", http.MethodGet, MetricsMiddleware(s.statsHandler.HandleStats, "stats")))
	system.AddEndpoint(router.NewEndpoint("/routes", http.MethodGet, MetricsMiddleware(s.routesHandler.HandleRoutes, "routes")))
	system.AddEndpoint(router.NewEndpoint("/openapi.yaml", http.MethodGet, MetricsMiddleware(s.swaggerHandler.HandleSpec, "openapi")))
	system.AddEndpoint(router.NewEndpoint("/docs", http.MethodGet, MetricsMiddleware(s.swaggerHandler.HandleDocs, "docs")))

	public, err := router.New(s.apiRoute)
	if err != nil {
		return fmt.Errorf("public api: %w", err)
	}
	public.AddEndpoint(router.NewEndpoint("/time", http.MethodGet, MetricsMiddleware(s.timeHandler.HandleTime, "time")))
	public.AddEndpoint(router.NewEndpoint("/uuid", http.MethodGet, MetricsMiddleware(s.uuidHandler.HandleUUID, "uuid")))
	public.AddEndpoint(router.NewEndpoint("/echo", http.MethodPost, MetricsMiddleware(s.echoHandler.HandleEcho, "echo")))
	public.AddEndpoint(router.NewEndpoint("/whoami", http.MethodGet, MetricsMiddleware(s.whoamiHandler.HandleWhoAmI, "whoami")))

	d.Register(system)
	d.Register(public)
	return nil
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error, args []any) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	m, _ := dispatch.MatchFrom(args)
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: m.RequestID})
}
