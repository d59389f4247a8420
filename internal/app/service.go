// Package service assembles the dispatcher and the Apis it serves, and
// implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/okian/apiroute/internal/adapters/http/api"
	"github.com/okian/apiroute/internal/dispatch"
	"github.com/okian/apiroute/pkg/logger"
)

// ErrNotStarted is returned by operations that need a running service.
var ErrNotStarted = errors.New("service not started")

// Service owns the dispatcher and the registered Apis.
type Service struct {
	mu sync.RWMutex

	// Configuration
	apiRoute     string
	systemRoute  string
	maxBodyBytes int64

	// State
	dispatcher *dispatch.Dispatcher
	handler    http.Handler
	started    bool
	startedAt  time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAPIRoute sets the public Api prefix.
func WithAPIRoute(route string) Option {
	return func(s *Service) {
		if route != "" {
			s.apiRoute = route
		}
	}
}

// WithSystemRoute sets the system Api prefix.
func WithSystemRoute(route string) Option {
	return func(s *Service) {
		if route != "" {
			s.systemRoute = route
		}
	}
}

// WithMaxBodyBytes caps request bodies read by handlers.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		apiRoute:     "/api",
		systemRoute:  "/system",
		maxBodyBytes: 1 << 20,
		logger:       nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the dispatcher, registers the system and public Apis and
// freezes them. Calling Start on a running service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting apiroute service...")

	d := dispatch.New(dispatch.WithLogger(s.logger.Named("dispatch")))
	srv := api.NewServer(s,
		api.WithAPIRoute(s.apiRoute),
		api.WithSystemRoute(s.systemRoute),
		api.WithMaxBodyBytes(s.maxBodyBytes),
	)
	if err := srv.Register(ctx, d); err != nil {
		return fmt.Errorf("register apis: %w", err)
	}

	s.dispatcher = d
	s.handler = d.Handler()
	s.started = true
	s.startedAt = time.Now()

	for _, a := range d.Apis() {
		s.logger.Info(ctx, "api registered",
			logger.String("route", a.Route()),
			logger.Int("endpoints", len(a.Endpoints())),
		)
	}
	s.logger.Info(ctx, "apiroute service started",
		logger.String("apiRoute", s.apiRoute),
		logger.String("systemRoute", s.systemRoute),
	)

	return nil
}

// Stop releases the handler. Requests served afterwards get 503.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping apiroute service...")
	s.started = false
	s.logger.Info(context.Background(), "apiroute service stopped")
}

// Handler returns the http.Handler serving every registered Api.
func (s *Service) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		h, started := s.handler, s.started
		s.mu.RUnlock()

		if !started {
			http.Error(w, ErrNotStarted.Error(), http.StatusServiceUnavailable)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// Routes lists every registered endpoint in match order.
func (s *Service) Routes() []dispatch.RouteInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dispatcher == nil {
		return nil
	}
	return s.dispatcher.Routes()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":      s.started,
		"apiRoute":     s.apiRoute,
		"systemRoute":  s.systemRoute,
		"maxBodyBytes": s.maxBodyBytes,
	}

	if s.dispatcher != nil {
		ds := s.dispatcher.Stats()
		stats["endpoints"] = len(s.dispatcher.Routes())
		stats["matched"] = ds.Matched
		stats["noRoute"] = ds.NoRoute
		stats["noEndpoint"] = ds.NoEndpoint
		stats["panics"] = ds.Panics
	}
	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
	}

	return stats
}
