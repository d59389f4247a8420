// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/apiroute/internal/dispatch"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]any
}

// RoutesProvider lists the registered routes.
type RoutesProvider interface {
	Routes() []dispatch.RouteInfo
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, _ *http.Request, _ ...any) {
	writeJSON(w, http.StatusOK, h.statsProvider.GetStats())
}

// RoutesHandler handles route table requests.
type RoutesHandler struct {
	routesProvider RoutesProvider
}

// NewRoutesHandler creates a new routes handler.
func NewRoutesHandler(routesProvider RoutesProvider) *RoutesHandler {
	return &RoutesHandler{routesProvider: routesProvider}
}

// HandleRoutes handles GET /routes requests.
func (h *RoutesHandler) HandleRoutes(w http.ResponseWriter, _ *http.Request, _ ...any) {
	routes := h.routesProvider.Routes()
	if routes == nil {
		routes = []dispatch.RouteInfo{}
	}
	writeJSON(w, http.StatusOK, routes)
}
