package api

import (
	"net/http"

	"github.com/okian/apiroute/internal/dispatch"
	"github.com/okian/apiroute/pkg/router"
)

// WhoAmIHandler describes the request as the router saw it.
type WhoAmIHandler struct{}

// NewWhoAmIHandler creates a new whoami handler.
func NewWhoAmIHandler() *WhoAmIHandler {
	return &WhoAmIHandler{}
}

type whoamiResponse struct {
	Method     string `json:"method"`
	URL        string `json:"url"`
	Route      string `json:"route"`
	Remainder  string `json:"remainder"`
	RemoteAddr string `json:"remote_addr"`
	RequestID  string `json:"request_id"`
}

// HandleWhoAmI handles GET /whoami requests.
func (h *WhoAmIHandler) HandleWhoAmI(w http.ResponseWriter, r *http.Request, args ...any) {
	m, _ := dispatch.MatchFrom(args)
	url := router.URL(r)
	writeJSON(w, http.StatusOK, whoamiResponse{
		Method:     r.Method,
		URL:        url,
		Route:      m.Route,
		Remainder:  router.Remainder(url, m.Route),
		RemoteAddr: r.RemoteAddr,
		RequestID:  m.RequestID,
	})
}
