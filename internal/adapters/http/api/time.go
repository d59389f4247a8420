package api

import (
	"net/http"
	"time"
)

// TimeHandler reports the server clock.
type TimeHandler struct {
	now func() time.Time
}

// NewTimeHandler creates a time handler over the given clock.
func NewTimeHandler(now func() time.Time) *TimeHandler {
	if now == nil {
		now = time.Now
	}
	return &TimeHandler{now: now}
}

type timeResponse struct {
	Time string `json:"time"`
	Unix int64  `json:"unix"`
}

// HandleTime handles GET /time requests.
func (h *TimeHandler) HandleTime(w http.ResponseWriter, _ *http.Request, _ ...any) {
	t := h.now().UTC()
	writeJSON(w, http.StatusOK, timeResponse{Time: t.Format(time.RFC3339), Unix: t.Unix()})
}
