package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

const maxUUIDCount = 100

// UUIDHandler issues random UUIDs.
type UUIDHandler struct{}

// NewUUIDHandler creates a new UUID handler.
func NewUUIDHandler() *UUIDHandler {
	return &UUIDHandler{}
}

type uuidResponse struct {
	UUIDs []string `json:"uuids"`
}

// HandleUUID handles GET /uuid requests. The optional count query
// parameter selects how many ids to return.
func (h *UUIDHandler) HandleUUID(w http.ResponseWriter, r *http.Request, args ...any) {
	count := 1
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxUUIDCount {
			writeError(w, http.StatusBadRequest, "invalid_count",
				fmt.Errorf("%w: count must be between 1 and %d", ErrBadRequest, maxUUIDCount), args)
			return
		}
		count = n
	}

	ids := make([]string, 0, count)
	for range count {
		ids = append(ids, uuid.NewString())
	}
	writeJSON(w, http.StatusOK, uuidResponse{UUIDs: ids})
}
