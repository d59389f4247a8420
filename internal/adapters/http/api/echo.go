package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/okian/apiroute/internal/dispatch"
)

// EchoHandler returns the JSON body it receives.
type EchoHandler struct {
	maxBodyBytes int64
}

// NewEchoHandler creates an echo handler reading at most maxBodyBytes.
func NewEchoHandler(maxBodyBytes int64) *EchoHandler {
	return &EchoHandler{maxBodyBytes: maxBodyBytes}
}

type echoResponse struct {
	RequestID string          `json:"request_id"`
	Body      json.RawMessage `json:"body"`
}

// HandleEcho handles POST /echo requests.
func (h *EchoHandler) HandleEcho(w http.ResponseWriter, r *http.Request, args ...any) {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != "application/json" {
			writeError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", ErrUnsupportedType, args)
			return
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large",
				fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit), args)
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err), args)
		return
	}

	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "invalid_json", fmt.Errorf("%w: body is not valid JSON", ErrBadRequest), args)
		return
	}

	m, _ := dispatch.MatchFrom(args)
	writeJSON(w, http.StatusOK, echoResponse{RequestID: m.RequestID, Body: body})
}
