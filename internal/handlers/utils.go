package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"video-player/internal/catalog"
	"video-player/internal/logging"
	"video-player/internal/session"
	"video-player/internal/sortview"
)

// maxBodySize caps JSON request bodies.
const maxBodySize = 64 << 10

var errBadRequest = errors.New("bad request")

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, ErrorResponse{Error: message})
}

// writeJSONStatus writes a simple status response as JSON.
func writeJSONStatus(w http.ResponseWriter, status string) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"status": status})
}

// decodeJSON reads a JSON body into v. Unknown fields are rejected.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return nil
}

// statusForError maps domain errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNetworkFailure):
		return http.StatusBadGateway
	case errors.Is(err, session.ErrInvalidSelection),
		errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrEmptyCatalog),
		errors.Is(err, session.ErrNoCurrentSelection):
		return http.StatusConflict
	case errors.Is(err, errBadRequest),
		errors.Is(err, session.ErrInvalidDirection),
		errors.Is(err, session.ErrInvalidVolume),
		errors.Is(err, sortview.ErrInvalidDirective),
		errors.Is(err, catalog.ErrEmptyPath):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and answers with the mapped status. Backend failures
// keep their message so the page can show what went wrong.
func writeError(w http.ResponseWriter, op string, err error) {
	status := statusForError(err)
	message := err.Error()
	switch {
	case status == http.StatusInternalServerError:
		logging.Error("%s failed: %v", op, err)
		message = "internal server error"
	case status >= 500:
		logging.Warn("%s failed: %v", op, err)
	default:
		logging.Debug("%s rejected: %v", op, err)
	}
	writeJSONError(w, message, status)
}
