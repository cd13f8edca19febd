package handlers

import (
	"net/http"
	"strings"

	"video-player/internal/logging"

	"github.com/gorilla/mux"
)

// DeleteVideo removes a video on the backend and refreshes the session.
func (h *Handlers) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := h.controller.DeleteVideo(r.Context(), id)
	h.noteBackend(err)
	if err != nil {
		writeError(w, "delete video", err)
		return
	}
	h.writeSnapshot(w, r)
}

// ScanPathRequest names the directory the backend should scan.
type ScanPathRequest struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive"`
}

// ChangeScanPath points the backend at a new directory and waits until it
// lists again. This can take up to the configured poll cap.
func (h *Handlers) ChangeScanPath(w http.ResponseWriter, r *http.Request) {
	var req ScanPathRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "scan path", err)
		return
	}

	entries, err := h.controller.ChangeScanPath(r.Context(), strings.TrimSpace(req.Path), req.Recursive)
	h.noteBackend(err)
	if err != nil {
		writeError(w, "scan path", err)
		return
	}

	logging.Info("Backend rescanned %s: %d videos", req.Path, len(entries))
	h.writeSnapshot(w, r)
}

// PathSuggestions proxies directory suggestions for the scan path input.
func (h *Handlers) PathSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.client.SuggestPaths(r.Context(), r.URL.Query().Get("path"))
	h.noteBackend(err)
	if err != nil {
		writeError(w, "path suggestions", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, suggestions)
}
