package handlers

import (
	"fmt"
	"net/http"

	"video-player/internal/logging"
	"video-player/internal/playlist"
)

// SelectionResponse lists the checked ids in check order.
type SelectionResponse struct {
	Selected []string `json:"selected"`
}

// GetSelection returns the ids checked for export.
func (h *Handlers) GetSelection(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, SelectionResponse{Selected: h.controller.Selected()})
}

// ToggleRequest checks or unchecks one video.
type ToggleRequest struct {
	ID       string `json:"id"`
	Included bool   `json:"included"`
}

// ToggleSelection checks or unchecks a video for export.
func (h *Handlers) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "toggle selection", err)
		return
	}
	if req.ID == "" {
		writeError(w, "toggle selection", fmt.Errorf("%w: id is required", errBadRequest))
		return
	}

	h.controller.Toggle(req.ID, req.Included)
	h.GetSelection(w, r)
}

// ExportPlaylist downloads the backend-generated playlist of the checked
// videos as an attachment.
func (h *Handlers) ExportPlaylist(w http.ResponseWriter, r *http.Request) {
	data, err := h.controller.ExportPlaylist(r.Context())
	h.noteBackend(err)
	if err != nil {
		writeError(w, "export playlist", err)
		return
	}

	w.Header().Set("Content-Type", playlist.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", playlist.Filename))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(data); err != nil {
		logging.Debug("Failed to write playlist: %v", err)
	}
}
