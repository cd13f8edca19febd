package handlers

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"video-player/internal/catalog"
	"video-player/internal/mediatypes"
	"video-player/internal/session"
	"video-player/internal/sortview"
)

// PageSizes are the grid page sizes offered by the pages.
var PageSizes = []int{5, 10, 25, 50, 100, 250}

// DefaultPageSize is used when the request does not name one.
const DefaultPageSize = 5

// VideoRow is one grid row: the entry plus what the page needs to render it.
type VideoRow struct {
	catalog.VideoEntry
	DisplaySize string `json:"displaySize"`
	URL         string `json:"url"`
	Playable    bool   `json:"playable"`
	Current     bool   `json:"current"`
	Selected    bool   `json:"selected"`
}

// SessionResponse is a snapshot with one page of the sorted catalog.
type SessionResponse struct {
	session.Snapshot
	Rows       []VideoRow `json:"rows"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
	TotalSize  string     `json:"totalSize"`
	PageSizes  []int      `json:"pageSizes"`
}

// parsePaging reads page and pageSize. Missing values take the defaults.
func parsePaging(r *http.Request) (page, pageSize int, err error) {
	page, pageSize = 1, DefaultPageSize

	if v := r.URL.Query().Get("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil || page < 1 {
			return 0, 0, fmt.Errorf("%w: invalid page %q", errBadRequest, v)
		}
	}
	if v := r.URL.Query().Get("pageSize"); v != "" {
		pageSize, err = strconv.Atoi(v)
		if err != nil || !slices.Contains(PageSizes, pageSize) {
			return 0, 0, fmt.Errorf("%w: page size must be one of %v", errBadRequest, PageSizes)
		}
	}
	return page, pageSize, nil
}

// buildSessionResponse pages snap.Videos, which are already sorted. A page
// past the end is clamped to the last page, as after a delete.
func (h *Handlers) buildSessionResponse(snap session.Snapshot, page, pageSize int) SessionResponse {
	total := len(snap.Videos)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	selected := make(map[string]bool, len(snap.Selected))
	for _, id := range snap.Selected {
		selected[id] = true
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	rows := make([]VideoRow, 0, end-start)
	for _, e := range snap.Videos[start:end] {
		rows = append(rows, VideoRow{
			VideoEntry:  e,
			DisplaySize: mediatypes.FormatSize(e.Size),
			URL:         catalog.VideoURL(e.Path),
			Playable:    mediatypes.IsVideoFile(e.Path),
			Current:     snap.Playback.CurrentID != nil && *snap.Playback.CurrentID == e.ID,
			Selected:    selected[e.ID],
		})
	}

	return SessionResponse{
		Snapshot:   snap,
		Rows:       rows,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalSize:  mediatypes.FormatSize(snap.TotalBytes),
		PageSizes:  PageSizes,
	}
}

// writeSnapshot answers with the current session, paged per the request.
func (h *Handlers) writeSnapshot(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := parsePaging(r)
	if err != nil {
		page, pageSize = 1, DefaultPageSize
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, h.buildSessionResponse(h.controller.Snapshot(), page, pageSize))
}

// GetSession returns the session snapshot with one page of rows.
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	if _, _, err := parsePaging(r); err != nil {
		writeError(w, "get session", err)
		return
	}
	h.writeSnapshot(w, r)
}

// RefreshCatalog re-lists the backend and reconciles the session.
func (h *Handlers) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	_, err := h.controller.LoadCatalog(r.Context())
	h.noteBackend(err)
	if err != nil {
		writeError(w, "refresh catalog", err)
		return
	}
	h.writeSnapshot(w, r)
}

// SelectRequest names the video to play.
type SelectRequest struct {
	ID string `json:"id"`
}

// SelectVideo makes a catalog entry the current video.
func (h *Handlers) SelectVideo(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "select", err)
		return
	}
	if err := h.controller.Select(req.ID); err != nil {
		writeError(w, "select", err)
		return
	}
	h.writeSnapshot(w, r)
}

// VideoReady is called by the player once the current video can play.
func (h *Handlers) VideoReady(w http.ResponseWriter, _ *http.Request) {
	h.controller.MarkVideoReady()
	writeJSONStatus(w, "ok")
}

// AdvanceRequest picks the neighbour to move to.
type AdvanceRequest struct {
	Direction string `json:"direction"`
}

// Advance moves to the previous or next video in the displayed order.
func (h *Handlers) Advance(w http.ResponseWriter, r *http.Request) {
	var req AdvanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "advance", err)
		return
	}
	dir, err := session.ParseDirection(req.Direction)
	if err != nil {
		writeError(w, "advance", err)
		return
	}
	if _, err := h.controller.Advance(dir); err != nil {
		writeError(w, "advance", err)
		return
	}
	h.writeSnapshot(w, r)
}

// SortRequest sets the sort directive. An empty field clears it.
type SortRequest struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// SetSort changes the grid and navigation order.
func (h *Handlers) SetSort(w http.ResponseWriter, r *http.Request) {
	var req SortRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "sort", err)
		return
	}
	directive, err := sortview.ParseDirective(req.Field, req.Direction)
	if err != nil {
		writeError(w, "sort", err)
		return
	}

	h.controller.SetSortDirective(directive)
	h.savePreferences(r)
	h.writeSnapshot(w, r)
}

// PlayerRequest updates player flags. Omitted fields are left alone.
type PlayerRequest struct {
	Playing *bool    `json:"playing,omitempty"`
	Looping *bool    `json:"looping,omitempty"`
	Volume  *float64 `json:"volume,omitempty"`
}

// UpdatePlayer changes play/pause, looping or volume. The request is
// validated as a whole before anything changes.
func (h *Handlers) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var req PlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "player", err)
		return
	}
	if req.Volume != nil && (*req.Volume < 0 || *req.Volume > 1) {
		writeError(w, "player", fmt.Errorf("%w: %v", session.ErrInvalidVolume, *req.Volume))
		return
	}

	if req.Playing != nil {
		if err := h.controller.SetPlaying(*req.Playing); err != nil {
			writeError(w, "player", err)
			return
		}
	}
	if req.Looping != nil {
		h.controller.SetLooping(*req.Looping)
	}
	if req.Volume != nil {
		if err := h.controller.SetVolume(*req.Volume); err != nil {
			writeError(w, "player", err)
			return
		}
	}

	if req.Looping != nil || req.Volume != nil {
		h.savePreferences(r)
	}
	h.writeSnapshot(w, r)
}
