package handlers

import (
	"context"
	"net/http"

	"video-player/internal/database"
	"video-player/internal/logging"
	"video-player/internal/session"
	"video-player/internal/sortview"
)

// restorePreferences applies the saved player settings of username, if any.
func (h *Handlers) restorePreferences(ctx context.Context, username string) {
	saved, err := h.db.GetPreferences(ctx, username)
	if err != nil {
		logging.Warn("Failed to load preferences for %s: %v", username, err)
		return
	}
	if saved == nil {
		return
	}

	directive, err := sortview.ParseDirective(saved.SortField, saved.SortDirection)
	if err != nil {
		logging.Warn("Ignoring saved sort directive for %s: %v", username, err)
		directive = nil
	}

	h.controller.ApplyPreferences(session.Preferences{
		Volume:  saved.Volume,
		Looping: saved.Looping,
		Sort:    directive,
	})
	logging.Debug("Restored preferences for %s (volume=%.2f, looping=%v, sort=%s)", username, saved.Volume, saved.Looping, directive)
}

// savePreferences stores the current player settings for the logged in
// user. Failures are logged; the change itself already took effect.
func (h *Handlers) savePreferences(r *http.Request) {
	sess := currentSession(r.Context())
	if sess == nil {
		return
	}

	p := h.controller.Preferences()
	prefs := database.Preferences{
		Username: sess.Username,
		Volume:   p.Volume,
		Looping:  p.Looping,
	}
	if p.Sort != nil {
		prefs.SortField = string(p.Sort.Field)
		prefs.SortDirection = string(p.Sort.Direction)
	}

	if err := h.db.SavePreferences(r.Context(), prefs); err != nil {
		logging.Warn("Failed to save preferences for %s: %v", sess.Username, err)
	}
}
