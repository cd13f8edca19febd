package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"video-player/internal/database"
	"video-player/internal/logging"
	"video-player/internal/metrics"
)

// LoginRequest carries the static credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse represents the response from authentication endpoints
type AuthResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Username  string `json:"username,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"` // Seconds until session expires
}

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "video_player_session"
)

// Login checks the credentials, opens a session and restores the user's
// saved player preferences.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.auth.Verify(req.Username, req.Password); err != nil {
		logging.Warn("Failed login attempt for %q", req.Username)
		metrics.AuthAttemptsTotal.WithLabelValues("failure").Inc()
		writeJSONError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()

	sess, err := h.db.CreateSession(ctx, req.Username)
	if err != nil {
		logging.Error("Failed to create session: %v", err)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	h.restorePreferences(ctx, req.Username)

	logging.Info("User %s logged in, session expires in %v", req.Username, database.GetSessionDuration())

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, AuthResponse{
		Success:   true,
		Username:  req.Username,
		ExpiresIn: int(database.GetSessionDuration().Seconds()),
	})
}

// Logout ends the current session and clears the playback session.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cookie, err := r.Cookie(SessionCookieName)
	if err == nil && cookie.Value != "" {
		// Best-effort session cleanup - don't fail logout if this errors
		if err := h.db.DeleteSession(ctx, cookie.Value); err != nil {
			logging.Error("failed to delete session during logout: %v", err)
		}
	}

	h.controller.Clear()
	clearSessionCookie(w)

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, AuthResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}

// CheckAuth verifies the current session
func (h *Handlers) CheckAuth(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.validCookie(w, r)
	if !ok {
		writeJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, AuthResponse{
		Success:   true,
		Username:  sess.Username,
		ExpiresIn: int(time.Until(sess.ExpiresAt).Seconds()),
	})
}

// validCookie returns the session named by the request cookie. An invalid
// cookie is cleared.
func (h *Handlers) validCookie(w http.ResponseWriter, r *http.Request) (*database.Session, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	sess, err := h.db.ValidateSession(r.Context(), cookie.Value)
	if err != nil {
		logging.Debug("Rejected session cookie: %v", err)
		clearSessionCookie(w)
		return nil, false
	}
	return sess, true
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// isPublicPath lists what can be reached without logging in.
func isPublicPath(path string) bool {
	switch path {
	case "/", "/login", "/favicon.ico",
		"/health", "/healthz", "/livez", "/readyz", "/version":
		return true
	}
	return strings.HasPrefix(path, "/api/auth/") || strings.HasPrefix(path, "/static/")
}

// wantsJSON is true for callers that cannot follow a login redirect.
func wantsJSON(path string) bool {
	return strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/videos/") ||
		path == "/ws"
}

// AuthMiddleware protects routes that require authentication
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		sess, ok := h.validCookie(w, r)
		if !ok {
			if wantsJSON(r.URL.Path) {
				writeJSONError(w, "Unauthorized", http.StatusUnauthorized)
			} else {
				http.Redirect(w, r, "/login", http.StatusFound)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	})
}
