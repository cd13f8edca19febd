package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httputil"
	"sync/atomic"
	"time"

	"video-player/internal/auth"
	"video-player/internal/catalog"
	"video-player/internal/database"
	"video-player/internal/realtime"
	"video-player/internal/session"
)

// Handlers holds the dependencies shared by every endpoint.
type Handlers struct {
	controller *session.Controller
	client     *catalog.Client
	db         *database.Database
	auth       *auth.Authenticator
	hub        *realtime.Hub
	proxy      *httputil.ReverseProxy

	startTime    time.Time
	backendReady atomic.Bool
}

// New wires the handlers. The hub serves /ws and should be the controller's
// notifier.
func New(controller *session.Controller, client *catalog.Client, db *database.Database, authenticator *auth.Authenticator, hub *realtime.Hub) *Handlers {
	return &Handlers{
		controller: controller,
		client:     client,
		db:         db,
		auth:       authenticator,
		hub:        hub,
		proxy:      newVideoProxy(client.BaseURL()),
		startTime:  time.Now(),
	}
}

// SetBackendReady records whether the backend answered, for /readyz.
func (h *Handlers) SetBackendReady(ready bool) {
	h.backendReady.Store(ready)
}

// BackendReady reports the last known backend reachability.
func (h *Handlers) BackendReady() bool {
	return h.backendReady.Load()
}

// ServeWS streams session snapshots to the browser.
func (h *Handlers) ServeWS(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r)
}

// noteBackend tracks reachability from the outcome of a backend call.
func (h *Handlers) noteBackend(err error) {
	switch {
	case err == nil:
		h.backendReady.Store(true)
	case errors.Is(err, catalog.ErrNetworkFailure):
		h.backendReady.Store(false)
	}
}

type ctxKey int

const sessionKey ctxKey = iota

// currentSession returns the login session attached by AuthMiddleware.
func currentSession(ctx context.Context) *database.Session {
	sess, _ := ctx.Value(sessionKey).(*database.Session)
	return sess
}
