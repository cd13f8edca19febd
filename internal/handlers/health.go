package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"video-player/internal/logging"
	"video-player/internal/memory"
	"video-player/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
	statusDown     = "unhealthy"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status       string `json:"status"`
	Ready        bool   `json:"ready"`
	Version      string `json:"version"`
	Uptime       string `json:"uptime"`
	Backend      string `json:"backend"`
	BackendReady bool   `json:"backendReady"`
	Database     bool   `json:"database"`

	// Session info
	SessionState     string `json:"sessionState"`
	Videos           int    `json:"videos"`
	WebsocketClients int    `json:"websocketClients"`

	// System info
	GoVersion    string       `json:"goVersion"`
	NumCPU       int          `json:"numCpu"`
	NumGoroutine int          `json:"numGoroutine"`
	Memory       memory.Usage `json:"memory"`
}

func (h *Handlers) databaseOK(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		logging.Warn("Database ping failed: %v", err)
		return false
	}
	return true
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	stats := h.controller.GetStats()
	dbOK := h.databaseOK(r.Context())
	backendOK := h.BackendReady()

	response := HealthResponse{
		Ready:            dbOK && backendOK,
		Version:          startup.Version,
		Uptime:           time.Since(h.startTime).Round(time.Second).String(),
		Backend:          h.client.BaseURL(),
		BackendReady:     backendOK,
		Database:         dbOK,
		SessionState:     stats.State,
		Videos:           stats.CatalogEntries,
		WebsocketClients: h.hub.ClientCount(),
		GoVersion:        runtime.Version(),
		NumCPU:           runtime.NumCPU(),
		NumGoroutine:     runtime.NumGoroutine(),
		Memory:           memory.ReadUsage(),
	}

	switch {
	case !dbOK:
		response.Status = statusDown
	case !backendOK:
		response.Status = statusDegraded
	default:
		response.Status = statusHealthy
	}

	w.Header().Set("Content-Type", "application/json")

	// Only a broken database makes this instance useless
	if !dbOK {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessCheck returns 200 once the backend has answered and the
// database is reachable.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if h.BackendReady() && h.databaseOK(r.Context()) {
		w.WriteHeader(http.StatusOK)
		writeJSON(w, map[string]string{
			"status": "ready",
		})
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{
			"status": "not_ready",
		})
	}
}
