package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_player_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_player_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_player_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Backend client metrics
var (
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_player_backend_requests_total",
			Help: "Total number of requests made to the media backend",
		},
		[]string{"operation", "status"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_player_backend_request_duration_seconds",
			Help:    "Media backend request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15},
		},
		[]string{"operation"},
	)

	BackendPollAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_player_backend_poll_attempts_total",
			Help: "Total number of list attempts made while waiting for the backend to restart",
		},
	)

	BackendPollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_player_backend_polls_total",
			Help: "Total number of backend restart waits by result",
		},
		[]string{"result"}, // "ready", "gave_up"
	)

	BackendPollAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_player_backend_poll_attempts",
			Help:    "Number of attempts needed per backend restart wait",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 30, 60},
		},
	)

	BackendReachable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_player_backend_reachable",
			Help: "Whether the last backend request succeeded (1 = yes, 0 = no)",
		},
	)
)

// Playback session metrics
var (
	SessionEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_player_session_events_total",
			Help: "Total number of playback session events by type",
		},
		[]string{"event"},
	)

	SessionContractViolations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_player_session_contract_violations_total",
			Help: "Total number of rejected session intents by error",
		},
		[]string{"error"},
	)

	CatalogLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_player_catalog_loads_total",
			Help: "Total number of catalog loads by status",
		},
		[]string{"status"},
	)

	CatalogLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_player_catalog_load_duration_seconds",
			Help:    "Catalog load duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15, 60},
		},
	)

	CatalogLastLoadTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_player_catalog_last_load_timestamp",
			Help: "Timestamp of the last successful catalog load",
		},
	)

	CatalogEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_player_catalog_entries",
			Help: "Number of videos in the current catalog",
		},
	)

	CatalogBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_player_catalog_bytes",
			Help: "Total size in bytes of the videos in the current catalog",
		},
	)

	SelectionEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_player_selection_entries",
			Help: "Number of videos checked for playlist export",
		},
	)

	SessionState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "video_player_session_state",
			Help: "Current session state (1 for the active state, 0 otherwise)",
		},
		[]string{"state"},
	)

	PlaylistExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_player_playlist_exports_total",
			Help: "Total number of playlist exports by status",
		},
		[]string{"status"},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_player_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_player_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)

	DBSizeBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "video_player_db_size_bytes",
			Help: "Size of SQLite database files in bytes",
		},
		[]string{"file"}, // "main", "wal", "shm"
	)
)

// Authentication metrics
var (
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_player_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_player_active_sessions",
			Help: "Number of active login sessions",
		},
	)
)

// Realtime metrics
var (
	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_player_websocket_clients",
			Help: "Number of connected websocket clients",
		},
	)

	WebsocketMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_player_websocket_messages_total",
			Help: "Total number of websocket messages by outcome",
		},
		[]string{"outcome"}, // "sent", "dropped"
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "video_player_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}

// SetSessionState marks state as the active session state.
func SetSessionState(state string) {
	for _, s := range SessionStates {
		if s == state {
			SessionState.WithLabelValues(s).Set(1)
		} else {
			SessionState.WithLabelValues(s).Set(0)
		}
	}
}

// SessionStates lists the outer states of the playback session.
var SessionStates = []string{"idle", "loading", "ready"}

// ObserveDBQuery records one database query.
func ObserveDBQuery(operation string, durationSeconds float64, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(durationSeconds)
	DBQueryTotal.WithLabelValues(operation, statusLabel(err)).Inc()
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
