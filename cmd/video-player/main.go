package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"video-player/internal/auth"
	"video-player/internal/catalog"
	"video-player/internal/database"
	"video-player/internal/handlers"
	"video-player/internal/logging"
	"video-player/internal/memory"
	"video-player/internal/metrics"
	"video-player/internal/middleware"
	"video-player/internal/realtime"
	"video-player/internal/session"
	"video-player/internal/startup"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	sessionCleanupInterval   = time.Hour
	metricsCollectorInterval = time.Minute
	shutdownTimeout          = 30 * time.Second
)

func main() {
	startTime := time.Now()

	// Soft memory limit from the container limit, before anything allocates
	memory.ConfigureLimit(os.Getenv)

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	dbStart := time.Now()
	database.SetSessionDuration(config.SessionDuration)
	db, err := database.New(ctx, config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	defer db.Close()
	startup.LogDatabaseInit(time.Since(dbStart))

	// Login credentials
	authenticator, err := auth.New(config.Username, config.Password, config.PasswordHash)
	if err != nil {
		startup.LogFatal("Failed to initialize authentication: %v", err)
	}
	startup.LogAuthInit(authenticator.Username(), config.PasswordHash != "")

	// Metrics
	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)
	catalog.SetObserver(metrics.NewCatalogObserver())

	// Session and realtime fan-out
	hub := realtime.NewHub()
	go hub.Run(ctx)

	client := catalog.NewClient(config.BackendURL, config.BackendTimeout)
	controller := session.NewController(client, hub, config.PollConfig())

	h := handlers.New(controller, client, db, authenticator, hub)

	// Wait for the backend before serving. A backend that never answers is
	// not fatal; the UI shows the error and the user can refresh later.
	startup.LogBackendWait(config.BackendURL, config.RescanMaxAttempts)
	waitStart := time.Now()
	if entries, err := controller.LoadCatalogWhenReady(ctx); err != nil {
		startup.LogBackendUnavailable(err)
	} else {
		startup.LogBackendReady(len(entries), time.Since(waitStart))
		h.SetBackendReady(true)
	}

	go cleanSessions(ctx, db)

	collector := metrics.NewCollector(newStatsProvider(controller, db, hub), db.Path(), metricsCollectorInterval)
	collector.Start()

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsSrv = newMetricsServer(config.MetricsPort)
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Setup router
	router := setupRouter(h)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	handler := middleware.Chain(h.AuthMiddleware(router), newMiddlewareConfig(config))

	// Create server
	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Video responses stream for as long as the player reads them
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Start graceful shutdown handler
	shutdownDone := make(chan struct{})
	go func() {
		handleShutdown(srv, metricsSrv, collector, cancel)
		close(shutdownDone)
	}()

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		startup.LogFatal("Server error: %v", err)
	}
	<-shutdownDone
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes (no auth required)
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// Pages
	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/login", h.LoginPage).Methods("GET")
	r.HandleFunc("/player", h.PlayerPage).Methods("GET")
	r.HandleFunc("/playlist-maker", h.PlaylistMakerPage).Methods("GET")

	// Auth routes
	authRoutes := r.PathPrefix("/api/auth").Subrouter()
	authRoutes.HandleFunc("/login", h.Login).Methods("POST")
	authRoutes.HandleFunc("/logout", h.Logout).Methods("POST")
	authRoutes.HandleFunc("/check", h.CheckAuth).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/session", h.GetSession).Methods("GET")
	api.HandleFunc("/session/refresh", h.RefreshCatalog).Methods("POST")
	api.HandleFunc("/session/select", h.SelectVideo).Methods("POST")
	api.HandleFunc("/session/ready", h.VideoReady).Methods("POST")
	api.HandleFunc("/session/advance", h.Advance).Methods("POST")
	api.HandleFunc("/session/sort", h.SetSort).Methods("PUT")
	api.HandleFunc("/session/player", h.UpdatePlayer).Methods("PUT")

	// Catalog
	api.HandleFunc("/videos/{id}", h.DeleteVideo).Methods("DELETE")
	api.HandleFunc("/scan-path", h.ChangeScanPath).Methods("POST")
	api.HandleFunc("/path-suggestions", h.PathSuggestions).Methods("GET")

	// Export selection
	api.HandleFunc("/selection", h.GetSelection).Methods("GET")
	api.HandleFunc("/selection", h.ToggleSelection).Methods("POST")
	api.HandleFunc("/playlist/export", h.ExportPlaylist).Methods("POST")

	// Live session updates
	r.HandleFunc("/ws", h.ServeWS).Methods("GET")

	// Video bytes, proxied from the backend
	r.PathPrefix("/videos/").HandlerFunc(h.ServeVideo).Methods("GET", "HEAD")

	// Static files
	r.PathPrefix("/static/").Handler(handlers.StaticHandler())

	return r
}

func newMiddlewareConfig(config *startup.Config) middleware.Config {
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks

	return middleware.Config{
		Logging:        loggingConfig,
		Compression:    middleware.DefaultCompressionConfig(),
		Metrics:        middleware.DefaultMetricsConfig(),
		MetricsEnabled: config.MetricsEnabled,
	}
}

// newStatsProvider merges the session gauges with the login and websocket
// counts for the metrics collector.
func newStatsProvider(controller *session.Controller, db *database.Database, hub *realtime.Hub) metrics.StatsProvider {
	return metrics.StatsFunc(func() metrics.Stats {
		stats := controller.GetStats()
		stats.WebsocketClients = hub.ClientCount()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if n, err := db.CountActiveSessions(ctx); err != nil {
			logging.Warn("Failed to count active sessions: %v", err)
		} else {
			stats.ActiveSessions = n
		}
		return stats
	})
}

func newMetricsServer(port string) *http.Server {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              ":" + port,
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
}

// cleanSessions removes expired logins until ctx is done.
func cleanSessions(ctx context.Context, db *database.Database) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := db.CleanExpiredSessions(ctx); err != nil {
				logging.Warn("Session cleanup failed: %v", err)
			} else if n > 0 {
				logging.Info("Removed %d expired sessions", n)
			}
		}
	}
}

func handleShutdown(srv, metricsSrv *http.Server, collector *metrics.Collector, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancelTimeout := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelTimeout()

	startup.LogShutdownStep("Stopping metrics collector")
	collector.Stop()
	startup.LogShutdownStepComplete("Metrics collector stopped")

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	// Disconnects websocket clients and stops background loops
	startup.LogShutdownStep("Closing live updates")
	cancel()
	startup.LogShutdownStepComplete("Live updates closed")

	startup.LogShutdownComplete()
}
