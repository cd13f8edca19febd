// Package metrics provides Prometheus instrumentation for the video-player application.
//
// This package defines and exposes various metrics that can be scraped by Prometheus
// to monitor the health, performance, and behavior of the application. All metrics
// are prefixed with "video_player_" to avoid naming collisions with other applications.
//
// # Metric Categories
//
// ## HTTP Metrics
//
// Track HTTP request performance and error rates:
//   - HTTPRequestsTotal: Counter of total requests by method, path, and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of currently processing requests
//
// ## Backend Metrics
//
// Track calls to the media backend:
//   - BackendRequestsTotal: Counter by operation and status
//   - BackendRequestDuration: Histogram by operation
//   - BackendPollAttemptsTotal: Counter of list attempts while waiting for a restart
//   - BackendPollsTotal: Counter of restart waits by result (ready/gave_up)
//   - BackendPollAttempts: Histogram of attempts needed per wait
//   - BackendReachable: Gauge set from the outcome of the last request
//
// ## Session Metrics
//
// Track the playback session:
//   - SessionEventsTotal: Counter of applied events (select, advance, sort, ...)
//   - SessionContractViolations: Counter of rejected intents by error
//   - CatalogLoadsTotal, CatalogLoadDuration, CatalogLastLoadTimestamp
//   - CatalogEntries, CatalogBytes, SelectionEntries: Gauges refreshed by the Collector
//   - SessionState: Gauge vector with 1 on the active state (idle/loading/ready)
//   - PlaylistExportsTotal: Counter by status
//
// ## Database, Auth and Realtime Metrics
//
//   - DBQueryTotal, DBQueryDuration, DBSizeBytes (main/wal/shm)
//   - AuthAttemptsTotal, ActiveSessions
//   - WebsocketClients, WebsocketMessagesTotal (sent/dropped)
//
// # Usage
//
// Metrics are registered with the default registry on package load. Call
// InitializeMetrics once at startup so every label combination is exported
// from the first scrape, then start a Collector for the gauges:
//
//	metrics.InitializeMetrics()
//	collector := metrics.NewCollector(provider, dbPath, time.Minute)
//	collector.Start()
//	defer collector.Stop()
//
// The catalog client reports through NewCatalogObserver:
//
//	catalog.SetObserver(metrics.NewCatalogObserver())
package metrics
