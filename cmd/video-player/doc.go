// Package main provides the entry point for the Video Player application.
//
// Video Player is a browser front end for a media backend that lists,
// deletes and serves video files and builds playlists. It keeps one
// playback session: the catalog as last fetched, its sort order, the
// current video with its player state, and the videos checked for export.
//
// # Application Lifecycle
//
// The application follows a structured initialization sequence:
//
//  1. Memory Configuration: Sets the soft memory limit from MEMORY_LIMIT
//  2. Configuration Loading: Reads environment variables and validates them
//  3. Database Initialization: Opens the SQLite database holding login
//     sessions and player preferences
//  4. Authentication: Hashes UI_PASSWORD or loads UI_PASSWORD_HASH
//  5. Component Initialization:
//     - Metrics: Registers Prometheus collectors and the backend observer
//     - Realtime Hub: Fans session snapshots out to websocket clients
//     - Session Controller: Owns the catalog and playback state
//  6. Backend Wait: Polls the backend list endpoint until it answers
//  7. HTTP Server Setup: Configures routes, middleware, and starts server
//  8. Graceful Shutdown: Handles SIGINT/SIGTERM, stops all components cleanly
//
// # Background Services
//
//   - Realtime Hub: Broadcasts every session change to connected pages
//   - Metrics Collector: Updates Prometheus gauges every minute
//   - Session Cleanup: Removes expired logins every hour
//
// # HTTP Endpoints
//
// Public endpoints:
//
//   - GET /health, /healthz: Detailed health status
//   - GET|HEAD /livez: Liveness probe
//   - GET /readyz: Readiness probe (backend answered and database reachable)
//   - GET /version: Build information
//   - GET /login and POST /api/auth/login: Login
//
// Authenticated endpoints:
//
//   - GET /player, /playlist-maker: Pages
//   - GET /api/session: Snapshot with one page of the sorted catalog
//   - POST /api/session/refresh, select, ready, advance
//   - PUT /api/session/sort, player
//   - DELETE /api/videos/{id}
//   - POST /api/scan-path, GET /api/path-suggestions
//   - GET|POST /api/selection, POST /api/playlist/export
//   - GET /ws: Live session snapshots
//   - GET /videos/...: Video bytes proxied from the backend, Range aware
//
// # Configuration
//
// See package startup for the environment variables. The most important:
//
//   - BACKEND_URL: Media backend base URL (default: http://localhost:8069)
//   - PORT: HTTP server port (default: 8080)
//   - DATABASE_DIR: Directory for the SQLite database (default: /database)
//   - UI_USERNAME, UI_PASSWORD, UI_PASSWORD_HASH: Login credentials
//   - METRICS_ENABLED, METRICS_PORT: Prometheus endpoint (default: true, 9090)
//
// # Shutdown Sequence
//
//  1. Receive SIGINT or SIGTERM
//  2. Stop metrics collector
//  3. Shutdown HTTP server (30 second timeout)
//  4. Shutdown metrics server (if running)
//  5. Disconnect websocket clients
//  6. Close database
package main
