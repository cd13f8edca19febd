// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig]:
//
//   - BACKEND_URL: Base URL of the media backend (default: http://localhost:8069)
//   - BACKEND_TIMEOUT: Per-request timeout for backend calls (default: 15s)
//   - DATABASE_DIR: Path to the sqlite directory (default: /database)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - UI_USERNAME: Login user (default: admin)
//   - UI_PASSWORD: Login password (default: admin)
//   - UI_PASSWORD_HASH: bcrypt hash of the password, preferred over UI_PASSWORD
//   - RESCAN_POLL_INTERVAL: Pause between list calls after a scan path change (default: 1s)
//   - RESCAN_MAX_ATTEMPTS: Give up on the backend after this many list calls (default: 60)
//   - SESSION_DURATION: Login session lifetime (default: 168h)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_FORMAT: "json" for JSON lines, console otherwise
//   - LOG_STATIC_FILES: Log proxied video requests (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//
// Invalid durations, integers and booleans fall back to their defaults with a
// warning. A malformed BACKEND_URL or an unwritable DATABASE_DIR is fatal.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
//
// # Example Usage
//
//	config, err := startup.LoadConfig()
//	if err != nil {
//	    startup.LogFatal("Configuration error: %v", err)
//	}
//
//	startup.LogServerStarted(startup.ServerConfig{
//	    Port:            config.Port,
//	    MetricsPort:     config.MetricsPort,
//	    MetricsEnabled:  config.MetricsEnabled,
//	    StartupDuration: time.Since(startTime),
//	})
package startup
