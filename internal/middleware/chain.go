package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestIDHeader is echoed on every response so browser errors can be
// matched with server and backend log lines.
const RequestIDHeader = "X-Request-ID"

// Config bundles the settings for [Chain].
type Config struct {
	Logging        LoggingConfig
	Compression    CompressionConfig
	Metrics        MetricsConfig
	MetricsEnabled bool
}

// RequestID tags each request with chi's request id and echoes it back.
func RequestID(next http.Handler) http.Handler {
	return chimw.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			w.Header().Set(RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	}))
}

// Chain wraps handler with the application middleware, outermost first:
// request id, logging, metrics, compression and panic recovery. The
// recovered 500 passes back out through every other layer.
func Chain(handler http.Handler, config Config) http.Handler {
	h := Compression(config.Compression)(chimw.Recoverer(handler))
	if config.MetricsEnabled {
		h = Metrics(config.Metrics)(h)
	}
	h = Logger(config.Logging)(h)
	return RequestID(h)
}
