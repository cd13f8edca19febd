// Package middleware provides the HTTP middleware chain for the video player.
//
// It includes:
//   - Request ids from chi's RequestID, echoed as X-Request-ID
//   - Panic recovery via chi's Recoverer
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics
//   - gzip response compression for pages and JSON
//
// Every wrapper passes Hijack through so the websocket endpoint works behind
// the full chain.
package middleware
