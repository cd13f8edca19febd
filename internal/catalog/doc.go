// Package catalog is the HTTP client for the media backend.
//
// The backend owns the video files: it scans a directory, assigns each file a
// positional id, serves the bytes under /videos/ and renders m3u8 playlists.
// This package consumes its fixed REST surface:
//
//	GET    /api/v1/playlist/list             list videos
//	DELETE /api/v1/playlist/{id}             delete one video
//	POST   /api/v1/playlist                  change scan path (restarts backend)
//	GET    /api/v1/path-suggestions?path=... directory completion
//	POST   /api/v1/generate-playlist         build a playlist file
//
// # Errors
//
// Transport errors, non-2xx answers and undecodable bodies all wrap
// ErrNetworkFailure so callers can test for them with errors.Is. An empty list
// is not an error.
//
// # Restarts
//
// After SetScanPath the backend process restarts. WaitForList polls List at a
// fixed interval with an attempt cap and honours context cancellation.
//
// # Metrics
//
// Request durations and poll outcomes are reported through an Observer set
// with SetObserver; the metrics package provides the implementation.
package catalog
