package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"video-player/internal/logging"
)

// RequestIDHeader carries a correlation id on every backend call.
const RequestIDHeader = "X-Request-ID"

const (
	listPath        = "/api/v1/playlist/list"
	playlistPath    = "/api/v1/playlist"
	suggestionsPath = "/api/v1/path-suggestions"
	generatePath    = "/api/v1/generate-playlist"
	videosPath      = "/videos/"

	// maxErrorBody caps how much of an error response is copied into the error.
	maxErrorBody = 512
)

// Client talks to the media backend's REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL. A zero timeout
// leaves requests bounded only by their context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List fetches the full catalog in the order the backend returns it.
// An empty or null list is a valid empty catalog.
func (c *Client) List(ctx context.Context) ([]VideoEntry, error) {
	var entries []VideoEntry
	err := c.do(ctx, "list", http.MethodGet, listPath, nil, func(body io.Reader) error {
		return json.NewDecoder(body).Decode(&entries)
	})
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []VideoEntry{}
	}
	logging.Debug("Catalog list returned %d entries", len(entries))
	return entries, nil
}

// Remove deletes one video by id. The backend renumbers the remaining ids,
// so callers must re-list afterwards.
func (c *Client) Remove(ctx context.Context, id string) error {
	return c.do(ctx, "remove", http.MethodDelete, playlistPath+"/"+url.PathEscape(id), nil, nil)
}

type scanPathRequest struct {
	Path string `json:"path"`
	Args string `json:"args"`
}

// SetScanPath points the backend at a new directory. The backend restarts
// to rescan, so it is briefly unavailable; see WaitForList.
func (c *Client) SetScanPath(ctx context.Context, path string, recursive bool) error {
	if strings.TrimSpace(path) == "" {
		return ErrEmptyPath
	}
	req := scanPathRequest{Path: path}
	if recursive {
		req.Args = "-r"
	}
	return c.do(ctx, "scan_path", http.MethodPost, playlistPath, req, nil)
}

// SuggestPaths returns directory candidates matching prefix, in backend order.
func (c *Client) SuggestPaths(ctx context.Context, prefix string) ([]PathSuggestion, error) {
	var suggestions []PathSuggestion
	endpoint := suggestionsPath + "?path=" + url.QueryEscape(prefix)
	err := c.do(ctx, "suggest", http.MethodGet, endpoint, nil, func(body io.Reader) error {
		return json.NewDecoder(body).Decode(&suggestions)
	})
	if err != nil {
		return nil, err
	}
	if suggestions == nil {
		suggestions = []PathSuggestion{}
	}
	return suggestions, nil
}

type generateRequest struct {
	VideoIDs []string `json:"videoIds"`
}

// ExportPlaylist asks the backend to build a playlist for ids, in the given
// order, and returns the file bytes untouched.
func (c *Client) ExportPlaylist(ctx context.Context, ids []string) ([]byte, error) {
	if ids == nil {
		ids = []string{}
	}
	var data []byte
	err := c.do(ctx, "export", http.MethodPost, generatePath, generateRequest{VideoIDs: ids}, func(body io.Reader) error {
		var readErr error
		data, readErr = io.ReadAll(body)
		return readErr
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// VideoURL returns the origin-relative URL serving the bytes of a relative
// path. The backend and the application's video proxy share the layout, so
// the result resolves against either.
func VideoURL(relativePath string) string {
	segments := strings.Split(strings.TrimLeft(relativePath, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return videosPath + strings.Join(segments, "/")
}

// do performs one request. Every failure, including a body that does not
// decode, is reported as ErrNetworkFailure.
func (c *Client) do(ctx context.Context, operation, method, endpoint string, payload interface{}, decode func(io.Reader) error) (err error) {
	start := time.Now()
	defer func() {
		observeRequest(operation, time.Since(start).Seconds(), err)
	}()

	var body io.Reader
	if payload != nil {
		encoded, encErr := json.Marshal(payload)
		if encErr != nil {
			return fmt.Errorf("encoding %s request: %w", operation, encErr)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("%w: building %s request: %v", ErrNetworkFailure, operation, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(RequestIDHeader, requestID(ctx))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Warn("Backend %s %s failed: %v", method, endpoint, err)
		return fmt.Errorf("%w: %s: %v", ErrNetworkFailure, operation, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logging.Debug("Failed to close backend response body: %v", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logging.Warn("Backend %s %s returned %d", method, endpoint, resp.StatusCode)
		return fmt.Errorf("%w: %s: status %d: %s", ErrNetworkFailure, operation, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if decode == nil {
		return nil
	}
	if err := decode(resp.Body); err != nil && err != io.EOF {
		return fmt.Errorf("%w: %s: decoding response: %v", ErrNetworkFailure, operation, err)
	}
	return nil
}

// requestID reuses the id of the inbound HTTP request when there is one.
func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
