package handlers

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"video-player/internal/logging"
	"video-player/internal/mediatypes"
	"video-player/internal/metrics"
)

// newVideoProxy forwards /videos/ requests to the backend unchanged, so
// Range requests and their 206 responses pass straight through.
func newVideoProxy(baseURL string) *httputil.ReverseProxy {
	target, err := url.Parse(baseURL)
	if err != nil {
		logging.Error("Invalid backend URL %q for video proxy: %v", baseURL, err)
		target = &url.URL{}
	}

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			// the backend has no use for the login cookie
			pr.Out.Header.Del("Cookie")
		},
		ModifyResponse: typeVideoResponse,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logging.Warn("Video proxy %s failed: %v", r.URL.Path, err)
			metrics.BackendRequestsTotal.WithLabelValues("video", "error").Inc()
			writeJSONError(w, "backend unavailable", http.StatusBadGateway)
		},
	}
}

// ServeVideo proxies the bytes of a catalog video from the backend.
func (h *Handlers) ServeVideo(w http.ResponseWriter, r *http.Request) {
	h.proxy.ServeHTTP(w, r)
}

// typeVideoResponse sets a video content type on successful responses the
// backend sent as untyped bytes, so browsers will play them inline.
func typeVideoResponse(resp *http.Response) error {
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil
	}
	ct := resp.Header.Get("Content-Type")
	if ct != "" && !strings.HasPrefix(ct, mediatypes.DefaultMimeType) {
		return nil
	}
	if mime := mediatypes.GetMimeType(resp.Request.URL.Path); mime != mediatypes.DefaultMimeType {
		resp.Header.Set("Content-Type", mime)
	}
	return nil
}
