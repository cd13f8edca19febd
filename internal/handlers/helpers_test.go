package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"video-player/internal/auth"
	"video-player/internal/catalog"
	"video-player/internal/database"
	"video-player/internal/logging"
	"video-player/internal/realtime"
	"video-player/internal/session"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

const (
	testUser     = "admin"
	testPassword = "secret"
	videoBytes   = "0123456789abcdef"
)

// fakeBackend is an in-memory media backend speaking the REST API the
// catalog client expects. Ids are positions, renumbered after a delete.
type fakeBackend struct {
	mu         sync.Mutex
	paths      []string
	sizes      []uint64
	down       bool
	scanPath   string
	scanArgs   string
	exported   [][]string
	lastCookie string
}

func newFakeBackend(n int) *fakeBackend {
	b := &fakeBackend{}
	for i := 1; i <= n; i++ {
		b.paths = append(b.paths, fmt.Sprintf("movies/clip %02d.mp4", i))
		b.sizes = append(b.sizes, uint64((n-i+1)*1048576))
	}
	return b
}

func (b *fakeBackend) setDown(down bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.down = down
}

func (b *fakeBackend) lastScan() (path, args string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scanPath, b.scanArgs
}

func (b *fakeBackend) exports() [][]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]string(nil), b.exported...)
}

func (b *fakeBackend) cookieSeen() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastCookie
}

func (b *fakeBackend) list() []catalog.VideoEntry {
	entries := make([]catalog.VideoEntry, len(b.paths))
	for i, p := range b.paths {
		entries[i] = catalog.VideoEntry{ID: strconv.Itoa(i + 1), Path: p, Size: b.sizes[i]}
	}
	return entries
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.down {
		http.Error(w, "restarting", http.StatusServiceUnavailable)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/playlist/list":
		_ = json.NewEncoder(w).Encode(b.list())

	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/v1/playlist/"):
		id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/v1/playlist/"))
		if err != nil || id < 1 || id > len(b.paths) {
			http.NotFound(w, r)
			return
		}
		b.paths = append(b.paths[:id-1], b.paths[id:]...)
		b.sizes = append(b.sizes[:id-1], b.sizes[id:]...)

	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/playlist":
		var req struct {
			Path string `json:"path"`
			Args string `json:"args"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.scanPath, b.scanArgs = req.Path, req.Args
		b.paths = []string{req.Path + "/b.mkv", req.Path + "/a.mp4"}
		b.sizes = []uint64{10, 20}

	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/path-suggestions":
		_ = json.NewEncoder(w).Encode([]catalog.PathSuggestion{
			{Path: r.URL.Query().Get("path") + "/movies", IsDir: true},
		})

	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/generate-playlist":
		var req struct {
			VideoIDs []string `json:"videoIds"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.exported = append(b.exported, req.VideoIDs)
		w.Header().Set("Content-Type", "application/octet-stream")
		fmt.Fprintf(w, "#EXTM3U\n")
		for _, id := range req.VideoIDs {
			fmt.Fprintf(w, "/videos/%s\n", id)
		}

	case strings.HasPrefix(r.URL.Path, "/videos/"):
		b.lastCookie = r.Header.Get("Cookie")
		w.Header().Set("Content-Type", "application/octet-stream")
		http.ServeContent(w, r, filepath.Base(r.URL.Path), time.Time{}, strings.NewReader(videoBytes))

	default:
		http.NotFound(w, r)
	}
}

type testEnv struct {
	t          *testing.T
	backend    *fakeBackend
	server     *httptest.Server
	controller *session.Controller
	db         *database.Database
	hub        *realtime.Hub
	handlers   *Handlers
	router     http.Handler
}

var (
	authOnce   sync.Once
	sharedAuth *auth.Authenticator
)

// testAuthenticator hashes once; bcrypt at the default cost is slow.
func testAuthenticator(t *testing.T) *auth.Authenticator {
	t.Helper()
	authOnce.Do(func() {
		var err error
		sharedAuth, err = auth.New(testUser, testPassword, "")
		if err != nil {
			panic(err)
		}
	})
	return sharedAuth
}

func newTestEnv(t *testing.T, videos int) *testEnv {
	t.Helper()
	logging.SetOutput(io.Discard)

	backend := newFakeBackend(videos)
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), database.FileName))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := realtime.NewHub()
	go hub.Run(ctx)

	client := catalog.NewClient(server.URL, 5*time.Second)
	controller := session.NewController(client, hub, catalog.PollConfig{Interval: 10 * time.Millisecond, MaxAttempts: 5})
	h := New(controller, client, db, testAuthenticator(t), hub)

	return &testEnv{
		t:          t,
		backend:    backend,
		server:     server,
		controller: controller,
		db:         db,
		hub:        hub,
		handlers:   h,
		router:     h.AuthMiddleware(testRouter(h)),
	}
}

func testRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/login", h.LoginPage).Methods("GET")
	r.HandleFunc("/player", h.PlayerPage).Methods("GET")
	r.HandleFunc("/playlist-maker", h.PlaylistMakerPage).Methods("GET")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")
	r.HandleFunc("/api/auth/login", h.Login).Methods("POST")
	r.HandleFunc("/api/auth/logout", h.Logout).Methods("POST")
	r.HandleFunc("/api/auth/check", h.CheckAuth).Methods("GET")
	r.HandleFunc("/api/session", h.GetSession).Methods("GET")
	r.HandleFunc("/api/session/refresh", h.RefreshCatalog).Methods("POST")
	r.HandleFunc("/api/session/select", h.SelectVideo).Methods("POST")
	r.HandleFunc("/api/session/ready", h.VideoReady).Methods("POST")
	r.HandleFunc("/api/session/advance", h.Advance).Methods("POST")
	r.HandleFunc("/api/session/sort", h.SetSort).Methods("PUT")
	r.HandleFunc("/api/session/player", h.UpdatePlayer).Methods("PUT")
	r.HandleFunc("/api/videos/{id}", h.DeleteVideo).Methods("DELETE")
	r.HandleFunc("/api/scan-path", h.ChangeScanPath).Methods("POST")
	r.HandleFunc("/api/path-suggestions", h.PathSuggestions).Methods("GET")
	r.HandleFunc("/api/selection", h.GetSelection).Methods("GET")
	r.HandleFunc("/api/selection", h.ToggleSelection).Methods("POST")
	r.HandleFunc("/api/playlist/export", h.ExportPlaylist).Methods("POST")
	r.HandleFunc("/ws", h.ServeWS)
	r.PathPrefix("/videos/").HandlerFunc(h.ServeVideo).Methods("GET", "HEAD")
	r.PathPrefix("/static/").Handler(StaticHandler())
	return r
}

// request runs one request through the auth middleware and router.
func (e *testEnv) request(method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// login returns the session cookie for the test user.
func (e *testEnv) login() *http.Cookie {
	e.t.Helper()
	w := e.request(http.MethodPost, "/api/auth/login", LoginRequest{Username: testUser, Password: testPassword}, nil)
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())

	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	e.t.Fatal("login did not set a session cookie")
	return nil
}

func decodeSession(t *testing.T, w *httptest.ResponseRecorder) SessionResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Error
}

func rowIDs(rows []VideoRow) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}
