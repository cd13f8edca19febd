package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"video-player/internal/logging"
	"video-player/internal/startup"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// PageData is passed to every page template.
type PageData struct {
	Title     string
	Page      string
	Username  string
	Version   string
	PageSizes []int
}

// StaticHandler serves the embedded scripts and styles under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

func (h *Handlers) renderPage(w http.ResponseWriter, r *http.Request, name string, data PageData) {
	data.Version = startup.Version
	data.PageSizes = PageSizes
	if sess := currentSession(r.Context()); sess != nil {
		data.Username = sess.Username
	}

	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		logging.Error("Failed to render %s: %v", name, err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := buf.WriteTo(w); err != nil {
		logging.Debug("Failed to write page %s: %v", name, err)
	}
}

// Index sends logged in users to the player and everyone else to login.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.validCookie(w, r); ok {
		http.Redirect(w, r, "/player", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// LoginPage renders the login form.
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "login.html", PageData{Title: "Login", Page: "login"})
}

// PlayerPage renders the video player with its grid.
func (h *Handlers) PlayerPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "player.html", PageData{Title: "Player", Page: "player"})
}

// PlaylistMakerPage renders the grid with export checkboxes.
func (h *Handlers) PlaylistMakerPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "playlist-maker.html", PageData{Title: "Playlist Maker", Page: "playlist-maker"})
}
