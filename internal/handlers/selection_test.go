package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeSelection(t *testing.T, body []byte) []string {
	t.Helper()
	var resp SelectionResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Selected
}

func TestToggleSelection(t *testing.T) {
	env := newTestEnv(t, 5)
	cookie := env.login()
	decodeSession(t, env.request(http.MethodPost, "/api/session/refresh", nil, cookie))

	for _, id := range []string{"4", "1", "3"} {
		w := env.request(http.MethodPost, "/api/selection", ToggleRequest{ID: id, Included: true}, cookie)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := env.request(http.MethodPost, "/api/selection", ToggleRequest{ID: "1", Included: false}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"4", "3"}, decodeSelection(t, w.Body.Bytes()))

	// unchecking an absent id is a no-op
	w = env.request(http.MethodPost, "/api/selection", ToggleRequest{ID: "2", Included: false}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(http.MethodGet, "/api/selection", nil, cookie)
	assert.Equal(t, []string{"4", "3"}, decodeSelection(t, w.Body.Bytes()))

	resp := decodeSession(t, env.request(http.MethodGet, "/api/session", nil, cookie))
	selected := map[string]bool{}
	for _, row := range resp.Rows {
		selected[row.ID] = row.Selected
	}
	assert.True(t, selected["3"])
	assert.True(t, selected["4"])
	assert.False(t, selected["1"])

	w = env.request(http.MethodPost, "/api/selection", ToggleRequest{Included: true}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSelectionPrunedOnRefresh(t *testing.T) {
	env := newTestEnv(t, 2)
	cookie := env.login()
	decodeSession(t, env.request(http.MethodPost, "/api/session/refresh", nil, cookie))

	env.request(http.MethodPost, "/api/selection", ToggleRequest{ID: "2", Included: true}, cookie)
	env.request(http.MethodPost, "/api/selection", ToggleRequest{ID: "77", Included: true}, cookie)
	assert.Equal(t, []string{"2", "77"}, env.controller.Selected(), "unknown ids are accepted")

	resp := decodeSession(t, env.request(http.MethodPost, "/api/session/refresh", nil, cookie))
	assert.Equal(t, []string{"2"}, resp.Selected)
}

func TestExportPlaylist(t *testing.T) {
	env := newTestEnv(t, 4)
	cookie := env.login()
	decodeSession(t, env.request(http.MethodPost, "/api/session/refresh", nil, cookie))

	env.request(http.MethodPost, "/api/selection", ToggleRequest{ID: "3", Included: true}, cookie)
	env.request(http.MethodPost, "/api/selection", ToggleRequest{ID: "1", Included: true}, cookie)

	w := env.request(http.MethodPost, "/api/playlist/export", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "#EXTM3U\n/videos/3\n/videos/1\n", w.Body.String())
	assert.Equal(t, `attachment; filename="playlist.m3u8"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/vnd.apple.mpegurl", w.Header().Get("Content-Type"))

	exported := env.backend.exports()
	require.Len(t, exported, 1)
	assert.Equal(t, []string{"3", "1"}, exported[0], "ids are sent in check order")
	assert.Equal(t, []string{"3", "1"}, env.controller.Selected(), "export keeps the selection")
}

func TestExportEmptySelection(t *testing.T) {
	env := newTestEnv(t, 2)
	cookie := env.login()

	w := env.request(http.MethodPost, "/api/playlist/export", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "#EXTM3U\n", w.Body.String())
}

func TestExportBackendDown(t *testing.T) {
	env := newTestEnv(t, 2)
	cookie := env.login()
	env.request(http.MethodPost, "/api/selection", ToggleRequest{ID: "1", Included: true}, cookie)

	env.backend.setDown(true)
	w := env.request(http.MethodPost, "/api/playlist/export", nil, cookie)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, []string{"1"}, env.controller.Selected())
}
