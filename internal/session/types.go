package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"video-player/internal/catalog"
	"video-player/internal/sortview"
)

// Contract errors. They are returned without touching session state.
var (
	ErrInvalidSelection   = errors.New("video is not in the catalog")
	ErrNotFound           = errors.New("video not found")
	ErrEmptyCatalog       = errors.New("catalog is empty")
	ErrNoCurrentSelection = errors.New("no video selected")
)

// ErrStaleCatalog is returned by DeleteVideo while the local ids may not
// match the backend's numbering. It wraps catalog.ErrNetworkFailure: a
// refresh clears it and the delete can be retried.
var ErrStaleCatalog = fmt.Errorf("catalog ids are out of date, refresh and retry: %w", catalog.ErrNetworkFailure)

// Input errors.
var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidVolume    = errors.New("volume must be between 0 and 1")
)

// DefaultVolume is the player volume of a fresh session.
const DefaultVolume = 0.15

// State is the outer state of the session.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
)

// Direction selects the neighbour Advance moves to.
type Direction string

const (
	Previous Direction = "previous"
	Next     Direction = "next"
)

// ParseDirection accepts "previous"/"prev" and "next".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "previous", "prev":
		return Previous, nil
	case "next":
		return Next, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// PlaybackState is what the player shows. CurrentID always names an entry
// of a non-empty catalog.
type PlaybackState struct {
	CurrentID    *string `json:"currentId"`
	VideoLoading bool    `json:"videoLoading"`
	Playing      bool    `json:"playing"`
	Looping      bool    `json:"looping"`
	Volume       float64 `json:"volume"`
}

// Preferences are the per-user player settings restored on login.
type Preferences struct {
	Volume  float64
	Looping bool
	Sort    *sortview.Directive
}

// Snapshot is a consistent copy of the session taken under one event.
type Snapshot struct {
	Version    uint64               `json:"version"`
	State      State                `json:"state"`
	Videos     []catalog.VideoEntry `json:"videos"`
	Sort       *sortview.Directive  `json:"sort"`
	Playback   PlaybackState        `json:"playback"`
	Current    *catalog.VideoEntry  `json:"current"`
	Selected   []string             `json:"selected"`
	TotalBytes uint64               `json:"totalBytes"`
	LastError  string               `json:"lastError,omitempty"`
}

// Backend is the part of the media backend the session drives.
// *catalog.Client implements it.
type Backend interface {
	List(ctx context.Context) ([]catalog.VideoEntry, error)
	Remove(ctx context.Context, id string) error
	SetScanPath(ctx context.Context, path string, recursive bool) error
	ExportPlaylist(ctx context.Context, ids []string) ([]byte, error)
	WaitForList(ctx context.Context, config catalog.PollConfig) ([]catalog.VideoEntry, error)
}

// Notifier receives a snapshot after every state change. Publish is called
// with the session lock held and must not block or call back into the
// controller.
type Notifier interface {
	Publish(Snapshot)
}

type nopNotifier struct{}

func (nopNotifier) Publish(Snapshot) {}
