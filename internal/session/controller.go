package session

import (
	"errors"
	"sync"

	"video-player/internal/catalog"
	"video-player/internal/logging"
	"video-player/internal/metrics"
	"video-player/internal/playlist"
	"video-player/internal/sortview"
)

// Controller owns the catalog, its sort order, the current video and the
// export selection. Every method is one event: it takes the lock, applies
// its change, publishes a snapshot and releases. Backend calls are made
// with the lock released.
type Controller struct {
	backend  Backend
	notifier Notifier
	poll     catalog.PollConfig

	mu        sync.Mutex
	state     State
	settled   bool
	inflight  int
	epoch     uint64
	deletes   uint64
	stale     bool
	version   uint64
	entries   []catalog.VideoEntry
	directive *sortview.Directive
	playback  PlaybackState
	selection *playlist.SelectionSet
	lastError string
}

// NewController creates an idle session. A nil notifier discards snapshots.
func NewController(backend Backend, notifier Notifier, poll catalog.PollConfig) *Controller {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	c := &Controller{
		backend:   backend,
		notifier:  notifier,
		poll:      poll,
		state:     StateIdle,
		entries:   []catalog.VideoEntry{},
		selection: playlist.NewSelectionSet(),
		playback:  PlaybackState{Volume: DefaultVolume},
	}
	metrics.SetSessionState(string(StateIdle))
	return c
}

// Snapshot returns the current session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// GetStats implements metrics.StatsProvider for the session gauges.
func (c *Controller) GetStats() metrics.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total uint64
	for _, e := range c.entries {
		total += e.Size
	}
	return metrics.Stats{
		State:            string(c.state),
		CatalogEntries:   len(c.entries),
		CatalogBytes:     total,
		SelectionEntries: c.selection.Len(),
	}
}

// Clear forgets the catalog, selection and player settings, as on logout.
// Fetches still in flight are discarded when they complete.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	c.settled = false
	c.stale = false
	c.entries = []catalog.VideoEntry{}
	c.directive = nil
	c.playback = PlaybackState{Volume: DefaultVolume}
	c.selection.Reset()
	c.lastError = ""
	c.setStateLocked(c.restingState())

	logging.Debug("Session cleared")
	c.publishLocked("clear")
}

func (c *Controller) snapshotLocked() Snapshot {
	view := sortview.Sort(c.entries, c.directive)

	snap := Snapshot{
		Version:   c.version,
		State:     c.state,
		Videos:    view,
		Sort:      cloneDirective(c.directive),
		Playback:  c.playback,
		Selected:  c.selection.Members(),
		LastError: c.lastError,
	}
	if c.playback.CurrentID != nil {
		id := *c.playback.CurrentID
		snap.Playback.CurrentID = &id
		if i := catalog.IndexOf(c.entries, id); i >= 0 {
			entry := c.entries[i]
			snap.Current = &entry
		}
	}
	for _, e := range c.entries {
		snap.TotalBytes += e.Size
	}
	return snap
}

// publishLocked counts the event and hands a snapshot to the notifier.
func (c *Controller) publishLocked(event string) {
	c.version++
	metrics.SessionEventsTotal.WithLabelValues(event).Inc()
	c.notifier.Publish(c.snapshotLocked())
}

// violation records a rejected intent. State is not modified.
func (c *Controller) violation(op string, err error) error {
	logging.Warn("Session %s rejected: %v", op, err)
	metrics.SessionContractViolations.WithLabelValues(errorLabel(err)).Inc()
	return err
}

func errorLabel(err error) string {
	switch {
	case errors.Is(err, ErrInvalidSelection):
		return "invalid_selection"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrEmptyCatalog):
		return "empty_catalog"
	case errors.Is(err, ErrNoCurrentSelection):
		return "no_current_selection"
	default:
		return "other"
	}
}

func (c *Controller) setStateLocked(s State) {
	c.state = s
	metrics.SetSessionState(string(s))
}

// restingState is the outer state once no fetch is outstanding.
func (c *Controller) restingState() State {
	switch {
	case c.inflight > 0:
		return StateLoading
	case c.settled:
		return StateReady
	default:
		return StateIdle
	}
}

// setCurrentLocked switches the player to id. The new source starts
// loading and paused.
func (c *Controller) setCurrentLocked(id string) {
	c.playback.CurrentID = &id
	c.playback.VideoLoading = true
	c.playback.Playing = false
}

// reconcileLocked keeps the current selection when it is still listed and
// otherwise falls back to the first entry of the sorted view, or none.
func (c *Controller) reconcileLocked() {
	if cur := c.playback.CurrentID; cur != nil && catalog.IndexOf(c.entries, *cur) >= 0 {
		return
	}

	view := sortview.Sort(c.entries, c.directive)
	if len(view) == 0 {
		c.playback.CurrentID = nil
		c.playback.VideoLoading = false
		c.playback.Playing = false
		return
	}
	c.setCurrentLocked(view[0].ID)
}

func cloneDirective(d *sortview.Directive) *sortview.Directive {
	if d == nil {
		return nil
	}
	out := *d
	return &out
}
