package session

import (
	"context"
	"fmt"
	"slices"
	"time"

	"video-player/internal/catalog"
	"video-player/internal/logging"
	"video-player/internal/metrics"
)

// settleMode controls how a fetched catalog is merged into the session.
type settleMode int

const (
	// settleRefresh keeps the current video and selection by id.
	settleRefresh settleMode = iota
	// settleRenumbered follows the current video and selection by path,
	// because the backend reassigns ids after a delete.
	settleRenumbered
	// settleReset starts over with an empty selection and no current video.
	settleReset
)

// LoadCatalog fetches the catalog and applies it as one event. While the
// fetch is in flight the other intents act on the last settled catalog.
// When fetches overlap, the one that completes last wins. On failure the
// catalog and playback state are left as they were.
func (c *Controller) LoadCatalog(ctx context.Context) ([]catalog.VideoEntry, error) {
	load := c.beginLoad(false)
	start := time.Now()
	entries, err := c.backend.List(ctx)
	return c.settle(load, start, entries, err, settleRefresh, nil)
}

// LoadCatalogWhenReady is LoadCatalog for a backend that may still be
// starting: List is retried with the controller's poll settings until it
// succeeds or the attempts run out.
func (c *Controller) LoadCatalogWhenReady(ctx context.Context) ([]catalog.VideoEntry, error) {
	load := c.beginLoad(false)
	start := time.Now()
	entries, err := c.backend.WaitForList(ctx, c.poll)
	return c.settle(load, start, entries, err, settleRefresh, nil)
}

// RemoveEntry drops id from the catalog and the selection without calling
// the backend. If id was playing, the selection falls back as on refresh.
func (c *Controller) RemoveEntry(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeEntryLocked(id)
}

func (c *Controller) removeEntryLocked(id string) error {
	i := catalog.IndexOf(c.entries, id)
	if i < 0 {
		return c.violation("remove", fmt.Errorf("%w: %s", ErrNotFound, id))
	}

	c.entries = slices.Delete(slices.Clone(c.entries), i, i+1)
	c.selection.Toggle(id, false)
	c.selection.Prune(catalog.IDSet(c.entries))
	if cur := c.playback.CurrentID; cur != nil && *cur == id {
		c.playback.CurrentID = nil
		c.reconcileLocked()
	}

	logging.Debug("Removed %s from session, %d entries left", id, len(c.entries))
	c.publishLocked("remove")
	return nil
}

// DeleteVideo deletes id on the backend, removes it locally and re-lists,
// since the backend renumbers the remaining ids. The current video and the
// selection are carried over by path. A failed delete changes nothing.
//
// Until a list fetched after the delete settles, the local ids may not
// match the backend's, and further deletes fail with ErrStaleCatalog.
func (c *Controller) DeleteVideo(ctx context.Context, id string) error {
	c.mu.Lock()
	if catalog.IndexOf(c.entries, id) < 0 {
		err := c.violation("delete", fmt.Errorf("%w: %s", ErrNotFound, id))
		c.mu.Unlock()
		return err
	}
	stale := c.stale
	c.mu.Unlock()

	if stale {
		err := fmt.Errorf("deleting video %s: %w", id, ErrStaleCatalog)
		c.recordFailure("delete", err)
		return err
	}

	if err := c.backend.Remove(ctx, id); err != nil {
		c.recordFailure("delete", err)
		return fmt.Errorf("deleting video %s: %w", id, err)
	}
	logging.Info("Deleted video %s", id)

	c.mu.Lock()
	c.deletes++
	c.stale = true
	// A concurrent refresh may already have dropped it.
	if catalog.IndexOf(c.entries, id) >= 0 {
		_ = c.removeEntryLocked(id)
	}
	previous := c.entries
	c.mu.Unlock()

	load := c.beginLoad(false)
	start := time.Now()
	entries, err := c.backend.List(ctx)
	if _, err := c.settle(load, start, entries, err, settleRenumbered, previous); err != nil {
		return fmt.Errorf("refreshing after delete: %w", err)
	}
	return nil
}

// ChangeScanPath points the backend at another directory and waits for it
// to come back with the new catalog. A new directory is a new set of
// videos, so the current video and the selection are reset. Volume and
// looping are player settings and are kept. Fetches started before the
// change are discarded when they complete.
func (c *Controller) ChangeScanPath(ctx context.Context, path string, recursive bool) ([]catalog.VideoEntry, error) {
	if err := c.backend.SetScanPath(ctx, path, recursive); err != nil {
		c.recordFailure("scan_path", err)
		return nil, fmt.Errorf("changing scan path: %w", err)
	}
	logging.Info("Scan path changed to %s (recursive=%v), waiting for backend", path, recursive)

	load := c.beginLoad(true)
	start := time.Now()
	entries, err := c.backend.WaitForList(ctx, c.poll)
	return c.settle(load, start, entries, err, settleReset, nil)
}

// loadTicket records what the session looked like when a fetch started.
type loadTicket struct {
	epoch   uint64
	deletes uint64
}

// beginLoad marks a fetch in flight and returns its ticket.
// newEpoch invalidates every fetch started earlier.
func (c *Controller) beginLoad(newEpoch bool) loadTicket {
	c.mu.Lock()
	defer c.mu.Unlock()

	if newEpoch {
		c.epoch++
	}
	c.inflight++
	if c.state != StateLoading {
		c.setStateLocked(StateLoading)
		c.publishLocked("load")
	}
	return loadTicket{epoch: c.epoch, deletes: c.deletes}
}

// settle applies a fetch completion as one event. A fetch that started
// before a backend delete may carry the old numbering, so applying it marks
// the catalog stale.
func (c *Controller) settle(load loadTicket, start time.Time, entries []catalog.VideoEntry, fetchErr error, mode settleMode, previous []catalog.VideoEntry) ([]catalog.VideoEntry, error) {
	metrics.CatalogLoadDuration.Observe(time.Since(start).Seconds())

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--

	if load.epoch != c.epoch {
		if fetchErr != nil {
			logging.Debug("Ignoring failure of a superseded load: %v", fetchErr)
		} else {
			logging.Debug("Discarding catalog from a superseded load (%d entries)", len(entries))
		}
		c.setStateLocked(c.restingState())
		c.publishLocked("load")
		if fetchErr != nil {
			return nil, fetchErr
		}
		return slices.Clone(c.entries), nil
	}

	if fetchErr != nil {
		metrics.CatalogLoadsTotal.WithLabelValues("error").Inc()
		logging.Warn("Catalog load failed: %v", fetchErr)
		c.lastError = fetchErr.Error()
		c.setStateLocked(c.restingState())
		c.publishLocked("load")
		return nil, fetchErr
	}

	metrics.CatalogLoadsTotal.WithLabelValues("success").Inc()
	metrics.CatalogLastLoadTimestamp.SetToCurrentTime()

	c.applyLocked(entries, mode, previous)
	c.settled = true
	c.stale = load.deletes != c.deletes
	if c.stale {
		logging.Warn("Catalog fetched before a delete was applied, ids may be out of date")
	}
	c.lastError = ""
	c.setStateLocked(c.restingState())

	logging.Info("Catalog loaded: %d entries", len(c.entries))
	c.publishLocked("load")
	return slices.Clone(c.entries), nil
}

func (c *Controller) applyLocked(entries []catalog.VideoEntry, mode settleMode, previous []catalog.VideoEntry) {
	fresh := slices.Clone(entries)
	if fresh == nil {
		fresh = []catalog.VideoEntry{}
	}

	switch mode {
	case settleReset:
		c.playback.CurrentID = nil
		c.playback.VideoLoading = false
		c.playback.Playing = false
		c.selection.Reset()
	case settleRenumbered:
		c.followPathsLocked(previous, fresh)
	}

	c.entries = fresh
	c.reconcileLocked()
	if dropped := c.selection.Prune(catalog.IDSet(c.entries)); dropped > 0 {
		logging.Debug("Pruned %d ids from the selection", dropped)
	}
}

// followPathsLocked rewrites the current id and the selection from the ids
// in previous to the ids the same paths have in fresh. Entries whose path
// disappeared are left for reconcile and prune to handle.
func (c *Controller) followPathsLocked(previous, fresh []catalog.VideoEntry) {
	pathOf := make(map[string]string, len(previous))
	for _, e := range previous {
		pathOf[e.ID] = e.Path
	}
	idOf := make(map[string]string, len(fresh))
	for _, e := range fresh {
		idOf[e.Path] = e.ID
	}
	translate := func(oldID string) (string, bool) {
		p, ok := pathOf[oldID]
		if !ok {
			return "", false
		}
		newID, ok := idOf[p]
		return newID, ok
	}

	if cur := c.playback.CurrentID; cur != nil {
		if newID, ok := translate(*cur); ok {
			c.playback.CurrentID = &newID
		} else {
			c.playback.CurrentID = nil
		}
	}

	members := c.selection.Members()
	c.selection.Reset()
	for _, id := range members {
		if newID, ok := translate(id); ok {
			c.selection.Toggle(newID, true)
		}
	}
}

// recordFailure surfaces a backend error in the snapshot without touching
// the catalog or the selection.
func (c *Controller) recordFailure(event string, err error) {
	logging.Warn("Session %s failed: %v", event, err)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastError = err.Error()
	c.publishLocked(event)
}
