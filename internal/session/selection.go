package session

import (
	"context"
	"fmt"

	"video-player/internal/logging"
	"video-player/internal/metrics"
)

// Toggle checks or unchecks id for export. Ids the catalog does not list
// are accepted and pruned on the next refresh.
func (c *Controller) Toggle(id string, included bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selection.Toggle(id, included) {
		c.publishLocked("toggle")
	}
}

// Selected returns the checked ids in the order they were checked.
func (c *Controller) Selected() []string {
	return c.selection.Members()
}

// ExportPlaylist asks the backend for a playlist of the checked videos, in
// the order they were checked. A failure leaves the selection untouched.
func (c *Controller) ExportPlaylist(ctx context.Context) ([]byte, error) {
	ids := c.selection.Members()

	data, err := c.backend.ExportPlaylist(ctx, ids)
	if err != nil {
		metrics.PlaylistExportsTotal.WithLabelValues("error").Inc()
		c.recordFailure("export", err)
		return nil, fmt.Errorf("exporting playlist: %w", err)
	}

	metrics.PlaylistExportsTotal.WithLabelValues("success").Inc()
	logging.Info("Exported playlist of %d videos (%d bytes)", len(ids), len(data))

	c.mu.Lock()
	c.publishLocked("export")
	c.mu.Unlock()
	return data, nil
}
