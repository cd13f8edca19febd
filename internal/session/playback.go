package session

import (
	"fmt"

	"video-player/internal/catalog"
	"video-player/internal/logging"
	"video-player/internal/sortview"
)

// Select makes id the current video. The player starts loading it, paused.
func (c *Controller) Select(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if catalog.IndexOf(c.entries, id) < 0 {
		return c.violation("select", fmt.Errorf("%w: %s", ErrInvalidSelection, id))
	}
	c.setCurrentLocked(id)
	c.publishLocked("select")
	return nil
}

// MarkVideoReady records that the player finished loading the current
// video. Calling it when nothing is loading does nothing.
func (c *Controller) MarkVideoReady() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.playback.VideoLoading {
		return
	}
	c.playback.VideoLoading = false
	c.publishLocked("ready")
}

// Advance moves to the previous or next video of the sorted view, wrapping
// around at both ends, and returns the new current entry.
func (c *Controller) Advance(dir Direction) (catalog.VideoEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if dir != Previous && dir != Next {
		return catalog.VideoEntry{}, fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}

	view := sortview.Sort(c.entries, c.directive)
	n := len(view)
	if n == 0 {
		return catalog.VideoEntry{}, c.violation("advance", ErrEmptyCatalog)
	}
	if c.playback.CurrentID == nil {
		return catalog.VideoEntry{}, c.violation("advance", ErrNoCurrentSelection)
	}
	index := catalog.IndexOf(view, *c.playback.CurrentID)
	if index < 0 {
		return catalog.VideoEntry{}, c.violation("advance", fmt.Errorf("%w: %s", ErrInvalidSelection, *c.playback.CurrentID))
	}

	if dir == Previous {
		index = (index - 1 + n) % n
	} else {
		index = (index + 1) % n
	}

	next := view[index]
	c.setCurrentLocked(next.ID)
	logging.Debug("Advanced %s to %s (%s)", dir, next.ID, next.Path)
	c.publishLocked("advance")
	return next, nil
}

// SetSortDirective changes the display and navigation order. The current
// video stays the same; nil restores the received order.
func (c *Controller) SetSortDirective(d *sortview.Directive) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.directive = cloneDirective(d)
	logging.Debug("Sort directive set to %s", c.directive)
	c.publishLocked("sort")
}

// SortDirective returns the active directive, or nil.
func (c *Controller) SortDirective() *sortview.Directive {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneDirective(c.directive)
}

// SetPlaying starts or pauses the current video.
func (c *Controller) SetPlaying(playing bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if playing && c.playback.CurrentID == nil {
		return c.violation("play", ErrNoCurrentSelection)
	}
	c.playback.Playing = playing
	c.publishLocked("player")
	return nil
}

// SetLooping turns looping of the current video on or off.
func (c *Controller) SetLooping(looping bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.playback.Looping = looping
	c.publishLocked("player")
}

// SetVolume sets the player volume in the range [0, 1].
func (c *Controller) SetVolume(volume float64) error {
	if volume < 0 || volume > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidVolume, volume)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.playback.Volume = volume
	c.publishLocked("player")
	return nil
}

// Preferences returns the settings worth keeping across logins.
func (c *Controller) Preferences() Preferences {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Preferences{
		Volume:  c.playback.Volume,
		Looping: c.playback.Looping,
		Sort:    cloneDirective(c.directive),
	}
}

// ApplyPreferences restores saved settings. An out-of-range volume falls
// back to DefaultVolume.
func (c *Controller) ApplyPreferences(p Preferences) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p.Volume < 0 || p.Volume > 1 {
		p.Volume = DefaultVolume
	}
	c.playback.Volume = p.Volume
	c.playback.Looping = p.Looping
	c.directive = cloneDirective(p.Sort)
	c.publishLocked("player")
}
