package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-player/internal/catalog"
	"video-player/internal/mediatypes"
	"video-player/internal/sortview"
)

func allDirectives() []*sortview.Directive {
	out := []*sortview.Directive{nil}
	for _, f := range []mediatypes.SortField{mediatypes.SortByID, mediatypes.SortByPath, mediatypes.SortBySize} {
		for _, o := range []mediatypes.SortOrder{mediatypes.SortAsc, mediatypes.SortDesc} {
			out = append(out, &sortview.Directive{Field: f, Direction: o})
		}
	}
	return out
}

// =============================================================================
// Advance
// =============================================================================

func TestAdvanceSizeAscendingScenario(t *testing.T) {
	c, _ := newLoaded(t,
		entry("1", "a.mp4", 100),
		entry("2", "b.mp4", 50),
	)
	c.SetSortDirective(&sortview.Directive{Field: mediatypes.SortBySize, Direction: mediatypes.SortAsc})
	assert.Equal(t, []string{"2", "1"}, catalog.IDs(c.Snapshot().Videos))
	require.NoError(t, c.Select("2"))

	next, err := c.Advance(Next)
	require.NoError(t, err)
	assert.Equal(t, "1", next.ID)
	assert.Equal(t, "1", currentID(c))

	next, err = c.Advance(Next)
	require.NoError(t, err)
	assert.Equal(t, "2", next.ID)
}

func TestAdvanceWrapsAround(t *testing.T) {
	c, _ := newLoaded(t, threeVideos()...)

	prev, err := c.Advance(Previous)
	require.NoError(t, err)
	assert.Equal(t, "3", prev.ID, "previous from the first wraps to the last")

	next, err := c.Advance(Next)
	require.NoError(t, err)
	assert.Equal(t, "1", next.ID, "next from the last wraps to the first")
}

func TestAdvanceCyclicClosure(t *testing.T) {
	videos := []catalog.VideoEntry{
		entry("1", "e.mp4", 10),
		entry("2", "b.mp4", 30),
		entry("3", "d.mp4", 30),
		entry("4", "a.mp4", 20),
		entry("5", "c.mp4", 5),
	}

	for _, d := range allDirectives() {
		for _, dir := range []Direction{Next, Previous} {
			t.Run(d.String()+"/"+string(dir), func(t *testing.T) {
				c, _ := newLoaded(t, videos...)
				c.SetSortDirective(d)
				require.NoError(t, c.Select("3"))

				seen := map[string]bool{}
				for i := 0; i < len(videos); i++ {
					e, err := c.Advance(dir)
					require.NoError(t, err)
					seen[e.ID] = true
				}

				assert.Equal(t, "3", currentID(c))
				assert.Len(t, seen, len(videos), "every video visited once")
			})
		}
	}
}

func TestAdvanceFollowsSortedOrder(t *testing.T) {
	c, _ := newLoaded(t, threeVideos()...)
	c.SetSortDirective(&sortview.Directive{Field: mediatypes.SortByPath, Direction: mediatypes.SortAsc})
	require.NoError(t, c.Select("2")) // a.mp4

	var order []string
	for i := 0; i < 3; i++ {
		e, err := c.Advance(Next)
		require.NoError(t, err)
		order = append(order, e.Path)
	}
	assert.Equal(t, []string{"b.mp4", "c.mp4", "a.mp4"}, order)
}

func TestAdvanceResetsPlayerState(t *testing.T) {
	c, _ := newLoaded(t, threeVideos()...)
	c.MarkVideoReady()
	require.NoError(t, c.SetPlaying(true))

	_, err := c.Advance(Next)
	require.NoError(t, err)

	snap := c.Snapshot()
	assert.True(t, snap.Playback.VideoLoading)
	assert.False(t, snap.Playback.Playing)
}

func TestAdvanceErrors(t *testing.T) {
	t.Run("empty catalog", func(t *testing.T) {
		c, _ := newLoaded(t)
		_, err := c.Advance(Next)
		assert.ErrorIs(t, err, ErrEmptyCatalog)
	})

	t.Run("no current selection", func(t *testing.T) {
		c, _ := newLoaded(t, threeVideos()...)
		c.mu.Lock()
		c.playback.CurrentID = nil
		c.mu.Unlock()

		_, err := c.Advance(Previous)
		assert.ErrorIs(t, err, ErrNoCurrentSelection)
	})

	t.Run("stale selection", func(t *testing.T) {
		c, _ := newLoaded(t, threeVideos()...)
		stale := "42"
		c.mu.Lock()
		c.playback.CurrentID = &stale
		c.mu.Unlock()

		_, err := c.Advance(Next)
		assert.ErrorIs(t, err, ErrInvalidSelection)
		assert.Equal(t, "42", currentID(c), "rejected advance changes nothing")
	})

	t.Run("bad direction", func(t *testing.T) {
		c, _ := newLoaded(t, threeVideos()...)
		_, err := c.Advance(Direction("sideways"))
		assert.ErrorIs(t, err, ErrInvalidDirection)
	})
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"next", Next, false},
		{"NEXT", Next, false},
		{"previous", Previous, false},
		{"prev", Previous, false},
		{"", "", true},
		{"back", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDirection)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// =============================================================================
// Select and sort
// =============================================================================

func TestSelect(t *testing.T) {
	c, _ := newLoaded(t, threeVideos()...)
	c.MarkVideoReady()
	require.NoError(t, c.SetPlaying(true))

	require.NoError(t, c.Select("3"))

	snap := c.Snapshot()
	assert.Equal(t, "3", *snap.Playback.CurrentID)
	assert.True(t, snap.Playback.VideoLoading)
	assert.False(t, snap.Playback.Playing, "a new source starts paused")
}

func TestSelectUnknownChangesNothing(t *testing.T) {
	c, _ := newLoaded(t, threeVideos()...)
	c.MarkVideoReady()

	err := c.Select("99")
	assert.ErrorIs(t, err, ErrInvalidSelection)
	assert.Equal(t, "1", currentID(c))
	assert.False(t, c.Snapshot().Playback.VideoLoading)
}

func TestMarkVideoReadyIdempotent(t *testing.T) {
	c, _ := newLoaded(t, threeVideos()...)
	require.True(t, c.Snapshot().Playback.VideoLoading)

	c.MarkVideoReady()
	assert.False(t, c.Snapshot().Playback.VideoLoading)
	c.MarkVideoReady()
	assert.False(t, c.Snapshot().Playback.VideoLoading)
}

func TestSortNeverChangesSelection(t *testing.T) {
	c, _ := newLoaded(t, threeVideos()...)
	require.NoError(t, c.Select("2"))

	for _, d := range allDirectives() {
		c.SetSortDirective(d)
		assert.Equal(t, "2", currentID(c), "directive %s", d)
		assert.Equal(t, d.String(), c.SortDirective().String())
	}
}

func TestSortDirectiveIsCopied(t *testing.T) {
	c, _ := newLoaded(t, threeVideos()...)
	d := &sortview.Directive{Field: mediatypes.SortBySize, Direction: mediatypes.SortAsc}
	c.SetSortDirective(d)

	d.Direction = mediatypes.SortDesc
	assert.Equal(t, mediatypes.SortAsc, c.SortDirective().Direction)
}

// =============================================================================
// Removal
// =============================================================================

func TestRemoveEntryPrunesSelection(t *testing.T) {
	c, _ := newLoaded(t, threeVideos()...)
	c.Toggle("1", true)
	c.Toggle("2", true)

	require.NoError(t, c.RemoveEntry("2"))

	assert.NotContains(t, c.Selected(), "2")
	assert.Equal(t, []string{"1"}, c.Selected())
	assert.Equal(t, []string{"1", "3"}, catalog.IDs(c.Snapshot().Videos))
}

func TestRemoveEntryReselectsCurrent(t *testing.T) {
	c, _ := newLoaded(t, threeVideos()...)
	c.SetSortDirective(&sortview.Directive{Field: mediatypes.SortBySize, Direction: mediatypes.SortDesc})
	require.NoError(t, c.Select("1"))

	require.NoError(t, c.RemoveEntry("1"))

	// remaining by size desc: 3 (200), 2 (100)
	assert.Equal(t, "3", currentID(c))
	assert.True(t, c.Snapshot().Playback.VideoLoading)
}

func TestRemoveLastEntry(t *testing.T) {
	c, _ := newLoaded(t, entry("1", "only.mp4", 1))
	require.NoError(t, c.RemoveEntry("1"))

	snap := c.Snapshot()
	assert.Empty(t, snap.Videos)
	assert.Nil(t, snap.Playback.CurrentID)
}

func TestRemoveEntryNotFound(t *testing.T) {
	c, _ := newLoaded(t, threeVideos()...)
	assert.ErrorIs(t, c.RemoveEntry("7"), ErrNotFound)
	assert.Len(t, c.Snapshot().Videos, 3)
}

func TestDeleteVideoFollowsRenumbering(t *testing.T) {
	c, backend := newLoaded(t,
		entry("1", "a.mp4", 1),
		entry("2", "b.mp4", 2),
		entry("3", "c.mp4", 3),
	)
	require.NoError(t, c.Select("3"))
	c.Toggle("3", true)
	c.Toggle("1", true)
	c.Toggle("2", true)

	require.NoError(t, c.DeleteVideo(context.Background(), "1"))

	assert.Equal(t, []string{"1"}, backend.removed)
	snap := c.Snapshot()
	assert.Equal(t, []catalog.VideoEntry{entry("1", "b.mp4", 2), entry("2", "c.mp4", 3)}, snap.Videos)
	require.NotNil(t, snap.Current)
	assert.Equal(t, "c.mp4", snap.Current.Path, "current video is kept across renumbering")
	assert.Equal(t, []string{"2", "1"}, snap.Selected, "selection follows paths in order")
}

func TestDeleteCurrentVideo(t *testing.T) {
	c, _ := newLoaded(t,
		entry("1", "a.mp4", 1),
		entry("2", "b.mp4", 2),
	)
	require.NoError(t, c.DeleteVideo(context.Background(), "1"))

	snap := c.Snapshot()
	require.NotNil(t, snap.Current)
	assert.Equal(t, "b.mp4", snap.Current.Path)
	assert.Equal(t, "1", *snap.Playback.CurrentID)
}

func TestDeleteVideoFailureChangesNothing(t *testing.T) {
	c, backend := newLoaded(t, threeVideos()...)
	c.Toggle("2", true)
	backend.removeErr = errBackendDown

	err := c.DeleteVideo(context.Background(), "2")

	require.ErrorIs(t, err, catalog.ErrNetworkFailure)
	assert.Len(t, c.Snapshot().Videos, 3)
	assert.Equal(t, []string{"2"}, c.Selected())
	assert.NotEmpty(t, c.Snapshot().LastError)
}

func TestDeleteVideoUnknown(t *testing.T) {
	c, backend := newLoaded(t, threeVideos()...)

	err := c.DeleteVideo(context.Background(), "9")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, backend.removed, "backend not called")
}

func fourVideos() []catalog.VideoEntry {
	return []catalog.VideoEntry{
		entry("1", "a.mp4", 1),
		entry("2", "b.mp4", 2),
		entry("3", "c.mp4", 3),
		entry("4", "d.mp4", 4),
	}
}

func TestDeleteVideoRefreshFailure(t *testing.T) {
	c, backend := newLoaded(t, fourVideos()...)
	backend.listFn = func(int) ([]catalog.VideoEntry, error) { return nil, errBackendDown }

	err := c.DeleteVideo(context.Background(), "1")
	require.ErrorIs(t, err, catalog.ErrNetworkFailure)
	assert.Equal(t, []string{"2", "3", "4"}, catalog.IDs(c.Snapshot().Videos))

	// the backend now calls b.mp4 "1"; deleting local "2" would remove c.mp4
	err = c.DeleteVideo(context.Background(), "2")
	require.ErrorIs(t, err, ErrStaleCatalog)
	assert.ErrorIs(t, err, catalog.ErrNetworkFailure)
	assert.Equal(t, []string{"1"}, backend.removedIDs())
	assert.Len(t, backend.current(), 3)

	backend.listFn = nil
	_, err = c.LoadCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []catalog.VideoEntry{
		entry("1", "b.mp4", 2),
		entry("2", "c.mp4", 3),
		entry("3", "d.mp4", 4),
	}, c.Snapshot().Videos)

	require.NoError(t, c.DeleteVideo(context.Background(), "1"))
	assert.Equal(t, []catalog.VideoEntry{entry("1", "c.mp4", 3), entry("2", "d.mp4", 4)}, backend.current())
}

func TestDeleteVideoAfterOlderLoadSettles(t *testing.T) {
	c, backend := newLoaded(t, fourVideos()...)

	release := make(chan struct{})
	started := make(chan struct{})
	backend.listFn = func(call int) ([]catalog.VideoEntry, error) {
		if call == 2 {
			close(started)
			<-release
			return fourVideos(), nil
		}
		return backend.current(), nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := c.LoadCatalog(context.Background())
		done <- err
	}()
	<-started

	require.NoError(t, c.DeleteVideo(context.Background(), "1"))
	assert.Equal(t, []string{"1", "2", "3"}, catalog.IDs(c.Snapshot().Videos))

	// the older list lands last and brings back the old numbering
	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"1", "2", "3", "4"}, catalog.IDs(c.Snapshot().Videos))

	err := c.DeleteVideo(context.Background(), "2")
	require.ErrorIs(t, err, ErrStaleCatalog)
	assert.Equal(t, []string{"1"}, backend.removedIDs())

	_, err = c.LoadCatalog(context.Background())
	require.NoError(t, err)
	require.NoError(t, c.DeleteVideo(context.Background(), "1"))
	assert.Equal(t, []string{"1", "1"}, backend.removedIDs())
	assert.Equal(t, []catalog.VideoEntry{entry("1", "c.mp4", 3), entry("2", "d.mp4", 4)}, backend.current())
}

// =============================================================================
// Scan path
// =============================================================================

func TestChangeScanPathResetsSession(t *testing.T) {
	c, backend := newLoaded(t, threeVideos()...)
	require.NoError(t, c.Select("3"))
	c.Toggle("1", true)
	require.NoError(t, c.SetVolume(0.5))

	backend.setEntries(entry("1", "new/x.mp4", 10), entry("2", "new/y.mp4", 20))
	entries, err := c.ChangeScanPath(context.Background(), "/srv/new", true)
	require.NoError(t, err)

	assert.Len(t, entries, 2)
	assert.Equal(t, "/srv/new", backend.scanPath)
	assert.True(t, backend.recursive)

	snap := c.Snapshot()
	assert.Empty(t, snap.Selected, "selection reset even though id 1 exists again")
	assert.Equal(t, "1", *snap.Playback.CurrentID)
	assert.Equal(t, "new/x.mp4", snap.Current.Path)
	assert.Equal(t, 0.5, snap.Playback.Volume, "player settings survive")
}

func TestChangeScanPathFailureChangesNothing(t *testing.T) {
	c, backend := newLoaded(t, threeVideos()...)
	c.Toggle("1", true)
	backend.scanErr = errBackendDown

	_, err := c.ChangeScanPath(context.Background(), "/srv/new", false)

	require.ErrorIs(t, err, catalog.ErrNetworkFailure)
	assert.Len(t, c.Snapshot().Videos, 3)
	assert.Equal(t, []string{"1"}, c.Selected())
}

func TestChangeScanPathBackendNeverReturns(t *testing.T) {
	c, backend := newLoaded(t, threeVideos()...)
	backend.listFn = func(int) ([]catalog.VideoEntry, error) {
		return nil, fmt.Errorf("backend not ready after 60 attempts: %w", errBackendDown)
	}

	_, err := c.ChangeScanPath(context.Background(), "/srv/new", false)

	require.ErrorIs(t, err, catalog.ErrNetworkFailure)
	snap := c.Snapshot()
	assert.Len(t, snap.Videos, 3, "stale catalog kept")
	assert.Equal(t, StateReady, snap.State)
}

// =============================================================================
// Selection and export
// =============================================================================

func TestExportUsesInsertionOrder(t *testing.T) {
	c, backend := newLoaded(t,
		entry("1", "a.mp4", 1),
		entry("2", "b.mp4", 2),
		entry("3", "c.mp4", 3),
	)
	c.Toggle("1", true)
	c.Toggle("3", true)

	data, err := c.ExportPlaylist(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "#EXTM3U\n", string(data))
	require.Len(t, backend.exported, 1)
	assert.Equal(t, []string{"1", "3"}, backend.exported[0])
}

func TestExportFailureKeepsSelection(t *testing.T) {
	c, backend := newLoaded(t, threeVideos()...)
	c.Toggle("3", true)
	backend.exportErr = errBackendDown

	_, err := c.ExportPlaylist(context.Background())

	require.ErrorIs(t, err, catalog.ErrNetworkFailure)
	assert.Equal(t, []string{"3"}, c.Selected())
}

func TestToggleUnknownIDPrunedOnRefresh(t *testing.T) {
	c, _ := newLoaded(t, threeVideos()...)
	c.Toggle("42", true)
	assert.Equal(t, []string{"42"}, c.Selected())

	_, err := c.LoadCatalog(context.Background())
	require.NoError(t, err)
	assert.Empty(t, c.Selected())
}

// =============================================================================
// Player flags and preferences
// =============================================================================

func TestPlayerFlags(t *testing.T) {
	c, _ := newLoaded(t, threeVideos()...)

	require.NoError(t, c.SetPlaying(true))
	c.SetLooping(true)
	require.NoError(t, c.SetVolume(1))

	pb := c.Snapshot().Playback
	assert.True(t, pb.Playing)
	assert.True(t, pb.Looping)
	assert.Equal(t, 1.0, pb.Volume)

	assert.ErrorIs(t, c.SetVolume(1.5), ErrInvalidVolume)
	assert.ErrorIs(t, c.SetVolume(-0.1), ErrInvalidVolume)
	assert.Equal(t, 1.0, c.Snapshot().Playback.Volume)
}

func TestSetPlayingWithoutVideo(t *testing.T) {
	c, _ := newLoaded(t)
	assert.ErrorIs(t, c.SetPlaying(true), ErrNoCurrentSelection)
	assert.NoError(t, c.SetPlaying(false))
}

func TestPreferences(t *testing.T) {
	c, _ := newLoaded(t, threeVideos()...)
	sortBy := &sortview.Directive{Field: mediatypes.SortByPath, Direction: mediatypes.SortDesc}

	c.ApplyPreferences(Preferences{Volume: 0.4, Looping: true, Sort: sortBy})
	got := c.Preferences()

	assert.Equal(t, 0.4, got.Volume)
	assert.True(t, got.Looping)
	assert.True(t, sortBy.Equal(got.Sort))

	c.ApplyPreferences(Preferences{Volume: 7})
	assert.Equal(t, DefaultVolume, c.Preferences().Volume)
	assert.Nil(t, c.Preferences().Sort)
}
