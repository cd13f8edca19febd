package playlist

import (
	"sync"

	"video-player/internal/mediatypes"
)

// Filename is the download name of an exported playlist.
const Filename = mediatypes.PlaylistFilename

// ContentType is the MIME type an exported playlist is served with.
const ContentType = mediatypes.PlaylistMimeType

// SelectionSet holds the video ids checked for export, in the order they
// were checked. It is safe for concurrent use.
type SelectionSet struct {
	mu    sync.RWMutex
	order []string
	index map[string]struct{}
}

// NewSelectionSet creates an empty selection.
func NewSelectionSet() *SelectionSet {
	return &SelectionSet{index: make(map[string]struct{})}
}

// Toggle adds id when included is true and removes it otherwise.
// Adding a member again keeps its original position. Ids that are not in
// the current catalog are accepted; the next Prune drops them if they are
// still unknown. Returns true if membership changed.
func (s *SelectionSet) Toggle(id string, included bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, present := s.index[id]
	switch {
	case included && !present:
		s.index[id] = struct{}{}
		s.order = append(s.order, id)
		return true
	case !included && present:
		delete(s.index, id)
		s.order = removeID(s.order, id)
		return true
	}
	return false
}

// Members returns the selected ids in insertion order.
func (s *SelectionSet) Members() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Contains reports whether id is selected.
func (s *SelectionSet) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// Len returns the number of selected ids.
func (s *SelectionSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Prune removes every member not in valid and returns how many were dropped.
func (s *SelectionSet) Prune(valid map[string]struct{}) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.order[:0]
	dropped := 0
	for _, id := range s.order {
		if _, ok := valid[id]; ok {
			kept = append(kept, id)
			continue
		}
		delete(s.index, id)
		dropped++
	}
	s.order = kept
	return dropped
}

// Reset empties the selection.
func (s *SelectionSet) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.index = make(map[string]struct{})
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
