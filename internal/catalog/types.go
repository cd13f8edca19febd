package catalog

import "errors"

// ErrNetworkFailure is wrapped by every error caused by the backend being
// unreachable or answering with a non-2xx status.
var ErrNetworkFailure = errors.New("backend request failed")

// ErrEmptyPath is returned when a rescan is requested without a directory.
var ErrEmptyPath = errors.New("scan path is empty")

// VideoEntry is one video as listed by the backend. Entries are immutable
// once fetched; a refresh replaces the whole list.
type VideoEntry struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	Size uint64 `json:"size"`
}

// PathSuggestion is a directory candidate for the scan-path input.
type PathSuggestion struct {
	Path  string `json:"path"`
	IsDir bool   `json:"isDir"`
}

// IDs returns the entry ids in list order.
func IDs(entries []VideoEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

// IDSet returns the entry ids as a set for membership checks.
func IDSet(entries []VideoEntry) map[string]struct{} {
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		set[e.ID] = struct{}{}
	}
	return set
}

// IndexOf returns the position of id in entries, or -1.
func IndexOf(entries []VideoEntry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
