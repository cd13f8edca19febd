package mediatypes

import (
	"fmt"
	"path"
	"strings"
)

// SortField specifies which catalog column to sort by.
type SortField string

// SortOrder specifies the direction of sorting.
type SortOrder string

const (
	// SortByID sorts by the backend-assigned id (lexicographic).
	SortByID SortField = "id"
	// SortByPath sorts by relative path (lexicographic).
	SortByPath SortField = "path"
	// SortBySize sorts by file size in bytes (numeric).
	SortBySize SortField = "size"

	// SortAsc sorts in ascending order.
	SortAsc SortOrder = "asc"
	// SortDesc sorts in descending order.
	SortDesc SortOrder = "desc"
)

// Valid reports whether f is one of the sortable columns.
func (f SortField) Valid() bool {
	switch f {
	case SortByID, SortByPath, SortBySize:
		return true
	}
	return false
}

// Valid reports whether o is asc or desc.
func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// MimeTypes maps video file extensions to their MIME types.
var MimeTypes = map[string]string{
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".3gp":  "video/3gpp",
	".ts":   "video/mp2t",
}

// PlaylistFilename is the download name of an exported playlist.
const PlaylistFilename = "playlist.m3u8"

// PlaylistMimeType is the content type of an exported playlist.
const PlaylistMimeType = "application/vnd.apple.mpegurl"

// DefaultMimeType is the content type of bytes with no known video extension.
const DefaultMimeType = "application/octet-stream"

// GetMimeType returns the MIME type for a relative video path.
// Returns DefaultMimeType if the extension is not recognized.
func GetMimeType(relativePath string) string {
	if mime, ok := MimeTypes[strings.ToLower(path.Ext(relativePath))]; ok {
		return mime
	}
	return DefaultMimeType
}

// IsVideoFile returns true if the path has a known video extension.
func IsVideoFile(relativePath string) bool {
	_, ok := MimeTypes[strings.ToLower(path.Ext(relativePath))]
	return ok
}

const (
	bytesPerMB = 1048576
	bytesPerGB = 1073741824
)

// FormatSize renders a byte count the way the catalog grid shows it:
// two decimals in GB or MB, plain bytes below one MB.
func FormatSize(size uint64) string {
	switch {
	case size >= bytesPerGB:
		return fmt.Sprintf("%.2f GB", float64(size)/bytesPerGB)
	case size >= bytesPerMB:
		return fmt.Sprintf("%.2f MB", float64(size)/bytesPerMB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
