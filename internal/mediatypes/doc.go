// Package mediatypes provides shared type definitions and utilities for the
// video catalog.
//
// This package is a dependency-free foundation that can be imported by other
// packages without creating import cycles. It contains primitive types,
// constants, and pure utility functions.
//
// # Sorting
//
// The catalog grid sorts on a single column at a time:
//
//	mediatypes.SortByID   // backend id, lexicographic
//	mediatypes.SortByPath // relative path, lexicographic
//	mediatypes.SortBySize // size in bytes, numeric
//
// combined with mediatypes.SortAsc or mediatypes.SortDesc.
//
// # Video Files
//
// GetMimeType and IsVideoFile work on relative paths as returned by the
// backend, so "shows/a.MKV" resolves to video/x-matroska. The video proxy
// uses GetMimeType when the backend sends untyped bytes, and the catalog
// grid uses IsVideoFile to mark rows the browser cannot play.
//
// # Display
//
// FormatSize renders sizes as "1.50 GB", "12.00 MB" or "512 bytes".
package mediatypes
