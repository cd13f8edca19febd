// Package database provides SQLite storage for the video player.
//
// It keeps two things:
//   - login sessions, stored as SHA-256 hashes of random tokens
//   - per-user player preferences (volume, loop, sort order)
//
// The video catalog itself is not stored; the media backend is its only
// source of truth. The database uses WAL mode and creates its schema on
// open.
package database
