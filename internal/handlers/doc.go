// Package handlers provides the HTTP surface of the video player.
//
// It includes handlers for:
//   - Login, logout and the session cookie check
//   - The playback session: snapshot, refresh, select, advance, sort and player settings
//   - Catalog changes: delete, scan path and path suggestions
//   - The export selection and playlist download
//   - The /videos/ reverse proxy to the backend and the /ws snapshot feed
//   - Server-rendered pages, health checks and version info
package handlers
