// Package realtime pushes playback session snapshots to browsers over a
// websocket.
//
// The Hub is the session's Notifier. Every published snapshot is encoded
// once and fanned out to all connected clients; a client that falls behind
// is disconnected rather than allowed to stall the others. A client that
// connects receives a welcome message and then the latest snapshot, so a
// page can render without a separate fetch.
//
// Messages are JSON:
//
//	{"type":"welcome","clientId":"...","now":"..."}
//	{"type":"snapshot","now":"...","snapshot":{...}}
package realtime
