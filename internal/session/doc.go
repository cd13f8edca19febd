// Package session implements the playback session: the catalog as last
// fetched, its sort order, the current video, the player flags and the
// export selection.
//
// # States
//
// A Controller starts Idle, is Loading while a fetch is in flight and Ready
// once a catalog has settled. VideoLoading is a separate flag that is true
// between choosing a video and the player reporting it ready.
//
// # Events
//
// Every method applies one event under the controller lock and publishes a
// Snapshot to the Notifier. Backend calls run with the lock released, so a
// Select or Advance issued during a refresh acts on the last settled
// catalog; the refresh then reconciles the selection when it completes.
// If two refreshes overlap, the later completion wins.
//
// # Invariants
//
//   - The current video is always listed in a non-empty catalog. After a
//     refresh that drops it, the first entry of the sorted view is chosen.
//   - Changing the sort order never changes the current video.
//   - Advance wraps around at both ends of the sorted view.
//   - The selection never holds an id missing from the catalog after a
//     refresh or removal.
//   - A failed fetch leaves the catalog and playback state as they were.
//
// Rejected intents (ErrInvalidSelection, ErrNotFound, ErrEmptyCatalog,
// ErrNoCurrentSelection) are logged at warn level, counted in
// video_player_session_contract_violations_total and change nothing.
package session
