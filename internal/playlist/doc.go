// Package playlist tracks which videos are checked for playlist export.
//
// A SelectionSet keeps ids in the order they were checked, which is the
// order they are sent to the backend's playlist generator. The generated
// file is opaque to this application and is downloaded as Filename.
//
// The selection is pruned against the catalog after every refresh or
// deletion so it never references a video the backend no longer lists.
package playlist
