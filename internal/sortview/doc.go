// Package sortview orders the video catalog for display and navigation.
//
// Both the grid and previous/next navigation use Sort, so the order a user
// sees is always the order they step through. Sorting is stable and works on
// a copy; the catalog itself keeps the order the backend returned.
package sortview
