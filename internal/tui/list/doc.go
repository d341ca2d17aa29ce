// Package listview provides a virtual scrolling list for Bubble Tea views.
//
// Only the rows inside the viewport plus a small buffer are rendered. Key features:
//   - Keyboard navigation (up/down, j/k, pgup/pgdn, home/end)
//   - Items can be replaced as pages arrive without losing the selection
//   - AtEnd lets the owner decide when to request the next page
package listview
