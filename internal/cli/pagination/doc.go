// Package pagination holds the list flags shared by mindtool list commands and the
// metadata printed alongside their results.
//
//   - ListParams: --pages, --all, --sort and --tag parsing and validation
//   - ListMeta: what was loaded and whether the server has more
//
// Ordering is always done by the server; items are reported in page order.
package pagination
