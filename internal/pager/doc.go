// Package pager loads server-paginated collections incrementally.
//
// A Loader owns the pages fetched so far and a small state machine
// (idle, loading, has-more, exhausted, error). Its operations never block: each
// returns a tea.Cmd that performs the fetch, and the resulting PageMsg is applied
// through Loader.Update on the caller's event loop. CLI code without an event loop
// uses Loader.Settle to run a command and apply its results.
//
// Invariants kept by the loader:
//   - only the last stored page may hold fewer than PageSize items
//   - no second fetch is started while one is in flight (LoadNext is rejected)
//   - a page fetched at index i is stored at position i, whatever the arrival order
//   - responses from a superseded Initialize/Reload/LoadUpTo are discarded
//   - a failed fetch leaves previously stored pages untouched
package pager
