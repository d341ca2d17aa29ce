package pager

// State is the loader's current phase.
type State int

const (
	// StateIdle means nothing has been fetched yet.
	StateIdle State = iota
	// StateLoading means a fetch round is in flight.
	StateLoading
	// StateHasMore means the last page was full and more may follow.
	StateHasMore
	// StateExhausted means the last page was short; the server has no more data.
	StateExhausted
	// StateError means the last fetch round failed; it can be retried.
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateHasMore:
		return "has-more"
	case StateExhausted:
		return "exhausted"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Settled reports whether no fetch is in flight.
func (s State) Settled() bool {
	return s != StateLoading
}
