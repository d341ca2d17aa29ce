package pagination

import (
	"github.com/rshade/mindtool/internal/pager"
)

// ListMeta describes what a list command loaded.
type ListMeta struct {
	PagesLoaded int    `json:"pages_loaded"    yaml:"pages_loaded"`
	PageSize    int    `json:"page_size"       yaml:"page_size"`
	TotalItems  int    `json:"total_items"     yaml:"total_items"`
	State       string `json:"state"           yaml:"state"`
	HasMore     bool   `json:"has_more"        yaml:"has_more"`
	Sort        string `json:"sort,omitempty"  yaml:"sort,omitempty"`
	Tags        string `json:"tags,omitempty"  yaml:"tags,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewListMeta builds metadata from a settled loader's pages and state.
func NewListMeta[T any](pages [][]T, pageSize int, state pager.State, err error) ListMeta {
	loaded, total := 0, 0
	for _, p := range pages {
		if len(p) > 0 {
			loaded++
		}
		total += len(p)
	}

	meta := ListMeta{
		PagesLoaded: loaded,
		PageSize:    pageSize,
		TotalItems:  total,
		State:       state.String(),
		HasMore:     state == pager.StateHasMore,
	}
	if err != nil {
		meta.Error = err.Error()
	}
	return meta
}
