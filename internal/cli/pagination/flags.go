package pagination

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rshade/mindtool/internal/tags"
)

// Page count limits.
const (
	DefaultPages = 1
	MinPages     = 1
	MaxPages     = 1000
)

// Common validation errors.
var (
	ErrInvalidPages = errors.New("pages must be between 1 and 1000")
	ErrAllWithPages = errors.New("cannot use both --all and --pages")
	ErrUnknownSort  = errors.New("unknown sort")
)

// ListParams holds list command flags.
//
//   - Pages: load pages 0..Pages-1 in one round
//   - All: keep loading the next page until the server runs out
//
// The two modes are mutually exclusive.
type ListParams struct {
	// Pages is the number of pages to load (page mode).
	Pages int

	// All loads every page (exhaustive mode).
	All bool

	// Sort is a sort option name such as "newest" or its tag form "time_1".
	Sort string

	// Tags are raw "category_value" filters, possibly comma separated.
	Tags []string
}

// NewListParams returns ListParams with default values.
func NewListParams() *ListParams {
	return &ListParams{Pages: DefaultPages}
}

// Validate checks flag bounds and mode exclusion. pagesChanged reports whether
// --pages was given explicitly, since its default is non-zero.
func (p ListParams) Validate(pagesChanged bool) error {
	if p.Pages < MinPages || p.Pages > MaxPages {
		return fmt.Errorf("%w: got %d", ErrInvalidPages, p.Pages)
	}
	if p.All && pagesChanged {
		return ErrAllWithPages
	}
	return nil
}

// ResolveSort looks the sort up in lib. An empty sort selects the library default.
func (p ListParams) ResolveSort(lib *tags.Library) (tags.SortOption, error) {
	name := strings.TrimSpace(p.Sort)
	if name == "" {
		return lib.DefaultSort(), nil
	}
	if opt, ok := lib.Sort(name); ok {
		return opt, nil
	}
	for _, opt := range lib.Sorts() {
		if opt.Tag.String() == name {
			return opt, nil
		}
	}

	names := make([]string, 0, len(lib.Sorts()))
	for _, opt := range lib.Sorts() {
		names = append(names, opt.Name)
	}
	return tags.SortOption{}, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownSort, name, strings.Join(names, ", "))
}

// TagValues splits comma separated --tag values into individual raw tags.
func (p ListParams) TagValues() []string {
	var out []string
	for _, raw := range p.Tags {
		for _, part := range strings.Split(raw, tags.ListDelimiter) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
