package cli

import (
	"context"

	"github.com/rshade/mindtool/internal/logging"
	"github.com/rshade/mindtool/internal/tags"
)

// ApplyTagFilters validates raw "category_value" strings against catalog and returns
// them as a filter set. All values are validated before any is returned; the first
// invalid one aborts. A later tag of the same category replaces an earlier one.
func ApplyTagFilters(ctx context.Context, catalog *tags.Catalog, raw []string) (*tags.FilterSet, error) {
	log := logging.FromContext(ctx)
	filters := tags.NewFilterSet(catalog)

	for _, r := range raw {
		if r == "" {
			continue
		}
		tq, err := tags.Parse(r, nil)
		if err == nil {
			err = filters.AddOrReplace(tq.Category, tq.Value)
		}
		if err != nil {
			log.Warn().Ctx(ctx).
				Str("component", "cli").
				Str("operation", "apply_tag_filters").
				Str("tag", r).
				Err(err).
				Msg("invalid tag filter")
			return nil, err
		}
	}

	log.Debug().Ctx(ctx).
		Str("component", "cli").
		Str("operation", "apply_tag_filters").
		Str("tags", filters.Serialize()).
		Msg("applied tag filters")

	return filters, nil
}
