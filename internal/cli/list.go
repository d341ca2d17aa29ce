package cli

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/mindtool/internal/api"
	"github.com/rshade/mindtool/internal/cli/pagination"
	"github.com/rshade/mindtool/internal/config"
	"github.com/rshade/mindtool/internal/pager"
	"github.com/rshade/mindtool/internal/tags"
)

// listView describes one paged list endpoint and how to print it.
type listView[T any] struct {
	name        string // command path used in logs, e.g. "schematic list"
	noun        string // plural shown when nothing matched
	path        string
	group       string // tag group; empty disables --tag
	sortable    bool
	uploadQueue bool           // pages of paging.admin_page_size
	authorOf    func(T) string // nil when items have no author
	columns     func(columnEnv) []column[T]
}

// listFlags are the flags shared by every list command.
type listFlags struct {
	params      *pagination.ListParams
	output      string
	authorNames bool
}

func newListFlags() *listFlags {
	return &listFlags{params: pagination.NewListParams()}
}

// addListFlags registers the list flags on cmd. Tag and sort flags are only added
// when the endpoint supports them.
func addListFlags(cmd *cobra.Command, f *listFlags, withTags, sortable bool) {
	cmd.Flags().IntVar(&f.params.Pages, "pages", pagination.DefaultPages,
		"Number of pages to load (1-1000)")
	cmd.Flags().BoolVar(&f.params.All, "all", false,
		"Load every page until the server runs out (cannot be combined with --pages)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "",
		"Output format: table, json, or yaml (default from configuration)")
	cmd.Flags().BoolVar(&f.authorNames, "author-names", false,
		"Show author names instead of user IDs in table output")
	if withTags {
		cmd.Flags().StringArrayVarP(&f.params.Tags, "tag", "t", []string{},
			"Tag filter as category_value (repeatable or comma separated)")
	}
	if sortable {
		cmd.Flags().StringVar(&f.params.Sort, "sort", "",
			"Sort order: newest, oldest, or most-liked (default newest)")
	}
}

// listResult is a settled list load.
type listResult[T any] struct {
	items   []T
	catalog *tags.Catalog
	authors map[string]string
	meta    pagination.ListMeta
}

// runList loads the pages requested by flags and prints them.
func runList[T any](cmd *cobra.Command, view listView[T], flags *listFlags) error {
	ctx := cmd.Context()
	params := flags.params

	if err := params.Validate(cmd.Flags().Changed("pages")); err != nil {
		return err
	}
	format, err := resolveFormat(flags.output)
	if err != nil {
		return err
	}
	sess, err := newSession(ctx)
	if err != nil {
		return err
	}

	run := newCommandRun(view.name, map[string]string{
		"path":  view.path,
		"pages": strconv.Itoa(params.Pages),
		"all":   strconv.FormatBool(params.All),
		"sort":  params.Sort,
		"tags":  strings.Join(params.Tags, ","),
	})

	result, err := loadList(ctx, sess, view, params)
	if err != nil {
		run.logFailure(ctx, err)
		return err
	}
	if flags.authorNames && format == config.FormatTable && view.authorOf != nil {
		result.authors = resolveAuthors(ctx, sess, result.items, view.authorOf)
	}
	if err = renderList(cmd, format, view, result); err != nil {
		return err
	}
	run.logSuccess(ctx, len(result.items), sess.client)
	return nil
}

// loadList resolves tags and sort, then drives a loader in page or exhaustive mode.
func loadList[T any](
	ctx context.Context,
	sess *session,
	view listView[T],
	params *pagination.ListParams,
) (*listResult[T], error) {
	catalog, err := sess.catalog(ctx, view.group)
	if err != nil {
		return nil, err
	}
	filters, err := ApplyTagFilters(ctx, catalog, params.TagValues())
	if err != nil {
		return nil, err
	}
	var sort tags.SortOption
	if view.sortable {
		if sort, err = params.ResolveSort(sess.library); err != nil {
			return nil, err
		}
	}

	loader := newListLoader[T](ctx, sess, view, tags.QueryParams(filters, sort))
	if params.All {
		loader.Settle(loader.LoadUpTo(1))
		for n := 1; loader.State() == pager.StateHasMore; n++ {
			if n >= pagination.MaxPages {
				sess.log.Warn().Ctx(ctx).
					Str("component", "cli").
					Str("operation", "load_all").
					Int("pages", n).
					Msg("stopping at page limit")
				break
			}
			loader.Settle(loader.LoadNext())
		}
	} else {
		loader.Settle(loader.LoadUpTo(params.Pages))
	}

	return collect(loader, view, catalog, filters, sort)
}

// reloadList re-fetches the first page of view with params; used after a mutation.
func reloadList[T any](ctx context.Context, sess *session, view listView[T], params url.Values) (*listResult[T], error) {
	catalog, err := sess.catalog(ctx, view.group)
	if err != nil {
		return nil, err
	}
	loader := newListLoader[T](ctx, sess, view, params)
	loader.Settle(loader.Reload())
	return collect(loader, view, catalog, nil, tags.SortOption{})
}

func newListLoader[T any](ctx context.Context, sess *session, view listView[T], params url.Values) *pager.Loader[T] {
	pageSize := sess.cfg.Paging.PageSize
	if view.uploadQueue {
		pageSize = sess.cfg.Paging.AdminPageSize
	}
	return pager.New[T](ctx, api.NewPageFetcher[T](sess.client),
		pager.WithPageSize(pageSize),
		pager.WithTimeout(sess.cfg.FetchTimeout()),
		pager.WithLogger(sess.log),
		pager.WithSource(view.path, params),
	)
}

func collect[T any](
	loader *pager.Loader[T],
	view listView[T],
	catalog *tags.Catalog,
	filters *tags.FilterSet,
	sort tags.SortOption,
) (*listResult[T], error) {
	state := loader.State()
	if state == pager.StateError {
		return nil, fmt.Errorf("loading %s: %w", view.noun, loader.Err())
	}

	meta := pagination.NewListMeta(loader.Pages(), loader.PageSize(), state, nil)
	meta.Sort = sort.Name
	if filters != nil {
		meta.Tags = filters.Serialize()
	}
	return &listResult[T]{items: loader.Items(), catalog: catalog, meta: meta}, nil
}

// renderList prints a settled list in the chosen format.
func renderList[T any](cmd *cobra.Command, format string, view listView[T], result *listResult[T]) error {
	w := cmd.OutOrStdout()
	if format != config.FormatTable {
		return writeStructured(w, format, listDocument[T]{Items: result.items, Meta: result.meta})
	}
	if len(result.items) == 0 {
		fmt.Fprintf(w, "No %s found.\n", view.noun)
		return nil
	}
	env := columnEnv{catalog: result.catalog, authors: result.authors}
	if err := renderTable(w, view.columns(env), result.items); err != nil {
		return err
	}
	writeListFooter(w, result.meta)
	return nil
}
