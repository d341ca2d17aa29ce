package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/mindtool/internal/api"
	"github.com/rshade/mindtool/internal/cli/pagination"
	"github.com/rshade/mindtool/internal/config"
	"github.com/rshade/mindtool/internal/pager"
	"github.com/rshade/mindtool/internal/tags"
	"github.com/rshade/mindtool/internal/tui"
	listview "github.com/rshade/mindtool/internal/tui/list"
)

// ErrNotInteractive is returned by browse when stdin or stdout is not a terminal.
var ErrNotInteractive = errors.New("browse needs an interactive terminal; use the list commands instead")

// rowCellWidth is the column width used for browse rows.
const rowCellWidth = 24

// NewBrowseCmd creates the interactive browse command.
func NewBrowseCmd() *cobra.Command {
	params := pagination.NewListParams()
	cmd := &cobra.Command{
		Use:   "browse <schematic|map|post>",
		Short: "Browse content interactively with live tag filters",
		Long: `Opens a terminal browser over schematics, maps or posts.

Keys:
  ↑/↓ or j/k   move (reaching the end loads the next page)
  n            load the next page
  r            reload, or retry after an error
  /            add a tag filter (category_value)
  backspace    drop the last tag filter
  x            clear all tag filters
  s            cycle the sort order
  enter        show details
  q            quit`,
		Example:   `  mindtool browse schematic --tag size_small`,
		ValidArgs: contentTypes,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if tui.DetectOutputMode(true, false, false) != tui.OutputModeInteractive {
				return ErrNotInteractive
			}
			ctx := cmd.Context()
			sess, err := newSession(ctx)
			if err != nil {
				return err
			}

			switch args[0] {
			case typeMap:
				return runBrowse(ctx, sess, "Maps", mapView(), params, mapDetail)
			case typePost:
				return runBrowse(ctx, sess, "Posts", postView(), params, postDetail)
			default:
				return runBrowse(ctx, sess, "Schematics", schematicView("browse"), params, schematicDetail)
			}
		},
	}
	cmd.Flags().StringArrayVarP(&params.Tags, "tag", "t", []string{},
		"Initial tag filter as category_value (repeatable or comma separated)")
	cmd.Flags().StringVar(&params.Sort, "sort", "", "Initial sort order: newest, oldest, or most-liked")
	return cmd
}

// runBrowse runs the browser for one content type until the user quits.
func runBrowse[T any](
	ctx context.Context,
	sess *session,
	title string,
	view listView[T],
	params *pagination.ListParams,
	detail func(*tags.Catalog) func(T) string,
) error {
	catalog, err := sess.catalog(ctx, view.group)
	if err != nil {
		return err
	}
	filters, err := ApplyTagFilters(ctx, catalog, params.TagValues())
	if err != nil {
		return err
	}
	sort, err := params.ResolveSort(sess.library)
	if err != nil {
		return err
	}

	// Anything written to stderr would tear the alternate screen.
	loaderLog := zerolog.Nop()
	if config.GetLoggingConfig().File != "" {
		loaderLog = sess.log
	}

	cfg := tui.BrowseConfig[T]{
		Title:   title,
		Path:    view.path,
		Catalog: catalog,
		Sorts:   sess.library.Sorts(),
		Sort:    sort,
		Filters: filters,
		Render:  rowRenderer(view.columns(columnEnv{catalog: catalog})),
		Detail:  detail(catalog),
	}
	model := tui.NewBrowseModel[T](ctx, api.NewPageFetcher[T](sess.client), cfg,
		pager.WithPageSize(sess.cfg.Paging.PageSize),
		pager.WithTimeout(sess.cfg.FetchTimeout()),
		pager.WithLogger(loaderLog),
	)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err = p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive browser: %w", err)
	}
	return nil
}

// rowRenderer lays out table columns as a fixed-width browse row.
func rowRenderer[T any](cols []column[T]) listview.RenderFunc[T] {
	return func(item T, selected bool) string {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = fmt.Sprintf("%-*s", rowCellWidth, truncate(sanitizeCell(c.value(item)), rowCellWidth))
		}
		line := strings.TrimRight(strings.Join(cells, " "), " ")
		if selected {
			return tui.TableSelectedStyle.Render("> " + line)
		}
		return "  " + line
	}
}
