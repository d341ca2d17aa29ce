package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/mindtool/internal/logging"
	"github.com/rshade/mindtool/internal/pager"
	"github.com/rshade/mindtool/internal/tags"
	listview "github.com/rshade/mindtool/internal/tui/list"
)

// Key bindings.
const (
	keyQuit      = "q"
	keyCtrlC     = "ctrl+c"
	keyEnter     = "enter"
	keyEsc       = "esc"
	keySlash     = "/"
	keyBackspace = "backspace"
	keyLoadMore  = "n"
	keyReload    = "r"
	keySort      = "s"
	keyClear     = "x"
)

// Footer texts.
const (
	footerHasMore   = "n: load more"
	footerExhausted = "no more results"
	footerError     = "error – r to retry"
	footerEmpty     = "no results"
)

const (
	filterInputCharLimit = 64
	filterInputWidth     = 40
	// chromeHeight is the rows taken by the header, chips, footer and help.
	chromeHeight = 6
)

// BrowseConfig describes one browsable endpoint.
type BrowseConfig[T any] struct {
	Title   string
	Path    string
	Catalog *tags.Catalog
	Sorts   []tags.SortOption
	Sort    tags.SortOption
	// Filters is the initial filter set; nil starts empty.
	Filters *tags.FilterSet
	Render  listview.RenderFunc[T]
	// Detail renders the selected item; nil disables the detail screen.
	Detail func(T) string
}

// BrowseModel is an interactive, tag-filterable view over a paged endpoint.
// Any filter or sort change starts the loader over from page 0.
type BrowseModel[T any] struct {
	ctx    context.Context
	title  string
	path   string
	loader *pager.Loader[T]

	filters *tags.FilterSet
	sorts   []tags.SortOption
	sortIdx int

	list     *listview.VirtualListModel[T]
	input    textinput.Model
	inputErr string
	loading  *LoadingState
	detail   func(T) string

	state  ViewState
	width  int
	height int
}

// NewBrowseModel creates a browser over cfg.Path. Loading starts in Init.
func NewBrowseModel[T any](
	ctx context.Context,
	fetcher pager.Fetcher[T],
	cfg BrowseConfig[T],
	opts ...pager.Option,
) *BrowseModel[T] {
	filters := cfg.Filters
	if filters == nil {
		filters = tags.NewFilterSet(cfg.Catalog)
	}
	sorts := cfg.Sorts
	if len(sorts) == 0 && cfg.Sort.Name != "" {
		sorts = []tags.SortOption{cfg.Sort}
	}
	sortIdx := max(slices.IndexFunc(sorts, func(s tags.SortOption) bool { return s.Name == cfg.Sort.Name }), 0)

	ti := textinput.New()
	ti.Placeholder = "category_value"
	ti.CharLimit = filterInputCharLimit
	ti.Width = filterInputWidth
	width, height := TerminalSize()

	m := &BrowseModel[T]{
		ctx:     ctx,
		title:   cfg.Title,
		path:    cfg.Path,
		loader:  pager.New[T](ctx, fetcher, opts...),
		filters: filters,
		sorts:   sorts,
		sortIdx: sortIdx,
		input:   ti,
		loading: NewLoadingState(),
		detail:  cfg.Detail,
		state:   ViewStateList,
		width:   width,
		height:  height,
	}
	m.list = listview.NewVirtualListModel[T](nil, m.listHeight(), m.width, cfg.Render)
	return m
}

// Init starts the spinner and fetches page 0.
func (m *BrowseModel[T]) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.restart())
}

// Update handles page results, spinner ticks, resizes and keys.
func (m *BrowseModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pager.PageMsg[T]:
		if m.loader.Update(msg) {
			m.list.SetItems(m.loader.Items())
		}
		return m, nil
	case spinner.TickMsg:
		return m, m.loading.Update(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.listHeight())
		return m, nil
	case tea.KeyMsg:
		switch m.state {
		case ViewStateFilter:
			return m.handleFilterKey(msg)
		case ViewStateDetail:
			return m.handleDetailKey(msg)
		case ViewStateQuitting:
			return m, nil
		default:
			return m.handleListKey(msg)
		}
	}
	return m, nil
}

//nolint:exhaustive // Only a handful of keys are bound.
func (m *BrowseModel[T]) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyLoadMore:
		return m, m.loader.LoadNext()
	case keyReload:
		cmd := m.loader.Reload()
		m.list.SetItems(m.loader.Items())
		return m, cmd
	case keySlash:
		m.state = ViewStateFilter
		m.inputErr = ""
		m.input.SetValue("")
		return m, m.input.Focus()
	case keyBackspace:
		return m, m.removeLastFilter()
	case keyClear:
		if m.filters.Len() == 0 {
			return m, nil
		}
		m.filters.Clear()
		return m, m.restart()
	case keySort:
		if len(m.sorts) < 2 {
			return m, nil
		}
		m.sortIdx = (m.sortIdx + 1) % len(m.sorts)
		return m, m.restart()
	case keyEnter:
		if m.detail != nil && m.list.GetSelectedItem() != nil {
			m.state = ViewStateDetail
		}
		return m, nil
	}

	m.list.Update(msg)
	if m.list.AtEnd() && m.loader.State() == pager.StateHasMore {
		return m, m.loader.LoadNext()
	}
	return m, nil
}

func (m *BrowseModel[T]) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		m.state = ViewStateList
		m.input.Blur()
		return m, nil
	case keyEnter:
		if err := m.addFilter(m.input.Value()); err != nil {
			m.inputErr = err.Error()
			return m, nil
		}
		m.state = ViewStateList
		m.input.Blur()
		return m, m.restart()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *BrowseModel[T]) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEsc, keyEnter:
		m.state = ViewStateList
	}
	return m, nil
}

// addFilter parses "category_value" typed by the user and adds it to the filter set.
func (m *BrowseModel[T]) addFilter(raw string) error {
	tq, err := tags.Parse(strings.TrimSpace(raw), nil)
	if err != nil {
		return err
	}
	if err = m.filters.AddOrReplace(tq.Category, tq.Value); err != nil {
		log := logging.FromContext(m.ctx)
		log.Debug().
			Str("component", "tui").
			Str("operation", "add_filter").
			Str("tag", raw).
			Err(err).
			Msg("filter rejected")
		return err
	}
	return nil
}

// removeLastFilter drops the newest filter and restarts the loader. With no
// filters the loader is left alone.
func (m *BrowseModel[T]) removeLastFilter() tea.Cmd {
	if err := m.filters.Remove(m.filters.Len() - 1); err != nil {
		log := logging.FromContext(m.ctx)
		log.Debug().
			Str("component", "tui").
			Str("operation", "remove_filter").
			Err(err).
			Msg("no filter to remove")
		return nil
	}
	return m.restart()
}

// restart re-initializes the loader with the current filters and sort.
func (m *BrowseModel[T]) restart() tea.Cmd {
	cmd := m.loader.Initialize(m.path, tags.QueryParams(m.filters, m.currentSort()))
	m.list.SetItems(m.loader.Items())
	m.list.SetSelected(0)
	return cmd
}

func (m *BrowseModel[T]) currentSort() tags.SortOption {
	if len(m.sorts) == 0 {
		return tags.SortOption{}
	}
	return m.sorts[m.sortIdx]
}

func (m *BrowseModel[T]) listHeight() int {
	return max(m.height-chromeHeight, minHeight)
}

// View renders the header, the list and the status footer.
func (m *BrowseModel[T]) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateDetail:
		if item := m.list.GetSelectedItem(); item != nil && m.detail != nil {
			return m.detail(*item) + "\n\n" + SubtleStyle.Render("[Esc] Back  [q] Quit")
		}
	}

	parts := []string{m.renderHeader(), m.renderChips()}
	if m.list.ItemCount() > 0 {
		parts = append(parts, m.list.View())
	}
	parts = append(parts, m.Footer())
	if m.state == ViewStateFilter {
		line := "Tag: " + m.input.View()
		if m.inputErr != "" {
			line += "  " + CriticalStyle.Render(m.inputErr)
		}
		parts = append(parts, line)
	}
	parts = append(parts, SubtleStyle.Render(
		"[↑↓/jk] Navigate  [n] More  [r] Reload  [/] Add tag  [⌫] Drop tag  [x] Clear  [s] Sort  [q] Quit"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *BrowseModel[T]) renderHeader() string {
	header := HeaderStyle.Render(m.title)
	if s := m.currentSort(); s.Name != "" {
		header += "  " + LabelStyle.Render("sort: ") + ValueStyle.Render(s.DisplayName)
	}
	return header + "  " + LabelStyle.Render(fmt.Sprintf("(%d loaded)", m.list.ItemCount()))
}

func (m *BrowseModel[T]) renderChips() string {
	active := m.filters.Tags()
	if len(active) == 0 {
		return SubtleStyle.Render("no filters")
	}
	chips := make([]string, 0, len(active))
	for _, tq := range active {
		cat, _ := m.filters.Catalog().Category(tq.Category)
		chips = append(chips, TagStyle(cat.Color).Render(tq.Display(cat)))
	}
	return strings.Join(chips, " ")
}

// Footer is the status line for the loader state.
func (m *BrowseModel[T]) Footer() string {
	switch m.loader.State() {
	case pager.StateLoading:
		return RenderLoading(m.loading)
	case pager.StateHasMore:
		return InfoStyle.Render(footerHasMore)
	case pager.StateExhausted:
		if m.list.ItemCount() == 0 {
			return SubtleStyle.Render(footerEmpty)
		}
		return SubtleStyle.Render(footerExhausted)
	case pager.StateError:
		return CriticalStyle.Render(footerError)
	default:
		return ""
	}
}

// Loader exposes the underlying loader.
func (m *BrowseModel[T]) Loader() *pager.Loader[T] {
	return m.loader
}

// Filters exposes the active filter set.
func (m *BrowseModel[T]) Filters() *tags.FilterSet {
	return m.filters
}

// Sort returns the active sort option.
func (m *BrowseModel[T]) Sort() tags.SortOption {
	return m.currentSort()
}

// State returns the current screen.
func (m *BrowseModel[T]) State() ViewState {
	return m.state
}
