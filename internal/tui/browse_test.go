package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rshade/mindtool/internal/pager"
	"github.com/rshade/mindtool/internal/tags"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testPageSize = 3

// fakeSource serves "p<page>-<n>" strings and records the last parameters it saw.
type fakeSource struct {
	mu     sync.Mutex
	sizes  []int
	fail   error
	params url.Values
	calls  int
}

func (f *fakeSource) FetchPage(_ context.Context, _ string, index int, params url.Values) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.params = params
	if f.fail != nil {
		return nil, f.fail
	}
	if index >= len(f.sizes) {
		return []string{}, nil
	}
	out := make([]string, f.sizes[index])
	for j := range out {
		out[j] = fmt.Sprintf("p%d-%d", index, j)
	}
	return out, nil
}

func (f *fakeSource) lastParams() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.params
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSource) setFail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = err
}

// drive runs cmd to completion and feeds the resulting messages back into m.
// Spinner ticks are dropped since following them would never end.
func drive(m *BrowseModel[string], cmd tea.Cmd) {
	var mu sync.Mutex
	var msgs []tea.Msg
	pager.Run(cmd, func(msg tea.Msg) {
		if _, ok := msg.(spinner.TickMsg); ok {
			return
		}
		mu.Lock()
		msgs = append(msgs, msg)
		mu.Unlock()
	})
	for _, msg := range msgs {
		_, next := m.Update(msg)
		drive(m, next)
	}
}

func press(m *BrowseModel[string], k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEscape}
	case "backspace":
		msg = tea.KeyMsg{Type: tea.KeyBackspace}
	case "end":
		msg = tea.KeyMsg{Type: tea.KeyEnd}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func newTestBrowser(t *testing.T, src *fakeSource) *BrowseModel[string] {
	t.Helper()
	lib := tags.DefaultLibrary()
	catalog, err := lib.Group(tags.GroupSchematicSearch)
	require.NoError(t, err)

	m := NewBrowseModel[string](context.Background(), src, BrowseConfig[string]{
		Title:   "Schematics",
		Path:    "schematic/page",
		Catalog: catalog,
		Sorts:   lib.Sorts(),
		Sort:    lib.DefaultSort(),
		Render:  func(item string, _ bool) string { return item },
		Detail:  func(item string) string { return "detail of " + item },
	}, pager.WithPageSize(testPageSize))
	drive(m, m.Init())
	return m
}

func TestBrowseInitLoadsFirstPage(t *testing.T) {
	src := &fakeSource{sizes: []int{3, 3, 1}}
	m := newTestBrowser(t, src)

	assert.Equal(t, []string{"p0-0", "p0-1", "p0-2"}, m.Loader().Items())
	assert.Equal(t, pager.StateHasMore, m.Loader().State())
	assert.Equal(t, "time_1", src.lastParams().Get(tags.ParamSort))
	assert.Empty(t, src.lastParams().Get(tags.ParamTags))
	assert.Contains(t, m.View(), "Schematics")
	assert.Contains(t, m.View(), footerHasMore)
}

func TestBrowseLoadsMoreAtEnd(t *testing.T) {
	src := &fakeSource{sizes: []int{3, 3, 1}}
	m := newTestBrowser(t, src)

	drive(m, press(m, "end"))
	assert.Len(t, m.Loader().Items(), 6)

	drive(m, press(m, "n"))
	assert.Len(t, m.Loader().Items(), 7)
	assert.Equal(t, pager.StateExhausted, m.Loader().State())
	assert.Contains(t, m.Footer(), footerExhausted)

	// A short last page is fetched again rather than skipped.
	drive(m, press(m, "n"))
	assert.Len(t, m.Loader().Items(), 7)
	assert.Equal(t, pager.StateExhausted, m.Loader().State())
}

func TestBrowseEmptyResult(t *testing.T) {
	m := newTestBrowser(t, &fakeSource{})

	assert.Empty(t, m.Loader().Items())
	assert.Contains(t, m.Footer(), footerEmpty)
}

func TestBrowseFilterInput(t *testing.T) {
	src := &fakeSource{sizes: []int{3, 3, 1}}
	m := newTestBrowser(t, src)

	press(m, "/")
	require.Equal(t, ViewStateFilter, m.State())

	press(m, "size_bogus")
	assert.Nil(t, press(m, "enter"))
	assert.Equal(t, ViewStateFilter, m.State(), "invalid tag keeps the input open")
	assert.Contains(t, m.View(), "bogus")
	assert.Equal(t, 0, m.Filters().Len())

	press(m, "esc")
	assert.Equal(t, ViewStateList, m.State())

	press(m, "/")
	press(m, "size_big")
	drive(m, press(m, "enter"))
	assert.Equal(t, ViewStateList, m.State())
	assert.Equal(t, []tags.TagQuery{{Category: "size", Value: "big"}}, m.Filters().Tags())
	assert.Equal(t, "size_big", src.lastParams().Get(tags.ParamTags))
	assert.Len(t, m.Loader().Items(), 3, "filter change restarts from page 0")

	press(m, "/")
	press(m, "size_small")
	drive(m, press(m, "enter"))
	assert.Equal(t, []tags.TagQuery{{Category: "size", Value: "small"}}, m.Filters().Tags(),
		"one tag per category")

	drive(m, press(m, "backspace"))
	assert.Equal(t, 0, m.Filters().Len())
	assert.Empty(t, src.lastParams().Get(tags.ParamTags))
	assert.Nil(t, press(m, "backspace"), "nothing to remove")
}

func TestBrowseBackspaceWithoutFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	ctx := logger.WithContext(context.Background())

	src := &fakeSource{sizes: []int{3, 1}}
	catalog, err := tags.DefaultLibrary().Group(tags.GroupSchematicSearch)
	require.NoError(t, err)
	m := NewBrowseModel[string](ctx, src, BrowseConfig[string]{
		Title:   "Schematics",
		Path:    "schematic/page",
		Catalog: catalog,
		Render:  func(item string, _ bool) string { return item },
	}, pager.WithPageSize(testPageSize))
	drive(m, m.Init())
	require.Equal(t, 1, src.callCount())

	assert.Nil(t, press(m, "backspace"))
	assert.Equal(t, 1, src.callCount(), "loader is not restarted")
	assert.Equal(t, pager.StateHasMore, m.Loader().State())
	assert.Len(t, m.Loader().Items(), 3)
	assert.Contains(t, buf.String(), `"operation":"remove_filter"`)
	assert.Contains(t, buf.String(), "index out of range")
}

func TestBrowseClearFilters(t *testing.T) {
	catalog, err := tags.DefaultLibrary().Group(tags.GroupSchematicSearch)
	require.NoError(t, err)
	filters := tags.NewFilterSet(catalog)
	require.NoError(t, filters.AddOrReplace("size", "big"))
	require.NoError(t, filters.AddOrReplace("position", "core"))

	src := &fakeSource{sizes: []int{1}}
	m := NewBrowseModel[string](context.Background(), src, BrowseConfig[string]{
		Title:   "Schematics",
		Path:    "schematic/page",
		Catalog: catalog,
		Filters: filters,
		Render:  func(item string, _ bool) string { return item },
	})
	drive(m, m.Init())
	assert.Equal(t, "size_big,position_core", src.lastParams().Get(tags.ParamTags))

	drive(m, press(m, "x"))
	assert.Equal(t, 0, m.Filters().Len())
	assert.Empty(t, src.lastParams().Get(tags.ParamTags))
	assert.Empty(t, src.lastParams().Get(tags.ParamSort), "no sort configured")
}

func TestBrowseSortCycle(t *testing.T) {
	src := &fakeSource{sizes: []int{3}}
	m := newTestBrowser(t, src)

	drive(m, press(m, "s"))
	assert.Equal(t, "oldest", m.Sort().Name)
	assert.Equal(t, "time_-1", src.lastParams().Get(tags.ParamSort))

	drive(m, press(m, "s"))
	drive(m, press(m, "s"))
	assert.Equal(t, "newest", m.Sort().Name, "sort wraps around")
}

func TestBrowseErrorAndReload(t *testing.T) {
	src := &fakeSource{sizes: []int{3, 3}}
	src.setFail(errors.New("down"))
	m := newTestBrowser(t, src)

	assert.Equal(t, pager.StateError, m.Loader().State())
	assert.Contains(t, m.Footer(), footerError)

	src.setFail(nil)
	drive(m, press(m, "r"))
	assert.Equal(t, pager.StateHasMore, m.Loader().State())
	assert.Len(t, m.Loader().Items(), 3)
}

func TestBrowseDetailAndQuit(t *testing.T) {
	m := newTestBrowser(t, &fakeSource{sizes: []int{2}})

	press(m, "enter")
	require.Equal(t, ViewStateDetail, m.State())
	assert.Contains(t, m.View(), "detail of p0-0")

	press(m, "esc")
	assert.Equal(t, ViewStateList, m.State())

	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, ViewStateQuitting, m.State())
	assert.Empty(t, m.View())
}

func TestBrowseWindowResize(t *testing.T) {
	m := newTestBrowser(t, &fakeSource{sizes: []int{1}})

	m.Update(tea.WindowSizeMsg{Width: 50, Height: 4})
	assert.Equal(t, minHeight, m.listHeight())
	m.Update(tea.WindowSizeMsg{Width: 50, Height: 40})
	assert.Equal(t, 40-chromeHeight, m.listHeight())
}
