package pager

import (
	"context"
	"net/url"
	"slices"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// Loader defaults.
const (
	// DefaultPageSize is the number of items a full page holds.
	DefaultPageSize = 10
	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 30 * time.Second
)

// Option configures a Loader.
type Option func(*options)

type options struct {
	pageSize int
	timeout  time.Duration
	logger   zerolog.Logger
	path     string
	params   url.Values
	hasPath  bool
}

// WithPageSize sets the full-page size. Values below 1 are ignored.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithTimeout bounds each page fetch. Values <= 0 are ignored.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the logger used to report fetch failures and discarded responses.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithSource sets the endpoint without fetching, so the first LoadNext fetches page 0.
func WithSource(path string, params url.Values) Option {
	return func(o *options) {
		o.path = path
		o.params = cloneParams(params)
		o.hasPath = true
	}
}

// PageMsg carries the result of one page fetch back to the loader that issued it.
type PageMsg[T any] struct {
	Index int
	Items []T
	Err   error

	loader     *Loader[T]
	generation uint64
}

type fetchResult[T any] struct {
	items []T
	err   error
}

// round is one batch of fetches for page indexes [start, end).
type round[T any] struct {
	start   int
	end     int
	prev    [][]T
	results map[int]fetchResult[T]
}

// compose returns the page set visible while the round is in progress: the pages
// before start, then the contiguous run of successful results from start, ending at
// the first short page. With no usable result the previous pages stay visible.
func (r *round[T]) compose(pageSize int) [][]T {
	pages := slices.Clone(r.prev[:min(r.start, len(r.prev))])
	added := false
	for i := r.start; i < r.end; i++ {
		res, ok := r.results[i]
		if !ok || res.err != nil {
			break
		}
		pages = append(pages, res.items)
		added = true
		if len(res.items) < pageSize {
			break
		}
	}
	if !added {
		return r.prev
	}
	return pages
}

// outcome is the state once every fetch of the round has settled.
func (r *round[T]) outcome(pageSize int) (State, error) {
	for i := r.start; i < r.end; i++ {
		res := r.results[i]
		if res.err != nil {
			return StateError, res.err
		}
		if len(res.items) < pageSize {
			return StateExhausted, nil
		}
	}
	return StateHasMore, nil
}

// Loader fetches and accumulates the pages of one endpoint.
// All methods are safe for concurrent use.
type Loader[T any] struct {
	ctx      context.Context
	fetcher  Fetcher[T]
	pageSize int
	timeout  time.Duration
	logger   zerolog.Logger

	mu         sync.Mutex
	path       string
	params     url.Values
	hasPath    bool
	generation uint64
	pages      [][]T
	state      State
	err        error
	current    *round[T]
}

// New creates an idle loader. ctx bounds every fetch the loader issues.
func New[T any](ctx context.Context, fetcher Fetcher[T], opts ...Option) *Loader[T] {
	o := options{
		pageSize: DefaultPageSize,
		timeout:  DefaultTimeout,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	return &Loader[T]{
		ctx:      ctx,
		fetcher:  fetcher,
		pageSize: o.pageSize,
		timeout:  o.timeout,
		logger:   o.logger.With().Str("component", "pager").Logger(),
		path:     o.path,
		params:   o.params,
		hasPath:  o.hasPath,
		pages:    [][]T{{}},
		state:    StateIdle,
	}
}

// Initialize points the loader at path/params, discards every stored page and
// fetches page 0. Responses to earlier rounds are ignored from now on.
func (l *Loader[T]) Initialize(path string, params url.Values) tea.Cmd {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.path = path
	l.params = cloneParams(params)
	l.hasPath = true
	return l.beginLocked("initialize", 0, 1, [][]T{{}})
}

// Reload repeats the last Initialize. It returns nil if the loader has no endpoint yet.
func (l *Loader[T]) Reload() tea.Cmd {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.hasPath {
		l.logger.Debug().Str("operation", "reload").Msg("reload ignored: no endpoint configured")
		return nil
	}
	return l.beginLocked("reload", 0, 1, [][]T{{}})
}

// LoadNext fetches the page after the last full one, or re-fetches the last page
// when it is short. It returns nil, changing nothing, while a round is in flight
// or when no endpoint is configured.
func (l *Loader[T]) LoadNext() tea.Cmd {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateLoading {
		l.logger.Debug().Str("operation", "load_next").Msg("load ignored: fetch already in flight")
		return nil
	}
	if !l.hasPath {
		l.logger.Debug().Str("operation", "load_next").Msg("load ignored: no endpoint configured")
		return nil
	}

	last := len(l.pages) - 1
	target := last
	if len(l.pages[last]) >= l.pageSize {
		target = last + 1
	}
	return l.beginLocked("load_next", target, target+1, l.pages)
}

// LoadUpTo discards stored pages and fetches pages 0..page-1 concurrently. Each
// result is placed at its own index; the visible pages are the contiguous prefix
// received so far. A page below 1 is treated as 1.
func (l *Loader[T]) LoadUpTo(page int) tea.Cmd {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.hasPath {
		l.logger.Debug().Str("operation", "load_up_to").Msg("load ignored: no endpoint configured")
		return nil
	}
	page = max(page, 1)
	return l.beginLocked("load_up_to", 0, page, [][]T{{}})
}

func (l *Loader[T]) beginLocked(operation string, start, end int, prev [][]T) tea.Cmd {
	l.generation++
	l.pages = prev
	l.state = StateLoading
	l.err = nil
	l.current = &round[T]{
		start:   start,
		end:     end,
		prev:    prev,
		results: make(map[int]fetchResult[T], end-start),
	}

	l.logger.Debug().
		Str("operation", operation).
		Str("path", l.path).
		Int("from_page", start).
		Int("to_page", end-1).
		Uint64("generation", l.generation).
		Msg("starting fetch round")

	gen := l.generation
	path := l.path
	cmds := make([]tea.Cmd, 0, end-start)
	for i := start; i < end; i++ {
		cmds = append(cmds, l.fetchCmd(gen, i, path, cloneParams(l.params)))
	}
	return tea.Batch(cmds...)
}

func (l *Loader[T]) fetchCmd(gen uint64, index int, path string, params url.Values) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(l.ctx, l.timeout)
		defer cancel()

		items, err := l.fetcher.FetchPage(ctx, path, index, params)
		return PageMsg[T]{
			Index:      index,
			Items:      items,
			Err:        err,
			loader:     l,
			generation: gen,
		}
	}
}

// Update applies a PageMsg issued by this loader. It reports whether the loader
// changed; messages for other loaders, stale rounds or unexpected pages are ignored.
func (l *Loader[T]) Update(msg tea.Msg) bool {
	m, ok := msg.(PageMsg[T])
	if !ok || m.loader != l {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	r := l.current
	if r == nil || m.generation != l.generation || m.Index < r.start || m.Index >= r.end {
		l.logger.Debug().
			Str("operation", "apply_page").
			Int("page", m.Index).
			Uint64("generation", m.generation).
			Uint64("current_generation", l.generation).
			Msg("discarding stale page response")
		return false
	}
	if _, seen := r.results[m.Index]; seen {
		return false
	}

	items := m.Items
	if items == nil {
		items = []T{}
	}
	switch {
	case m.Err != nil:
		l.logger.Warn().
			Str("operation", "apply_page").
			Str("path", l.path).
			Int("page", m.Index).
			Err(m.Err).
			Msg("page fetch failed")
	case len(items) > l.pageSize:
		l.logger.Warn().
			Str("operation", "apply_page").
			Int("page", m.Index).
			Int("items", len(items)).
			Int("page_size", l.pageSize).
			Msg("server returned more items than the page size")
	}

	r.results[m.Index] = fetchResult[T]{items: items, err: m.Err}
	l.pages = r.compose(l.pageSize)

	if len(r.results) == r.end-r.start {
		l.state, l.err = r.outcome(l.pageSize)
		l.current = nil
		l.logger.Debug().
			Str("operation", "apply_page").
			Str("state", l.state.String()).
			Int("pages", len(l.pages)).
			Msg("fetch round settled")
	}
	return true
}

// Settle runs cmd, expanding batches concurrently, and applies every result to the
// loader as it arrives. It returns once all fetches have completed.
func (l *Loader[T]) Settle(cmd tea.Cmd) {
	Run(cmd, func(msg tea.Msg) { l.Update(msg) })
}

// Items returns the stored pages flattened in page order.
func (l *Loader[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, p := range l.pages {
		n += len(p)
	}
	out := make([]T, 0, n)
	for _, p := range l.pages {
		out = append(out, p...)
	}
	return out
}

// Pages returns a copy of the stored pages.
func (l *Loader[T]) Pages() [][]T {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([][]T, len(l.pages))
	for i, p := range l.pages {
		out[i] = slices.Clone(p)
	}
	return out
}

// State returns the current loader state.
func (l *Loader[T]) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the failure behind StateError, or nil.
func (l *Loader[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// PageSize returns the full-page size.
func (l *Loader[T]) PageSize() int {
	return l.pageSize
}

// Source returns the configured endpoint path and a copy of its parameters.
func (l *Loader[T]) Source() (string, url.Values) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path, cloneParams(l.params)
}

func cloneParams(v url.Values) url.Values {
	if v == nil {
		return nil
	}
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = slices.Clone(vals)
	}
	return out
}
