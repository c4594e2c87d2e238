package fetch

import (
	"context"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justyntemme/libcat/internal/api"
	"github.com/justyntemme/libcat/pkg/models"
)

const (
	DefaultInitialPage = 1
	DefaultPageSize    = 50
)

// Filters narrows a paginated list. Blank values are not sent.
type Filters struct {
	Search   string
	Category string
	Author   string
}

// BuildQuery builds the query of one page
func BuildQuery(page, pageSize int, f Filters) url.Values {
	return api.ListQuery{
		Page:     page,
		PageSize: pageSize,
		Search:   f.Search,
		Category: f.Category,
		Author:   f.Author,
	}.Values()
}

// PageFetcher loads one page of endpoint
type PageFetcher func(ctx context.Context, endpoint string, params url.Values) (*api.RawPage, error)

// Selector picks the list out of a page
type Selector[T any] func(*api.RawPage) ([]T, error)

// Field selects the named list field
func Field[T any](name string) Selector[T] {
	return func(p *api.RawPage) ([]T, error) {
		return api.DecodeList[T](p, name)
	}
}

// Fields selects the first of the named list fields that is present.
// A page carrying none of them selects an empty list.
func Fields[T any](names ...string) Selector[T] {
	return func(p *api.RawPage) ([]T, error) {
		for _, field := range names {
			if p.Has(field) {
				return api.DecodeList[T](p, field)
			}
		}
		return []T{}, nil
	}
}

// FirstPresent selects the first list field present, trying books, authors,
// categories and genres in that order
func FirstPresent[T any]() Selector[T] {
	return Fields[T](api.FieldBooks, api.FieldAuthors, api.FieldCategories, api.FieldGenres)
}

// GenreFields selects genres, which the server lists under either name
func GenreFields() Selector[models.Genre] {
	return Fields[models.Genre](api.FieldCategories, api.FieldGenres)
}

// PagerConfig configures a Pager
type PagerConfig[T any] struct {
	Endpoint    string
	Filters     Filters
	InitialPage int
	PageSize    int
	Select      Selector[T]
}

// PageResult is the message a Pager load produces
type PageResult[T any] struct {
	owner    uint64
	gen      uint64
	page     int
	pageSize int
	raw      api.RawPage
	Items    []T
	Err      error
}

// Pager tracks one page of a filtered remote list
type Pager[T any] struct {
	Data       []T
	Total      int
	Page       int
	PageSize   int
	TotalPages int
	Loading    bool
	Err        string

	endpoint    string
	filters     Filters
	initialPage int
	sel         Selector[T]
	fetch       PageFetcher

	owner  uint64
	gen    uint64
	cancel context.CancelFunc
	closed bool
}

// NewPager creates a pager. Call Init to load the first page.
func NewPager[T any](fetch PageFetcher, cfg PagerConfig[T]) *Pager[T] {
	if cfg.InitialPage < 1 {
		cfg.InitialPage = DefaultInitialPage
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Select == nil {
		cfg.Select = FirstPresent[T]()
	}

	return &Pager[T]{
		Page:        cfg.InitialPage,
		PageSize:    cfg.PageSize,
		endpoint:    cfg.Endpoint,
		filters:     cfg.Filters,
		initialPage: cfg.InitialPage,
		sel:         cfg.Select,
		fetch:       fetch,
		owner:       nextOwner(),
	}
}

// Init loads the initial page
func (p *Pager[T]) Init() tea.Cmd {
	return p.load(p.initialPage)
}

// Filters returns the filters in effect
func (p *Pager[T]) Filters() Filters {
	return p.filters
}

// Endpoint returns the list endpoint
func (p *Pager[T]) Endpoint() string {
	return p.endpoint
}

// SetFilters replaces the filters and reloads from the initial page
func (p *Pager[T]) SetFilters(f Filters) tea.Cmd {
	p.filters = f
	return p.load(p.initialPage)
}

// SetEndpoint switches the list endpoint and reloads from the initial page
func (p *Pager[T]) SetEndpoint(endpoint string) tea.Cmd {
	p.endpoint = endpoint
	return p.load(p.initialPage)
}

// SetPage loads page n. Out of range pages are ignored.
func (p *Pager[T]) SetPage(n int) tea.Cmd {
	if n < 1 || n > p.TotalPages {
		return nil
	}
	return p.load(n)
}

// NextPage loads the following page, if any
func (p *Pager[T]) NextPage() tea.Cmd {
	if p.Page >= p.TotalPages {
		return nil
	}
	return p.load(p.Page + 1)
}

// PrevPage loads the preceding page, if any
func (p *Pager[T]) PrevPage() tea.Cmd {
	if p.Page <= 1 {
		return nil
	}
	return p.load(p.Page - 1)
}

// Refetch reloads the current page
func (p *Pager[T]) Refetch() tea.Cmd {
	return p.load(p.Page)
}

func (p *Pager[T]) load(page int) tea.Cmd {
	if p.closed {
		return nil
	}

	p.stop()
	p.gen++
	p.Loading = true
	p.Err = ""

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	owner, gen, size := p.owner, p.gen, p.PageSize
	endpoint, params, fetch, sel := p.endpoint, BuildQuery(page, size, p.filters), p.fetch, p.sel
	return func() tea.Msg {
		res := PageResult[T]{owner: owner, gen: gen, page: page, pageSize: size}
		raw, err := fetch(ctx, endpoint, params)
		if err != nil {
			res.Err = err
			return res
		}
		res.raw = *raw
		res.Items, res.Err = sel(raw)
		return res
	}
}

// Update applies msg if it is the result of the latest load. It reports whether
// msg belonged to this pager, current or not.
func (p *Pager[T]) Update(msg tea.Msg) bool {
	res, ok := msg.(PageResult[T])
	if !ok || res.owner != p.owner {
		return false
	}
	if p.closed || res.gen != p.gen {
		return true
	}

	p.stop()
	p.Loading = false
	if res.Err != nil {
		p.Data = nil
		p.Err = res.Err.Error()
		return true
	}

	meta := res.raw.Meta
	if meta.Page == 0 {
		meta.Page = res.page
	}
	if meta.PageSize == 0 {
		meta.PageSize = res.pageSize
	}
	meta = meta.Normalize()

	p.Data = res.Items
	p.Total = meta.Total
	p.Page = meta.Page
	p.PageSize = meta.PageSize
	p.TotalPages = meta.TotalPages
	p.Err = ""
	return true
}

// Close cancels any request in flight. Results arriving afterwards are dropped.
func (p *Pager[T]) Close() {
	p.stop()
	p.closed = true
	p.Loading = false
}

func (p *Pager[T]) stop() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}
