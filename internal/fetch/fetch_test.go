package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/libcat/internal/api"
	"github.com/justyntemme/libcat/pkg/models"
)

const testServer = "http://catalog.test"

// run executes cmd synchronously and returns its message
func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func TestResource_LoadAndCommit(t *testing.T) {
	r := NewResource(func(_ context.Context, endpoint string) (string, error) {
		return "payload of " + endpoint, nil
	})

	cmd := r.Load("/books/1")
	assert.True(t, r.Loading)

	assert.True(t, r.Update(run(t, cmd)))
	assert.False(t, r.Loading)
	assert.Equal(t, "payload of /books/1", r.Data)
	assert.Empty(t, r.Err)
}

func TestResource_ErrorClearsData(t *testing.T) {
	fail := false
	r := NewResource(func(_ context.Context, _ string) (int, error) {
		if fail {
			return 0, errors.New("API error: 500 Internal Server Error")
		}
		return 42, nil
	})

	r.Update(run(t, r.Load("/x")))
	require.Equal(t, 42, r.Data)

	fail = true
	r.Update(run(t, r.Reload()))
	assert.Zero(t, r.Data)
	assert.False(t, r.Loading)
	assert.Equal(t, "API error: 500 Internal Server Error", r.Err)
}

func TestResource_LatestLoadWins(t *testing.T) {
	contexts := map[string]context.Context{}
	r := NewResource(func(ctx context.Context, endpoint string) (string, error) {
		contexts[endpoint] = ctx
		return endpoint, nil
	})

	first := r.Load("/authors/detail/first")
	second := r.Load("/authors/detail/second")

	secondMsg := run(t, second)
	firstMsg := run(t, first)

	require.Len(t, contexts, 2)
	assert.ErrorIs(t, contexts["/authors/detail/first"].Err(), context.Canceled)
	assert.NoError(t, contexts["/authors/detail/second"].Err())

	assert.True(t, r.Update(secondMsg))
	assert.True(t, r.Update(firstMsg))
	assert.Equal(t, "/authors/detail/second", r.Data)
	assert.False(t, r.Loading)
}

func TestResource_IgnoresOtherOwners(t *testing.T) {
	fetcher := func(_ context.Context, endpoint string) (string, error) { return endpoint, nil }
	a := NewResource(fetcher)
	b := NewResource(fetcher)

	msg := run(t, a.Load("/a"))
	b.Load("/b")

	assert.False(t, b.Update(msg))
	assert.True(t, b.Loading)
	assert.False(t, a.Update("unrelated"))
}

func TestResource_Close(t *testing.T) {
	var seen context.Context
	r := NewResource(func(ctx context.Context, _ string) (string, error) {
		seen = ctx
		return "late", nil
	})

	cmd := r.Load("/books/7")
	r.Close()
	msg := run(t, cmd)

	assert.ErrorIs(t, seen.Err(), context.Canceled)
	assert.True(t, r.Update(msg))
	assert.Empty(t, r.Data)
	assert.False(t, r.Loading)
	assert.Nil(t, r.Load("/books/8"))
}

func TestEnveloped(t *testing.T) {
	defer gock.Off()

	gock.New(testServer).
		Get("/api/authors/detail/Kafka").
		Reply(200).
		JSON(map[string]any{"data": map[string]any{
			"author":     map[string]any{"id": 1, "name": "Franz Kafka"},
			"books":      []map[string]any{{"id": 7, "title": "Dava"}},
			"book_count": 1,
		}})

	client := api.NewClient(api.Options{ServerURL: testServer})
	r := NewResource(Enveloped[models.AuthorDetail](client))

	r.Update(run(t, r.Load("/authors/detail/Kafka")))

	assert.Empty(t, r.Err)
	assert.Equal(t, "Franz Kafka", r.Data.Author.Name)
	assert.Equal(t, 1, r.Data.BookCount)
}

func TestEnveloped_StatusError(t *testing.T) {
	defer gock.Off()

	gock.New(testServer).
		Get("/api/books/404").
		Reply(404)

	client := api.NewClient(api.Options{ServerURL: testServer})
	r := NewResource(Enveloped[models.EnrichedBook](client))

	r.Update(run(t, r.Load("/books/404")))

	assert.Equal(t, "API error: 404 Not Found", r.Err)
	assert.Zero(t, r.Data.ID)
}

func TestBuildQuery(t *testing.T) {
	assert.Equal(t, "page=1&page_size=20", BuildQuery(1, 20, Filters{}).Encode())
	assert.Equal(t, "page=1&page_size=20&search=kafka", BuildQuery(1, 20, Filters{Search: " kafka "}).Encode())
	assert.Equal(t, "category=Roman&page=3&page_size=10", BuildQuery(3, 10, Filters{Category: "Roman", Author: "  "}).Encode())
}

func TestPager_FetchesFilteredPage(t *testing.T) {
	defer gock.Off()

	books := make([]map[string]any, 12)
	for i := range books {
		books[i] = map[string]any{"id": 21 + i, "title": "Book", "author": "Franz Kafka"}
	}
	gock.New(testServer).
		Get("/api/books").
		MatchParams(map[string]string{"page": "2", "page_size": "20", "search": "kafka"}).
		Reply(200).
		JSON(map[string]any{"data": map[string]any{
			"books": books, "total": 32, "page": 2, "page_size": 20, "total_pages": 2,
		}})

	client := api.NewClient(api.Options{ServerURL: testServer})
	p := NewPager(client.ListPage, PagerConfig[models.Book]{
		Endpoint:    "/books",
		Filters:     Filters{Search: "kafka"},
		InitialPage: 2,
		PageSize:    20,
		Select:      Field[models.Book](api.FieldBooks),
	})

	cmd := p.Init()
	assert.True(t, p.Loading)
	assert.True(t, p.Update(run(t, cmd)))

	assert.Len(t, p.Data, 12)
	assert.Equal(t, 32, p.Total)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 2, p.TotalPages)
	assert.False(t, p.Loading)
	assert.Empty(t, p.Err)
	assert.True(t, gock.IsDone())
}

// fakePages serves a fixed total and records every query it receives
type fakePages struct {
	total   int
	queries []url.Values
	err     error
}

func (f *fakePages) fetch(_ context.Context, _ string, params url.Values) (*api.RawPage, error) {
	f.queries = append(f.queries, params)
	if f.err != nil {
		return nil, f.err
	}
	return f.page(params)
}

func (f *fakePages) page(params url.Values) (*api.RawPage, error) {
	page, _ := strconv.Atoi(params.Get("page"))
	size, _ := strconv.Atoi(params.Get("page_size"))

	count := min(size, max(f.total-(page-1)*size, 0))
	authors := make([]models.Author, count)
	for i := range authors {
		authors[i] = models.Author{ID: (page-1)*size + i + 1, Name: "Author"}
	}

	data, err := json.Marshal(map[string]any{
		"authors": authors, "total": f.total, "page": page, "page_size": size,
	})
	if err != nil {
		return nil, err
	}
	var raw api.RawPage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return &raw, nil
}

func rawPage(t *testing.T, body string) *api.RawPage {
	t.Helper()
	var page api.RawPage
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	return &page
}

func TestPager_PageBounds(t *testing.T) {
	pages := &fakePages{total: 45}
	p := NewPager(pages.fetch, PagerConfig[models.Author]{Endpoint: "/authors", PageSize: 20, Select: Field[models.Author](api.FieldAuthors)})

	assert.Nil(t, p.SetPage(1), "no page is known before the first load")

	p.Update(run(t, p.Init()))
	require.Equal(t, 3, p.TotalPages)
	require.Equal(t, 1, p.Page)

	assert.Nil(t, p.SetPage(0))
	assert.Nil(t, p.SetPage(4))
	assert.Nil(t, p.PrevPage())
	assert.Len(t, pages.queries, 1)

	p.Update(run(t, p.SetPage(3)))
	assert.Equal(t, 3, p.Page)
	assert.Len(t, p.Data, 5)
	assert.Nil(t, p.NextPage())

	p.Update(run(t, p.PrevPage()))
	assert.Equal(t, 2, p.Page)
	assert.Len(t, p.Data, 20)

	p.Update(run(t, p.Refetch()))
	assert.Equal(t, "2", pages.queries[len(pages.queries)-1].Get("page"))
}

func TestPager_SetFiltersRestartsAtInitialPage(t *testing.T) {
	pages := &fakePages{total: 100}
	p := NewPager(pages.fetch, PagerConfig[models.Author]{Endpoint: "/authors", PageSize: 10, Select: Field[models.Author](api.FieldAuthors)})

	p.Update(run(t, p.Init()))
	p.Update(run(t, p.SetPage(4)))
	require.Equal(t, 4, p.Page)

	p.Update(run(t, p.SetFilters(Filters{Search: "ali"})))

	last := pages.queries[len(pages.queries)-1]
	assert.Equal(t, "1", last.Get("page"))
	assert.Equal(t, "ali", last.Get("search"))
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, Filters{Search: "ali"}, p.Filters())
}

func TestPager_StaleResultDiscarded(t *testing.T) {
	pages := &fakePages{total: 100}
	p := NewPager(pages.fetch, PagerConfig[models.Author]{Endpoint: "/authors", PageSize: 10, Select: Field[models.Author](api.FieldAuthors)})
	p.Update(run(t, p.Init()))

	slow := p.SetPage(5)
	fast := p.SetPage(7)

	p.Update(run(t, fast))
	p.Update(run(t, slow))

	assert.Equal(t, 7, p.Page)
	assert.False(t, p.Loading)
}

func TestPager_ErrorKeepsPosition(t *testing.T) {
	pages := &fakePages{total: 100}
	p := NewPager(pages.fetch, PagerConfig[models.Author]{Endpoint: "/authors", PageSize: 10, Select: Field[models.Author](api.FieldAuthors)})
	p.Update(run(t, p.Init()))

	pages.err = errors.New("API error: 502 Bad Gateway")
	p.Update(run(t, p.NextPage()))

	assert.Nil(t, p.Data)
	assert.Equal(t, "API error: 502 Bad Gateway", p.Err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.TotalPages)
	assert.False(t, p.Loading)
}

func TestPager_NormalizesTotalPages(t *testing.T) {
	p := NewPager(func(context.Context, string, url.Values) (*api.RawPage, error) {
		return rawPage(t, `{"genres":[{"id":1,"name":"Roman"}],"total":41,"page":1,"page_size":20,"total_pages":1}`), nil
	}, PagerConfig[models.Genre]{Endpoint: "/genres", PageSize: 20, Select: Field[models.Genre](api.FieldGenres)})

	p.Update(run(t, p.Init()))

	assert.Equal(t, 3, p.TotalPages)
}

func TestFirstPresent(t *testing.T) {
	page := rawPage(t, `{"authors":[{"id":1,"name":"Sait Faik"}],"total":1,"page":1,"page_size":50,"total_pages":1}`)

	authors, err := FirstPresent[models.Author]()(page)

	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "Sait Faik", authors[0].Name)
}

func TestGenreFields(t *testing.T) {
	fromCategories, err := GenreFields()(rawPage(t, `{"categories":[{"id":1,"name":"Roman"}],"total":1}`))
	require.NoError(t, err)
	require.Len(t, fromCategories, 1)
	assert.Equal(t, "Roman", fromCategories[0].Name)

	fromGenres, err := GenreFields()(rawPage(t, `{"genres":[{"id":2,"name":"Şiir"}],"total":1}`))
	require.NoError(t, err)
	require.Len(t, fromGenres, 1)
	assert.Equal(t, "Şiir", fromGenres[0].Name)

	none, err := GenreFields()(rawPage(t, `{"books":[{"id":3,"title":"Dava"}],"total":1}`))
	require.NoError(t, err)
	assert.Empty(t, none, "other lists are never misread as genres")
}
