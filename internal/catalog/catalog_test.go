package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/libcat/internal/fetch"
)

func activeCount(f Filter) int {
	n := 0
	for _, v := range []string{f.Search, f.Genre, f.Author} {
		if v != "" {
			n++
		}
	}
	return n
}

func TestFilter_MutuallyExclusive(t *testing.T) {
	steps := []func(Filter) Filter{
		func(f Filter) Filter { return f.WithSearch("kafka") },
		func(f Filter) Filter { return f.WithGenre("Roman") },
		func(f Filter) Filter { return f.WithAuthor("Orhan Pamuk") },
		func(f Filter) Filter { return f.WithGenre("Tarih") },
		func(f Filter) Filter { return f.WithSearch("istanbul") },
		func(f Filter) Filter { return f.WithAuthor("Elif Shafak") },
	}

	var f Filter
	for _, step := range steps {
		f = step(f)
		assert.LessOrEqual(t, activeCount(f), 1, "filter %+v", f)
	}
	assert.Equal(t, Filter{Author: "Elif Shafak"}, f)
}

func TestFilter_GenreClearsAuthor(t *testing.T) {
	f := Filter{}.WithAuthor("Orhan Pamuk").WithGenre("Roman")

	assert.Equal(t, "Roman", f.Genre)
	assert.Empty(t, f.Author)
	assert.Equal(t, "genre", f.Kind())
	assert.Equal(t, "genre: Roman", f.String())
}

func TestFilter_BlankIsInactive(t *testing.T) {
	f := Filter{}.WithSearch("   ")

	assert.False(t, f.Active())
	assert.Equal(t, "all", f.String())
	assert.Equal(t, "/books", f.BooksEndpoint())
}

func TestFilter_BooksEndpoint(t *testing.T) {
	assert.Equal(t, "/books/search?q=Suc+ve+Ceza", Filter{}.WithSearch("Suc ve Ceza").BooksEndpoint())
	assert.Equal(t, "/books/category/Bilim%20Kurgu", Filter{}.WithGenre("Bilim Kurgu").BooksEndpoint())
	assert.Equal(t, "/books/author/Orhan%20Pamuk", Filter{}.WithAuthor("Orhan Pamuk").BooksEndpoint())
}

func TestFilter_Fetch(t *testing.T) {
	assert.Equal(t, fetch.Filters{Category: "Roman"}, Filter{}.WithGenre("Roman").Fetch())
}

func TestLocation_RoundTrip(t *testing.T) {
	locations := []Location{
		{Screen: ScreenBooks},
		{Screen: ScreenBooks, Filter: Filter{}.WithSearch("kafka")},
		{Screen: ScreenBooks, Filter: Filter{}.WithGenre("Bilim Kurgu")},
		{Screen: ScreenBooks, Filter: Filter{}.WithAuthor("Orhan Pamuk")},
		{Screen: ScreenAuthors, Item: "Franz Kafka"},
		{Screen: ScreenGenres, Item: "Roman"},
		{Screen: ScreenBooks, Item: "7"},
		{Screen: ScreenProfile},
	}

	for _, loc := range locations {
		t.Run(loc.String(), func(t *testing.T) {
			parsed, err := ParseLocation(loc.String())
			require.NoError(t, err)
			assert.Equal(t, loc, parsed)
		})
	}
}

func TestLocation_String(t *testing.T) {
	assert.Equal(t, "books?search=kafka", Location{Screen: ScreenBooks, Filter: Filter{Search: "kafka"}}.String())
	assert.Equal(t, "books?genre=Roman", Location{Screen: ScreenBooks, Filter: Filter{Genre: "Roman"}}.String())
	assert.Equal(t, "home", Location{}.String())
}

func TestParseLocation_Precedence(t *testing.T) {
	loc, err := ParseLocation("books?author=Pamuk&genre=Roman")
	require.NoError(t, err)
	assert.Equal(t, Filter{Genre: "Roman"}, loc.Filter)

	loc, err = ParseLocation("books?author=Pamuk&search=kar")
	require.NoError(t, err)
	assert.Equal(t, Filter{Search: "kar"}, loc.Filter)
}

func TestParseLocation_Errors(t *testing.T) {
	_, err := ParseLocation("shelves")
	assert.ErrorIs(t, err, ErrUnknownScreen)

	loc, err := ParseLocation("")
	require.NoError(t, err)
	assert.Equal(t, ScreenHome, loc.Screen)
}

func TestLocation_BookID(t *testing.T) {
	loc, err := ParseLocation("books/42")
	require.NoError(t, err)

	id, ok := loc.BookID()
	assert.True(t, ok)
	assert.Equal(t, 42, id)

	_, ok = Location{Screen: ScreenBooks, Item: "abc"}.BookID()
	assert.False(t, ok)
}
