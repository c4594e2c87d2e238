// Package catalog holds the committed filter state of the catalog screens and
// the location strings that make a filtered view shareable.
package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/justyntemme/libcat/internal/fetch"
)

// Filter is the committed filter of a catalog screen.
// At most one of Search, Genre and Author is set.
type Filter struct {
	Search string
	Genre  string
	Author string
}

// WithSearch selects a free-text search, dropping genre and author
func (f Filter) WithSearch(term string) Filter {
	return Filter{Search: strings.TrimSpace(term)}
}

// WithGenre selects a genre, dropping author and search
func (f Filter) WithGenre(genre string) Filter {
	return Filter{Genre: strings.TrimSpace(genre)}
}

// WithAuthor selects an author, dropping genre and search
func (f Filter) WithAuthor(author string) Filter {
	return Filter{Author: strings.TrimSpace(author)}
}

// Active reports whether any filter is applied
func (f Filter) Active() bool {
	return f.Search != "" || f.Genre != "" || f.Author != ""
}

// Kind names the active filter: "search", "genre", "author" or ""
func (f Filter) Kind() string {
	switch {
	case f.Search != "":
		return "search"
	case f.Genre != "":
		return "genre"
	case f.Author != "":
		return "author"
	default:
		return ""
	}
}

// Value returns the value of the active filter
func (f Filter) Value() string {
	switch f.Kind() {
	case "search":
		return f.Search
	case "genre":
		return f.Genre
	case "author":
		return f.Author
	default:
		return ""
	}
}

func (f Filter) String() string {
	if !f.Active() {
		return "all"
	}
	return fmt.Sprintf("%s: %s", f.Kind(), f.Value())
}

// BooksEndpoint returns the book list endpoint serving this filter.
// Search wins over genre, genre over author.
func (f Filter) BooksEndpoint() string {
	switch f.Kind() {
	case "search":
		return "/books/search?" + url.Values{"q": {f.Search}}.Encode()
	case "genre":
		return "/books/category/" + url.PathEscape(f.Genre)
	case "author":
		return "/books/author/" + url.PathEscape(f.Author)
	default:
		return "/books"
	}
}

// Fetch converts the filter to generic list filters
func (f Filter) Fetch() fetch.Filters {
	return fetch.Filters{Search: f.Search, Category: f.Genre, Author: f.Author}
}
