package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/justyntemme/libcat/pkg/models"
)

// getData fetches path and unwraps the {data: T} envelope
func getData[T any](ctx context.Context, c *Client, path string) (T, error) {
	var env models.Envelope[T]
	if err := c.Request(ctx, path, &env); err != nil {
		var zero T
		return zero, err
	}
	return env.Data, nil
}

func pageParams(page, pageSize int) url.Values {
	return ListQuery{Page: page, PageSize: pageSize}.Values()
}

func withQuery(path string, params url.Values) string {
	if encoded := params.Encode(); encoded != "" {
		return path + "?" + encoded
	}
	return path
}

// Book methods

// ListBooks returns one page of books, optionally filtered
func (c *Client) ListBooks(ctx context.Context, q ListQuery) (*RawPage, error) {
	return c.ListPage(ctx, "/books", q.Values())
}

// SearchBooks runs a free-text search over books
func (c *Client) SearchBooks(ctx context.Context, query string, page, pageSize int) (*RawPage, error) {
	params := pageParams(page, pageSize)
	params.Set("q", query)
	return c.ListPage(ctx, "/books/search", params)
}

// BooksByCategory returns books of one category
func (c *Client) BooksByCategory(ctx context.Context, category string, page, pageSize int) (*RawPage, error) {
	return c.ListPage(ctx, "/books/category/"+url.PathEscape(category), pageParams(page, pageSize))
}

// BooksByAuthor returns books written by author
func (c *Client) BooksByAuthor(ctx context.Context, author string, page, pageSize int) (*RawPage, error) {
	return c.ListPage(ctx, "/books/author/"+url.PathEscape(author), pageParams(page, pageSize))
}

// EnrichedBooks returns books with author information attached
func (c *Client) EnrichedBooks(ctx context.Context, page, pageSize int) (*RawPage, error) {
	return c.ListPage(ctx, "/books/enriched", pageParams(page, pageSize))
}

// GetBook returns a single book by ID
func (c *Client) GetBook(ctx context.Context, id int) (*models.EnrichedBook, error) {
	book, err := getData[models.EnrichedBook](ctx, c, "/books/"+strconv.Itoa(id))
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Author methods

// ListAuthors returns one page of authors
func (c *Client) ListAuthors(ctx context.Context, q ListQuery) (*RawPage, error) {
	return c.ListPage(ctx, "/authors", q.Values())
}

// SearchAuthors finds authors by name
func (c *Client) SearchAuthors(ctx context.Context, name string) ([]models.Author, error) {
	page, err := c.ListPage(ctx, "/authors/search", url.Values{"name": {name}})
	if err != nil {
		return nil, err
	}
	return DecodeList[models.Author](page, FieldAuthors)
}

// GetAuthor returns an author and their books by ID
func (c *Client) GetAuthor(ctx context.Context, id int) (*models.AuthorDetail, error) {
	detail, err := getData[models.AuthorDetail](ctx, c, "/authors/"+strconv.Itoa(id))
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// AuthorDetail returns an author and their books by name
func (c *Client) AuthorDetail(ctx context.Context, name string) (*models.AuthorDetail, error) {
	detail, err := getData[models.AuthorDetail](ctx, c, AuthorDetailPath(name))
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// AuthorDetailPath is the endpoint of an author's detail view
func AuthorDetailPath(name string) string {
	return "/authors/detail/" + url.PathEscape(name)
}

// Genre methods

// ListGenres returns one page of genres
func (c *Client) ListGenres(ctx context.Context, q ListQuery) (*RawPage, error) {
	return c.ListPage(ctx, "/genres", q.Values())
}

// AllGenres returns the unpaginated genre list used by filter pickers
func (c *Client) AllGenres(ctx context.Context) ([]models.Genre, error) {
	page, err := c.ListPage(ctx, "/genres", nil)
	if err != nil {
		return nil, err
	}
	return decodeGenres(page)
}

// SearchGenres finds genres by name
func (c *Client) SearchGenres(ctx context.Context, name string) ([]models.Genre, error) {
	page, err := c.ListPage(ctx, "/genres/search", url.Values{"name": {name}})
	if err != nil {
		return nil, err
	}
	return decodeGenres(page)
}

// decodeGenres reads genres, which the server lists as categories or genres
func decodeGenres(page *RawPage) ([]models.Genre, error) {
	if page.Has(FieldCategories) {
		return DecodeList[models.Genre](page, FieldCategories)
	}
	return DecodeList[models.Genre](page, FieldGenres)
}

// GetGenre returns a genre and its books by ID
func (c *Client) GetGenre(ctx context.Context, id int) (*models.GenreDetail, error) {
	detail, err := getData[models.GenreDetail](ctx, c, "/genres/"+strconv.Itoa(id))
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// GenreDetail returns a genre and one page of its books by name
func (c *Client) GenreDetail(ctx context.Context, name string, page, pageSize int) (*models.GenreDetail, error) {
	detail, err := getData[models.GenreDetail](ctx, c, GenreDetailPath(name, page, pageSize))
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// GenreDetailPath is the endpoint of one page of a genre's detail view
func GenreDetailPath(name string, page, pageSize int) string {
	return withQuery("/genres/detail/"+url.PathEscape(name), pageParams(page, pageSize))
}

// Recommendation methods

// Recommendations returns general recommendations
func (c *Client) Recommendations(ctx context.Context, limit int) (*models.RecommendationSet, error) {
	return c.recommendations(ctx, "/recommendations", "", "", limit)
}

// RecommendationsByCategory returns recommendations for category.
// An empty category lets the server pick one at random.
func (c *Client) RecommendationsByCategory(ctx context.Context, category string, limit int) (*models.RecommendationSet, error) {
	return c.recommendations(ctx, "/recommendations/by-category", "category", category, limit)
}

// RecommendationsByAuthor returns recommendations for author.
// An empty author lets the server pick one at random.
func (c *Client) RecommendationsByAuthor(ctx context.Context, author string, limit int) (*models.RecommendationSet, error) {
	return c.recommendations(ctx, "/recommendations/by-author", "author", author, limit)
}

func (c *Client) recommendations(ctx context.Context, path, key, value string, limit int) (*models.RecommendationSet, error) {
	set, err := getData[models.RecommendationSet](ctx, c, RecommendationsPath(path, key, value, limit))
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// RecommendationsPath builds a recommendation endpoint; blank values are omitted
func RecommendationsPath(path, key, value string, limit int) string {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if key != "" && value != "" {
		params.Set(key, value)
	}
	return withQuery(path, params)
}

// RecommendationStatus reports the recommendation service dependencies
func (c *Client) RecommendationStatus(ctx context.Context) (*models.RecommendationStatus, error) {
	status, err := getData[models.RecommendationStatus](ctx, c, "/recommendations/status")
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// Health check

// Health returns the gateway and service health report
func (c *Client) Health(ctx context.Context) (*models.HealthReport, error) {
	report, err := getData[models.HealthReport](ctx, c, "/health")
	if err != nil {
		return nil, err
	}
	return &report, nil
}
