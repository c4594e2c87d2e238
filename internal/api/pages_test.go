package api

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/libcat/pkg/models"
)

func TestListQuery_Values(t *testing.T) {
	tests := []struct {
		name string
		q    ListQuery
		want string
	}{
		{"paging only", ListQuery{Page: 1, PageSize: 50}, "page=1&page_size=50"},
		{"search trimmed", ListQuery{Page: 2, PageSize: 20, Search: "  kafka "}, "page=2&page_size=20&search=kafka"},
		{"blank filters omitted", ListQuery{Page: 1, PageSize: 10, Search: "   ", Category: "", Author: "\t"}, "page=1&page_size=10"},
		{"all filters", ListQuery{Page: 3, PageSize: 5, Search: "a", Category: "Roman", Author: "Orhan Pamuk"},
			"author=Orhan+Pamuk&category=Roman&page=3&page_size=5&search=a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.Values().Encode())
		})
	}
}

func TestRawPage_ObjectPayload(t *testing.T) {
	var page RawPage
	err := json.Unmarshal([]byte(`{"authors":[{"id":1,"name":"Sabahattin Ali"}],"total":41,"page":3,"page_size":20,"total_pages":3}`), &page)
	require.NoError(t, err)

	assert.True(t, page.Has(FieldAuthors))
	assert.False(t, page.Has(FieldBooks))
	assert.Equal(t, models.PageMeta{Total: 41, Page: 3, PageSize: 20, TotalPages: 3}, page.Meta)

	authors, err := DecodeList[models.Author](&page, FieldAuthors)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "Sabahattin Ali", authors[0].Name)

	books, err := DecodeList[models.Book](&page, FieldBooks)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestRawPage_BareArray(t *testing.T) {
	var page RawPage
	require.NoError(t, json.Unmarshal([]byte(`[{"id":1,"name":"Roman"},{"id":2,"name":"Tarih"}]`), &page))

	genres, err := DecodeList[models.Genre](&page, FieldGenres)
	require.NoError(t, err)
	assert.Len(t, genres, 2)
	assert.Equal(t, 2, page.Meta.Total)
	assert.Equal(t, 1, page.Meta.TotalPages)
}

func TestListPage_UnwrapsEnvelope(t *testing.T) {
	defer gock.Off()

	gock.New(testServer).
		Get("/api/books/category/Roman").
		MatchParam("page", "1").
		MatchParam("page_size", "20").
		Reply(200).
		JSON(map[string]any{"data": map[string]any{
			"books": []map[string]any{{"id": 1, "title": "Dune", "category_name": "Roman"}},
			"total": 1, "page": 1, "page_size": 20, "total_pages": 1,
		}})

	page, err := newTestClient("").BooksByCategory(context.Background(), "Roman", 1, 20)
	require.NoError(t, err)

	books, err := DecodeList[models.Book](page, FieldBooks)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)
	assert.True(t, gock.IsDone())
}

func TestRecommendationsPath(t *testing.T) {
	assert.Equal(t, "/recommendations?limit=15", RecommendationsPath("/recommendations", "", "", 15))
	assert.Equal(t, "/recommendations/by-category?limit=5", RecommendationsPath("/recommendations/by-category", "category", "", 5))
	assert.Equal(t, "/recommendations/by-author?author=Yasar+Kemal&limit=5",
		RecommendationsPath("/recommendations/by-author", "author", "Yasar Kemal", 5))
}

func TestGenreDetailPath(t *testing.T) {
	assert.Equal(t, "/genres/detail/Bilim%20Kurgu?page=2&page_size=20", GenreDetailPath("Bilim Kurgu", 2, 20))
}

func TestRecommendationsByCategory(t *testing.T) {
	defer gock.Off()

	gock.New(testServer).
		Get("/api/recommendations/by-category").
		MatchParam("category", "Roman").
		Reply(200).
		JSON(map[string]any{"success": true, "data": map[string]any{
			"category": "Roman",
			"total":    1,
			"recommendations": []map[string]any{
				{"book": map[string]any{"id": 9, "title": "Kuyucakli Yusuf"}, "reason": "same category", "score": 87},
			},
		}})

	set, err := newTestClient("").RecommendationsByCategory(context.Background(), "Roman", 5)
	require.NoError(t, err)
	assert.Equal(t, "Roman", set.Category)
	require.Len(t, set.Recommendations, 1)
	assert.Equal(t, 87, set.Recommendations[0].Score)
}
