package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/justyntemme/libcat/pkg/models"
)

// List fields a paginated envelope can carry
const (
	FieldBooks      = "books"
	FieldAuthors    = "authors"
	FieldCategories = "categories"
	FieldGenres     = "genres"
)

// ListQuery describes one page of a filtered list
type ListQuery struct {
	Page     int
	PageSize int
	Search   string
	Category string
	Author   string
}

// Values builds the query string. Blank and whitespace-only filters are omitted,
// the rest are sent trimmed.
func (q ListQuery) Values() url.Values {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		params.Set("search", s)
	}
	if s := strings.TrimSpace(q.Category); s != "" {
		params.Set("category", s)
	}
	if s := strings.TrimSpace(q.Author); s != "" {
		params.Set("author", s)
	}
	return params
}

// RawPage is a paginated payload whose list field has not been decoded yet.
// Some endpoints answer with a bare array instead of an object; that array is
// kept as the only list and the metadata is derived from its length.
type RawPage struct {
	Fields map[string]json.RawMessage
	Meta   models.PageMeta
	bare   json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler
func (p *RawPage) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		p.bare = append(json.RawMessage(nil), trimmed...)
		p.Meta = models.PageMeta{Total: len(items), Page: 1, PageSize: len(items), TotalPages: 1}
		if len(items) == 0 {
			p.Meta.TotalPages = 0
		}
		return nil
	}

	if err := json.Unmarshal(trimmed, &p.Fields); err != nil {
		return err
	}
	return json.Unmarshal(trimmed, &p.Meta)
}

// Has reports whether the page carries the named list field
func (p *RawPage) Has(field string) bool {
	if p.bare != nil {
		return true
	}
	raw, ok := p.Fields[field]
	return ok && !isNull(raw)
}

// DecodeList decodes the named list field of a page
func DecodeList[T any](p *RawPage, field string) ([]T, error) {
	raw := p.bare
	if raw == nil {
		var ok bool
		raw, ok = p.Fields[field]
		if !ok || isNull(raw) {
			return []T{}, nil
		}
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", field, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// ListPage fetches one page of endpoint and unwraps the {data: ...} envelope
func (c *Client) ListPage(ctx context.Context, endpoint string, params url.Values) (*RawPage, error) {
	path := endpoint
	if encoded := params.Encode(); encoded != "" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		path += sep + encoded
	}

	var env models.Envelope[RawPage]
	if err := c.Request(ctx, path, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}
