package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justyntemme/libcat/internal/api"
	"github.com/justyntemme/libcat/internal/catalog"
	"github.com/justyntemme/libcat/internal/config"
	"github.com/justyntemme/libcat/internal/fetch"
	"github.com/justyntemme/libcat/internal/ui/styles"
	"github.com/justyntemme/libcat/pkg/models"
)

// GenreDetailView shows a genre and pages through its books
type GenreDetailView struct {
	detail   *fetch.Resource[models.GenreDetail]
	name     string
	page     int
	pageSize int
	list     listCursor

	// Dimensions
	width  int
	height int
}

// NewGenreDetailView creates a new genre detail view
func NewGenreDetailView(client *api.Client, cfg config.UIConfig) *GenreDetailView {
	pageSize := cfg.GenrePageSize
	if pageSize < 1 {
		pageSize = 20
	}
	return &GenreDetailView{
		detail:   fetch.NewResource(fetch.Enveloped[models.GenreDetail](client)),
		page:     fetch.DefaultInitialPage,
		pageSize: pageSize,
		width:    80,
		height:   24,
	}
}

// SetGenre selects the genre to display, starting from its first page
func (v *GenreDetailView) SetGenre(name string) {
	if name != v.name {
		v.page = fetch.DefaultInitialPage
		v.list.top()
	}
	v.name = name
}

// Genre returns the selected genre name
func (v *GenreDetailView) Genre() string {
	return v.name
}

// Page returns the requested page
func (v *GenreDetailView) Page() int {
	return v.page
}

// Init implements View
func (v *GenreDetailView) Init() tea.Cmd {
	if v.name == "" {
		return nil
	}
	return v.load()
}

func (v *GenreDetailView) load() tea.Cmd {
	return v.detail.Load(api.GenreDetailPath(v.name, v.page, v.pageSize))
}

// meta returns the normalized pagination of the loaded page
func (v *GenreDetailView) meta() models.PageMeta {
	d := v.detail.Data
	total := d.Total
	if total == 0 {
		total = d.BookCount
	}
	return models.PageMeta{
		Total:      total,
		Page:       v.page,
		PageSize:   v.pageSize,
		TotalPages: d.TotalPages,
	}.Normalize()
}

// Update implements View
func (v *GenreDetailView) Update(msg tea.Msg) (View, tea.Cmd) {
	if v.detail.Update(msg) {
		v.list.clamp(len(v.detail.Data.Books), v.visibleLines())
		return v, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	books := v.detail.Data.Books
	key := keyMsg.String()
	if v.list.navigate(key, len(books), v.visibleLines()) {
		return v, nil
	}

	switch key {
	case "esc", "backspace":
		return v, Back()
	case "enter":
		if v.list.cursor < len(books) {
			return v, OpenBook(books[v.list.cursor].ID)
		}
	case "n":
		if v.detail.Loading || v.page >= v.meta().TotalPages {
			return v, nil
		}
		v.page++
		v.list.top()
		return v, v.load()
	case "p":
		if v.detail.Loading || v.page <= 1 {
			return v, nil
		}
		v.page--
		v.list.top()
		return v, v.load()
	case "b":
		return v, BrowseBooks(catalog.Filter{}.WithGenre(v.name))
	case "r":
		return v, v.detail.Reload()
	}
	return v, nil
}

// View implements View
func (v *GenreDetailView) View() string {
	var b strings.Builder

	detail := v.detail.Data
	meta := v.meta()
	right := ""
	if !v.detail.Loading && v.detail.Err == "" {
		right = fmt.Sprintf("%d books", meta.Total) + pageInfo(v.page, meta.TotalPages)
	}
	b.WriteString(renderHeader("Genre", styles.SecondaryText.Render(" "+v.name), right, v.width) + "\n")

	body := v.height - 4
	if v.detail.Loading {
		b.WriteString(placeCenter(v.width, body, styles.MutedText.Render("Loading genre...")))
		return b.String()
	}
	if v.detail.Err != "" {
		b.WriteString(placeCenter(v.width, body, styles.ErrorStyle.Render("Error: "+v.detail.Err)))
		return b.String()
	}

	if desc := strings.TrimSpace(detail.Genre.Description); desc != "" {
		b.WriteString(styles.BookMeta.Render("  "+truncate(desc, v.width-4)) + "\n\n")
	}

	if len(detail.Books) == 0 {
		b.WriteString(styles.MutedText.Render("  No books in this genre") + "\n")
	} else {
		start, end := v.list.window(len(detail.Books), v.visibleLines())
		for i := start; i < end; i++ {
			book := detail.Books[i]
			line := book.Title
			if book.Author != "" {
				line += " - " + book.Author
			}
			b.WriteString(renderItem(line, i == v.list.cursor, v.width) + "\n")
		}
	}

	b.WriteString("\n" + renderHelp("j/k", "nav", "enter", "open", "n/p", "page", "b", "browse books", "esc", "back"))
	return b.String()
}

// SetSize implements View
func (v *GenreDetailView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *GenreDetailView) visibleLines() int {
	return max(v.height-7, 1)
}
