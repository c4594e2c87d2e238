package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justyntemme/libcat/internal/api"
	"github.com/justyntemme/libcat/internal/catalog"
	"github.com/justyntemme/libcat/internal/fetch"
	"github.com/justyntemme/libcat/internal/ui/styles"
	"github.com/justyntemme/libcat/pkg/models"
)

// AuthorDetailView shows an author's biography and books
type AuthorDetailView struct {
	detail *fetch.Resource[models.AuthorDetail]
	name   string
	list   listCursor

	// Dimensions
	width  int
	height int
}

// NewAuthorDetailView creates a new author detail view
func NewAuthorDetailView(client *api.Client) *AuthorDetailView {
	return &AuthorDetailView{
		detail: fetch.NewResource(fetch.Enveloped[models.AuthorDetail](client)),
		width:  80,
		height: 24,
	}
}

// SetAuthor selects the author to display
func (v *AuthorDetailView) SetAuthor(name string) {
	if name != v.name {
		v.list.top()
	}
	v.name = name
}

// Author returns the selected author name
func (v *AuthorDetailView) Author() string {
	return v.name
}

// Init implements View
func (v *AuthorDetailView) Init() tea.Cmd {
	if v.name == "" {
		return nil
	}
	return v.detail.Load(api.AuthorDetailPath(v.name))
}

// Update implements View
func (v *AuthorDetailView) Update(msg tea.Msg) (View, tea.Cmd) {
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
	case "b":
		return v, BrowseBooks(catalog.Filter{}.WithAuthor(v.name))
	case "r":
		return v, v.detail.Reload()
	}
	return v, nil
}

// View implements View
func (v *AuthorDetailView) View() string {
	var b strings.Builder

	detail := v.detail.Data
	right := ""
	if !v.detail.Loading && v.detail.Err == "" {
		right = fmt.Sprintf(" %d books ", max(detail.BookCount, len(detail.Books)))
	}
	b.WriteString(renderHeader("Author", styles.SecondaryText.Render(" "+v.name), right, v.width) + "\n")

	body := v.height - 4
	if v.detail.Loading {
		b.WriteString(placeCenter(v.width, body, styles.MutedText.Render("Loading author...")))
		return b.String()
	}
	if v.detail.Err != "" {
		b.WriteString(placeCenter(v.width, body, styles.ErrorStyle.Render("Error: "+v.detail.Err)))
		return b.String()
	}

	if bio := strings.TrimSpace(detail.Author.Biography); bio != "" {
		b.WriteString(lipgloss.NewStyle().Width(max(v.width-4, 20)).Padding(0, 2).Render(bio) + "\n\n")
	}

	if len(detail.Books) == 0 {
		b.WriteString(styles.MutedText.Render("  No books by this author") + "\n")
	} else {
		start, end := v.list.window(len(detail.Books), v.visibleLines())
		for i := start; i < end; i++ {
			book := detail.Books[i]
			line := book.Title
			if book.ReleasedYear > 0 {
				line += fmt.Sprintf(" (%d)", book.ReleasedYear)
			}
			if book.CategoryName != "" {
				line += "  · " + book.CategoryName
			}
			b.WriteString(renderItem(line, i == v.list.cursor, v.width) + "\n")
		}
	}

	b.WriteString("\n" + renderHelp("j/k", "nav", "enter", "open", "b", "browse books", "esc", "back"))
	return b.String()
}

// SetSize implements View
func (v *AuthorDetailView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *AuthorDetailView) visibleLines() int {
	// The biography takes a few lines above the list
	return max(v.height-10, 1)
}
