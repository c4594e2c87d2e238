package views

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justyntemme/libcat/internal/api"
	"github.com/justyntemme/libcat/internal/fetch"
	"github.com/justyntemme/libcat/internal/ui/styles"
	"github.com/justyntemme/libcat/pkg/models"
)

// BookDetailView displays a single book with its author information
type BookDetailView struct {
	book *fetch.Resource[models.EnrichedBook]
	id   int

	// Dimensions
	width  int
	height int
}

// NewBookDetailView creates a new book detail view
func NewBookDetailView(client *api.Client) *BookDetailView {
	return &BookDetailView{
		book:   fetch.NewResource(fetch.Enveloped[models.EnrichedBook](client)),
		width:  80,
		height: 24,
	}
}

// SetBook selects the book to display
func (v *BookDetailView) SetBook(id int) {
	v.id = id
}

// BookID returns the selected book
func (v *BookDetailView) BookID() int {
	return v.id
}

// Init implements View
func (v *BookDetailView) Init() tea.Cmd {
	if v.id == 0 {
		return nil
	}
	return v.book.Load("/books/" + strconv.Itoa(v.id))
}

// Update implements View
func (v *BookDetailView) Update(msg tea.Msg) (View, tea.Cmd) {
	if v.book.Update(msg) {
		return v, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	book := v.book.Data
	switch keyMsg.String() {
	case "esc", "backspace":
		return v, Back()
	case "a":
		if book.Author != "" {
			return v, func() tea.Msg { return OpenAuthorMsg{Name: book.Author} }
		}
	case "c":
		if book.CategoryName != "" {
			return v, func() tea.Msg { return OpenGenreMsg{Name: book.CategoryName} }
		}
	case "r":
		return v, v.book.Reload()
	}
	return v, nil
}

// View implements View
func (v *BookDetailView) View() string {
	if v.book.Loading {
		return placeCenter(v.width, v.height, styles.MutedText.Render("Loading book..."))
	}
	if v.book.Err != "" {
		return placeCenter(v.width, v.height,
			styles.ErrorStyle.Render("Error: "+v.book.Err)+"\n\n"+renderHelp("r", "retry", "esc", "back"))
	}

	book := v.book.Data
	if book.ID == 0 {
		return placeCenter(v.width, v.height, styles.MutedText.Render("No book selected"))
	}

	var b strings.Builder

	b.WriteString(styles.DialogTitle.Render("Book Details") + "\n")
	b.WriteString(styles.BookTitle.Render(book.Title) + "\n")
	b.WriteString(styles.BookAuthor.Render("by "+book.Author) + "\n\n")

	if book.CategoryName != "" {
		b.WriteString(v.renderField("Genre", styles.BadgeGenre.Render(book.CategoryName)))
	}
	if book.Publisher != "" {
		b.WriteString(v.renderField("Publisher", book.Publisher))
	}
	if book.ReleasedYear > 0 {
		b.WriteString(v.renderField("Released", strconv.Itoa(book.ReleasedYear)))
	}
	if book.PageCount > 0 {
		b.WriteString(v.renderField("Pages", fmt.Sprintf("%d", book.PageCount)))
	}
	if book.ProductCode != "" {
		b.WriteString(v.renderField("Code", book.ProductCode))
	}

	if info := book.AuthorInfo; info != nil && info.Biography != "" {
		b.WriteString("\n" + styles.HelpKey.Render("About "+info.Name) + "\n")
		b.WriteString(lipgloss.NewStyle().Width(min(52, v.width-12)).Render(info.Biography) + "\n")
	}

	b.WriteString("\n" + renderHelp("a", "author", "c", "genre", "esc", "back"))

	return lipgloss.Place(
		v.width,
		v.height,
		lipgloss.Center,
		lipgloss.Center,
		styles.Dialog.Width(min(60, v.width-4)).Render(b.String()),
	)
}

// renderField renders a label-value pair
func (v *BookDetailView) renderField(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Foreground(styles.Muted).
		Width(12)
	return labelStyle.Render(label+":") + " " + value + "\n"
}

// SetSize implements View
func (v *BookDetailView) SetSize(width, height int) {
	v.width = width
	v.height = height
}
