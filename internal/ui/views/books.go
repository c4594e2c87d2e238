package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/justyntemme/libcat/internal/api"
	"github.com/justyntemme/libcat/internal/catalog"
	"github.com/justyntemme/libcat/internal/config"
	"github.com/justyntemme/libcat/internal/fetch"
	"github.com/justyntemme/libcat/internal/ui/styles"
	"github.com/justyntemme/libcat/pkg/models"
)

type booksMode int

const (
	booksBrowse booksMode = iota
	booksSearch
	booksGenres
)

// BooksView lists books, narrowed by at most one of search, genre or author
type BooksView struct {
	pager  *fetch.Pager[models.Book]
	genres *fetch.Resource[[]models.Genre]

	// filter is the committed filter; searchInput holds uncommitted text
	filter      catalog.Filter
	searchInput textinput.Model
	mode        booksMode
	stale       bool

	list      listCursor
	genreList listCursor

	// Dimensions
	width  int
	height int
}

// NewBooksView creates a new book list view
func NewBooksView(client *api.Client, cfg config.UIConfig) *BooksView {
	searchInput := textinput.New()
	searchInput.Placeholder = "Search books..."
	searchInput.CharLimit = 100
	searchInput.Width = 40

	return &BooksView{
		pager: fetch.NewPager(client.ListPage, fetch.PagerConfig[models.Book]{
			Endpoint: catalog.Filter{}.BooksEndpoint(),
			PageSize: cfg.BooksPageSize,
			Select:   fetch.Field[models.Book](api.FieldBooks),
		}),
		genres: fetch.NewResource(func(ctx context.Context, _ string) ([]models.Genre, error) {
			return client.AllGenres(ctx)
		}),
		searchInput: searchInput,
		stale:       true,
		width:       80,
		height:      24,
	}
}

// Init implements View
func (v *BooksView) Init() tea.Cmd {
	var cmds []tea.Cmd
	if v.stale {
		v.stale = false
		v.list.top()
		cmds = append(cmds, v.pager.SetEndpoint(v.filter.BooksEndpoint()))
	} else {
		cmds = append(cmds, v.pager.Refetch())
	}
	if v.genres.Endpoint() == "" || v.genres.Err != "" {
		cmds = append(cmds, v.genres.Load("/genres"))
	}
	return tea.Batch(cmds...)
}

// ApplyFilter replaces the committed filter. The first page of the new
// listing is loaded by the next Init.
func (v *BooksView) ApplyFilter(f catalog.Filter) {
	v.commit(f)
	v.stale = true
}

// Filter returns the committed filter
func (v *BooksView) Filter() catalog.Filter {
	return v.filter
}

// Location returns where the view currently points
func (v *BooksView) Location() catalog.Location {
	return catalog.Location{Screen: catalog.ScreenBooks, Filter: v.filter}
}

// Capturing implements Capturer
func (v *BooksView) Capturing() bool {
	return v.mode == booksSearch
}

// Update implements View
func (v *BooksView) Update(msg tea.Msg) (View, tea.Cmd) {
	if v.pager.Update(msg) {
		v.list.clamp(len(v.pager.Data), v.visibleLines())
		return v, nil
	}
	if v.genres.Update(msg) {
		return v, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch v.mode {
	case booksSearch:
		return v.updateSearch(keyMsg)
	case booksGenres:
		return v.updateGenres(keyMsg)
	}

	key := keyMsg.String()
	if v.list.navigate(key, len(v.pager.Data), v.visibleLines()) {
		return v, nil
	}

	switch key {
	case "/":
		v.mode = booksSearch
		v.searchInput.SetValue(v.filter.Search)
		v.searchInput.CursorEnd()
		v.searchInput.Focus()
		return v, textinput.Blink
	case "c":
		v.mode = booksGenres
		v.genreList.top()
		if v.genres.Endpoint() == "" || v.genres.Err != "" {
			return v, v.genres.Load("/genres")
		}
	case "a":
		// Books by the selected book's author
		if book, ok := v.selected(); ok && book.Author != "" {
			return v, v.setFilter(v.filter.WithAuthor(book.Author))
		}
	case "x":
		if v.filter.Active() {
			return v, v.setFilter(catalog.Filter{})
		}
	case "enter":
		if book, ok := v.selected(); ok {
			return v, OpenBook(book.ID)
		}
	case "n":
		return v, v.pager.NextPage()
	case "p":
		return v, v.pager.PrevPage()
	case "r":
		return v, v.pager.Refetch()
	}

	return v, nil
}

func (v *BooksView) updateSearch(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = booksBrowse
		v.searchInput.Blur()
		v.searchInput.SetValue(v.filter.Search)
		return v, nil
	case "enter":
		v.mode = booksBrowse
		v.searchInput.Blur()
		return v, v.setFilter(v.filter.WithSearch(v.searchInput.Value()))
	}

	var cmd tea.Cmd
	v.searchInput, cmd = v.searchInput.Update(msg)
	return v, cmd
}

func (v *BooksView) updateGenres(msg tea.KeyMsg) (View, tea.Cmd) {
	// Row 0 is "all genres"
	n := len(v.genres.Data) + 1
	key := msg.String()
	if v.genreList.navigate(key, n, v.visibleLines()) {
		return v, nil
	}

	switch key {
	case "esc", "c":
		v.mode = booksBrowse
	case "enter":
		v.mode = booksBrowse
		if v.genreList.cursor == 0 {
			return v, v.setFilter(v.filter.WithGenre(""))
		}
		genre := v.genres.Data[v.genreList.cursor-1]
		return v, v.setFilter(v.filter.WithGenre(genre.Name))
	}
	return v, nil
}

// setFilter commits f and loads its first page
func (v *BooksView) setFilter(f catalog.Filter) tea.Cmd {
	v.commit(f)
	v.stale = false
	return v.pager.SetEndpoint(v.filter.BooksEndpoint())
}

func (v *BooksView) commit(f catalog.Filter) {
	v.filter = f
	v.searchInput.SetValue(f.Search)
	v.list.top()
}

func (v *BooksView) selected() (models.Book, bool) {
	if v.list.cursor < 0 || v.list.cursor >= len(v.pager.Data) {
		return models.Book{}, false
	}
	return v.pager.Data[v.list.cursor], true
}

// View implements View
func (v *BooksView) View() string {
	var b strings.Builder

	b.WriteString(v.renderHeader() + "\n")

	if v.mode == booksSearch {
		b.WriteString(styles.InputFieldFocused.Render(v.searchInput.View()) + "\n")
	}

	body := v.height - 4
	switch {
	case v.mode == booksGenres:
		b.WriteString(v.renderGenres())
		return b.String()
	case v.pager.Loading && len(v.pager.Data) == 0:
		b.WriteString(placeCenter(v.width, body, styles.MutedText.Render("Loading books...")))
		return b.String()
	case v.pager.Err != "":
		b.WriteString(placeCenter(v.width, body, styles.ErrorStyle.Render("Error: "+v.pager.Err)))
		return b.String()
	case len(v.pager.Data) == 0:
		b.WriteString(placeCenter(v.width, body, styles.MutedText.Render("No books found")))
		return b.String()
	}

	start, end := v.list.window(len(v.pager.Data), v.visibleLines())
	for i := start; i < end; i++ {
		b.WriteString(v.renderBookLine(v.pager.Data[i], i == v.list.cursor) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderFooter())
	return b.String()
}

// SetSize implements View
func (v *BooksView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.searchInput.Width = min(40, width-10)
}

func (v *BooksView) renderHeader() string {
	info := styles.SecondaryText.Render(" [" + v.filter.String() + "]")
	if v.pager.Loading && len(v.pager.Data) > 0 {
		info += styles.MutedText.Render(" loading...")
	}
	right := fmt.Sprintf("%d books", v.pager.Total) + pageInfo(v.pager.Page, v.pager.TotalPages)
	return renderHeader("Books", info, right, v.width)
}

func (v *BooksView) renderBookLine(book models.Book, selected bool) string {
	line := book.Title
	if book.Author != "" {
		line += " - " + book.Author
	}
	if book.ReleasedYear > 0 {
		line += fmt.Sprintf(" (%d)", book.ReleasedYear)
	}
	badge := ""
	if book.CategoryName != "" && v.filter.Genre == "" {
		badge = " " + styles.BadgeGenre.Render(book.CategoryName)
	}
	return renderItem(line, selected, v.width-len(book.CategoryName)-3) + badge
}

func (v *BooksView) renderGenres() string {
	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("  Filter by genre") + "\n")

	if v.genres.Loading {
		b.WriteString(styles.MutedText.Render("  Loading genres...") + "\n")
		return b.String()
	}
	if v.genres.Err != "" {
		b.WriteString(styles.ErrorStyle.Render("Error: "+v.genres.Err) + "\n")
		return b.String()
	}

	names := make([]string, 0, len(v.genres.Data)+1)
	names = append(names, "All genres")
	for _, g := range v.genres.Data {
		names = append(names, g.Name)
	}

	start, end := v.genreList.window(len(names), v.visibleLines()-1)
	for i := start; i < end; i++ {
		line := names[i]
		if (i == 0 && v.filter.Genre == "") || (i > 0 && line == v.filter.Genre) {
			line += " ✓"
		}
		b.WriteString(renderItem(line, i == v.genreList.cursor, v.width) + "\n")
	}
	b.WriteString("\n" + renderHelp("j/k", "nav", "enter", "apply", "esc", "cancel"))
	return b.String()
}

func (v *BooksView) renderFooter() string {
	pairs := []string{"j/k", "nav", "enter", "open", "/", "search", "c", "genre", "a", "same author"}
	if v.filter.Active() {
		pairs = append(pairs, "x", "clear filter")
	}
	pairs = append(pairs, "n/p", "page")
	return renderHelp(pairs...)
}

// visibleLines returns the number of visible book lines
func (v *BooksView) visibleLines() int {
	// Account for header, footer, and margins
	lines := v.height - 5
	if v.mode == booksSearch {
		lines--
	}
	if lines < 1 {
		lines = 1
	}
	return lines
}
