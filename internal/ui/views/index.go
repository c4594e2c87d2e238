package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/justyntemme/libcat/internal/api"
	"github.com/justyntemme/libcat/internal/config"
	"github.com/justyntemme/libcat/internal/fetch"
	"github.com/justyntemme/libcat/internal/ui/styles"
	"github.com/justyntemme/libcat/pkg/models"
)

// IndexView is a searchable, paginated list of named catalog entries.
// The authors and genres screens are both index views.
type IndexView[T any] struct {
	title string
	noun  string
	pager *fetch.Pager[T]

	name func(T) string
	note func(T) string
	open func(T) tea.Msg

	searchMode  bool
	searchInput textinput.Model
	list        listCursor

	// Dimensions
	width  int
	height int
}

// NewAuthorsView creates the author index
func NewAuthorsView(client *api.Client, cfg config.UIConfig) *IndexView[models.Author] {
	return newIndexView(
		"Authors", "authors",
		fetch.NewPager(client.ListPage, fetch.PagerConfig[models.Author]{
			Endpoint: "/authors",
			PageSize: cfg.ListPageSize,
			Select:   fetch.Field[models.Author](api.FieldAuthors),
		}),
		func(a models.Author) string { return a.Name },
		func(a models.Author) string { return firstLine(a.Biography) },
		func(a models.Author) tea.Msg { return OpenAuthorMsg{Name: a.Name} },
	)
}

// NewGenresView creates the genre index
func NewGenresView(client *api.Client, cfg config.UIConfig) *IndexView[models.Genre] {
	return newIndexView(
		"Genres", "genres",
		fetch.NewPager(client.ListPage, fetch.PagerConfig[models.Genre]{
			Endpoint: "/genres",
			PageSize: cfg.ListPageSize,
			Select:   fetch.GenreFields(),
		}),
		func(g models.Genre) string { return g.Name },
		func(g models.Genre) string { return firstLine(g.Description) },
		func(g models.Genre) tea.Msg { return OpenGenreMsg{Name: g.Name} },
	)
}

func newIndexView[T any](title, noun string, pager *fetch.Pager[T], name, note func(T) string, open func(T) tea.Msg) *IndexView[T] {
	searchInput := textinput.New()
	searchInput.Placeholder = "Search " + noun + "..."
	searchInput.CharLimit = 100
	searchInput.Width = 40

	return &IndexView[T]{
		title:       title,
		noun:        noun,
		pager:       pager,
		name:        name,
		note:        note,
		open:        open,
		searchInput: searchInput,
		width:       80,
		height:      24,
	}
}

// Init implements View
func (v *IndexView[T]) Init() tea.Cmd {
	return v.pager.Refetch()
}

// Search returns the committed search term
func (v *IndexView[T]) Search() string {
	return v.pager.Filters().Search
}

// Capturing implements Capturer
func (v *IndexView[T]) Capturing() bool {
	return v.searchMode
}

// Update implements View
func (v *IndexView[T]) Update(msg tea.Msg) (View, tea.Cmd) {
	if v.pager.Update(msg) {
		v.list.clamp(len(v.pager.Data), v.visibleLines())
		return v, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	if v.searchMode {
		switch keyMsg.String() {
		case "esc":
			v.searchMode = false
			v.searchInput.Blur()
			v.searchInput.SetValue(v.Search())
			return v, nil
		case "enter":
			v.searchMode = false
			v.searchInput.Blur()
			v.list.top()
			return v, v.pager.SetFilters(fetch.Filters{Search: strings.TrimSpace(v.searchInput.Value())})
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(keyMsg)
			return v, cmd
		}
	}

	key := keyMsg.String()
	if v.list.navigate(key, len(v.pager.Data), v.visibleLines()) {
		return v, nil
	}

	switch key {
	case "/":
		v.searchMode = true
		v.searchInput.Focus()
		return v, textinput.Blink
	case "x":
		if v.Search() != "" {
			v.searchInput.SetValue("")
			v.list.top()
			return v, v.pager.SetFilters(fetch.Filters{})
		}
	case "enter":
		if v.list.cursor < len(v.pager.Data) {
			item := v.pager.Data[v.list.cursor]
			return v, func() tea.Msg { return v.open(item) }
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

// View implements View
func (v *IndexView[T]) View() string {
	var b strings.Builder

	info := ""
	if s := v.Search(); s != "" {
		info = styles.SecondaryText.Render(fmt.Sprintf(" [Search: %s]", s))
	}
	right := fmt.Sprintf("%d %s", v.pager.Total, v.noun) + pageInfo(v.pager.Page, v.pager.TotalPages)
	b.WriteString(renderHeader(v.title, info, right, v.width) + "\n")

	if v.searchMode {
		b.WriteString(styles.InputFieldFocused.Render(v.searchInput.View()) + "\n")
	}

	body := v.height - 4
	switch {
	case v.pager.Loading && len(v.pager.Data) == 0:
		b.WriteString(placeCenter(v.width, body, styles.MutedText.Render("Loading "+v.noun+"...")))
		return b.String()
	case v.pager.Err != "":
		b.WriteString(placeCenter(v.width, body, styles.ErrorStyle.Render("Error: "+v.pager.Err)))
		return b.String()
	case len(v.pager.Data) == 0:
		b.WriteString(placeCenter(v.width, body, styles.MutedText.Render("No "+v.noun+" found")))
		return b.String()
	}

	start, end := v.list.window(len(v.pager.Data), v.visibleLines())
	for i := start; i < end; i++ {
		item := v.pager.Data[i]
		line := v.name(item)
		if note := v.note(item); note != "" {
			line += "  · " + note
		}
		b.WriteString(renderItem(line, i == v.list.cursor, v.width) + "\n")
	}

	b.WriteString("\n")
	pairs := []string{"j/k", "nav", "enter", "open", "/", "search"}
	if v.Search() != "" {
		pairs = append(pairs, "x", "clear")
	}
	pairs = append(pairs, "n/p", "page")
	b.WriteString(renderHelp(pairs...))

	return b.String()
}

// SetSize implements View
func (v *IndexView[T]) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.searchInput.Width = min(40, width-10)
}

func (v *IndexView[T]) visibleLines() int {
	lines := v.height - 5
	if v.searchMode {
		lines--
	}
	if lines < 1 {
		lines = 1
	}
	return lines
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return truncate(s, 60)
}
