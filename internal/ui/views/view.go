package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/justyntemme/libcat/internal/catalog"
	"github.com/justyntemme/libcat/pkg/models"
)

// ViewType represents different screens in the application
type ViewType int

const (
	ViewHome ViewType = iota
	ViewBooks
	ViewBookDetail
	ViewAuthors
	ViewAuthorDetail
	ViewGenres
	ViewGenreDetail
	ViewRecommendations
	ViewLogin
	ViewRegister
	ViewProfile
)

// String returns the name of the view
func (v ViewType) String() string {
	switch v {
	case ViewHome:
		return "Home"
	case ViewBooks:
		return "Books"
	case ViewBookDetail:
		return "Book"
	case ViewAuthors:
		return "Authors"
	case ViewAuthorDetail:
		return "Author"
	case ViewGenres:
		return "Genres"
	case ViewGenreDetail:
		return "Genre"
	case ViewRecommendations:
		return "Recommendations"
	case ViewLogin:
		return "Login"
	case ViewRegister:
		return "Register"
	case ViewProfile:
		return "Profile"
	default:
		return "Unknown"
	}
}

// Protected reports whether the view needs an authenticated session
func (v ViewType) Protected() bool {
	return v == ViewProfile
}

// View is the interface that all views must implement
type View interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (View, tea.Cmd)
	View() string
	SetSize(width, height int)
}

var (
	_ View = (*HomeView)(nil)
	_ View = (*BooksView)(nil)
	_ View = (*BookDetailView)(nil)
	_ View = (*IndexView[models.Author])(nil)
	_ View = (*AuthorDetailView)(nil)
	_ View = (*IndexView[models.Genre])(nil)
	_ View = (*GenreDetailView)(nil)
	_ View = (*RecommendationsView)(nil)
	_ View = (*LoginView)(nil)
	_ View = (*ProfileView)(nil)
)

// Capturer is implemented by views that can hold keyboard focus in a text
// input. While Capturing is true the app leaves single-key shortcuts alone.
type Capturer interface {
	Capturing() bool
}

// Message types for inter-view communication

// OpenBookMsg opens a book's detail screen
type OpenBookMsg struct {
	ID int
}

// OpenAuthorMsg opens an author's detail screen
type OpenAuthorMsg struct {
	Name string
}

// OpenGenreMsg opens a genre's detail screen
type OpenGenreMsg struct {
	Name string
}

// BrowseBooksMsg opens the book list with a filter applied
type BrowseBooksMsg struct {
	Filter catalog.Filter
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Err error
}

// ClearErrorMsg clears the current error
type ClearErrorMsg struct{}

// SwitchViewMsg requests a view switch
type SwitchViewMsg struct {
	View ViewType
}

// BackMsg returns to the previous screen
type BackMsg struct{}

// Helper functions to create messages

// SendError creates an error message command
func SendError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}

// ClearError creates a command to clear errors
func ClearError() tea.Cmd {
	return func() tea.Msg {
		return ClearErrorMsg{}
	}
}

// SwitchTo creates a command to switch views
func SwitchTo(view ViewType) tea.Cmd {
	return func() tea.Msg {
		return SwitchViewMsg{View: view}
	}
}

// Back creates a command that returns to the previous screen
func Back() tea.Cmd {
	return func() tea.Msg {
		return BackMsg{}
	}
}

// OpenBook creates a command that opens a book
func OpenBook(id int) tea.Cmd {
	return func() tea.Msg {
		return OpenBookMsg{ID: id}
	}
}

// BrowseBooks creates a command that lists books matching f
func BrowseBooks(f catalog.Filter) tea.Cmd {
	return func() tea.Msg {
		return BrowseBooksMsg{Filter: f}
	}
}
