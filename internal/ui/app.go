package ui

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justyntemme/libcat/internal/api"
	"github.com/justyntemme/libcat/internal/catalog"
	"github.com/justyntemme/libcat/internal/config"
	"github.com/justyntemme/libcat/internal/logging"
	"github.com/justyntemme/libcat/internal/session"
	"github.com/justyntemme/libcat/internal/ui/styles"
	"github.com/justyntemme/libcat/internal/ui/views"
	"github.com/justyntemme/libcat/pkg/models"
)

const (
	maxHistory = 32
	// chrome is the number of lines used by the navigation and status bars
	chrome = 2
)

// Options configures the application
type Options struct {
	Client  *api.Client
	Session *session.Store
	UI      config.UIConfig
	Start   catalog.Location
	Logger  *slog.Logger

	// SaveTheme persists the theme chosen with T. Optional.
	SaveTheme func(name string) error
}

// themeSavedMsg reports the result of persisting the theme
type themeSavedMsg struct {
	name string
	err  error
}

// App is the main application model
type App struct {
	session   *session.Store
	keys      KeyMap
	logger    *slog.Logger
	saveTheme func(string) error
	start     catalog.Location

	// Session transitions arrive here from the store's observer
	changes chan session.Changed
	state   session.State
	user    *models.User

	// Current view state
	currentView views.ViewType
	history     []views.ViewType
	redirect    *views.ViewType

	// Window dimensions
	width  int
	height int

	// View models
	home            *views.HomeView
	books           *views.BooksView
	bookDetail      *views.BookDetailView
	authors         *views.IndexView[models.Author]
	authorDetail    *views.AuthorDetailView
	genres          *views.IndexView[models.Genre]
	genreDetail     *views.GenreDetailView
	recommendations *views.RecommendationsView
	login           *views.LoginView
	profile         *views.ProfileView

	// Error/status message
	err       error
	statusMsg string
	showHelp  bool
}

// NewApp creates a new application instance
func NewApp(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	styles.SetCurrentTheme(opts.UI.Theme)

	client := opts.Client
	app := &App{
		session:         opts.Session,
		keys:            DefaultKeyMap(),
		logger:          logger,
		saveTheme:       opts.SaveTheme,
		start:           opts.Start,
		changes:         make(chan session.Changed, 16),
		state:           opts.Session.State(),
		user:            opts.Session.User(),
		currentView:     views.ViewHome,
		width:           80,
		height:          24,
		home:            views.NewHomeView(client),
		books:           views.NewBooksView(client, opts.UI),
		bookDetail:      views.NewBookDetailView(client),
		authors:         views.NewAuthorsView(client, opts.UI),
		authorDetail:    views.NewAuthorDetailView(client),
		genres:          views.NewGenresView(client, opts.UI),
		genreDetail:     views.NewGenreDetailView(client, opts.UI),
		recommendations: views.NewRecommendationsView(client, opts.UI),
		login:           views.NewLoginView(opts.Session),
		profile:         views.NewProfileView(opts.Session),
	}

	opts.Session.OnChange(func(c session.Changed) {
		app.changes <- c
	})
	app.resize()

	return app
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	_, openCmd := a.open(a.start)
	return tea.Batch(
		a.initSession(),
		a.waitForChange(),
		openCmd,
		tea.SetWindowTitle("libcat"),
	)
}

// initSession restores the persisted session in the background
func (a *App) initSession() tea.Cmd {
	store := a.session
	return func() tea.Msg {
		if err := store.Initialize(context.Background()); err != nil {
			return views.ErrorMsg{Err: err}
		}
		return nil
	}
}

// waitForChange delivers the next session transition
func (a *App) waitForChange() tea.Cmd {
	ch := a.changes
	return func() tea.Msg {
		return <-ch
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case session.Changed:
		return a.sessionChanged(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)

	case views.OpenBookMsg:
		a.bookDetail.SetBook(msg.ID)
		return a.switchView(views.ViewBookDetail)

	case views.OpenAuthorMsg:
		a.authorDetail.SetAuthor(msg.Name)
		return a.switchView(views.ViewAuthorDetail)

	case views.OpenGenreMsg:
		a.genreDetail.SetGenre(msg.Name)
		return a.switchView(views.ViewGenreDetail)

	case views.BrowseBooksMsg:
		a.books.ApplyFilter(msg.Filter)
		return a.switchView(views.ViewBooks)

	case views.SwitchViewMsg:
		return a.switchView(msg.View)

	case views.BackMsg:
		return a.back()

	case views.ErrorMsg:
		a.err = msg.Err
		a.logger.Warn("ui error", "view", a.currentView.String(), "error", msg.Err)
		return a, nil

	case views.ClearErrorMsg:
		a.err = nil
		return a, nil

	case themeSavedMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.statusMsg = "Theme: " + msg.name
		return a, nil
	}

	// Results carry their owner, so every view sees them and keeps its own
	return a, a.broadcast(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.ForceQuit) {
		return a, tea.Quit
	}

	if a.showHelp {
		if key.Matches(msg, a.keys.Help, a.keys.Escape, a.keys.Quit) {
			a.showHelp = false
		}
		return a, nil
	}

	if !a.capturing() {
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.Help):
			a.showHelp = true
			return a, nil
		case key.Matches(msg, a.keys.Theme):
			return a, a.cycleTheme()
		case key.Matches(msg, a.keys.Home):
			return a.switchView(views.ViewHome)
		case key.Matches(msg, a.keys.Books):
			return a.switchView(views.ViewBooks)
		case key.Matches(msg, a.keys.Authors):
			return a.switchView(views.ViewAuthors)
		case key.Matches(msg, a.keys.Genres):
			return a.switchView(views.ViewGenres)
		case key.Matches(msg, a.keys.Recommendations):
			return a.switchView(views.ViewRecommendations)
		case key.Matches(msg, a.keys.Account):
			return a.switchView(views.ViewProfile)
		}
	}

	a.statusMsg = ""
	next, cmd := a.getCurrentView().Update(msg)
	a.setCurrentView(next)
	return a, cmd
}

// capturing reports whether the current view is taking text input
func (a *App) capturing() bool {
	c, ok := a.getCurrentView().(views.Capturer)
	return ok && c.Capturing()
}

// broadcast hands a non-key message to every view
func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, v := range a.allViews() {
		_, cmd := v.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// sessionChanged applies a session transition and enforces protected screens
func (a *App) sessionChanged(msg session.Changed) (tea.Model, tea.Cmd) {
	prev := a.state
	a.state, a.user = msg.State, msg.User
	wait := a.waitForChange()

	a.logger.Debug("session changed", "from", prev.String(), "to", msg.State.String())

	switch msg.State {
	case session.StateAuthenticated:
		if a.currentView == views.ViewLogin || a.currentView == views.ViewRegister {
			target := views.ViewHome
			if a.redirect != nil {
				target = *a.redirect
			}
			a.redirect = nil
			if a.user != nil {
				a.statusMsg = "Signed in as " + a.user.Username
			}
			_, cmd := a.show(target, false)
			return a, tea.Batch(wait, cmd)
		}

	case session.StateAnonymous:
		if prev == session.StateAuthenticated {
			a.statusMsg = "Signed out"
		}
		if a.currentView.Protected() {
			_, cmd := a.switchView(a.currentView)
			return a, tea.Batch(wait, cmd)
		}
	}
	return a, wait
}

// View implements tea.Model
func (a *App) View() string {
	if a.showHelp {
		return a.renderHelp()
	}

	content := a.getCurrentView().View()

	var status string
	switch {
	case a.err != nil:
		status = styles.ErrorStyle.Render("Error: " + a.err.Error())
	case a.statusMsg != "":
		status = styles.SuccessStyle.Render(a.statusMsg)
	default:
		status = styles.StatusBar.Render(a.Location().String())
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.renderNav(), content, status)
}

// CurrentView returns the screen on display
func (a *App) CurrentView() views.ViewType {
	return a.currentView
}

// Location returns the address of the screen on display
func (a *App) Location() catalog.Location {
	switch a.currentView {
	case views.ViewBooks:
		return a.books.Location()
	case views.ViewBookDetail:
		return catalog.Location{Screen: catalog.ScreenBooks, Item: strconv.Itoa(a.bookDetail.BookID())}
	case views.ViewAuthors:
		return catalog.Location{Screen: catalog.ScreenAuthors}
	case views.ViewAuthorDetail:
		return catalog.Location{Screen: catalog.ScreenAuthors, Item: a.authorDetail.Author()}
	case views.ViewGenres:
		return catalog.Location{Screen: catalog.ScreenGenres}
	case views.ViewGenreDetail:
		return catalog.Location{Screen: catalog.ScreenGenres, Item: a.genreDetail.Genre()}
	case views.ViewRecommendations:
		return catalog.Location{Screen: catalog.ScreenRecommendations}
	case views.ViewLogin:
		return catalog.Location{Screen: catalog.ScreenLogin}
	case views.ViewRegister:
		return catalog.Location{Screen: catalog.ScreenRegister}
	case views.ViewProfile:
		return catalog.Location{Screen: catalog.ScreenProfile}
	default:
		return catalog.Location{Screen: catalog.ScreenHome}
	}
}

// open shows the screen a location points at
func (a *App) open(loc catalog.Location) (*App, tea.Cmd) {
	switch loc.Screen {
	case catalog.ScreenBooks:
		if id, ok := loc.BookID(); ok {
			a.bookDetail.SetBook(id)
			return a.switchView(views.ViewBookDetail)
		}
		a.books.ApplyFilter(loc.Filter)
		return a.switchView(views.ViewBooks)
	case catalog.ScreenAuthors:
		if loc.Item != "" {
			a.authorDetail.SetAuthor(loc.Item)
			return a.switchView(views.ViewAuthorDetail)
		}
		return a.switchView(views.ViewAuthors)
	case catalog.ScreenGenres:
		if loc.Item != "" {
			a.genreDetail.SetGenre(loc.Item)
			return a.switchView(views.ViewGenreDetail)
		}
		return a.switchView(views.ViewGenres)
	case catalog.ScreenRecommendations:
		return a.switchView(views.ViewRecommendations)
	case catalog.ScreenLogin:
		return a.switchView(views.ViewLogin)
	case catalog.ScreenRegister:
		return a.switchView(views.ViewRegister)
	case catalog.ScreenProfile:
		return a.switchView(views.ViewProfile)
	default:
		return a, a.home.Init()
	}
}

// switchView changes the current view and initializes it. Protected views
// redirect to the login screen when the session is anonymous.
func (a *App) switchView(view views.ViewType) (*App, tea.Cmd) {
	if view.Protected() && a.state == session.StateAnonymous {
		target := view
		a.redirect = &target
		a.statusMsg = "Sign in to view " + view.String()
		view = views.ViewLogin
	}
	return a.show(view, true)
}

// back returns to the previous screen
func (a *App) back() (*App, tea.Cmd) {
	view := views.ViewHome
	for len(a.history) > 0 {
		view = a.history[len(a.history)-1]
		a.history = a.history[:len(a.history)-1]
		// A protected screen left behind may no longer be reachable
		if !(view.Protected() && a.state != session.StateAuthenticated) {
			break
		}
		view = views.ViewHome
	}
	return a.show(view, false)
}

func (a *App) show(view views.ViewType, remember bool) (*App, tea.Cmd) {
	if remember && view != a.currentView {
		a.history = append(a.history, a.currentView)
		if len(a.history) > maxHistory {
			a.history = a.history[len(a.history)-maxHistory:]
		}
	}

	switch view {
	case views.ViewLogin:
		a.login.SetRegistering(false)
	case views.ViewRegister:
		a.login.SetRegistering(true)
	}

	a.currentView = view
	a.err = nil
	return a, a.getCurrentView().Init()
}

// getCurrentView returns the current view model
func (a *App) getCurrentView() views.View {
	switch a.currentView {
	case views.ViewBooks:
		return a.books
	case views.ViewBookDetail:
		return a.bookDetail
	case views.ViewAuthors:
		return a.authors
	case views.ViewAuthorDetail:
		return a.authorDetail
	case views.ViewGenres:
		return a.genres
	case views.ViewGenreDetail:
		return a.genreDetail
	case views.ViewRecommendations:
		return a.recommendations
	case views.ViewLogin, views.ViewRegister:
		return a.login
	case views.ViewProfile:
		return a.profile
	default:
		return a.home
	}
}

// setCurrentView stores the model a view returned from Update
func (a *App) setCurrentView(v views.View) {
	switch v := v.(type) {
	case *views.HomeView:
		a.home = v
	case *views.BooksView:
		a.books = v
	case *views.BookDetailView:
		a.bookDetail = v
	case *views.IndexView[models.Author]:
		a.authors = v
	case *views.AuthorDetailView:
		a.authorDetail = v
	case *views.IndexView[models.Genre]:
		a.genres = v
	case *views.GenreDetailView:
		a.genreDetail = v
	case *views.RecommendationsView:
		a.recommendations = v
	case *views.LoginView:
		a.login = v
	case *views.ProfileView:
		a.profile = v
	}
}

func (a *App) allViews() []views.View {
	return []views.View{
		a.home, a.books, a.bookDetail, a.authors, a.authorDetail,
		a.genres, a.genreDetail, a.recommendations, a.login, a.profile,
	}
}

// resize hands every view the area between the bars
func (a *App) resize() {
	for _, v := range a.allViews() {
		v.SetSize(a.width, max(a.height-chrome, 1))
	}
}

func (a *App) cycleTheme() tea.Cmd {
	name := styles.NextTheme()
	a.statusMsg = "Theme: " + name
	if a.saveTheme == nil {
		return nil
	}
	save := a.saveTheme
	return func() tea.Msg {
		return themeSavedMsg{name: name, err: save(name)}
	}
}

var navTabs = []struct {
	label string
	view  views.ViewType
	also  []views.ViewType
}{
	{"1 Home", views.ViewHome, nil},
	{"2 Books", views.ViewBooks, []views.ViewType{views.ViewBookDetail}},
	{"3 Authors", views.ViewAuthors, []views.ViewType{views.ViewAuthorDetail}},
	{"4 Genres", views.ViewGenres, []views.ViewType{views.ViewGenreDetail}},
	{"5 Recommendations", views.ViewRecommendations, nil},
	{"6 Account", views.ViewProfile, []views.ViewType{views.ViewLogin, views.ViewRegister}},
}

// renderNav renders the navigation bar with the session state on the right
func (a *App) renderNav() string {
	var tabs []string
	for _, tab := range navTabs {
		active := tab.view == a.currentView
		for _, v := range tab.also {
			active = active || v == a.currentView
		}
		if active {
			tabs = append(tabs, styles.NavTabActive.Render(tab.label))
		} else {
			tabs = append(tabs, styles.NavTab.Render(tab.label))
		}
	}
	left := strings.Join(tabs, "")

	var right string
	switch a.state {
	case session.StateInitializing:
		right = styles.MutedText.Render("connecting... ")
	case session.StateAuthenticated:
		name := "signed in"
		if a.user != nil {
			name = a.user.Username
		}
		right = styles.AuthBadge.Render("● "+name) + " "
	default:
		right = styles.MutedText.Render("○ anonymous ")
	}

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderHelp renders the help overlay
func (a *App) renderHelp() string {
	help := styles.Dialog.Width(60).Render(
		styles.DialogTitle.Render("Keyboard Shortcuts") + "\n\n" +
			styles.HelpKey.Render("Screens") + "\n" +
			"  1-6     Home, Books, Authors, Genres, Picks, Account\n" +
			"  Esc     Back\n\n" +
			styles.HelpKey.Render("Lists") + "\n" +
			"  j/↓ k/↑ Move down/up\n" +
			"  g/G     Top/bottom\n" +
			"  Ctrl+d  Page down\n" +
			"  Ctrl+u  Page up\n" +
			"  n/p     Next/previous page\n" +
			"  Enter   Open\n" +
			"  r       Reload\n\n" +
			styles.HelpKey.Render("Books") + "\n" +
			"  /       Search\n" +
			"  c       Filter by genre\n" +
			"  a       Books by the selected author\n" +
			"  x       Clear filter\n\n" +
			styles.HelpKey.Render("Recommendations") + "\n" +
			"  Tab     General / by genre / by author\n" +
			"  /       Choose a genre or author\n\n" +
			styles.HelpKey.Render("General") + "\n" +
			"  T       Change theme\n" +
			"  q       Quit\n" +
			"  ?       Toggle help\n",
	)

	// Center the help dialog
	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Center,
		lipgloss.Center,
		help,
	)
}
