package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/justyntemme/libcat/internal/api"
	"github.com/justyntemme/libcat/internal/catalog"
	"github.com/justyntemme/libcat/internal/config"
	"github.com/justyntemme/libcat/internal/session"
	"github.com/justyntemme/libcat/internal/ui/styles"
	"github.com/justyntemme/libcat/internal/ui/views"
	"github.com/justyntemme/libcat/pkg/models"
)

const testServer = "http://catalog.test"

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type appSuite struct {
	suite.Suite

	creds *session.MemoryCredentials
	store *session.Store
	saved []string
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(appSuite))
}

func (s *appSuite) SetupTest() {
	s.creds = session.NewMemoryCredentials("")
	s.saved = nil
}

func (s *appSuite) TearDownTest() {
	gock.OffAll()
	styles.SetCurrentTheme("dark")
}

func (s *appSuite) newApp(start string) *App {
	loc, err := catalog.ParseLocation(start)
	s.Require().NoError(err)

	client := api.NewClient(api.Options{ServerURL: testServer, Tokens: s.creds})
	s.store = session.New(client, s.creds, nil)

	a := NewApp(Options{
		Client:  client,
		Session: s.store,
		UI:      config.UIConfig{Theme: "dark", BooksPageSize: 20, ListPageSize: 50},
		Start:   loc,
		SaveTheme: func(name string) error {
			s.saved = append(s.saved, name)
			return nil
		},
	})
	a.Init()
	return a
}

// anonymous returns an app whose session has been restored without a credential
func (s *appSuite) anonymous(start string) *App {
	a := s.newApp(start)
	s.Require().NoError(s.store.Initialize(context.Background()))
	a.Update(s.nextChange(a))
	return a
}

// signedIn returns an app whose session was restored from a stored credential
func (s *appSuite) signedIn(start string) *App {
	gock.New(testServer).
		Get("/api/auth/profile").
		Reply(200).
		JSON(map[string]any{"id": 3, "username": "ayse", "email": "ayse@example.com"})

	s.creds = session.NewMemoryCredentials("stored-token")
	a := s.newApp(start)
	s.Require().NoError(s.store.Initialize(context.Background()))
	a.Update(s.nextChange(a))
	s.Require().True(s.store.IsAuthenticated())
	return a
}

func (s *appSuite) nextChange(a *App) tea.Msg {
	msg := a.waitForChange()()
	s.Require().IsType(session.Changed{}, msg)
	return msg
}

func (s *appSuite) Test_StartsAtLocation() {
	cases := map[string]struct {
		view     views.ViewType
		location string
	}{
		"":                      {views.ViewHome, "home"},
		"books?genre=Roman":     {views.ViewBooks, "books?genre=Roman"},
		"books/7":               {views.ViewBookDetail, "books/7"},
		"authors":               {views.ViewAuthors, "authors"},
		"authors/Franz%20Kafka": {views.ViewAuthorDetail, "authors/Franz%20Kafka"},
		"genres/Roman":          {views.ViewGenreDetail, "genres/Roman"},
		"recommendations":       {views.ViewRecommendations, "recommendations"},
		"register":              {views.ViewRegister, "register"},
	}

	for start, want := range cases {
		a := s.newApp(start)
		s.Equal(want.view, a.CurrentView(), start)
		s.Equal(want.location, a.Location().String(), start)
	}
}

func (s *appSuite) Test_ProtectedRedirectsToLoginThenBack() {
	a := s.anonymous("")

	a.Update(views.SwitchViewMsg{View: views.ViewProfile})
	s.Equal(views.ViewLogin, a.CurrentView())
	s.Contains(a.View(), "Sign in to view")

	user := &models.User{ID: 3, Username: "ayse"}
	a.Update(session.Changed{State: session.StateAuthenticated, User: user})

	s.Equal(views.ViewProfile, a.CurrentView(), "sign-in returns to the screen that asked for it")
	s.Nil(a.redirect)
}

func (s *appSuite) Test_SignInFromLoginGoesHome() {
	a := s.anonymous("login")
	s.Require().Equal(views.ViewLogin, a.CurrentView())

	a.Update(session.Changed{State: session.StateAuthenticated, User: &models.User{Username: "ayse"}})

	s.Equal(views.ViewHome, a.CurrentView())
	s.Equal("Signed in as ayse", a.statusMsg)
}

func (s *appSuite) Test_SignOutLeavesProtectedScreen() {
	a := s.signedIn("")

	a.Update(runes("6"))
	s.Require().Equal(views.ViewProfile, a.CurrentView())

	s.Require().NoError(s.store.Logout())
	a.Update(s.nextChange(a))

	s.Equal(views.ViewLogin, a.CurrentView())
	s.Require().NotNil(a.redirect)
	s.Equal(views.ViewProfile, *a.redirect)

	a.Update(views.BackMsg{})
	s.Equal(views.ViewHome, a.CurrentView(), "back skips the screen that is no longer reachable")
}

func (s *appSuite) Test_ProfileWhileInitializing() {
	a := s.newApp("")

	a.Update(runes("6"))

	s.Equal(views.ViewProfile, a.CurrentView(), "no redirect before the session is known")
	s.Contains(a.View(), "Checking session...")
	s.Contains(a.View(), "connecting...")
}

func (s *appSuite) Test_NavigationAndBack() {
	a := s.anonymous("")

	a.Update(runes("2"))
	s.Equal(views.ViewBooks, a.CurrentView())

	a.Update(views.OpenBookMsg{ID: 7})
	s.Equal(views.ViewBookDetail, a.CurrentView())
	s.Equal("books/7", a.Location().String())

	a.Update(views.OpenAuthorMsg{Name: "Franz Kafka"})
	s.Equal(views.ViewAuthorDetail, a.CurrentView())

	a.Update(views.BrowseBooksMsg{Filter: catalog.Filter{}.WithAuthor("Franz Kafka")})
	s.Equal(views.ViewBooks, a.CurrentView())
	s.Equal("books?author=Franz+Kafka", a.Location().String())

	a.Update(views.BackMsg{})
	s.Equal(views.ViewAuthorDetail, a.CurrentView())
	a.Update(views.BackMsg{})
	s.Equal(views.ViewBookDetail, a.CurrentView())
	a.Update(views.BackMsg{})
	s.Equal(views.ViewBooks, a.CurrentView())
	a.Update(views.BackMsg{})
	s.Equal(views.ViewHome, a.CurrentView())
	a.Update(views.BackMsg{})
	s.Equal(views.ViewHome, a.CurrentView(), "empty history stays home")
}

func (s *appSuite) Test_HistoryIsBounded() {
	a := s.anonymous("")

	for i := 0; i < maxHistory*2; i++ {
		if i%2 == 0 {
			a.Update(runes("2"))
		} else {
			a.Update(runes("3"))
		}
	}
	s.Len(a.history, maxHistory)
}

func (s *appSuite) Test_QuitKeys() {
	a := s.anonymous("")

	_, cmd := a.Update(runes("q"))
	s.Require().NotNil(cmd)
	s.IsType(tea.QuitMsg{}, cmd())

	_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	s.Require().NotNil(cmd)
	s.IsType(tea.QuitMsg{}, cmd())
}

func (s *appSuite) Test_TypingDoesNotTriggerShortcuts() {
	a := s.anonymous("books")

	a.Update(runes("/"))
	s.Require().True(a.books.Capturing())

	a.Update(runes("q"))
	a.Update(runes("2"))
	a.Update(runes("6"))
	s.Equal(views.ViewBooks, a.CurrentView())

	a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	s.Equal("q26", a.books.Filter().Search)

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	s.Require().NotNil(cmd)
	s.IsType(tea.QuitMsg{}, cmd())
}

func (s *appSuite) Test_LoginScreenCapturesKeys() {
	a := s.anonymous("login")

	a.Update(runes("q"))
	a.Update(runes("2"))
	s.Equal(views.ViewLogin, a.CurrentView())
}

func (s *appSuite) Test_HelpOverlay() {
	a := s.anonymous("")

	a.Update(runes("?"))
	s.Contains(a.View(), "Keyboard Shortcuts")

	_, cmd := a.Update(runes("q"))
	s.Nil(cmd, "q closes the overlay instead of quitting")
	s.NotContains(a.View(), "Keyboard Shortcuts")
}

func (s *appSuite) Test_ThemeCycleIsSaved() {
	a := s.anonymous("")
	before := styles.CurrentTheme().Name

	_, cmd := a.Update(runes("T"))
	s.Require().NotNil(cmd)
	a.Update(cmd())

	next := styles.CurrentTheme().Name
	s.NotEqual(before, next)
	s.Equal([]string{next}, s.saved)
	s.Equal("Theme: "+next, a.statusMsg)
}

func (s *appSuite) Test_ErrorsShowInStatusBar() {
	a := s.anonymous("")

	a.Update(views.ErrorMsg{Err: errors.New("gateway unreachable")})
	s.Contains(a.View(), "Error: gateway unreachable")

	a.Update(views.ClearErrorMsg{})
	s.NotContains(a.View(), "gateway unreachable")
	s.Contains(a.View(), "anonymous")
}

func (s *appSuite) Test_WindowSize() {
	a := s.anonymous("")

	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	s.Equal(120, a.width)
	s.Equal(40, a.height)
}

func TestKeyMap_Help(t *testing.T) {
	keys := DefaultKeyMap()

	require.Equal(t, []string{"q"}, keys.Quit.Keys())
	assert.Equal(t, "6", keys.Account.Help().Key)
	assert.Equal(t, "theme", keys.Theme.Help().Desc)
}
