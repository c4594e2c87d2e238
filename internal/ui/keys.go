package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the application-wide key bindings. Screen keys live with
// their views.
type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Escape    key.Binding
	Theme     key.Binding

	// Navigation bar
	Home            key.Binding
	Books           key.Binding
	Authors         key.Binding
	Genres          key.Binding
	Recommendations key.Binding
	Account         key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("^c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back"),
		),
		Theme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "theme"),
		),
		Home: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "home"),
		),
		Books: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "books"),
		),
		Authors: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "authors"),
		),
		Genres: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "genres"),
		),
		Recommendations: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "recommendations"),
		),
		Account: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "account"),
		),
	}
}
