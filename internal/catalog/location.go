package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Screens a location can point at
const (
	ScreenHome            = "home"
	ScreenBooks           = "books"
	ScreenAuthors         = "authors"
	ScreenGenres          = "genres"
	ScreenRecommendations = "recommendations"
	ScreenLogin           = "login"
	ScreenRegister        = "register"
	ScreenProfile         = "profile"
)

var ErrUnknownScreen = errors.New("unknown screen")

// Location addresses a screen, an optional item on it and its committed filter,
// e.g. "books?genre=Roman", "books/7" or "authors/Franz Kafka".
type Location struct {
	Screen string
	Item   string
	Filter Filter
}

// BookID returns the item as a book ID
func (l Location) BookID() (int, bool) {
	if l.Screen != ScreenBooks || l.Item == "" {
		return 0, false
	}
	id, err := strconv.Atoi(l.Item)
	return id, err == nil
}

func (l Location) String() string {
	screen := l.Screen
	if screen == "" {
		screen = ScreenHome
	}

	var b strings.Builder
	b.WriteString(screen)
	if l.Item != "" {
		b.WriteString("/")
		b.WriteString(url.PathEscape(l.Item))
	}

	if kind := l.Filter.Kind(); kind != "" {
		b.WriteString("?")
		b.WriteString(url.Values{kind: {l.Filter.Value()}}.Encode())
	}
	return b.String()
}

// ParseLocation reads a location string. When several filters are given the
// same precedence as the book endpoints applies: search, then genre, then author.
func ParseLocation(s string) (Location, error) {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return Location{}, fmt.Errorf("parse location %q: %w", s, err)
	}

	path := strings.Trim(u.Path, "/")
	screen, item, _ := strings.Cut(path, "/")
	if screen == "" {
		screen = ScreenHome
	}
	switch screen {
	case ScreenHome, ScreenBooks, ScreenAuthors, ScreenGenres,
		ScreenRecommendations, ScreenLogin, ScreenRegister, ScreenProfile:
	default:
		return Location{}, fmt.Errorf("%w: %q", ErrUnknownScreen, screen)
	}

	loc := Location{Screen: screen, Item: item}
	q := u.Query()
	switch {
	case strings.TrimSpace(q.Get("search")) != "":
		loc.Filter = loc.Filter.WithSearch(q.Get("search"))
	case strings.TrimSpace(q.Get("genre")) != "":
		loc.Filter = loc.Filter.WithGenre(q.Get("genre"))
	case strings.TrimSpace(q.Get("author")) != "":
		loc.Filter = loc.Filter.WithAuthor(q.Get("author"))
	}
	return loc, nil
}
