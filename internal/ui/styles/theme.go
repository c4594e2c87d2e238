package styles

import "github.com/charmbracelet/lipgloss"

// Theme is one color scheme
type Theme struct {
	Name        string
	Description string

	Accent  lipgloss.Color // title bar, focus, dialogs
	Link    lipgloss.Color // authors, key hints
	Surface lipgloss.Color
	Text    lipgloss.Color
	Dim     lipgloss.Color
	Frame   lipgloss.Color

	Good    lipgloss.Color
	Caution lipgloss.Color
	Bad     lipgloss.Color

	Highlight     lipgloss.Color
	HighlightText lipgloss.Color
	GenreText     lipgloss.Color
	ScoreText     lipgloss.Color
}

var themes = []Theme{
	{
		Name:          "dark",
		Description:   "Dark theme (default)",
		Accent:        "#7C3AED",
		Link:          "#06B6D4",
		Surface:       "#1F2937",
		Text:          "#F9FAFB",
		Dim:           "#6B7280",
		Frame:         "#374151",
		Good:          "#10B981",
		Caution:       "#F59E0B",
		Bad:           "#EF4444",
		Highlight:     "#7C3AED",
		HighlightText: "#F9FAFB",
		GenreText:     "#1F2937",
		ScoreText:     "#1F2937",
	},
	{
		Name:          "light",
		Description:   "Light theme",
		Accent:        "#7C3AED",
		Link:          "#0891B2",
		Surface:       "#FFFFFF",
		Text:          "#1F2937",
		Dim:           "#9CA3AF",
		Frame:         "#E5E7EB",
		Good:          "#059669",
		Caution:       "#D97706",
		Bad:           "#DC2626",
		Highlight:     "#7C3AED",
		HighlightText: "#FFFFFF",
		GenreText:     "#FFFFFF",
		ScoreText:     "#FFFFFF",
	},
	{
		Name:          "solarized",
		Description:   "Solarized dark",
		Accent:        "#268BD2",
		Link:          "#2AA198",
		Surface:       "#002B36",
		Text:          "#839496",
		Dim:           "#586E75",
		Frame:         "#073642",
		Good:          "#859900",
		Caution:       "#B58900",
		Bad:           "#DC322F",
		Highlight:     "#268BD2",
		HighlightText: "#FDF6E3",
		GenreText:     "#002B36",
		ScoreText:     "#002B36",
	},
	{
		Name:          "nord",
		Description:   "Nord",
		Accent:        "#88C0D0",
		Link:          "#81A1C1",
		Surface:       "#2E3440",
		Text:          "#ECEFF4",
		Dim:           "#4C566A",
		Frame:         "#3B4252",
		Good:          "#A3BE8C",
		Caution:       "#EBCB8B",
		Bad:           "#BF616A",
		Highlight:     "#88C0D0",
		HighlightText: "#2E3440",
		GenreText:     "#2E3440",
		ScoreText:     "#2E3440",
	},
	{
		Name:          "gruvbox",
		Description:   "Gruvbox dark",
		Accent:        "#D79921",
		Link:          "#458588",
		Surface:       "#282828",
		Text:          "#EBDBB2",
		Dim:           "#928374",
		Frame:         "#3C3836",
		Good:          "#98971A",
		Caution:       "#D79921",
		Bad:           "#CC241D",
		Highlight:     "#D79921",
		HighlightText: "#282828",
		GenreText:     "#282828",
		ScoreText:     "#282828",
	},
}

var current = themes[0]

// GetTheme returns the named theme, or the dark theme for unknown names
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// GetThemeNames lists the themes in cycling order
func GetThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// CurrentTheme returns the active theme
func CurrentTheme() Theme {
	return current
}

// SetCurrentTheme activates the named theme and rebuilds every style
func SetCurrentTheme(name string) {
	current = GetTheme(name)
	build(current)
}

// NextTheme activates the theme after the current one and returns its name
func NextTheme() string {
	for i, t := range themes {
		if t.Name == current.Name {
			next := themes[(i+1)%len(themes)]
			SetCurrentTheme(next.Name)
			return next.Name
		}
	}
	return current.Name
}

func init() {
	build(current)
}
