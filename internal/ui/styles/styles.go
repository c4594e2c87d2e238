package styles

import "github.com/charmbracelet/lipgloss"

// Styles are rebuilt from the active theme by SetCurrentTheme
var (
	Muted lipgloss.Color

	// Chrome
	TitleBar     lipgloss.Style
	StatusBar    lipgloss.Style
	NavTab       lipgloss.Style
	NavTabActive lipgloss.Style
	AuthBadge    lipgloss.Style
	Help         lipgloss.Style
	HelpKey      lipgloss.Style

	// Text
	MutedText     lipgloss.Style
	SecondaryText lipgloss.Style
	ErrorStyle    lipgloss.Style
	SuccessStyle  lipgloss.Style

	// Forms
	InputLabel        lipgloss.Style
	InputField        lipgloss.Style
	InputFieldFocused lipgloss.Style
	Button            lipgloss.Style
	ButtonFocused     lipgloss.Style

	// Lists and panels
	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	Dialog           lipgloss.Style
	DialogTitle      lipgloss.Style

	// Catalog records
	BookTitle  lipgloss.Style
	BookAuthor lipgloss.Style
	BookMeta   lipgloss.Style
	BadgeGenre lipgloss.Style
	BadgeScore lipgloss.Style
)

func build(t Theme) {
	base := lipgloss.NewStyle()
	bold := base.Bold(true)

	Muted = t.Dim

	TitleBar = bold.Foreground(t.Text).Background(t.Accent).Padding(0, 1)
	StatusBar = base.Foreground(t.Dim).Background(t.Surface).Padding(0, 1)
	NavTab = base.Foreground(t.Dim).Padding(0, 1)
	NavTabActive = bold.Foreground(t.HighlightText).Background(t.Highlight).Padding(0, 1)
	AuthBadge = bold.Foreground(t.Good)
	Help = base.Foreground(t.Dim)
	HelpKey = bold.Foreground(t.Link)

	MutedText = base.Foreground(t.Dim)
	SecondaryText = base.Foreground(t.Link)
	ErrorStyle = bold.Foreground(t.Bad).Padding(0, 1)
	SuccessStyle = bold.Foreground(t.Good).Padding(0, 1)

	InputLabel = bold.Foreground(t.Text)
	InputField = base.
		Foreground(t.Text).
		Background(t.Surface).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Frame).
		Padding(0, 1)
	InputFieldFocused = InputField.BorderForeground(t.Accent)
	Button = base.Foreground(t.Text).Background(t.Dim).Padding(0, 2).MarginRight(1)
	ButtonFocused = Button.Background(t.Accent).Bold(true)

	ListItem = base.Foreground(t.Text).Padding(0, 2)
	ListItemSelected = bold.Foreground(t.HighlightText).Background(t.Highlight).Padding(0, 2)
	Dialog = base.Border(lipgloss.RoundedBorder()).BorderForeground(t.Accent).Padding(1, 2)
	DialogTitle = bold.Foreground(t.Accent).MarginBottom(1)

	BookTitle = bold.Foreground(t.Text)
	BookAuthor = base.Foreground(t.Link)
	BookMeta = base.Foreground(t.Dim).Italic(true)
	BadgeGenre = bold.Foreground(t.GenreText).Background(t.Good).Padding(0, 1)
	BadgeScore = bold.Foreground(t.ScoreText).Background(t.Caution).Padding(0, 1)
}
