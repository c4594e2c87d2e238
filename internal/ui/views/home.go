package views

import (
	"context"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justyntemme/libcat/internal/api"
	"github.com/justyntemme/libcat/internal/fetch"
	"github.com/justyntemme/libcat/internal/ui/styles"
	"github.com/justyntemme/libcat/pkg/models"
)

type menuItem struct {
	label string
	hint  string
	view  ViewType
}

var homeMenu = []menuItem{
	{"Browse books", "search, filter by genre or author", ViewBooks},
	{"Authors", "everyone in the catalog", ViewAuthors},
	{"Genres", "books by category", ViewGenres},
	{"Recommendations", "what to read next", ViewRecommendations},
	{"Account", "profile and password", ViewProfile},
}

// HomeView is the landing screen: a menu and the service status
type HomeView struct {
	status *fetch.Resource[*models.ServiceStatus]
	server string
	list   listCursor

	// Dimensions
	width  int
	height int
}

// NewHomeView creates a new home view
func NewHomeView(client *api.Client) *HomeView {
	return &HomeView{
		status: fetch.NewResource(func(ctx context.Context, _ string) (*models.ServiceStatus, error) {
			return client.Status(ctx)
		}),
		server: client.BaseURL(),
		width:  80,
		height: 24,
	}
}

// Init implements View
func (v *HomeView) Init() tea.Cmd {
	return v.status.Load("/health")
}

// Update implements View
func (v *HomeView) Update(msg tea.Msg) (View, tea.Cmd) {
	if v.status.Update(msg) {
		return v, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	key := keyMsg.String()
	if v.list.navigate(key, len(homeMenu), len(homeMenu)) {
		return v, nil
	}

	switch key {
	case "enter":
		return v, SwitchTo(homeMenu[v.list.cursor].view)
	case "r":
		return v, v.status.Reload()
	}
	return v, nil
}

// SetSize implements View
func (v *HomeView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// View implements View
func (v *HomeView) View() string {
	var b strings.Builder

	b.WriteString(styles.DialogTitle.Render("Library Catalog") + "\n")
	b.WriteString(styles.MutedText.Render(v.server) + "\n\n")

	for i, item := range homeMenu {
		line := item.label + styles.BookMeta.Render("  "+item.hint)
		if i == v.list.cursor {
			b.WriteString(styles.ListItemSelected.Render("▸ "+item.label) + styles.BookMeta.Render("  "+item.hint) + "\n")
		} else {
			b.WriteString(styles.ListItem.Render("  "+line) + "\n")
		}
	}

	b.WriteString("\n" + styles.HelpKey.Render("Service status") + "\n")
	b.WriteString(v.renderStatus())

	b.WriteString("\n" + renderHelp("j/k", "nav", "enter", "open", "r", "refresh"))

	return lipgloss.Place(
		v.width,
		v.height,
		lipgloss.Center,
		lipgloss.Center,
		styles.Dialog.Width(min(64, v.width-4)).Render(b.String()),
	)
}

func (v *HomeView) renderStatus() string {
	if v.status.Loading {
		return styles.MutedText.Render("  checking...") + "\n"
	}
	if v.status.Err != "" {
		return styles.ErrorStyle.Render("unreachable: "+v.status.Err) + "\n"
	}
	status := v.status.Data
	if status == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(statusLine("gateway", status.Health.Gateway))
	for _, name := range sortedKeys(status.Health.Services) {
		b.WriteString(statusLine(name, status.Health.Services[name]))
	}
	switch {
	case status.Recommendations != nil:
		b.WriteString(statusLine("recommendations", status.Recommendations.RecommendationService))
	case status.RecommendationsError != "":
		b.WriteString(statusLine("recommendations", "unavailable"))
	}
	return b.String()
}

func statusLine(name, state string) string {
	style := styles.SuccessStyle
	if !models.Healthy(state) {
		style = styles.ErrorStyle
	}
	label := lipgloss.NewStyle().Foreground(styles.Muted).Width(22).Render("  " + name)
	return label + style.Render(state) + "\n"
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
