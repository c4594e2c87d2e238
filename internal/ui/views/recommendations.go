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

const (
	defaultRecommendationLimit = 15
	defaultFocusedLimit        = 5
)

// RecommendationMode selects which recommendation endpoint is queried
type RecommendationMode int

const (
	RecommendGeneral RecommendationMode = iota
	RecommendByGenre
	RecommendByAuthor
)

func (m RecommendationMode) String() string {
	switch m {
	case RecommendByGenre:
		return "by genre"
	case RecommendByAuthor:
		return "by author"
	default:
		return "general"
	}
}

// RecommendationsView shows scored book suggestions
type RecommendationsView struct {
	recs *fetch.Resource[models.RecommendationSet]

	mode    RecommendationMode
	value   string
	limit   int
	focused int

	inputMode  bool
	valueInput textinput.Model
	list       listCursor

	// Dimensions
	width  int
	height int
}

// NewRecommendationsView creates a new recommendations view
func NewRecommendationsView(client *api.Client, cfg config.UIConfig) *RecommendationsView {
	limit := cfg.RecommendationLimit
	if limit < 1 {
		limit = defaultRecommendationLimit
	}
	focused := cfg.FocusedLimit
	if focused < 1 {
		focused = defaultFocusedLimit
	}

	valueInput := textinput.New()
	valueInput.CharLimit = 100
	valueInput.Width = 40

	return &RecommendationsView{
		recs:       fetch.NewResource(fetch.Enveloped[models.RecommendationSet](client)),
		limit:      limit,
		focused:    focused,
		valueInput: valueInput,
		width:      80,
		height:     24,
	}
}

// Init implements View
func (v *RecommendationsView) Init() tea.Cmd {
	return v.recs.Load(v.Endpoint())
}

// Mode returns the active mode
func (v *RecommendationsView) Mode() RecommendationMode {
	return v.mode
}

// Endpoint returns the endpoint for the current mode and value. A blank genre
// or author asks the server for a random one.
func (v *RecommendationsView) Endpoint() string {
	value := strings.TrimSpace(v.value)
	limit := v.limit
	if value != "" && v.mode != RecommendGeneral {
		limit = v.focused
	}

	switch v.mode {
	case RecommendByGenre:
		return api.RecommendationsPath("/recommendations/by-category", "category", value, limit)
	case RecommendByAuthor:
		return api.RecommendationsPath("/recommendations/by-author", "author", value, limit)
	default:
		return api.RecommendationsPath("/recommendations", "", "", limit)
	}
}

// Capturing implements Capturer
func (v *RecommendationsView) Capturing() bool {
	return v.inputMode
}

// Update implements View
func (v *RecommendationsView) Update(msg tea.Msg) (View, tea.Cmd) {
	if v.recs.Update(msg) {
		v.list.clamp(len(v.recs.Data.Recommendations), v.visibleLines())
		return v, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	if v.inputMode {
		switch keyMsg.String() {
		case "esc":
			v.inputMode = false
			v.valueInput.Blur()
			return v, nil
		case "enter":
			v.inputMode = false
			v.valueInput.Blur()
			v.value = strings.TrimSpace(v.valueInput.Value())
			v.list.top()
			return v, v.recs.Load(v.Endpoint())
		default:
			var cmd tea.Cmd
			v.valueInput, cmd = v.valueInput.Update(keyMsg)
			return v, cmd
		}
	}

	recs := v.recs.Data.Recommendations
	key := keyMsg.String()
	if v.list.navigate(key, len(recs), v.visibleLines()) {
		return v, nil
	}

	switch key {
	case "tab", "m":
		return v, v.SetMode((v.mode + 1) % 3)
	case "shift+tab":
		return v, v.SetMode((v.mode + 2) % 3)
	case "/":
		if v.mode == RecommendGeneral {
			return v, nil
		}
		v.inputMode = true
		v.valueInput.Placeholder = "Leave blank for a random pick"
		v.valueInput.SetValue(v.value)
		v.valueInput.CursorEnd()
		v.valueInput.Focus()
		return v, textinput.Blink
	case "enter":
		if v.list.cursor < len(recs) {
			return v, OpenBook(recs[v.list.cursor].Book.ID)
		}
	case "r":
		return v, v.recs.Load(v.Endpoint())
	}
	return v, nil
}

// SetMode switches mode, clears the value and reloads
func (v *RecommendationsView) SetMode(mode RecommendationMode) tea.Cmd {
	v.mode = mode
	v.value = ""
	v.valueInput.SetValue("")
	v.list.top()
	return v.recs.Load(v.Endpoint())
}

// View implements View
func (v *RecommendationsView) View() string {
	var b strings.Builder

	set := v.recs.Data
	info := styles.SecondaryText.Render(" [" + v.mode.String())
	switch {
	case set.Category != "":
		info += styles.SecondaryText.Render(": " + set.Category)
	case set.Author != "":
		info += styles.SecondaryText.Render(": " + set.Author)
	case v.value != "":
		info += styles.SecondaryText.Render(": " + v.value)
	}
	info += styles.SecondaryText.Render("]")
	right := ""
	if generated := set.Generated(); generated != "" && !v.recs.Loading {
		right = " " + generated + " "
	}
	b.WriteString(renderHeader("Recommendations", info, right, v.width) + "\n")

	if v.inputMode {
		label := "Genre"
		if v.mode == RecommendByAuthor {
			label = "Author"
		}
		b.WriteString(styles.InputLabel.Render(label) + " " + styles.InputFieldFocused.Render(v.valueInput.View()) + "\n")
	}

	body := v.height - 4
	switch {
	case v.recs.Loading:
		b.WriteString(placeCenter(v.width, body, styles.MutedText.Render("Loading recommendations...")))
		return b.String()
	case v.recs.Err != "":
		b.WriteString(placeCenter(v.width, body, styles.ErrorStyle.Render("Error: "+v.recs.Err)))
		return b.String()
	case len(set.Recommendations) == 0:
		b.WriteString(placeCenter(v.width, body, styles.MutedText.Render("No recommendations")))
		return b.String()
	}

	start, end := v.list.window(len(set.Recommendations), v.visibleLines())
	for i := start; i < end; i++ {
		rec := set.Recommendations[i]
		line := rec.Book.Title
		if rec.Book.Author != "" {
			line += " - " + rec.Book.Author
		}
		if rec.Reason != "" {
			line += "  · " + rec.Reason
		}
		score := styles.BadgeScore.Render(fmt.Sprintf("%3d", rec.Score))
		b.WriteString(score + renderItem(line, i == v.list.cursor, v.width-6) + "\n")
	}

	b.WriteString("\n")
	pairs := []string{"j/k", "nav", "enter", "open", "tab", "mode"}
	if v.mode != RecommendGeneral {
		pairs = append(pairs, "/", strings.TrimPrefix(v.mode.String(), "by "))
	}
	pairs = append(pairs, "r", "refresh")
	b.WriteString(renderHelp(pairs...))
	return b.String()
}

// SetSize implements View
func (v *RecommendationsView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.valueInput.Width = min(40, width-20)
}

func (v *RecommendationsView) visibleLines() int {
	lines := v.height - 5
	if v.inputMode {
		lines--
	}
	return max(lines, 1)
}
