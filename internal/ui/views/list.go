package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/justyntemme/libcat/internal/ui/styles"
)

// listCursor tracks the selection and scroll offset of a vertical list
type listCursor struct {
	cursor int
	offset int
}

// move moves the cursor by delta within n items, keeping it inside a window
// of visible lines
func (l *listCursor) move(delta, n, visible int) {
	l.cursor += delta
	if l.cursor >= n {
		l.cursor = n - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.follow(visible)
}

func (l *listCursor) top() {
	l.cursor = 0
	l.offset = 0
}

func (l *listCursor) bottom(n, visible int) {
	l.cursor = max(n-1, 0)
	l.follow(visible)
}

// clamp keeps the cursor valid after the list changed underneath it
func (l *listCursor) clamp(n, visible int) {
	if l.cursor >= n {
		l.cursor = max(n-1, 0)
	}
	if l.offset > l.cursor {
		l.offset = l.cursor
	}
	l.follow(visible)
}

// follow ensures the cursor is visible
func (l *listCursor) follow(visible int) {
	if visible < 1 {
		visible = 1
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+visible {
		l.offset = l.cursor - visible + 1
	}
}

// window returns the [start, end) range of items to draw
func (l *listCursor) window(n, visible int) (int, int) {
	return l.offset, min(l.offset+visible, n)
}

// navigate applies the shared list motion keys and reports whether key was one
func (l *listCursor) navigate(key string, n, visible int) bool {
	switch key {
	case "j", "down":
		l.move(1, n, visible)
	case "k", "up":
		l.move(-1, n, visible)
	case "g", "home":
		l.top()
	case "G", "end":
		l.bottom(n, visible)
	case "ctrl+d", "pgdown":
		l.move(visible/2, n, visible)
	case "ctrl+u", "pgup":
		l.move(-visible/2, n, visible)
	default:
		return false
	}
	return true
}

// renderHeader renders a title bar with right-aligned info
func renderHeader(title, info string, right string, width int) string {
	left := styles.TitleBar.Render(" "+title+" ") + info
	r := styles.Help.Render(right)

	gap := width - lipgloss.Width(left) - lipgloss.Width(r)
	if gap < 0 {
		gap = 0
	}
	return left + strings.Repeat(" ", gap) + r
}

// renderHelp joins key/description pairs into a footer line
func renderHelp(pairs ...string) string {
	var help []string
	for i := 0; i+1 < len(pairs); i += 2 {
		help = append(help, styles.HelpKey.Render(pairs[i])+styles.Help.Render(" "+pairs[i+1]))
	}
	return strings.Join(help, "  ")
}

// placeCenter centers content in the area below a header
func placeCenter(width, height int, content string) string {
	return lipgloss.Place(width, max(height, 1), lipgloss.Center, lipgloss.Center, content)
}

// pageInfo renders "Page x/y" the way every paginated screen shows it
func pageInfo(page, totalPages int) string {
	if totalPages < 1 {
		totalPages = 1
	}
	return fmt.Sprintf(" Page %d/%d ", page, totalPages)
}

// truncate shortens s to width cells
func truncate(s string, width int) string {
	if width < 4 {
		width = 4
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if len(r) > width-3 {
		r = r[:width-3]
	}
	return string(r) + "..."
}

// renderItem renders one list line in the selected or normal style
func renderItem(line string, selected bool, width int) string {
	line = truncate(line, width-6)
	if selected {
		return styles.ListItemSelected.Width(width).Render("▸ " + line)
	}
	return styles.ListItem.Render("  " + line)
}
