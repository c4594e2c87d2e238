package views

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justyntemme/libcat/internal/forms"
	"github.com/justyntemme/libcat/internal/session"
	"github.com/justyntemme/libcat/internal/ui/styles"
	"github.com/justyntemme/libcat/pkg/models"
)

type passwordChangedMsg struct{ err error }

type tokenRefreshedMsg struct{ err error }

type tokenValidatedMsg struct {
	result *models.TokenValidation
	err    error
}

type logoutResultMsg struct{ err error }

// ProfileView shows the signed-in account and its credential
type ProfileView struct {
	session *session.Store

	// Change password form
	formMode     bool
	focusIndex   int
	currentInput textinput.Model
	newInput     textinput.Model
	confirmInput textinput.Model

	busy    bool
	notice  string
	err     error
	checked *models.TokenValidation

	now func() time.Time

	// Dimensions
	width  int
	height int
}

// NewProfileView creates a new profile view
func NewProfileView(store *session.Store) *ProfileView {
	return &ProfileView{
		session:      store,
		currentInput: newPasswordInput("current password"),
		newInput:     newPasswordInput("new password"),
		confirmInput: newPasswordInput("repeat new password"),
		now:          time.Now,
		width:        80,
		height:       24,
	}
}

// Init implements View
func (v *ProfileView) Init() tea.Cmd {
	v.notice = ""
	v.err = nil
	v.checked = nil
	return nil
}

// Capturing implements Capturer
func (v *ProfileView) Capturing() bool {
	return v.formMode
}

// Notice returns the last success message
func (v *ProfileView) Notice() string {
	return v.notice
}

// Err returns the last error
func (v *ProfileView) Err() error {
	return v.err
}

func (v *ProfileView) inputs() []*textinput.Model {
	return []*textinput.Model{&v.currentInput, &v.newInput, &v.confirmInput}
}

// Update implements View
func (v *ProfileView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case passwordChangedMsg:
		v.busy = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.closeForm()
		v.notice = "Password changed"
		return v, nil

	case tokenRefreshedMsg:
		v.busy = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.notice = "Token refreshed"
		return v, nil

	case tokenValidatedMsg:
		v.busy = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.checked = msg.result
		return v, nil

	case logoutResultMsg:
		v.busy = false
		v.err = msg.err
		return v, nil

	case tea.KeyMsg:
		if v.formMode {
			return v.updateForm(msg)
		}
		if msg.String() == "esc" {
			return v, Back()
		}
		if v.busy || !v.session.IsAuthenticated() {
			return v, nil
		}

		switch msg.String() {
		case "c":
			v.openForm()
			return v, textinput.Blink
		case "L":
			v.busy = true
			return v, v.logout()
		case "R":
			v.busy = true
			v.notice, v.err = "", nil
			return v, v.refresh()
		case "V":
			v.busy = true
			v.notice, v.err = "", nil
			return v, v.validate()
		}
	}
	return v, nil
}

func (v *ProfileView) updateForm(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.closeForm()
		return v, nil
	case "tab", "down":
		v.focus((v.focusIndex + 1) % 3)
		return v, nil
	case "shift+tab", "up":
		v.focus((v.focusIndex + 2) % 3)
		return v, nil
	case "enter":
		if v.busy {
			return v, nil
		}
		if v.focusIndex < 2 {
			v.focus(v.focusIndex + 1)
			return v, nil
		}
		return v, v.submitPassword()
	}

	var cmd tea.Cmd
	field := v.inputs()[v.focusIndex]
	*field, cmd = field.Update(msg)
	return v, cmd
}

func (v *ProfileView) openForm() {
	v.formMode = true
	v.notice, v.err = "", nil
	for _, field := range v.inputs() {
		field.SetValue("")
	}
	v.focus(0)
}

func (v *ProfileView) closeForm() {
	v.formMode = false
	for _, field := range v.inputs() {
		field.SetValue("")
		field.Blur()
	}
}

func (v *ProfileView) focus(i int) {
	v.focusIndex = i
	for j, field := range v.inputs() {
		if j == i {
			field.Focus()
		} else {
			field.Blur()
		}
	}
}

func (v *ProfileView) submitPassword() tea.Cmd {
	form := forms.ChangePassword{
		Current: v.currentInput.Value(),
		New:     v.newInput.Value(),
		Confirm: v.confirmInput.Value(),
	}
	if err := form.Validate(); err != nil {
		v.err = err
		return nil
	}

	v.err = nil
	v.busy = true
	store := v.session
	return func() tea.Msg {
		return passwordChangedMsg{err: store.ChangePassword(context.Background(), form.Current, form.New)}
	}
}

func (v *ProfileView) logout() tea.Cmd {
	store := v.session
	return func() tea.Msg {
		return logoutResultMsg{err: store.Logout()}
	}
}

func (v *ProfileView) refresh() tea.Cmd {
	store := v.session
	return func() tea.Msg {
		return tokenRefreshedMsg{err: store.Refresh(context.Background())}
	}
}

func (v *ProfileView) validate() tea.Cmd {
	store := v.session
	return func() tea.Msg {
		result, err := store.Validate(context.Background())
		return tokenValidatedMsg{result: result, err: err}
	}
}

// View implements View
func (v *ProfileView) View() string {
	if v.session.State() == session.StateInitializing {
		return placeCenter(v.width, v.height, styles.MutedText.Render("Checking session..."))
	}
	user := v.session.User()
	if user == nil {
		return placeCenter(v.width, v.height, styles.MutedText.Render("Not signed in"))
	}

	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Profile") + "\n")
	b.WriteString(v.renderField("Username", styles.BookTitle.Render(user.Username)))
	b.WriteString(v.renderField("Email", user.Email))
	b.WriteString(v.renderField("User ID", strconv.Itoa(user.ID)))
	if !user.CreatedAt.IsZero() {
		b.WriteString(v.renderField("Joined", user.CreatedAt.Format("January 2, 2006")))
	}
	b.WriteString(v.renderField("Session", v.expiryText()))

	if v.checked != nil {
		status := styles.SuccessStyle.Render("valid")
		if !v.checked.Valid {
			status = styles.ErrorStyle.Render("invalid")
		}
		b.WriteString(v.renderField("Token", status))
	}

	if v.formMode {
		b.WriteString("\n" + styles.HelpKey.Render("Change Password") + "\n")
		labels := []string{"Current", "New", "Confirm"}
		for i, field := range v.inputs() {
			style := styles.InputField
			if i == v.focusIndex {
				style = styles.InputFieldFocused
			}
			b.WriteString(styles.InputLabel.Render(labels[i]) + "\n" + style.Render(field.View()) + "\n")
		}
	}

	if v.busy {
		b.WriteString("\n" + styles.MutedText.Render("Working..."))
	}
	if v.notice != "" {
		b.WriteString("\n" + styles.SuccessStyle.Render(v.notice))
	}
	if v.err != nil {
		b.WriteString("\n" + styles.ErrorStyle.Render(v.err.Error()))
	}

	b.WriteString("\n\n")
	if v.formMode {
		b.WriteString(renderHelp("tab", "next", "enter", "save", "esc", "cancel"))
	} else {
		b.WriteString(renderHelp("c", "change password", "R", "refresh token", "V", "validate", "L", "logout"))
	}

	return lipgloss.Place(
		v.width,
		v.height,
		lipgloss.Center,
		lipgloss.Center,
		styles.Dialog.Width(min(60, v.width-4)).Render(b.String()),
	)
}

// expiryText describes when the stored credential expires
func (v *ProfileView) expiryText() string {
	exp, err := v.session.Expiry()
	switch {
	case errors.Is(err, session.ErrNoExpiry):
		return "no expiry"
	case err != nil:
		return "unknown expiry"
	}

	left := exp.Sub(v.now())
	if left <= 0 {
		return "expired " + exp.Local().Format("Jan 2 15:04")
	}
	return fmt.Sprintf("expires %s (in %s)", exp.Local().Format("Jan 2 15:04"), left.Round(time.Minute))
}

// renderField renders a label-value pair
func (v *ProfileView) renderField(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Foreground(styles.Muted).
		Width(12)
	return labelStyle.Render(label+":") + " " + value + "\n"
}

// SetSize implements View
func (v *ProfileView) SetSize(width, height int) {
	v.width = width
	v.height = height
}
