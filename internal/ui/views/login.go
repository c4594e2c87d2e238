package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justyntemme/libcat/internal/forms"
	"github.com/justyntemme/libcat/internal/session"
	"github.com/justyntemme/libcat/internal/ui/styles"
	"github.com/justyntemme/libcat/pkg/models"
)

// loginResultMsg is the result of a login/register attempt
type loginResultMsg struct {
	user *models.User
	err  error
}

// LoginView handles login and registration
type LoginView struct {
	session *session.Store

	// Form inputs
	usernameInput textinput.Model
	emailInput    textinput.Model
	passwordInput textinput.Model
	confirmInput  textinput.Model

	// State
	focusIndex    int
	isRegistering bool
	loading       bool
	err           error

	// Dimensions
	width  int
	height int
}

// NewLoginView creates a new login view
func NewLoginView(store *session.Store) *LoginView {
	// Username input
	usernameInput := textinput.New()
	usernameInput.Placeholder = "username"
	usernameInput.Focus()
	usernameInput.CharLimit = 50
	usernameInput.Width = 30

	// Email input (for registration)
	emailInput := textinput.New()
	emailInput.Placeholder = "email@example.com"
	emailInput.CharLimit = 100
	emailInput.Width = 30

	// Password input
	passwordInput := newPasswordInput("password")

	// Confirmation (for registration)
	confirmInput := newPasswordInput("repeat password")

	return &LoginView{
		session:       store,
		usernameInput: usernameInput,
		emailInput:    emailInput,
		passwordInput: passwordInput,
		confirmInput:  confirmInput,
		width:         80,
		height:        24,
	}
}

func newPasswordInput(placeholder string) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.CharLimit = 100
	input.Width = 30
	return input
}

// Init implements View
func (v *LoginView) Init() tea.Cmd {
	v.err = nil
	return textinput.Blink
}

// SetRegistering selects the registration or login form
func (v *LoginView) SetRegistering(registering bool) {
	if v.isRegistering == registering {
		return
	}
	v.isRegistering = registering
	v.err = nil
	v.focusIndex = 0
	v.updateFocus()
}

// Registering reports whether the registration form is shown
func (v *LoginView) Registering() bool {
	return v.isRegistering
}

// Capturing implements Capturer
func (v *LoginView) Capturing() bool {
	return true
}

// Err returns the last validation or server error
func (v *LoginView) Err() error {
	return v.err
}

// Loading reports whether a submission is in flight
func (v *LoginView) Loading() bool {
	return v.loading
}

// fields returns the inputs of the current form, in focus order
func (v *LoginView) fields() []*textinput.Model {
	if v.isRegistering {
		return []*textinput.Model{&v.usernameInput, &v.emailInput, &v.passwordInput, &v.confirmInput}
	}
	return []*textinput.Model{&v.usernameInput, &v.passwordInput}
}

// Update implements View
func (v *LoginView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			v.navigateFocus(msg.String())
			return v, nil

		case "esc":
			return v, Back()

		case "enter":
			if v.loading {
				return v, nil
			}
			submitIndex := len(v.fields())
			// Check if on toggle link
			if v.focusIndex == submitIndex+1 {
				return v, v.toggleMode()
			}
			// Submit from the button or the last field
			if v.focusIndex >= submitIndex-1 {
				return v, v.submit()
			}
			// Move to next field
			v.navigateFocus("tab")
			return v, nil

		case "ctrl+r":
			return v, v.toggleMode()
		}

	case loginResultMsg:
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.reset()
		return v, nil
	}

	// Update focused input
	fields := v.fields()
	if v.focusIndex < len(fields) {
		var cmd tea.Cmd
		*fields[v.focusIndex], cmd = fields[v.focusIndex].Update(msg)
		return v, cmd
	}
	return v, nil
}

// View implements View
func (v *LoginView) View() string {
	var b strings.Builder

	// Title
	title := "Sign in to the Library"
	if v.isRegistering {
		title = "Create Account"
	}
	titleStyle := styles.DialogTitle.Width(40).Align(lipgloss.Center)

	// Form fields
	b.WriteString(titleStyle.Render(title) + "\n\n")

	labels := []string{"Username", "Password"}
	if v.isRegistering {
		labels = []string{"Username", "Email", "Password", "Confirm Password"}
	}
	for i, field := range v.fields() {
		label := styles.InputLabel.Render(labels[i])
		input := v.styleInput(*field, i)
		b.WriteString(label + "\n" + input + "\n\n")
	}

	// Submit button
	submitIndex := len(v.fields())
	buttonText := "Login"
	if v.isRegistering {
		buttonText = "Register"
	}
	if v.loading {
		buttonText = "Loading..."
	}
	button := styles.Button.Render(buttonText)
	if v.focusIndex == submitIndex {
		button = styles.ButtonFocused.Render(buttonText)
	}
	b.WriteString(button + "\n\n")

	// Toggle link
	toggleText := "Don't have an account? Register"
	if v.isRegistering {
		toggleText = "Already have an account? Login"
	}
	toggleStyle := styles.Help
	if v.focusIndex == submitIndex+1 {
		toggleStyle = styles.HelpKey
	}
	b.WriteString(toggleStyle.Render(toggleText) + "\n")

	// Error message
	if v.err != nil {
		b.WriteString("\n" + styles.ErrorStyle.Render(v.err.Error()))
	}

	// Wrap in dialog
	dialog := styles.Dialog.Width(44).Render(b.String())

	// Center on screen
	return lipgloss.Place(
		v.width,
		v.height,
		lipgloss.Center,
		lipgloss.Center,
		dialog,
	)
}

// SetSize implements View
func (v *LoginView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// styleInput returns the styled input field
func (v *LoginView) styleInput(input textinput.Model, index int) string {
	style := styles.InputField
	if v.focusIndex == index {
		style = styles.InputFieldFocused
	}
	return style.Render(input.View())
}

// navigateFocus moves focus between form elements
func (v *LoginView) navigateFocus(key string) {
	maxIndex := len(v.fields()) + 1 // inputs, submit, toggle

	if key == "up" || key == "shift+tab" {
		v.focusIndex--
		if v.focusIndex < 0 {
			v.focusIndex = maxIndex
		}
	} else {
		v.focusIndex++
		if v.focusIndex > maxIndex {
			v.focusIndex = 0
		}
	}

	v.updateFocus()
}

// updateFocus updates which input has focus
func (v *LoginView) updateFocus() {
	v.usernameInput.Blur()
	v.emailInput.Blur()
	v.passwordInput.Blur()
	v.confirmInput.Blur()

	if fields := v.fields(); v.focusIndex < len(fields) {
		fields[v.focusIndex].Focus()
	}
}

// toggleMode switches between login and registration
func (v *LoginView) toggleMode() tea.Cmd {
	if v.isRegistering {
		return SwitchTo(ViewLogin)
	}
	return SwitchTo(ViewRegister)
}

// reset clears the form after a successful submission
func (v *LoginView) reset() {
	for _, field := range []*textinput.Model{&v.usernameInput, &v.emailInput, &v.passwordInput, &v.confirmInput} {
		field.SetValue("")
	}
	v.err = nil
	v.focusIndex = 0
	v.updateFocus()
}

// submit validates the form and starts the login or registration
func (v *LoginView) submit() tea.Cmd {
	v.err = nil

	username := strings.TrimSpace(v.usernameInput.Value())
	password := v.passwordInput.Value()

	if v.isRegistering {
		form := forms.Register{
			Username: username,
			Email:    strings.TrimSpace(v.emailInput.Value()),
			Password: password,
			Confirm:  v.confirmInput.Value(),
		}
		if err := form.Validate(); err != nil {
			v.err = err
			return nil
		}
		v.loading = true
		return v.doRegister(form.Request())
	}

	form := forms.Login{Username: username, Password: password}
	if err := form.Validate(); err != nil {
		v.err = err
		return nil
	}
	v.loading = true
	return v.doLogin(form.Request())
}

// doLogin performs the login through the session
func (v *LoginView) doLogin(req models.LoginRequest) tea.Cmd {
	store := v.session
	return func() tea.Msg {
		user, err := store.Login(context.Background(), req)
		return loginResultMsg{user: user, err: err}
	}
}

// doRegister registers and then signs the new account in
func (v *LoginView) doRegister(req models.RegisterRequest) tea.Cmd {
	store := v.session
	return func() tea.Msg {
		user, err := store.Register(context.Background(), req)
		return loginResultMsg{user: user, err: err}
	}
}
