package views

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/libcat/internal/forms"
	"github.com/justyntemme/libcat/internal/session"
)

func newSession(token string) (*session.Store, *session.MemoryCredentials) {
	creds := session.NewMemoryCredentials(token)
	return session.New(newTestClient(creds), creds, nil), creds
}

// signedIn returns a store restored from a credential the server accepts
func signedIn(t *testing.T) (*session.Store, *session.MemoryCredentials) {
	t.Helper()

	gock.New(testServer).
		Get("/api/auth/profile").
		Reply(200).
		JSON(map[string]any{"id": 3, "username": "ayse", "email": "ayse@example.com"})

	store, creds := newSession("stored-token")
	require.NoError(t, store.Initialize(context.Background()))
	require.True(t, store.IsAuthenticated())
	return store, creds
}

func TestLoginView_EmptySubmitFailsValidation(t *testing.T) {
	store, _ := newSession("")
	v := NewLoginView(store)

	press(v, key(tea.KeyEnter))
	cmd := press(v, key(tea.KeyEnter))

	assert.Nil(t, cmd, "nothing is sent")
	assert.ErrorIs(t, v.Err(), forms.ErrEmptyFields)
	assert.False(t, v.Loading())
	assert.True(t, v.Capturing())
}

func TestLoginView_RegisterPasswordMismatch(t *testing.T) {
	store, _ := newSession("")
	v := NewLoginView(store)
	v.SetRegistering(true)
	require.True(t, v.Registering())

	press(v,
		runes("ayse"), key(tea.KeyTab),
		runes("ayse@example.com"), key(tea.KeyTab),
		runes("secret1"), key(tea.KeyTab),
		runes("secret2"),
	)
	cmd := press(v, key(tea.KeyEnter))

	assert.Nil(t, cmd)
	assert.ErrorIs(t, v.Err(), forms.ErrPasswordMismatch)
}

func TestLoginView_ToggleMode(t *testing.T) {
	store, _ := newSession("")
	v := NewLoginView(store)

	assert.Equal(t, SwitchViewMsg{View: ViewRegister}, result(t, press(v, key(tea.KeyCtrlR))))

	v.SetRegistering(true)
	assert.Equal(t, SwitchViewMsg{View: ViewLogin}, result(t, press(v, key(tea.KeyCtrlR))))

	assert.Equal(t, BackMsg{}, result(t, press(v, key(tea.KeyEsc))))
}

func TestLoginView_SuccessfulLogin(t *testing.T) {
	defer gock.Off()

	gock.New(testServer).
		Post("/api/auth/login").
		MatchType("json").
		JSON(map[string]string{"username": "ayse", "password": "secret1"}).
		Reply(200).
		JSON(map[string]any{
			"token": "issued-token",
			"user":  map[string]any{"id": 3, "username": "ayse", "email": "ayse@example.com"},
		})

	store, creds := newSession("")
	var changes []session.Changed
	store.OnChange(func(c session.Changed) { changes = append(changes, c) })

	v := NewLoginView(store)
	press(v, runes("ayse"), key(tea.KeyTab), runes("secret1"))
	cmd := press(v, key(tea.KeyEnter))

	require.NotNil(t, cmd)
	assert.True(t, v.Loading())
	assert.Nil(t, press(v, key(tea.KeyEnter)), "no second submission while loading")

	drain(t, v, cmd)

	assert.False(t, v.Loading())
	assert.NoError(t, v.Err())
	assert.Empty(t, v.usernameInput.Value(), "form is reset")
	assert.Empty(t, v.passwordInput.Value())
	assert.Equal(t, "issued-token", creds.Token())
	require.Len(t, changes, 1)
	assert.Equal(t, session.StateAuthenticated, changes[0].State)
	assert.True(t, gock.IsDone())
}

func TestLoginView_RejectedLoginKeepsForm(t *testing.T) {
	defer gock.Off()

	gock.New(testServer).
		Post("/api/auth/login").
		Reply(401).
		JSON(map[string]string{"error": "invalid credentials"})

	store, _ := newSession("")
	v := NewLoginView(store)
	press(v, runes("ayse"), key(tea.KeyTab), runes("wrong"))
	drain(t, v, press(v, key(tea.KeyEnter)))

	require.Error(t, v.Err())
	assert.Equal(t, "invalid credentials", v.Err().Error())
	assert.Equal(t, "ayse", v.usernameInput.Value())
	assert.False(t, store.IsAuthenticated())
}

func TestProfileView_States(t *testing.T) {
	store, _ := newSession("")
	v := NewProfileView(store)
	v.SetSize(100, 30)

	assert.Contains(t, v.View(), "Checking session...")

	require.NoError(t, store.Initialize(context.Background()))
	assert.Contains(t, v.View(), "Not signed in")
	assert.Nil(t, press(v, runes("c")), "anonymous sessions have no actions")
}

func TestProfileView_ShowsUser(t *testing.T) {
	defer gock.Off()
	store, _ := signedIn(t)

	v := NewProfileView(store)
	v.SetSize(100, 30)
	out := v.View()

	assert.Contains(t, out, "ayse")
	assert.Contains(t, out, "ayse@example.com")
}

func TestProfileView_ChangePasswordValidation(t *testing.T) {
	defer gock.Off()
	store, _ := signedIn(t)
	v := NewProfileView(store)

	press(v, runes("c"))
	require.True(t, v.Capturing())

	press(v,
		runes("secret1"), key(tea.KeyTab),
		runes("secret1"), key(tea.KeyTab),
		runes("secret1"),
	)
	cmd := press(v, key(tea.KeyEnter))

	assert.Nil(t, cmd)
	assert.ErrorIs(t, v.Err(), forms.ErrPasswordUnchanged)
	assert.True(t, v.Capturing())

	press(v, key(tea.KeyEsc))
	assert.False(t, v.Capturing())
}

func TestProfileView_ChangePassword(t *testing.T) {
	defer gock.Off()
	store, _ := signedIn(t)

	gock.New(testServer).
		Post("/api/auth/change-password").
		MatchHeader("Authorization", "Bearer stored-token").
		JSON(map[string]string{"old_password": "secret1", "new_password": "secret2"}).
		Reply(200).
		JSON(map[string]string{"message": "password changed"})

	v := NewProfileView(store)
	press(v, runes("c"),
		runes("secret1"), key(tea.KeyTab),
		runes("secret2"), key(tea.KeyTab),
		runes("secret2"),
	)
	drain(t, v, press(v, key(tea.KeyEnter)))

	assert.NoError(t, v.Err())
	assert.Equal(t, "Password changed", v.Notice())
	assert.False(t, v.Capturing())
	assert.True(t, gock.IsDone())
}

func TestProfileView_Logout(t *testing.T) {
	defer gock.Off()
	store, creds := signedIn(t)
	v := NewProfileView(store)

	drain(t, v, press(v, runes("L")))

	assert.NoError(t, v.Err())
	assert.Empty(t, creds.Token())
	assert.Equal(t, session.StateAnonymous, store.State())
}
