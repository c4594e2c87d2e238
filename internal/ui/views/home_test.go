package views

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/libcat/internal/session"
)

func TestHomeView_StatusAndMenu(t *testing.T) {
	defer gock.Off()

	gock.New(testServer).
		Get("/api/health").
		Reply(200).
		JSON(map[string]any{"data": map[string]any{
			"gateway":  "healthy",
			"services": map[string]string{"book-service": "healthy", "auth-service": "unhealthy"},
		}})
	gock.New(testServer).
		Get("/api/recommendations/status").
		Reply(503).
		JSON(map[string]string{"error": "unavailable"})

	var v View = NewHomeView(newTestClient(session.NewMemoryCredentials("")))
	v.SetSize(100, 40)
	drain(t, v, v.Init())

	out := v.View()
	assert.Contains(t, out, "book-service")
	assert.Contains(t, out, "auth-service")
	assert.Contains(t, out, "unavailable")
	assert.True(t, gock.IsDone())

	assert.Equal(t, SwitchViewMsg{View: ViewBooks}, result(t, press(v, key(tea.KeyEnter))))
	press(v, runes("j"))
	assert.Equal(t, SwitchViewMsg{View: ViewAuthors}, result(t, press(v, key(tea.KeyEnter))))
}

func TestHomeView_SetSize(t *testing.T) {
	v := NewHomeView(newTestClient(session.NewMemoryCredentials("")))
	v.SetSize(120, 50)

	require.Equal(t, 120, v.width)
	assert.Equal(t, 50, v.height)
}

func TestProfileView_EscWhileInitializing(t *testing.T) {
	store, _ := newSession("")
	v := NewProfileView(store)
	require.Equal(t, session.StateInitializing, store.State())

	assert.Equal(t, BackMsg{}, result(t, press(v, key(tea.KeyEsc))))
}
