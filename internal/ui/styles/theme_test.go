package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTheme_UnknownFallsBackToDark(t *testing.T) {
	assert.Equal(t, "dark", GetTheme("no-such-theme").Name)
	assert.Equal(t, "nord", GetTheme("nord").Name)
}

func TestNextTheme_CyclesThroughAll(t *testing.T) {
	defer SetCurrentTheme("dark")
	SetCurrentTheme("dark")

	names := GetThemeNames()
	seen := map[string]bool{CurrentTheme().Name: true}
	for i := 0; i < len(names)-1; i++ {
		seen[NextTheme()] = true
	}

	assert.Len(t, seen, len(names))
	assert.Equal(t, "dark", NextTheme(), "cycle wraps around")
}
