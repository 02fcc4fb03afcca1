package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/acqscope/internal/core/domain"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Short key", input: "abc123", expected: "****"},
		{name: "Exactly 8 chars", input: "12345678", expected: "****"},
		{name: "Long key", input: "tok-1234567890abcdef", expected: "tok-...cdef"},
		{name: "Empty key", input: "", expected: "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskAPIKey(tt.input))
		})
	}
}

func TestFormatTimeout(t *testing.T) {
	assert.Equal(t, "none", formatTimeout(0))
	assert.Equal(t, "10s", formatTimeout(domain.DefaultImageTimeout))
}

func TestReadPassword_FallsBackToLine(t *testing.T) {
	assert.Equal(t, "secret", readPassword(strings.NewReader("  secret \nignored\n")))
	assert.Equal(t, "", readPassword(strings.NewReader("")))
}

func TestSettingsShow_Unconfigured(t *testing.T) {
	setupTestServices(t)

	out := mustExecute(t, "settings")

	assert.Contains(t, out, "[API]")
	assert.Contains(t, out, "Endpoint: (not set)")
	assert.Contains(t, out, "Token: (not set)")
	assert.Contains(t, out, "[Browse]")
	assert.Contains(t, out, "Panels per page: 24")
	assert.Contains(t, out, "[Cache]")
	assert.Contains(t, out, "Warning: search endpoint not configured")
}

func TestSettingsSetThenShow(t *testing.T) {
	setupTestServices(t)

	out := mustExecute(t, "settings", "set", "api.base_url", "https://search.example.com/")
	assert.Contains(t, out, "api.base_url updated.")

	mustExecute(t, "settings", "set", "browse.panels_per_page", "12")
	mustExecute(t, "settings", "set", "cache.enabled", "false")

	out = mustExecute(t, "settings", "show")
	assert.Contains(t, out, "Endpoint: https://search.example.com/api/search")
	assert.Contains(t, out, "Panels per page: 12")
	assert.Contains(t, out, "Enabled: no")
	assert.NotContains(t, out, "Warning")
}

func TestSettingsSet_Invalid(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "settings", "set", "browse.panels_per_page", "many")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute(t, "settings", "set", "colour", "red")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute(t, "settings", "set", "api.base_url")
	assert.Error(t, err)
}

func TestSettingsKeys(t *testing.T) {
	setupTestServices(t)

	out := mustExecute(t, "settings", "keys")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "api.base_url", lines[0])
	assert.Contains(t, lines, "images.drive_api_key")
	assert.Contains(t, lines, "cache.ttl_seconds")
}

func TestSettingsToken(t *testing.T) {
	ts := setupTestServices(t)
	original := tokenInput
	t.Cleanup(func() { tokenInput = original })

	tokenInput = strings.NewReader("tok-1234567890abcdef\n")
	out := mustExecute(t, "settings", "token")
	assert.Contains(t, out, "Token saved.")
	token, _ := ts.config.Get("api.token")
	assert.Equal(t, "tok-1234567890abcdef", token)

	out = mustExecute(t, "settings")
	assert.Contains(t, out, "Token: tok-...cdef")

	tokenInput = strings.NewReader("\n")
	out = mustExecute(t, "settings", "token")
	assert.Contains(t, out, "Token removed.")
	_, ok := ts.config.Get("api.token")
	assert.False(t, ok)
}

func TestSettings_NotConfigured(t *testing.T) {
	setupTestServices(t)
	SetServices(nil)

	_, err := execute(t, "settings", "keys")

	assert.ErrorIs(t, err, errNotConfigured)
}
