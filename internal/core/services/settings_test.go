package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/acqscope/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/acqscope/internal/core/domain"
)

func TestSettingsService_GetDefaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
	assert.Equal(t, domain.DefaultAppSettings(), svc.GetDefaults())
}

func TestSettingsService_GetStoredValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyAPIBaseURL:    "https://search.example.com",
		KeyAPISearchPath: "/v2/search",
		KeyAPIToken:      "secret",
		KeyAPITimeout:    30,
		KeyAPIRate:       1.5,
		KeyBrowsePerPage: 100,
		KeyBrowsePanels:  12,
		KeyBrowsePhotos:  3,
		KeyImagesTimeout: 4,
		KeyCacheEnabled:  false,
		KeyCacheTTL:      60,
	})
	svc := NewSettingsService(store)

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "https://search.example.com/v2/search", settings.API.Endpoint())
	assert.Equal(t, "secret", settings.API.Token)
	assert.Equal(t, 30*time.Second, settings.API.Timeout)
	assert.InDelta(t, 1.5, settings.API.RatePerSecond, 1e-9)
	assert.Equal(t, domain.BrowseSettings{PerPage: 100, PanelsPerPage: 12, PhotosPerPanel: 3}, settings.Browse)
	assert.Equal(t, 4*time.Second, settings.Images.Timeout)
	assert.False(t, settings.Cache.Enabled)
	assert.Equal(t, time.Minute, settings.Cache.TTL)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.API.BaseURL = "http://localhost:8080"
	settings.API.Timeout = 15 * time.Second
	settings.Browse.PanelsPerPage = 6
	settings.Cache.Enabled = false
	require.NoError(t, svc.Save(&settings))

	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
}

func TestSettingsService_SaveKeepsToken(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{KeyAPIToken: "keep-me"})
	svc := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	require.NoError(t, svc.Save(&settings))
	token, _ := store.Get(KeyAPIToken)
	assert.Equal(t, "keep-me", token)
}

func TestSettingsService_SaveRejectsInvalid(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	settings := domain.DefaultAppSettings()
	settings.API.BaseURL = "ftp://search.example.com"
	assert.ErrorIs(t, svc.Save(&settings), domain.ErrInvalidInput)

	settings = domain.DefaultAppSettings()
	settings.Browse.PhotosPerPanel = 0
	assert.ErrorIs(t, svc.Save(&settings), domain.ErrInvalidInput)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(t *testing.T, s *domain.AppSettings)
	}{
		{KeyAPIBaseURL, "https://search.example.com/", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, "https://search.example.com", s.API.BaseURL)
		}},
		{KeyAPITimeout, "1m30s", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, 90*time.Second, s.API.Timeout)
		}},
		{KeyAPITimeout, "0", func(t *testing.T, s *domain.AppSettings) {
			assert.Zero(t, s.API.Timeout)
		}},
		{KeyAPIRate, "0.5", func(t *testing.T, s *domain.AppSettings) {
			assert.InDelta(t, 0.5, s.API.RatePerSecond, 1e-9)
		}},
		{KeyBrowsePanels, " 8 ", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, 8, s.Browse.PanelsPerPage)
		}},
		{KeyImagesTimeout, "5", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, 5*time.Second, s.Images.Timeout)
		}},
		{KeyCacheEnabled, "false", func(t *testing.T, s *domain.AppSettings) {
			assert.False(t, s.Cache.Enabled)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			svc := NewSettingsService(memory.NewConfigStore())
			require.NoError(t, svc.Set(tt.key, tt.value))

			settings, err := svc.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_SetInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "api.colour", "red"},
		{"non-numeric int", KeyBrowsePerPage, "many"},
		{"zero panels", KeyBrowsePanels, "0"},
		{"zero image timeout", KeyImagesTimeout, "0"},
		{"negative ttl", KeyCacheTTL, "-5"},
		{"bad bool", KeyCacheEnabled, "sometimes"},
		{"relative url", KeyAPIBaseURL, "search.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			svc := NewSettingsService(store)
			err := svc.Set(tt.key, tt.value)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, store.Keys(), "nothing is written on failure")
		})
	}
}

func TestSettingsService_SetToken(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)

	require.NoError(t, svc.SetToken("  abc123 \n"))
	token, _ := store.Get(KeyAPIToken)
	assert.Equal(t, "abc123", token)

	require.NoError(t, svc.SetToken(""))
	_, ok := store.Get(KeyAPIToken)
	assert.False(t, ok)
}

func TestSettingsService_Keys(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())
	keys := svc.Keys()
	assert.Equal(t, KeyAPIBaseURL, keys[0])
	assert.Contains(t, keys, KeyCacheTTL)

	keys[0] = "mutated"
	assert.Equal(t, KeyAPIBaseURL, svc.Keys()[0])
}

func TestSettingsService_Validate(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)
	assert.ErrorIs(t, svc.Validate(), domain.ErrSearchUnavailable)

	require.NoError(t, store.Set(KeyAPIBaseURL, "https://search.example.com"))
	assert.NoError(t, svc.Validate())
}

func TestSettingsService_Value(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyAPIBaseURL:   "https://search.example.com",
		KeyAPITimeout:   30,
		KeyBrowsePanels: 12,
		KeyCacheEnabled: false,
	})
	svc := NewSettingsService(store)

	tests := map[string]string{
		KeyAPIBaseURL:   "https://search.example.com",
		KeyAPITimeout:   "30s",
		KeyBrowsePanels: "12",
		KeyCacheEnabled: "false",
		KeyAPIRate:      "4",
		KeyImagesDrive:  "",
	}
	for key, expected := range tests {
		value, err := svc.Value(key)
		require.NoError(t, err, key)
		assert.Equal(t, expected, value, key)
	}

	_, err := svc.Value("colour")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_ValueRoundTripsThroughSet(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(map[string]any{
		KeyAPIBaseURL: "http://localhost:8080",
	}))

	for _, key := range svc.Keys() {
		if key == KeyAPIToken || key == KeyImagesDrive {
			continue
		}
		value, err := svc.Value(key)
		require.NoError(t, err, key)
		require.NoError(t, svc.Set(key, value), key)

		again, err := svc.Value(key)
		require.NoError(t, err)
		assert.Equal(t, value, again, key)
	}
}

func TestSettingsService_GetCoercesDecodedTypes(t *testing.T) {
	// Values as the TOML store decodes them, plus a few mistyped ones.
	store := memory.NewConfigStore(map[string]any{
		KeyAPIRate:       int64(2),
		KeyBrowsePanels:  int64(8),
		KeyBrowsePhotos:  "three",
		KeyBrowsePerPage: int64(0),
		KeyImagesTimeout: 2.5,
		KeyCacheEnabled:  "no",
	})
	svc := NewSettingsService(store)

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.InDelta(t, 2.0, settings.API.RatePerSecond, 1e-9)
	assert.Equal(t, 8, settings.Browse.PanelsPerPage)
	assert.Equal(t, domain.DefaultPhotosPerPanel, settings.Browse.PhotosPerPanel)
	assert.Equal(t, domain.DefaultPerPage, settings.Browse.PerPage)
	assert.Equal(t, 2500*time.Millisecond, settings.Images.Timeout)
	assert.True(t, settings.Cache.Enabled)
}

func TestSettingsService_SaveOmitsEmptyStrings(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{KeyImagesDrive: "old-key"})
	svc := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	require.NoError(t, svc.Save(&settings))

	assert.NotContains(t, store.Keys(), KeyAPIBaseURL)
	assert.NotContains(t, store.Keys(), KeyImagesDrive)
	assert.Contains(t, store.Keys(), KeyBrowsePanels)
}
