package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/acqscope/internal/core/domain"
	"github.com/custodia-labs/acqscope/internal/core/ports/driven"
	"github.com/custodia-labs/acqscope/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyAPIBaseURL    = "api.base_url"
	KeyAPISearchPath = "api.search_path"
	KeyAPIToken      = "api.token"
	KeyAPITimeout    = "api.timeout_seconds"
	KeyAPIRate       = "api.rate_per_second"
	KeyBrowsePerPage = "browse.per_page"
	KeyBrowsePanels  = "browse.panels_per_page"
	KeyBrowsePhotos  = "browse.photos_per_panel"
	KeyImagesTimeout = "images.timeout_seconds"
	KeyImagesDrive   = "images.drive_api_key"
	KeyCacheEnabled  = "cache.enabled"
	KeyCacheTTL      = "cache.ttl_seconds"
)

// settingKeys is the display order of the recognised keys.
var settingKeys = []string{
	KeyAPIBaseURL,
	KeyAPISearchPath,
	KeyAPIToken,
	KeyAPITimeout,
	KeyAPIRate,
	KeyBrowsePerPage,
	KeyBrowsePanels,
	KeyBrowsePhotos,
	KeyImagesTimeout,
	KeyImagesDrive,
	KeyCacheEnabled,
	KeyCacheTTL,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		API: domain.APISettings{
			BaseURL:       s.getString(KeyAPIBaseURL, ""),
			SearchPath:    s.getString(KeyAPISearchPath, defaults.API.SearchPath),
			Token:         s.getString(KeyAPIToken, ""),
			Timeout:       s.getSeconds(KeyAPITimeout, defaults.API.Timeout),
			RatePerSecond: s.getFloat(KeyAPIRate, defaults.API.RatePerSecond),
		},
		Browse: domain.BrowseSettings{
			PerPage:        s.getInt(KeyBrowsePerPage, defaults.Browse.PerPage),
			PanelsPerPage:  s.getInt(KeyBrowsePanels, defaults.Browse.PanelsPerPage),
			PhotosPerPanel: s.getInt(KeyBrowsePhotos, defaults.Browse.PhotosPerPanel),
		},
		Images: domain.ImageSettings{
			Timeout:     s.getSeconds(KeyImagesTimeout, defaults.Images.Timeout),
			DriveAPIKey: s.getString(KeyImagesDrive, ""),
		},
		Cache: domain.CacheSettings{
			Enabled: s.getBool(KeyCacheEnabled, defaults.Cache.Enabled),
			TTL:     s.getSeconds(KeyCacheTTL, defaults.Cache.TTL),
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := map[string]any{
		KeyAPIBaseURL:    optional(settings.API.BaseURL),
		KeyAPISearchPath: settings.API.SearchPath,
		KeyAPITimeout:    int(settings.API.Timeout / time.Second),
		KeyAPIRate:       settings.API.RatePerSecond,
		KeyBrowsePerPage: settings.Browse.PerPage,
		KeyBrowsePanels:  settings.Browse.PanelsPerPage,
		KeyBrowsePhotos:  settings.Browse.PhotosPerPanel,
		KeyImagesTimeout: int(settings.Images.Timeout / time.Second),
		KeyImagesDrive:   optional(settings.Images.DriveAPIKey),
		KeyCacheEnabled:  settings.Cache.Enabled,
		KeyCacheTTL:      int(settings.Cache.TTL / time.Second),
	}
	// The token is only written when set, so saving never erases it.
	if settings.API.Token != "" {
		values[KeyAPIToken] = settings.API.Token
	}
	if err := s.configStore.SetAll(values); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// optional maps an empty string to nil so the key is removed.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Set updates a single setting by key, validating the result.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	if err := applySetting(settings, key, value); err != nil {
		return err
	}
	return s.Save(settings)
}

// applySetting parses value into the field named by key.
func applySetting(settings *domain.AppSettings, key, value string) error {
	var err error
	switch key {
	case KeyAPIBaseURL:
		settings.API.BaseURL = strings.TrimRight(value, "/")
	case KeyAPISearchPath:
		settings.API.SearchPath = value
	case KeyAPIToken:
		settings.API.Token = value
	case KeyAPITimeout:
		settings.API.Timeout, err = parseSeconds(value, true)
	case KeyAPIRate:
		settings.API.RatePerSecond, err = strconv.ParseFloat(value, 64)
	case KeyBrowsePerPage:
		settings.Browse.PerPage, err = strconv.Atoi(value)
	case KeyBrowsePanels:
		settings.Browse.PanelsPerPage, err = strconv.Atoi(value)
	case KeyBrowsePhotos:
		settings.Browse.PhotosPerPanel, err = strconv.Atoi(value)
	case KeyImagesTimeout:
		settings.Images.Timeout, err = parseSeconds(value, false)
	case KeyImagesDrive:
		settings.Images.DriveAPIKey = value
	case KeyCacheEnabled:
		settings.Cache.Enabled, err = strconv.ParseBool(value)
	case KeyCacheTTL:
		settings.Cache.TTL, err = parseSeconds(value, false)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %q is not valid", domain.ErrInvalidInput, key, value)
	}
	return nil
}

// parseSeconds reads a whole number of seconds or a Go duration ("1m30s").
func parseSeconds(value string, allowZero bool) (time.Duration, error) {
	var d time.Duration
	if n, err := strconv.Atoi(value); err == nil {
		d = time.Duration(n) * time.Second
	} else if d, err = time.ParseDuration(value); err != nil {
		return 0, err
	}
	if d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("duration out of range: %s", value)
	}
	return d, nil
}

// Keys returns every recognised config key in display order.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// Value returns the current value of key, formatted the way Set parses it.
func (s *SettingsService) Value(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}

	switch key {
	case KeyAPIBaseURL:
		return settings.API.BaseURL, nil
	case KeyAPISearchPath:
		return settings.API.SearchPath, nil
	case KeyAPIToken:
		return settings.API.Token, nil
	case KeyAPITimeout:
		return settings.API.Timeout.String(), nil
	case KeyAPIRate:
		return strconv.FormatFloat(settings.API.RatePerSecond, 'f', -1, 64), nil
	case KeyBrowsePerPage:
		return strconv.Itoa(settings.Browse.PerPage), nil
	case KeyBrowsePanels:
		return strconv.Itoa(settings.Browse.PanelsPerPage), nil
	case KeyBrowsePhotos:
		return strconv.Itoa(settings.Browse.PhotosPerPanel), nil
	case KeyImagesTimeout:
		return settings.Images.Timeout.String(), nil
	case KeyImagesDrive:
		return settings.Images.DriveAPIKey, nil
	case KeyCacheEnabled:
		return strconv.FormatBool(settings.Cache.Enabled), nil
	case KeyCacheTTL:
		return settings.Cache.TTL.String(), nil
	}
	return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
}

// SetToken stores the API bearer token. An empty token removes it.
func (s *SettingsService) SetToken(token string) error {
	var value any
	if token = strings.TrimSpace(token); token != "" {
		value = token
	}
	if err := s.configStore.Set(KeyAPIToken, value); err != nil {
		return fmt.Errorf("save %s: %w", KeyAPIToken, err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Validate checks if current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if !settings.API.IsConfigured() {
		return fmt.Errorf("%w: set %s first", domain.ErrSearchUnavailable, KeyAPIBaseURL)
	}
	return settings.Validate()
}

// Stored values keep their decoded type: TOML yields int64 and float64,
// the memory store whatever was set. Missing or mistyped values fall back
// to the default.

func (s *SettingsService) getString(key, defaultVal string) string {
	if v, ok := s.configStore.Get(key); ok {
		if str, ok := v.(string); ok && str != "" {
			return str
		}
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if n, ok := s.number(key); ok && n > 0 {
		return int(n)
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if n, ok := s.number(key); ok {
		return n
	}
	return defaultVal
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if v, ok := s.configStore.Get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if n, ok := s.number(key); ok && n >= 0 {
		return time.Duration(n * float64(time.Second))
	}
	return defaultVal
}

func (s *SettingsService) number(key string) (float64, bool) {
	v, ok := s.configStore.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
