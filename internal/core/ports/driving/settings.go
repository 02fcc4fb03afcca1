package driving

import "github.com/custodia-labs/acqscope/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save validates and persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by its config key (e.g. "browse.per_page").
	Set(key, value string) error

	// Keys returns every recognised config key in display order.
	Keys() []string

	// Value returns the current value of a key in the form Set accepts.
	// Secrets are returned as stored; callers mask them for display.
	Value(key string) (string, error)

	// SetToken stores the API bearer token.
	SetToken(token string) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Validate checks if current settings are usable.
	Validate() error
}
