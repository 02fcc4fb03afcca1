package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Default setting values.
const (
	DefaultSearchPath     = "/api/search"
	DefaultRatePerSecond  = 4.0
	DefaultPerPage        = 50
	DefaultPanelsPerPage  = 24
	DefaultPhotosPerPanel = 5
	DefaultImageTimeout   = 10 * time.Second
	DefaultCacheTTL       = 5 * time.Minute
)

// APISettings holds search endpoint configuration.
type APISettings struct {
	// BaseURL is the scheme and host of the search service.
	BaseURL string

	// SearchPath is the path of the search endpoint.
	SearchPath string

	// Token is an optional bearer token.
	Token string

	// Timeout bounds each search request. Zero means no timeout.
	Timeout time.Duration

	// RatePerSecond is the proactive request rate.
	RatePerSecond float64
}

// IsConfigured returns true if the endpoint can be called.
func (a APISettings) IsConfigured() bool {
	return a.BaseURL != ""
}

// Endpoint returns the full search endpoint URL.
func (a APISettings) Endpoint() string {
	path := a.SearchPath
	if path == "" {
		path = DefaultSearchPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(a.BaseURL, "/") + path
}

// Validate checks the API settings for obvious mistakes.
func (a APISettings) Validate() error {
	if a.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(a.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: api base URL %q must be absolute", ErrInvalidInput, a.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: api base URL scheme %q not supported", ErrInvalidInput, u.Scheme)
	}
	if a.RatePerSecond < 0 {
		return fmt.Errorf("%w: api rate must not be negative", ErrInvalidInput)
	}
	return nil
}

// BrowseSettings holds pagination and display configuration.
type BrowseSettings struct {
	// PerPage is the API page size requested from the backend.
	PerPage int

	// PanelsPerPage is the number of acquisition panels per display page.
	PanelsPerPage int

	// PhotosPerPanel is the sampling cap per acquisition.
	PhotosPerPanel int
}

// Validate checks the browse settings.
func (b BrowseSettings) Validate() error {
	if b.PerPage <= 0 {
		return fmt.Errorf("%w: per_page must be positive", ErrInvalidInput)
	}
	if b.PanelsPerPage <= 0 {
		return fmt.Errorf("%w: panels_per_page must be positive", ErrInvalidInput)
	}
	if b.PhotosPerPanel <= 0 {
		return fmt.Errorf("%w: photos_per_panel must be positive", ErrInvalidInput)
	}
	return nil
}

// ImageSettings holds image loading configuration.
type ImageSettings struct {
	// Timeout after which an unresolved image is replaced by a placeholder.
	Timeout time.Duration

	// DriveAPIKey enables Drive metadata checks for Drive-hosted photos.
	DriveAPIKey string
}

// CacheSettings holds response page cache configuration.
type CacheSettings struct {
	// Enabled turns the page cache on.
	Enabled bool

	// TTL is how long a cached page stays valid.
	TTL time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	// API holds search endpoint settings.
	API APISettings

	// Browse holds pagination settings.
	Browse BrowseSettings

	// Images holds image loading settings.
	Images ImageSettings

	// Cache holds page cache settings.
	Cache CacheSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The API base URL is left unconfigured; users must set it explicitly.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		API: APISettings{
			SearchPath:    DefaultSearchPath,
			RatePerSecond: DefaultRatePerSecond,
		},
		Browse: BrowseSettings{
			PerPage:        DefaultPerPage,
			PanelsPerPage:  DefaultPanelsPerPage,
			PhotosPerPanel: DefaultPhotosPerPanel,
		},
		Images: ImageSettings{
			Timeout: DefaultImageTimeout,
		},
		Cache: CacheSettings{
			Enabled: true,
			TTL:     DefaultCacheTTL,
		},
	}
}

// Validate checks all settings.
func (s AppSettings) Validate() error {
	if err := s.API.Validate(); err != nil {
		return err
	}
	return s.Browse.Validate()
}
