// Package cli provides the cobra command tree for acqscope.
// It is a driving adapter: commands talk to core services only through
// driving ports, which are injected by the composition root.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/acqscope/internal/core/ports/driving"
	"github.com/custodia-labs/acqscope/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Options carries the root flags to the bootstrap function.
type Options struct {
	// ConfigDir overrides the configuration directory (~/.acqscope).
	ConfigDir string

	// DataDir overrides the page cache directory (~/.acqscope/data).
	DataDir string

	// Verbose enables debug logging.
	Verbose bool
}

// Services aggregates the driving ports used by the commands.
type Services struct {
	Filters  driving.FilterService
	Browse   driving.BrowseService
	Images   driving.ImageService
	Actions  driving.PhotoActionService
	Settings driving.SettingsService
	Cache    driving.CacheService

	// Background runs long-lived helpers (cache pruning, config watching)
	// for the interactive commands until its context is cancelled.
	// onConfigChange is called after the config file changed on disk.
	Background func(ctx context.Context, onConfigChange func())

	// Close releases resources held by the services.
	Close func() error
}

// BootstrapFunc builds the services once flags are parsed.
type BootstrapFunc func(opts Options) (*Services, error)

var (
	filterService   driving.FilterService
	browseService   driving.BrowseService
	imageService    driving.ImageService
	actionService   driving.PhotoActionService
	settingsService driving.SettingsService
	cacheService    driving.CacheService
	background      func(ctx context.Context, onConfigChange func())
	closeServices   func() error

	bootstrap BootstrapFunc
	rootOpts  Options
)

// errNotConfigured is returned when a command runs without its service.
var errNotConfigured = errors.New("service not configured")

var rootCmd = &cobra.Command{
	Use:   "acqscope",
	Short: "Browse vehicle-sensor acquisitions as photo panels",
	Long: `acqscope filters acquisitions by vehicle, road, scene and perception
attributes and pages through the matching photos, grouped by acquisition.

Filters use the same compact query string as the web front end, e.g.
  c.v=20..&o.highway=primary,trunk&y.conf=0.66..`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return teardown()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootOpts.Verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rootOpts.ConfigDir, "config-dir", "", "configuration directory (default ~/.acqscope)")
	rootCmd.PersistentFlags().StringVar(&rootOpts.DataDir, "data-dir", "", "cache directory (default ~/.acqscope/data)")
}

// SetBootstrap registers the function that builds the services.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices injects services directly, bypassing the bootstrap.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	filterService = s.Filters
	browseService = s.Browse
	imageService = s.Images
	actionService = s.Actions
	settingsService = s.Settings
	cacheService = s.Cache
	background = s.Background
	closeServices = s.Close
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which commands receive
// through cmd.Context().
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(rootOpts.Verbose)
	if bootstrap == nil {
		return nil
	}
	s, err := bootstrap(rootOpts)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(s)
	return nil
}

func teardown() error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}
