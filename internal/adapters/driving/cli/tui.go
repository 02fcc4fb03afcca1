package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui"
	"github.com/custodia-labs/acqscope/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/acqscope/internal/core/domain"
)

var (
	tuiFlags   filterFlags
	tuiResults bool
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive filter builder and panel browser.

--query and --filter seed the builder. A results URL
("/results?c.v=20..") or --results opens the panel view directly.

Controls:
  enter    - Apply key=value / view results on an empty line
  tab      - Edit the highlighted facet
  ctrl+r   - View results
  ←/→      - Previous / next panel page
  c, o, i  - Copy link, open photo, resolve image
  Esc      - Back
  ?        - Help
  ctrl+c   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiFlags.bind(tuiCmd)
	tuiCmd.Flags().BoolVar(&tuiResults, "results", false, "open the results view for the seeded filters")
	rootCmd.AddCommand(tuiCmd)
}

// newTUIApp builds the app from the injected services and seeds the filters.
func newTUIApp(cmd *cobra.Command) (*tui.App, error) {
	ports := &tui.Ports{
		Filters:  filterService,
		Browse:   browseService,
		Images:   imageService,
		Actions:  actionService,
		Settings: settingsService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return nil, fmt.Errorf("failed to create TUI: %w", err)
	}

	openResults := tuiResults
	if tuiFlags.query != "" || len(tuiFlags.assign) > 0 {
		state, err := tuiFlags.state()
		if err != nil {
			return nil, err
		}
		filterService.Hydrate()
		if err := filterService.Update(func(s *domain.FilterState) { *s = state }); err != nil {
			return nil, err
		}
		if domain.ParseLocation(tuiFlags.query).Route == domain.RouteResults {
			openResults = true
		}
	}

	return app.WithContext(cmd.Context()).WithResults(openResults), nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := newTUIApp(cmd)
	if err != nil {
		return err
	}
	p := app.NewProgram()

	// Background helpers live as long as the TUI.
	if background != nil {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go background(ctx, func() { p.Send(messages.SettingsChanged{}) })
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
