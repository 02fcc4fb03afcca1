package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the search endpoint, paging and cache settings.

Settings are stored in ~/.acqscope/config.toml and can be changed with
"settings set <key> <value>". Use "settings token" to store the API token
without echoing it.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting by its config key. Run "settings keys" for the list.

Examples:
  acqscope settings set api.base_url https://dataset.example.org
  acqscope settings set browse.panels_per_page 12
  acqscope settings set cache.enabled false`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Store the API bearer token",
	Long:  `Prompts for the API bearer token without echo. An empty token removes it.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsToken,
}

// tokenInput is where the token prompt reads from.
var tokenInput io.Reader = os.Stdin

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsKeysCmd, settingsTokenCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings: %w", errNotConfigured)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[API]")
	if settings.API.IsConfigured() {
		cmd.Printf("  Endpoint: %s\n", settings.API.Endpoint())
	} else {
		cmd.Printf("  Endpoint: (not set)\n")
	}
	if settings.API.Token != "" {
		cmd.Printf("  Token: %s\n", maskAPIKey(settings.API.Token))
	} else {
		cmd.Printf("  Token: (not set)\n")
	}
	cmd.Printf("  Timeout: %s\n", formatTimeout(settings.API.Timeout))
	cmd.Printf("  Rate: %g requests/s\n", settings.API.RatePerSecond)
	cmd.Println()

	cmd.Println("[Browse]")
	cmd.Printf("  Page size: %d\n", settings.Browse.PerPage)
	cmd.Printf("  Panels per page: %d\n", settings.Browse.PanelsPerPage)
	cmd.Printf("  Photos per panel: %d\n", settings.Browse.PhotosPerPanel)
	cmd.Println()

	cmd.Println("[Images]")
	cmd.Printf("  Timeout: %s\n", formatTimeout(settings.Images.Timeout))
	if settings.Images.DriveAPIKey != "" {
		cmd.Printf("  Drive API key: %s\n", maskAPIKey(settings.Images.DriveAPIKey))
	} else {
		cmd.Printf("  Drive API key: (not set)\n")
	}
	cmd.Println()

	cmd.Println("[Cache]")
	if settings.Cache.Enabled {
		cmd.Printf("  Enabled: yes\n")
		cmd.Printf("  TTL: %s\n", settings.Cache.TTL)
	} else {
		cmd.Printf("  Enabled: no\n")
	}

	if err := settingsService.Validate(); err != nil {
		cmd.Println()
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings: %w", errNotConfigured)
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("%s updated.\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings: %w", errNotConfigured)
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsToken(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings: %w", errNotConfigured)
	}

	cmd.Print("API token: ")
	token := readPassword(tokenInput)
	cmd.Println()

	if err := settingsService.SetToken(token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	if token == "" {
		cmd.Println("Token removed.")
	} else {
		cmd.Println("Token saved.")
	}
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(in io.Reader) string {
	// Try to read password without echo
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(in)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func formatTimeout(d time.Duration) string {
	if d <= 0 {
		return "none"
	}
	return d.String()
}
