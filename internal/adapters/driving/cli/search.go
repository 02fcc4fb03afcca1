package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/acqscope/internal/core/domain"
)

var (
	searchFlags filterFlags
	searchPage  int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search acquisitions and print a page of photo panels",
	Long: `Runs a search for the selected filters and prints one panel page.
Each panel is one acquisition with a temporally spread sample of its photos.
At least one filter must be set.`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	searchFlags.bind(searchCmd)
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", 1, "panel page to show")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output the panel window as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	if browseService == nil {
		return fmt.Errorf("search: %w", errNotConfigured)
	}

	state, err := searchFlags.state()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	window, err := browseService.Start(ctx, state)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if searchPage > 1 {
		window, err = browseService.Page(ctx, searchPage)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
	}

	if searchJSON {
		return printJSON(cmd, window)
	}
	outputWindow(cmd, window)
	return nil
}

func outputWindow(cmd *cobra.Command, window *domain.PanelWindow) {
	if len(window.Panels) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Printf("Results (page %d of %d, %d acquisitions loaded)\n\n",
		window.Cursor.PanelPage, window.TotalPages, window.Buffered)

	offset := (window.Cursor.PanelPage - 1) * window.Cursor.PanelsPerPage
	for i, panel := range window.Panels {
		cmd.Printf("  [%d] %s (%d photos)\n", offset+i+1, panel.AcquisitionID, panel.TotalPhotos)
		for _, photo := range panel.Photos {
			cmd.Printf("      %6s  %s\n", secondLabel(photo), photo.URL)
		}
		cmd.Println()
	}

	if window.Counts.Acquisitions > 0 || window.Counts.Seconds > 0 {
		cmd.Printf("Matched %d acquisitions, %d seconds\n", window.Counts.Acquisitions, window.Counts.Seconds)
	}
	switch {
	case window.Exhausted:
		cmd.Println("No more results.")
	case window.HasNext:
		cmd.Printf("More results: --page %d\n", window.Cursor.PanelPage+1)
	}
}

// secondLabel renders the offset of a photo; photos without one show "-".
func secondLabel(photo domain.LinkDoc) string {
	if photo.Second == nil {
		return "-"
	}
	return fmt.Sprintf("%ds", *photo.Second)
}
