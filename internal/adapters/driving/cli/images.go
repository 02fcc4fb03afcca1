package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	imagesResolve bool
	imagesJSON    bool
)

var imagesCmd = &cobra.Command{
	Use:   "images <url>",
	Short: "Show the image candidates for a photo link",
	Long: `Lists the fallback URLs tried when displaying a photo link. Storage
share links expand to thumbnail, preview and full-size URLs before the raw
link. With --resolve each candidate is probed in order.`,
	Args: cobra.ExactArgs(1),
	RunE: runImages,
}

func init() {
	imagesCmd.Flags().BoolVar(&imagesResolve, "resolve", false, "probe candidates and report the first that loads")
	imagesCmd.Flags().BoolVar(&imagesJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(imagesCmd)
}

func runImages(cmd *cobra.Command, args []string) error {
	if imageService == nil {
		return fmt.Errorf("images: %w", errNotConfigured)
	}
	link := args[0]

	if !imagesResolve {
		candidates := imageService.Candidates(link)
		if imagesJSON {
			return printJSON(cmd, candidates)
		}
		for i, c := range candidates {
			cmd.Printf("  [%d] %s\n", i+1, c)
		}
		return nil
	}

	result := imageService.Resolve(cmd.Context(), link)
	if imagesJSON {
		return printJSON(cmd, result)
	}
	for _, tried := range result.Tried {
		mark := "x"
		if tried == result.URL {
			mark = "ok"
		}
		cmd.Printf("  %-2s %s\n", mark, tried)
	}
	if result.Placeholder {
		cmd.Println("No candidate loaded; a placeholder is shown.")
		return nil
	}
	cmd.Printf("Resolved: %s\n", result.URL)
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
