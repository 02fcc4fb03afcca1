package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the search page cache",
	Long: `Search pages are cached in ~/.acqscope/data/cache.db for cache.ttl_seconds
so paging back and forth does not refetch them.`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached search page",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show what the page cache holds",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd, cacheStatsCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	if cacheService == nil {
		cmd.Println("Page cache is disabled.")
		return nil
	}
	n, err := cacheService.Clear(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	cmd.Printf("Removed %d cached pages.\n", n)
	return nil
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	if cacheService == nil {
		cmd.Println("Page cache is disabled.")
		return nil
	}
	stats, err := cacheService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}
	if stats.Entries == 0 {
		cmd.Println("Page cache is empty.")
		return nil
	}

	cmd.Printf("Pages:   %d (%d live, %d expired)\n", stats.Entries, stats.Live(), stats.Expired)
	cmd.Printf("Size:    %s\n", humanize.Bytes(uint64(stats.Bytes)))
	cmd.Printf("Hits:    %s\n", humanize.Comma(stats.Hits))
	cmd.Printf("Oldest:  %s\n", humanize.RelTime(stats.Oldest, cacheNow(), "ago", "from now"))
	return nil
}

// cacheNow is the reference time for relative ages.
var cacheNow = time.Now
