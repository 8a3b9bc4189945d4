package cli

import (
	"fmt"

	"github.com/ppiankov/swimcal/internal/cache"
	"github.com/spf13/cobra"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the extraction cache",
	Long: `The extraction cache stores LLM responses keyed by schedule text, so
re-converting an unchanged schedule costs no API call. Entries expire
after the configured TTL (cache.ttl_days).`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show extraction cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		diskCache := cache.NewDiskCache(cfg.Cache.Dir, cfg.CacheTTL())
		stats, err := diskCache.Stats()
		if err != nil {
			return fmt.Errorf("read cache stats: %w", err)
		}

		fmt.Printf("Cache directory: %s\n", diskCache.Dir())
		fmt.Printf("  Entries:  %d\n", stats.Entries)
		fmt.Printf("  Expired:  %d\n", stats.Expired)
		fmt.Printf("  Size:     %.1f KB\n", float64(stats.Bytes)/1024)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached extractions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		diskCache := cache.NewDiskCache(cfg.Cache.Dir, cfg.CacheTTL())
		if err := diskCache.Clear(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}

		fmt.Printf("✓ Cleared extraction cache: %s\n", diskCache.Dir())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
