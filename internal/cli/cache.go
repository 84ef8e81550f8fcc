package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kpm-work/kpm/pkg/cache"
)

// NewCacheCmd creates the cache command with its subcommands.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local download cache",
	}
	cmd.AddCommand(newCacheCleanCmd())
	cmd.AddCommand(newCacheInfoCmd())
	return cmd
}

func newCacheCleanCmd() *cobra.Command {
	var opts cache.CleanOptions

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cached indexes and package archives",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			result, err := cache.NewManager(cfg.Settings.CacheDir).Clean(opts)
			if err != nil {
				return err
			}
			fmt.Printf("Freed %s (indexes: %s, packages: %s)\n",
				cache.FormatBytes(result.TotalFreed),
				cache.FormatBytes(result.IndexFreed),
				cache.FormatBytes(result.PackageFreed))
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.Indexes, "indexes", false, "only clean cached repository indexes")
	cmd.Flags().BoolVar(&opts.Packages, "packages", false, "only clean cached package archives")
	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache location and disk usage",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			info, err := cache.NewManager(cfg.Settings.CacheDir).GetInfo()
			if err != nil {
				return err
			}
			fmt.Printf("Directory: %s\n", info.Directory)
			fmt.Printf("Indexes:   %s (%d files)\n", cache.FormatBytes(info.IndexSize), info.IndexFiles)
			fmt.Printf("Packages:  %s (%d files)\n", cache.FormatBytes(info.PackageSize), info.PackageFiles)
			fmt.Printf("Total:     %s\n", cache.FormatBytes(info.TotalSize))
			return nil
		},
	}
}
