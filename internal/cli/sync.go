package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSyncCmd creates the sync command.
func NewSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Download the package indexes of all configured repositories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			im := newIndexManager(cfg)
			if err := im.Sync(cmd.Context()); err != nil {
				return err
			}
			available, err := im.Load()
			if err != nil {
				return err
			}
			fmt.Printf("Synced %d repositories, %d packages available.\n", len(cfg.Repositories), len(available))
			return nil
		},
	}
}
