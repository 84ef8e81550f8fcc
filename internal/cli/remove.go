package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kpm-work/kpm/pkg/manager"
)

// NewRemoveCmd creates the remove command.
func NewRemoveCmd() *cobra.Command {
	var (
		purge     bool
		assumeYes bool
	)

	cmd := &cobra.Command{
		Use:   "remove PACKAGE...",
		Short: "Remove installed packages",
		Long: `Remove one or more installed packages. Dependent packages in the request
are removed before their dependencies. Configuration files are kept unless
--purge is given.`,
		Aliases: []string{"uninstall"},
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			m, err := buildManager(cfg)
			if err != nil {
				return err
			}

			if !assumeYes && !confirm(fmt.Sprintf("Remove %d packages?", len(args))) {
				fmt.Println("Aborted.")
				return nil
			}

			result, err := m.Remove(cmd.Context(), args, manager.RemoveOptions{
				Purge:     purge,
				AssumeYes: assumeYes,
			})
			printResult(result)
			return err
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "Also delete configuration files")
	cmd.Flags().BoolVarP(&assumeYes, "assume-yes", "y", false, "Do not prompt for confirmation")

	return cmd
}
