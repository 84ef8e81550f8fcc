package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kpm-work/kpm/pkg/manager"
)

// NewUpgradeCmd creates the upgrade command.
func NewUpgradeCmd() *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "upgrade [PACKAGE...]",
		Short: "Upgrade installed packages to newer available versions",
		Long: `Upgrade installed packages. With no arguments every package with a newer
available version is upgraded, except held packages. Naming a held package
explicitly is an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			m, err := buildManager(cfg)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				upgradable := m.UpgradablePackages()
				if len(upgradable) == 0 {
					fmt.Println("All packages are up to date.")
					return nil
				}
				fmt.Println("The following packages will be upgraded:")
				for _, pkg := range upgradable {
					fmt.Printf("  %s\n", pkg.ID())
				}
				if !assumeYes && !confirm(fmt.Sprintf("Upgrade %d packages?", len(upgradable))) {
					fmt.Println("Aborted.")
					return nil
				}
			}

			result, err := m.Upgrade(cmd.Context(), args, manager.UpgradeOptions{AssumeYes: assumeYes})
			printResult(result)
			return err
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "assume-yes", "y", false, "Do not prompt for confirmation")

	return cmd
}
