package cli

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/kpm-work/kpm/pkg/model"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var (
		upgradable bool
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed packages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			m, err := buildManager(cfg)
			if err != nil {
				return err
			}

			var pkgs []*model.Package
			switch {
			case upgradable:
				pkgs = m.UpgradablePackages()
			case all:
				pkgs = m.AvailablePackages()
			default:
				pkgs = m.InstalledPackages()
			}
			if len(pkgs) == 0 {
				fmt.Println("No packages.")
				return nil
			}

			installedVersions := make(map[string]string)
			for _, pkg := range m.InstalledPackages() {
				installedVersions[pkg.Name] = pkg.Version.String()
			}

			table := tablewriter.NewTable(cmd.OutOrStdout(),
				tablewriter.WithHeader([]string{"Name", "Version", "State", "Description"}),
				tablewriter.WithAlignment(tw.MakeAlign(4, tw.AlignLeft)),
				tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
			)
			for _, pkg := range pkgs {
				state := string(pkg.State)
				if upgradable {
					state = fmt.Sprintf("upgradable from %s", installedVersions[pkg.Name])
				}
				table.Append(pkg.Name, pkg.Version.String(), state, truncate(pkg.Description, 50))
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&upgradable, "upgradable", "u", false, "List packages with a newer available version")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "List all available packages")

	return cmd
}
