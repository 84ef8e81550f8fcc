package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kpm-work/kpm/pkg/manager"
	"github.com/kpm-work/kpm/pkg/model"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var (
		dryRun        bool
		noRecommends  bool
		downloadOnly  bool
		autoFixBroken bool
		assumeYes     bool
	)

	cmd := &cobra.Command{
		Use:   "install PACKAGE...",
		Short: "Install packages",
		Long: `Install one or more packages from the configured repositories.
Dependencies are resolved and installed automatically, in dependency order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, args, manager.InstallOptions{
				NoRecommends:  noRecommends,
				DownloadOnly:  downloadOnly,
				AutoFixBroken: autoFixBroken,
				AssumeYes:     assumeYes,
			}, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve and print the plan without executing")
	cmd.Flags().BoolVar(&noRecommends, "no-recommends", false, "Do not install recommended packages")
	cmd.Flags().BoolVarP(&downloadOnly, "download-only", "d", false, "Fetch and verify archives without installing")
	cmd.Flags().BoolVar(&autoFixBroken, "auto-fix-broken", false, "Proceed package by package past resolution and install failures")
	cmd.Flags().BoolVarP(&assumeYes, "assume-yes", "y", false, "Do not prompt for confirmation")

	return cmd
}

func runInstall(cmd *cobra.Command, packages []string, opts manager.InstallOptions, dryRun bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Settings.InstallRecommends {
		opts.NoRecommends = true
	}
	m, err := buildManager(cfg)
	if err != nil {
		return err
	}

	plan := m.Plan(packages, !opts.NoRecommends)
	printPlan(plan)
	if dryRun {
		if plan.HasErrors() {
			return fmt.Errorf("plan has %d errors", len(plan.Errors))
		}
		return nil
	}
	if len(plan.ToInstall) > 0 && !opts.AssumeYes && !confirm(fmt.Sprintf("Install %d packages?", len(plan.ToInstall))) {
		fmt.Println("Aborted.")
		return nil
	}

	result, err := m.Install(cmd.Context(), packages, opts)
	printResult(result)
	return err
}

func printPlan(plan *model.InstallPlan) {
	for _, resErr := range plan.Errors {
		color.Red("E: %s", resErr.Error())
	}
	if len(plan.ToInstall) == 0 {
		fmt.Println("Nothing to install.")
		return
	}
	fmt.Println("The following packages will be installed:")
	for _, pkg := range plan.ToInstall {
		fmt.Printf("  %s\n", pkg.ID())
	}
}

func printResult(result *manager.Result) {
	if result == nil {
		return
	}
	for _, warning := range result.Warnings {
		color.Yellow("W: %s", warning)
	}
	for _, name := range result.Failed {
		color.Red("failed: %s", name)
	}
	if len(result.Installed) > 0 {
		color.Green("Installed %d packages.", len(result.Installed))
	}
	if len(result.Removed) > 0 {
		color.Green("Removed %d packages.", len(result.Removed))
	}
	if result.Cancelled {
		color.Yellow("Interrupted; completed packages were kept, the rest were left untouched.")
	}
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	var answer string
	if _, err := fmt.Scanln(&answer); err != nil {
		return false
	}
	return answer == "y" || answer == "Y" || answer == "yes"
}
