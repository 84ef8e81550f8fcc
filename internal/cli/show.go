package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	pkgerrors "github.com/kpm-work/kpm/pkg/errors"
	"github.com/kpm-work/kpm/pkg/model"
)

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show PACKAGE",
		Short: "Show detailed package information",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			m, err := buildManager(cfg)
			if err != nil {
				return err
			}

			name := args[0]
			pkg, installed := m.Installed(name)
			if !installed {
				var ok bool
				pkg, ok = m.Available(name)
				if !ok {
					return fmt.Errorf("%s: %w", name, pkgerrors.ErrPackageNotFound)
				}
			}
			printPackage(pkg, installed)
			return nil
		},
	}
}

func printPackage(pkg *model.Package, installed bool) {
	fmt.Printf("Package: %s\n", pkg.Name)
	fmt.Printf("Version: %s\n", pkg.Version)
	if pkg.Architecture != "" {
		fmt.Printf("Architecture: %s\n", pkg.Architecture)
	}
	if pkg.Priority != "" {
		fmt.Printf("Priority: %s\n", pkg.Priority)
	}
	if installed {
		fmt.Printf("Status: %s\n", pkg.State)
		if pkg.Hold {
			fmt.Println("Hold: yes")
		}
		if pkg.AutoInstalled {
			fmt.Println("Auto-Installed: yes")
		}
		if pkg.InstallTime != nil {
			fmt.Printf("Install-Time: %s\n", pkg.InstallTime.Format("2006-01-02 15:04:05"))
		}
	}
	printDependencyLine("Pre-Depends", pkg.PreDepends)
	printDependencyLine("Depends", pkg.Depends)
	printDependencyLine("Recommends", pkg.Recommends)
	printDependencyLine("Suggests", pkg.Suggests)
	printDependencyLine("Conflicts", pkg.Conflicts)
	printDependencyLine("Breaks", pkg.Breaks)
	printDependencyLine("Replaces", pkg.Replaces)
	if len(pkg.Provides) > 0 {
		fmt.Printf("Provides: %s\n", strings.Join(pkg.Provides, ", "))
	}
	if pkg.Size > 0 {
		fmt.Printf("Size: %d\n", pkg.Size)
	}
	if pkg.Description != "" {
		fmt.Printf("Description: %s\n", pkg.Description)
	}
}

func printDependencyLine(label string, deps []model.Dependency) {
	if len(deps) == 0 {
		return
	}
	rendered := make([]string, 0, len(deps))
	for _, d := range deps {
		rendered = append(rendered, d.String())
	}
	fmt.Printf("%s: %s\n", label, strings.Join(rendered, ", "))
}
