package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	pkgerrors "github.com/kpm-work/kpm/pkg/errors"
	"github.com/kpm-work/kpm/pkg/model"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	var installedOnly bool

	cmd := &cobra.Command{
		Use:   "search PATTERN",
		Short: "Search available packages",
		Long: `Search package names and descriptions. Matching is fuzzy, so partial and
slightly misspelled patterns still find their package.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			m, err := buildManager(cfg)
			if err != nil {
				return err
			}

			pool := m.AvailablePackages()
			if installedOnly {
				pool = m.InstalledPackages()
			}

			matches := searchPackages(pool, args[0])
			if len(matches) == 0 {
				return fmt.Errorf("nothing matches %q: %w", args[0], pkgerrors.ErrNoPackagesMatched)
			}

			installedNames := make(map[string]bool)
			for _, pkg := range m.InstalledPackages() {
				installedNames[pkg.Name] = true
			}

			table := tablewriter.NewTable(cmd.OutOrStdout(),
				tablewriter.WithHeader([]string{"Name", "Version", "Status", "Description"}),
				tablewriter.WithAlignment(tw.MakeAlign(4, tw.AlignLeft)),
				tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
			)
			for _, pkg := range matches {
				status := ""
				if installedNames[pkg.Name] {
					status = "installed"
				}
				table.Append(pkg.Name, pkg.Version.String(), status, truncate(pkg.Description, 60))
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&installedOnly, "installed", false, "Search installed packages only")

	return cmd
}

// searchPackages ranks fuzzy matches on the name, then falls back to substring
// matches in the description.
func searchPackages(pool []*model.Package, pattern string) []*model.Package {
	byName := make(map[string]*model.Package, len(pool))
	names := make([]string, 0, len(pool))
	for _, pkg := range pool {
		byName[pkg.Name] = pkg
		names = append(names, pkg.Name)
	}

	var out []*model.Package
	seen := make(map[string]bool)

	ranks := fuzzy.RankFindNormalizedFold(pattern, names)
	sort.Sort(ranks)
	for _, rank := range ranks {
		if !seen[rank.Target] {
			seen[rank.Target] = true
			out = append(out, byName[rank.Target])
		}
	}

	lowered := strings.ToLower(pattern)
	for _, pkg := range pool {
		if !seen[pkg.Name] && strings.Contains(strings.ToLower(pkg.Description), lowered) {
			seen[pkg.Name] = true
			out = append(out, pkg)
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
