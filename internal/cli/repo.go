package cli

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/kpm-work/kpm/pkg/config"
)

// NewRepoCmd creates the repo command group.
func NewRepoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Manage configured repositories",
	}
	cmd.AddCommand(newRepoAddCmd(), newRepoRemoveCmd(), newRepoListCmd())
	return cmd
}

func newRepoAddCmd() *cobra.Command {
	var priority uint

	cmd := &cobra.Command{
		Use:   "add NAME URL",
		Short: "Add a repository",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return updateConfig(func(cfg *config.Config) error {
				if err := cfg.AddRepository(args[0], args[1], priority); err != nil {
					return err
				}
				fmt.Printf("Added repository %s.\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().UintVar(&priority, "priority", 0, "Repository priority (higher wins)")
	return cmd
}

func newRepoRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return updateConfig(func(cfg *config.Config) error {
				if !cfg.RemoveRepository(args[0]) {
					return fmt.Errorf("repository %s is not configured", args[0])
				}
				fmt.Printf("Removed repository %s.\n", args[0])
				return nil
			})
		},
	}
}

func newRepoListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured repositories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if len(cfg.Repositories) == 0 {
				fmt.Println("No repositories configured.")
				return nil
			}
			table := tablewriter.NewTable(cmd.OutOrStdout(),
				tablewriter.WithHeader([]string{"Name", "URL", "Priority", "Enabled"}),
				tablewriter.WithAlignment(tw.MakeAlign(4, tw.AlignLeft)),
				tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
			)
			for _, repo := range cfg.Repositories {
				table.Append(repo.Name, repo.URL, fmt.Sprintf("%d", repo.Priority), fmt.Sprintf("%t", repo.Enabled))
			}
			table.Render()
			return nil
		},
	}
}

func updateConfig(mutate func(*config.Config) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := mutate(cfg); err != nil {
		return err
	}

	configPath := ""
	if ConfigPath != nil {
		configPath = *ConfigPath
	}
	if configPath == "" {
		configPath, err = config.GetDefaultConfigPath()
		if err != nil {
			return err
		}
	}
	return cfg.SaveConfig(configPath)
}
