package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewHoldCmd creates the hold command.
func NewHoldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hold PACKAGE...",
		Short: "Hold packages at their current version",
		Long:  "Mark installed packages so that upgrades skip them.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			m, err := buildManager(cfg)
			if err != nil {
				return err
			}
			for _, name := range args {
				if err := m.Hold(name); err != nil {
					return err
				}
				fmt.Printf("%s set on hold.\n", name)
			}
			return nil
		},
	}
}

// NewUnholdCmd creates the unhold command.
func NewUnholdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unhold PACKAGE...",
		Short: "Release held packages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			m, err := buildManager(cfg)
			if err != nil {
				return err
			}
			for _, name := range args {
				if err := m.Unhold(name); err != nil {
					return err
				}
				fmt.Printf("Hold on %s released.\n", name)
			}
			return nil
		},
	}
}
