package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kpm-work/kpm/internal/cli"
	pkgerrors "github.com/kpm-work/kpm/pkg/errors"
)

// Exit codes, stable for scripting.
const (
	exitOK         = 0
	exitError      = 1
	exitResolution = 2
	exitPartial    = 3
	exitNotFound   = 4
)

var (
	configPath string
	verbose    bool
	noColor    bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, pkgerrors.ErrResolution):
		return exitResolution
	case errors.Is(err, pkgerrors.ErrPartialFailure):
		return exitPartial
	case errors.Is(err, pkgerrors.ErrPackageNotFound),
		errors.Is(err, pkgerrors.ErrNotInstalled),
		errors.Is(err, pkgerrors.ErrNoPackagesMatched):
		return exitNotFound
	default:
		return exitError
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kpm",
		Short: "A small package manager",
		Long: `kpm installs, upgrades and removes packages from configured repositories,
resolving dependencies automatically and tracking each package through its
install lifecycle.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: auto-detect)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output and progress bars")

	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.NoColor = &noColor

	cmd.AddCommand(
		cli.NewSyncCmd(),
		cli.NewInstallCmd(),
		cli.NewRemoveCmd(),
		cli.NewUpgradeCmd(),
		cli.NewHoldCmd(),
		cli.NewUnholdCmd(),
		cli.NewSearchCmd(),
		cli.NewShowCmd(),
		cli.NewListCmd(),
		cli.NewRepoCmd(),
		cli.NewCacheCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
