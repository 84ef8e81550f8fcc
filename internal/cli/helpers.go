// Package cli implements the kpm command line commands.
package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/kpm-work/kpm/internal/logger"
	"github.com/kpm-work/kpm/pkg/archive"
	"github.com/kpm-work/kpm/pkg/catalog"
	"github.com/kpm-work/kpm/pkg/config"
	"github.com/kpm-work/kpm/pkg/download"
	"github.com/kpm-work/kpm/pkg/hook"
	"github.com/kpm-work/kpm/pkg/index"
	"github.com/kpm-work/kpm/pkg/manager"
)

// These variables are set by the main package.
var (
	ConfigPath *string
	Verbose    *bool
	NoColor    *bool
)

func loadConfig() (*config.Config, error) {
	configPath := ""
	if ConfigPath != nil {
		configPath = *ConfigPath
	}
	if configPath == "" {
		defaultPath, err := config.GetDefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get default config path: %w", err)
		}
		configPath = defaultPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Settings.LogLevel
	if Verbose != nil && *Verbose {
		level = "debug"
	}
	logger.InitLogger(level)
	if NoColor != nil && *NoColor {
		color.NoColor = true
	}

	return cfg, nil
}

func newDownloadManager(cfg *config.Config) download.Manager {
	return download.NewManager(cfg.Settings.HTTPTimeout, "kpm/"+Version)
}

func newIndexManager(cfg *config.Config) *index.Manager {
	return index.NewManager(cfg.IndexRepositories(), cfg.IndexDir(), newDownloadManager(cfg))
}

// buildManager wires the lifecycle manager with its collaborators and loads
// whatever index caches exist. A missing index cache is fine for operations
// that only touch installed packages.
func buildManager(cfg *config.Config) (*manager.Manager, error) {
	store, err := catalog.NewFileStore(cfg.InstalledDBPath())
	if err != nil {
		return nil, err
	}

	dl := newDownloadManager(cfg)
	showProgress := !(NoColor != nil && *NoColor)

	m, err := manager.New(manager.Config{
		Store:    store,
		Fetcher:  download.NewPackageFetcher(dl, cfg.PackageCacheDir(), showProgress),
		Unpacker: archive.NewExtractor(),
		Hooks:    hook.NewDirRunner(),
		DataDir:  cfg.Settings.InstallDir,
		MetaDir:  cfg.Settings.MetaDir,
	})
	if err != nil {
		return nil, err
	}

	if available, err := newIndexManager(cfg).Load(); err == nil {
		m.RefreshAvailable(available)
	} else {
		logger.Debugf("no usable index cache: %v", err)
	}
	return m, nil
}
