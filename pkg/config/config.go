// Package config loads and validates the kpm configuration file. It supports
// YAML configuration with sensible defaults so a missing config file still
// yields a working setup.
package config

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	pkgerrors "github.com/kpm-work/kpm/pkg/errors"
	"github.com/kpm-work/kpm/pkg/fsutil"
	"github.com/kpm-work/kpm/pkg/index"
)

// Config represents the application configuration.
type Config struct {
	Repositories []*RepositoryConfig `yaml:"repositories"`
	Settings     Settings            `yaml:"settings"`
}

// RepositoryConfig represents a single repository entry in the config file.
type RepositoryConfig struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Enabled  bool   `yaml:"enabled"`
	Priority uint   `yaml:"priority"`
}

// Settings represents general application settings.
type Settings struct {
	CacheDir string `yaml:"cache_dir,omitempty"`
	StateDir string `yaml:"state_dir,omitempty"`

	// InstallDir is the root under which package data is unpacked; MetaDir
	// holds per-package metadata and hook scripts.
	InstallDir string `yaml:"install_dir,omitempty"`
	MetaDir    string `yaml:"meta_dir,omitempty"`

	HTTPTimeout   time.Duration `yaml:"http_timeout"`
	MaxConcurrent int           `yaml:"max_concurrent_downloads"`

	InstallRecommends bool   `yaml:"install_recommends"`
	LogLevel          string `yaml:"log_level"` // debug, info, warn, error
}

const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultMaxConcurrent is the default number of parallel downloads.
	DefaultMaxConcurrent = 4

	yamlIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	dataDir, err := userDataDir()
	if err != nil {
		dataDir = "."
	}
	base := filepath.Join(dataDir, "kpm")

	return &Config{
		Repositories: []*RepositoryConfig{},
		Settings: Settings{
			CacheDir:          filepath.Join(base, "cache"),
			StateDir:          filepath.Join(base, "state"),
			InstallDir:        filepath.Join(base, "packages"),
			MetaDir:           filepath.Join(base, "meta"),
			HTTPTimeout:       DefaultHTTPTimeout,
			MaxConcurrent:     DefaultMaxConcurrent,
			InstallRecommends: true,
			LogLevel:          "info",
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the
// default configuration.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, pkgerrors.ErrEmptyConfigPath
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrInvalidPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, pkgerrors.Wrapf(err, "failed to open config file %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig writes the configuration atomically.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return pkgerrors.ErrEmptyConfigPath
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrInvalidPath, err.Error())
	}
	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeDefault); err != nil {
		return pkgerrors.Wrap(err, "failed to create config directory")
	}

	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to create config file")
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(yamlIndent)
	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return pkgerrors.Wrap(err, "failed to encode config")
	}
	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return pkgerrors.Wrap(err, "failed to write config file")
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return pkgerrors.ErrConfigValidation
	}
	seen := make(map[string]bool)
	for i, repo := range c.Repositories {
		if repo.Name == "" {
			return fmt.Errorf("repository %d has no name: %w", i, pkgerrors.ErrConfigValidation)
		}
		if repo.URL == "" {
			return fmt.Errorf("repository %s has no URL: %w", repo.Name, pkgerrors.ErrConfigValidation)
		}
		if _, err := url.Parse(repo.URL); err != nil {
			return fmt.Errorf("repository %s has an invalid URL: %w", repo.Name, pkgerrors.ErrConfigValidation)
		}
		if seen[repo.Name] {
			return fmt.Errorf("duplicate repository name %s: %w", repo.Name, pkgerrors.ErrConfigValidation)
		}
		seen[repo.Name] = true
	}

	if c.Settings.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout must not be negative: %w", pkgerrors.ErrConfigValidation)
	}
	if c.Settings.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent_downloads must be at least 1: %w", pkgerrors.ErrConfigValidation)
	}
	switch strings.ToLower(c.Settings.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q: %w", c.Settings.LogLevel, pkgerrors.ErrConfigValidation)
	}
	return nil
}

// IndexRepositories converts the configured repositories into the form the
// index manager consumes. Entries with unparseable URLs were already rejected
// by Validate.
func (c *Config) IndexRepositories() []*index.Repository {
	out := make([]*index.Repository, 0, len(c.Repositories))
	for _, repo := range c.Repositories {
		u, err := url.Parse(repo.URL)
		if err != nil {
			continue
		}
		out = append(out, &index.Repository{
			Name:     repo.Name,
			URL:      u,
			Priority: repo.Priority,
			Enabled:  repo.Enabled,
		})
	}
	return out
}

// GetRepository gets a repository configuration by name.
func (c *Config) GetRepository(name string) *RepositoryConfig {
	for _, repo := range c.Repositories {
		if repo.Name == name {
			return repo
		}
	}
	return nil
}

// AddRepository adds a repository to the configuration. It fails if a
// repository with the same name already exists.
func (c *Config) AddRepository(name, rawURL string, priority uint) error {
	if c.GetRepository(name) != nil {
		return fmt.Errorf("repository %s already exists: %w", name, pkgerrors.ErrConfigValidation)
	}
	c.Repositories = append(c.Repositories, &RepositoryConfig{
		Name:     name,
		URL:      rawURL,
		Enabled:  true,
		Priority: priority,
	})
	return nil
}

// RemoveRepository removes a repository from the configuration.
func (c *Config) RemoveRepository(name string) bool {
	for i, repo := range c.Repositories {
		if repo.Name == name {
			c.Repositories = append(c.Repositories[:i], c.Repositories[i+1:]...)
			return true
		}
	}
	return false
}

// InstalledDBPath returns the path of the installed package database.
func (c *Config) InstalledDBPath() string {
	return filepath.Join(c.Settings.StateDir, "installed.json")
}

// IndexDir returns the repository index cache directory.
func (c *Config) IndexDir() string {
	return filepath.Join(c.Settings.CacheDir, "indexes")
}

// PackageCacheDir returns the downloaded archive cache directory.
func (c *Config) PackageCacheDir() string {
	return filepath.Join(c.Settings.CacheDir, "packages")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "kpm", "config.yaml"), nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = defaults.Settings.HTTPTimeout
	}
	if c.Settings.MaxConcurrent == 0 {
		c.Settings.MaxConcurrent = defaults.Settings.MaxConcurrent
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
	if c.Settings.CacheDir == "" {
		c.Settings.CacheDir = defaults.Settings.CacheDir
	}
	if c.Settings.StateDir == "" {
		c.Settings.StateDir = defaults.Settings.StateDir
	}
	if c.Settings.InstallDir == "" {
		c.Settings.InstallDir = defaults.Settings.InstallDir
	}
	if c.Settings.MetaDir == "" {
		c.Settings.MetaDir = defaults.Settings.MetaDir
	}
}

func userDataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir, nil
	}
	if runtime.GOOS == "linux" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		return filepath.Join(homeDir, ".local", "share"), nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return configDir, nil
}
