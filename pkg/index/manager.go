package index

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/kpm-work/kpm/internal/logger"
	"github.com/kpm-work/kpm/pkg/download"
	pkgerrors "github.com/kpm-work/kpm/pkg/errors"
	"github.com/kpm-work/kpm/pkg/model"
)

// Manager syncs repository indexes to a local directory and merges them into
// the available package set.
type Manager struct {
	repos    []*Repository
	indexDir string
	fetcher  download.Manager
}

// NewManager creates an index manager over the given repositories. Indexes
// are cached under indexDir as <repository>.json.
func NewManager(repos []*Repository, indexDir string, fetcher download.Manager) *Manager {
	return &Manager{repos: repos, indexDir: indexDir, fetcher: fetcher}
}

// IndexPath returns the local cache path of a repository's index.
func (m *Manager) IndexPath(repoName string) string {
	return filepath.Join(m.indexDir, repoName+".json")
}

// Sync downloads the index of every enabled repository. A repository that
// fails to sync is logged and skipped; Sync fails only when no repository
// could be synced.
func (m *Manager) Sync(ctx context.Context) error {
	enabled := m.enabledRepos()
	if len(enabled) == 0 {
		return pkgerrors.ErrNoRepositories
	}

	var synced int
	var lastErr error
	for _, repo := range enabled {
		if err := ctx.Err(); err != nil {
			return err
		}
		item := download.Item{
			ID:       repo.Name,
			URL:      repo.IndexURL(),
			Filename: repo.Name + ".json",
		}
		if _, err := m.fetcher.Fetch(ctx, item, download.Options{Dir: m.indexDir}); err != nil {
			logger.Warnf("Failed to sync repository %s: %v", repo.Name, err)
			lastErr = err
			continue
		}
		logger.Debugf("Synced repository %s", repo.Name)
		synced++
	}
	if synced == 0 {
		return pkgerrors.Wrap(lastErr, "all repositories failed to sync")
	}
	return nil
}

// CacheAge returns how old a repository's cached index is.
func (m *Manager) CacheAge(repoName string) (time.Duration, error) {
	st, err := os.Stat(m.IndexPath(repoName))
	if err != nil {
		return 0, pkgerrors.Wrapf(err, "no cached index for repository %s", repoName)
	}
	return time.Since(st.ModTime()), nil
}

// Load parses every enabled repository's cached index and merges them into a
// single available set keyed by package name. When two repositories carry the
// same name, the higher priority repository wins; at equal priority the newer
// version wins.
func (m *Manager) Load() (map[string]*model.Package, error) {
	enabled := m.enabledRepos()
	if len(enabled) == 0 {
		return nil, pkgerrors.ErrNoRepositories
	}

	// Stable merge order: priority descending, then name.
	repos := make([]*Repository, len(enabled))
	copy(repos, enabled)
	sort.Slice(repos, func(i, j int) bool {
		if repos[i].Priority != repos[j].Priority {
			return repos[i].Priority > repos[j].Priority
		}
		return repos[i].Name < repos[j].Name
	})

	available := make(map[string]*model.Package)
	priorities := make(map[string]uint)
	var loaded int

	for _, repo := range repos {
		idx, err := ParseIndexFromFile(m.IndexPath(repo.Name))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				logger.Debugf("Repository %s has no cached index, skipping", repo.Name)
				continue
			}
			return nil, fmt.Errorf("repository %s: %w", repo.Name, err)
		}
		idx.ResolveFilenames(repo.URL)
		loaded++

		for _, pkg := range idx.Packages {
			existing, ok := available[pkg.Name]
			if ok {
				if priorities[pkg.Name] > repo.Priority {
					continue
				}
				if priorities[pkg.Name] == repo.Priority && existing.Version.Compare(pkg.Version) >= 0 {
					continue
				}
			}
			available[pkg.Name] = pkg
			priorities[pkg.Name] = repo.Priority
		}
	}

	if loaded == 0 {
		return nil, fmt.Errorf("no repository index is cached, run sync first: %w", pkgerrors.ErrNoRepositories)
	}
	return available, nil
}

func (m *Manager) enabledRepos() []*Repository {
	out := make([]*Repository, 0, len(m.repos))
	for _, repo := range m.repos {
		if repo.Enabled {
			out = append(out, repo)
		}
	}
	return out
}
