// Package manager implements the package lifecycle manager: it owns the
// catalog, invokes the resolver, and drives each affected package through
// the install/remove state machine, persisting the installed set after every
// successful mutation.
//
// All mutating operations run under one exclusive lock so the resolver
// always plans against the same snapshot the mutation is applied to.
// Read-only queries go through catalog snapshots and may run concurrently.
package manager

import (
	"strings"
	"sync"

	"github.com/kpm-work/kpm/internal/logger"
	"github.com/kpm-work/kpm/pkg/catalog"
	"github.com/kpm-work/kpm/pkg/errors"
	"github.com/kpm-work/kpm/pkg/model"
	"github.com/kpm-work/kpm/pkg/resolve"
)

// Manager is the lifecycle manager. Construct it once with New and pass it
// by reference; there is deliberately no package-level instance.
type Manager struct {
	mu sync.Mutex // single-writer lock over resolve+mutate+persist

	catalog  *catalog.Catalog
	store    catalog.Store
	fetcher  Fetcher
	unpacker Unpacker
	hooks    HookRunner

	dataDir string // root for per-package data directories
	metaDir string // root for per-package meta/config directories
}

// Config carries the collaborators and paths a Manager needs.
type Config struct {
	Store    catalog.Store
	Fetcher  Fetcher
	Unpacker Unpacker
	Hooks    HookRunner
	DataDir  string
	MetaDir  string
}

// New constructs a Manager and loads the installed catalog from the store.
func New(cfg Config) (*Manager, error) {
	installed, err := cfg.Store.LoadInstalled()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load installed catalog")
	}
	cat := catalog.New()
	cat.SetInstalled(installed)
	return &Manager{
		catalog:  cat,
		store:    cfg.Store,
		fetcher:  cfg.Fetcher,
		unpacker: cfg.Unpacker,
		hooks:    cfg.Hooks,
		dataDir:  cfg.DataDir,
		metaDir:  cfg.MetaDir,
	}, nil
}

// RefreshAvailable replaces the available catalog wholesale with the result
// of a repository sync.
func (m *Manager) RefreshAvailable(pkgs map[string]*model.Package) {
	m.catalog.ReplaceAvailable(pkgs)
	logger.Debugf("available catalog refreshed with %d packages", len(pkgs))
}

// Plan resolves an install request without mutating anything, for dry runs
// and pre-confirmation display.
func (m *Manager) Plan(requested []string, includeRecommends bool) *model.InstallPlan {
	return resolve.Plan(m.catalog.Snapshot(), requested, includeRecommends)
}

// Hold marks an installed package so upgrades skip it. Fails with
// ErrNotInstalled if the package is not installed.
func (m *Manager) Hold(name string) error {
	return m.setHold(name, true)
}

// Unhold clears the hold flag.
func (m *Manager) Unhold(name string) error {
	return m.setHold(name, false)
}

func (m *Manager) setHold(name string, hold bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pkg, ok := m.catalog.Installed(name)
	if !ok {
		return errors.Wrapf(errors.ErrNotInstalled, "cannot change hold for %s", name)
	}
	if pkg.Hold == hold {
		return nil
	}
	pkg.Hold = hold
	if err := m.catalog.UpsertInstalled(pkg); err != nil {
		return err
	}
	return m.persist()
}

// Installed returns the installed package by name.
func (m *Manager) Installed(name string) (*model.Package, bool) {
	return m.catalog.Installed(name)
}

// Available returns the available package by name.
func (m *Manager) Available(name string) (*model.Package, bool) {
	return m.catalog.Available(name)
}

// InstalledPackages lists installed packages sorted by name.
func (m *Manager) InstalledPackages() []*model.Package {
	return m.catalog.InstalledPackages()
}

// AvailablePackages lists available packages sorted by name.
func (m *Manager) AvailablePackages() []*model.Package {
	return m.catalog.AvailablePackages()
}

// UpgradablePackages returns the installed packages whose available
// counterpart is strictly newer, held packages excluded.
func (m *Manager) UpgradablePackages() []*model.Package {
	var out []*model.Package
	for _, inst := range m.catalog.InstalledPackages() {
		if inst.Hold || inst.State != model.StateInstalled {
			continue
		}
		avail, ok := m.catalog.Available(inst.Name)
		if !ok {
			continue
		}
		if avail.Version.Compare(inst.Version) > 0 {
			out = append(out, avail)
		}
	}
	return out
}

// persist writes the full installed set to the store. Persistence failures
// are fatal: the caller must not report success once in-memory and on-disk
// state can diverge.
func (m *Manager) persist() error {
	if err := m.store.SaveInstalled(m.catalog.InstalledMap()); err != nil {
		return errors.Wrap(errors.ErrPersist, err.Error())
	}
	return nil
}

// resolutionError turns a blocked plan into a single aggregate error carrying
// every collected message.
func resolutionError(plan *model.InstallPlan) error {
	return errors.Wrapf(errors.ErrResolution, "%s", strings.Join(plan.ErrorMessages(), "; "))
}
