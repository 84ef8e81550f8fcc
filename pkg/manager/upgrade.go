package manager

import (
	"context"

	"github.com/kpm-work/kpm/internal/logger"
	"github.com/kpm-work/kpm/pkg/errors"
)

// UpgradeOptions control an upgrade batch.
type UpgradeOptions struct {
	AssumeYes bool
}

// Upgrade installs newer available versions of installed packages. With no
// names every upgradable package is taken, held packages silently excluded.
// Explicitly naming a held package is an error, never a silent override, and
// naming a package that is not installed fails with ErrNotInstalled.
func (m *Manager) Upgrade(ctx context.Context, names []string, opts UpgradeOptions) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var candidates []string
	if len(names) == 0 {
		for _, pkg := range m.UpgradablePackages() {
			candidates = append(candidates, pkg.Name)
		}
	} else {
		for _, name := range names {
			inst, ok := m.catalog.Installed(name)
			if !ok {
				return nil, errors.Wrapf(errors.ErrNotInstalled, "cannot upgrade %s", name)
			}
			if inst.Hold {
				return nil, errors.Wrapf(errors.ErrHeldPackage, "cannot upgrade %s", name)
			}
			avail, ok := m.catalog.Available(name)
			if !ok || avail.Version.Compare(inst.Version) <= 0 {
				logger.Debugf("%s is already at the newest version", name)
				continue
			}
			candidates = append(candidates, name)
		}
	}

	if len(candidates) == 0 {
		logger.Infof("nothing to upgrade")
		return &Result{}, nil
	}
	return m.install(ctx, candidates, InstallOptions{AssumeYes: opts.AssumeYes, fromUpgrade: true})
}
