package manager

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kpm-work/kpm/internal/logger"
	"github.com/kpm-work/kpm/pkg/errors"
	"github.com/kpm-work/kpm/pkg/hook"
	"github.com/kpm-work/kpm/pkg/model"
	"github.com/kpm-work/kpm/pkg/resolve"
)

// RemoveOptions control a remove batch.
type RemoveOptions struct {
	// Purge also deletes configuration files, fully returning each package
	// to not-installed.
	Purge bool
	// AssumeYes suppresses interactive confirmation at the CLI layer.
	AssumeYes bool
}

// Remove uninstalls the named packages in a dependency-safe order:
// dependents are removed no later than their dependencies. Names that are
// not installed are reported; the batch proceeds with the rest and fails
// outright only when nothing in the request is installed.
func (m *Manager) Remove(ctx context.Context, names []string, opts RemoveOptions) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := &Result{}
	var present []string
	var missing []string
	for _, name := range names {
		if _, ok := m.catalog.Installed(name); ok {
			present = append(present, name)
		} else {
			missing = append(missing, name)
		}
	}
	if len(present) == 0 {
		return nil, errors.Wrapf(errors.ErrNotInstalled, "%s", strings.Join(names, ", "))
	}
	for _, name := range missing {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s is not installed, skipping", name))
		result.Skipped = append(result.Skipped, name)
	}

	snap := m.catalog.Snapshot()
	order, forced := resolve.RemovalOrder(snap.Installed, present)
	if forced {
		result.Warnings = append(result.Warnings,
			"dependency cycle among packages being removed; removal order is forced and may leave dependents briefly broken")
	}

	var batchErr error
	for _, name := range order {
		if err := ctx.Err(); err != nil {
			result.Cancelled = true
			break
		}
		if err := m.removeOne(ctx, name, opts.Purge); err != nil {
			result.Failed = append(result.Failed, name)
			batchErr = err
			break
		}
		result.Removed = append(result.Removed, name)
	}

	if err := m.persist(); err != nil {
		return result, err
	}
	if batchErr != nil {
		if len(result.Removed) > 0 {
			return result, errors.Wrapf(errors.ErrPartialFailure, "removed %d packages before failing: %v", len(result.Removed), batchErr)
		}
		return result, batchErr
	}
	return result, nil
}

// removeOne applies the remove state machine to a single package:
// installed → config-files without purge, installed → not-installed (entry
// dropped) with purge. Hook failures leave the package broken.
func (m *Manager) removeOne(ctx context.Context, name string, purge bool) error {
	pkg, ok := m.catalog.Installed(name)
	if !ok {
		return errors.Wrapf(errors.ErrNotInstalled, "%s", name)
	}
	if pkg.State == model.StateConfigFiles && !purge {
		// Nothing left to remove besides config files.
		return nil
	}

	hctx := hook.Context{
		PackageName:    pkg.Name,
		PackageVersion: pkg.Version.String(),
		PackageDir:     pkg.DataDir,
		Vars:           map[string]interface{}{"purge": purge},
	}

	if err := m.hooks.Run(ctx, hook.PreRemove, hctx); err != nil {
		return m.breakPackage(pkg, err)
	}

	if pkg.DataDir != "" {
		if err := os.RemoveAll(pkg.DataDir); err != nil {
			return m.breakPackage(pkg, err)
		}
	}

	if purge {
		if pkg.MetaDir != "" {
			if err := os.RemoveAll(pkg.MetaDir); err != nil {
				return m.breakPackage(pkg, err)
			}
		}
		m.catalog.RemoveInstalled(pkg.Name)
		logger.Infof("purged %s", pkg.ID())
	} else {
		pkg.State = model.StateConfigFiles
		pkg.InstallTime = nil
		pkg.DataDir = ""
		if err := m.catalog.UpsertInstalled(pkg); err != nil {
			return err
		}
		logger.Infof("removed %s (config files retained)", pkg.ID())
	}

	// Post-remove hook failures are logged, not fatal: the package is
	// already gone.
	if err := m.hooks.Run(ctx, hook.PostRemove, hctx); err != nil {
		logger.Warnf("post-remove hook for %s: %v", pkg.ID(), err)
	}
	return nil
}
