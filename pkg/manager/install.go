package manager

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"time"

	"github.com/kpm-work/kpm/internal/logger"
	"github.com/kpm-work/kpm/pkg/errors"
	"github.com/kpm-work/kpm/pkg/hook"
	"github.com/kpm-work/kpm/pkg/model"
	"github.com/kpm-work/kpm/pkg/resolve"
)

// InstallOptions control an install batch.
type InstallOptions struct {
	// NoRecommends skips recommended packages during resolution.
	NoRecommends bool
	// AutoFixBroken proceeds package-by-package through a plan with errors
	// and tolerates individual failures instead of aborting the batch.
	AutoFixBroken bool
	// DownloadOnly fetches and verifies archives without installing.
	DownloadOnly bool
	// AssumeYes suppresses interactive confirmation at the CLI layer; the
	// manager itself never prompts.
	AssumeYes bool

	// fromUpgrade keeps each package's recorded install reason instead of
	// marking requested names as manually installed.
	fromUpgrade bool
}

// Result reports what a batch operation actually did. Partial batches are a
// normal outcome: the installed catalog always reflects exactly which
// packages completed.
type Result struct {
	Installed  []string
	Downloaded []string
	Removed    []string
	Failed     []string
	Skipped    []string
	Warnings   []string
	Cancelled  bool
}

// Install resolves the requested names and drives every planned package
// through the install state machine. With a blocked plan and no
// AutoFixBroken the catalog is left untouched.
func (m *Manager) Install(ctx context.Context, names []string, opts InstallOptions) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.install(ctx, names, opts)
}

// install is the lock-free body shared with Upgrade.
func (m *Manager) install(ctx context.Context, names []string, opts InstallOptions) (*Result, error) {
	plan := resolve.Plan(m.catalog.Snapshot(), names, !opts.NoRecommends)
	if plan.HasErrors() && !opts.AutoFixBroken {
		return nil, resolutionError(plan)
	}

	result := &Result{}
	for _, msg := range plan.ErrorMessages() {
		result.Warnings = append(result.Warnings, msg)
	}

	requested := make(map[string]struct{}, len(names))
	for _, name := range names {
		requested[name] = struct{}{}
	}

	// Fetch phase. Before any state mutation, so an aborted batch leaves the
	// catalog untouched.
	archives := make(map[string]string, len(plan.ToInstall))
	for _, pkg := range plan.ToInstall {
		if err := ctx.Err(); err != nil {
			result.Cancelled = true
			return result, nil
		}
		path, err := m.fetcher.FetchAndVerify(ctx, pkg)
		if err != nil {
			if !opts.AutoFixBroken {
				return nil, errors.Wrapf(err, "failed to fetch %s", pkg.ID())
			}
			logger.Warnf("skipping %s: %v", pkg.ID(), err)
			result.Failed = append(result.Failed, pkg.Name)
			continue
		}
		archives[pkg.Name] = path
		result.Downloaded = append(result.Downloaded, pkg.Name)
	}

	if opts.DownloadOnly {
		return result, nil
	}

	// Execute phase: state machine per package, in resolver order.
	for _, pkg := range plan.ToInstall {
		path, ok := archives[pkg.Name]
		if !ok {
			continue // fetch already failed above
		}
		if err := ctx.Err(); err != nil {
			// Cancellation between packages: already-installed packages stay
			// installed, unprocessed ones stay untouched.
			result.Cancelled = true
			return result, nil
		}

		auto := true
		if _, ok := requested[pkg.Name]; ok {
			auto = false
		}
		if err := m.installOne(ctx, pkg, path, auto, opts.fromUpgrade); err != nil {
			result.Failed = append(result.Failed, pkg.Name)
			if stderrors.Is(err, errors.ErrPersist) {
				return result, err
			}
			if !opts.AutoFixBroken {
				return result, err
			}
			logger.Warnf("continuing past broken package %s: %v", pkg.ID(), err)
			continue
		}
		result.Installed = append(result.Installed, pkg.Name)
	}

	if len(result.Failed) > 0 {
		return result, errors.Wrapf(errors.ErrPartialFailure, "%d of %d packages failed", len(result.Failed), len(plan.ToInstall))
	}
	return result, nil
}

// installOne drives a single package through
// half-installed → unpacked → half-configured → installed. A failing step
// leaves the package broken in the installed catalog; already-applied side
// effects are not rolled back. Best-effort, not transactional.
func (m *Manager) installOne(ctx context.Context, pkg *model.Package, archivePath string, auto, keepReason bool) error {
	pkg = pkg.Clone()
	pkg.AutoInstalled = auto
	pkg.DataDir = filepath.Join(m.dataDir, pkg.Name)
	pkg.MetaDir = filepath.Join(m.metaDir, pkg.Name)

	// Carry hold and install reason across reinstalls and upgrades. An
	// explicit install of an auto-installed package marks it manual; an
	// upgrade keeps whatever reason was recorded.
	if prev, ok := m.catalog.Installed(pkg.Name); ok {
		pkg.Hold = prev.Hold
		if keepReason {
			pkg.AutoInstalled = prev.AutoInstalled
		} else {
			pkg.AutoInstalled = pkg.AutoInstalled && prev.AutoInstalled
		}
	}

	hctx := hook.Context{
		PackageName:    pkg.Name,
		PackageVersion: pkg.Version.String(),
		PackageDir:     pkg.DataDir,
	}

	logger.Debugf("installing %s", pkg.ID())

	if err := m.transition(pkg, model.StateHalfInstalled); err != nil {
		return err
	}
	if err := m.unpacker.Unpack(ctx, archivePath, pkg.DataDir); err != nil {
		return m.breakPackage(pkg, err)
	}
	if err := m.transition(pkg, model.StateUnpacked); err != nil {
		return err
	}
	if err := m.hooks.Run(ctx, hook.PreInstall, hctx); err != nil {
		return m.breakPackage(pkg, err)
	}
	if err := m.transition(pkg, model.StateHalfConfigured); err != nil {
		return err
	}
	if err := m.hooks.Run(ctx, hook.PostInstall, hctx); err != nil {
		return m.breakPackage(pkg, err)
	}

	now := time.Now()
	pkg.State = model.StateInstalled
	pkg.InstallTime = &now
	if err := m.catalog.UpsertInstalled(pkg); err != nil {
		return err
	}
	if err := m.persist(); err != nil {
		return err
	}
	logger.Infof("installed %s", pkg.ID())
	return nil
}

// transition records an intermediate lifecycle state in the installed
// catalog so a crash mid-install is visible afterwards.
func (m *Manager) transition(pkg *model.Package, state model.State) error {
	pkg.State = state
	return m.catalog.UpsertInstalled(pkg)
}

// breakPackage marks the package broken, persists the fact, and returns the
// step error wrapped as a lifecycle failure.
func (m *Manager) breakPackage(pkg *model.Package, cause error) error {
	pkg.State = model.StateBroken
	if err := m.catalog.UpsertInstalled(pkg); err != nil {
		return err
	}
	if err := m.persist(); err != nil {
		return err
	}
	return errors.Wrapf(errors.ErrLifecycle, "%s broke during install: %v", pkg.ID(), cause)
}
