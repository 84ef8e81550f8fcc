package manager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/kpm-work/kpm/pkg/errors"
	"github.com/kpm-work/kpm/pkg/model"
)

func TestUpgrade_AllUpgradable(t *testing.T) {
	env := newTestEnv(t)

	held := installedPkg("held", "1.0")
	held.Hold = true
	env.seedInstalled(t, installedPkg("old", "1.0"), installedPkg("current", "2.0"), held)
	env.seedAvailable(availPkg("old", "2.0"), availPkg("current", "2.0"), availPkg("held", "9.0"))
	env.expectFullInstall(1)

	result, err := env.m.Upgrade(context.Background(), nil, UpgradeOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"old"}, result.Installed)

	pkg, ok := env.m.Installed("old")
	require.True(t, ok)
	assert.Equal(t, "2.0", pkg.Version.String())

	pkg, ok = env.m.Installed("held")
	require.True(t, ok)
	assert.Equal(t, "1.0", pkg.Version.String(), "held package is silently excluded")
}

func TestUpgrade_ExplicitHeldFails(t *testing.T) {
	env := newTestEnv(t)

	held := installedPkg("held", "1.0")
	held.Hold = true
	env.seedInstalled(t, held)
	env.seedAvailable(availPkg("held", "2.0"))

	_, err := env.m.Upgrade(context.Background(), []string{"held"}, UpgradeOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrHeldPackage)
}

func TestUpgrade_ExplicitMissingFails(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.m.Upgrade(context.Background(), []string{"ghost"}, UpgradeOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrNotInstalled)
}

func TestUpgrade_NothingToDo(t *testing.T) {
	env := newTestEnv(t)
	env.seedInstalled(t, installedPkg("current", "2.0"))
	env.seedAvailable(availPkg("current", "2.0"))

	result, err := env.m.Upgrade(context.Background(), nil, UpgradeOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Installed)

	// explicitly naming an up-to-date package is also fine
	result, err = env.m.Upgrade(context.Background(), []string{"current"}, UpgradeOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Installed)
}

func TestUpgrade_CarriesAutoInstalledFlag(t *testing.T) {
	env := newTestEnv(t)

	auto := installedPkg("lib", "1.0")
	auto.AutoInstalled = true
	env.seedInstalled(t, auto)
	env.seedAvailable(availPkg("lib", "2.0"))
	env.expectFullInstall(1)

	_, err := env.m.Upgrade(context.Background(), nil, UpgradeOptions{})
	require.NoError(t, err)

	pkg, ok := env.m.Installed("lib")
	require.True(t, ok)
	assert.Equal(t, model.StateInstalled, pkg.State)
	assert.True(t, pkg.AutoInstalled, "upgrade keeps the original install reason")
}
