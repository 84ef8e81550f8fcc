package manager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/kpm-work/kpm/pkg/catalog"
	pkgerrors "github.com/kpm-work/kpm/pkg/errors"
	"github.com/kpm-work/kpm/pkg/hook"
	"github.com/kpm-work/kpm/pkg/model"
)

func (env *testEnv) expectRemoveHooks(n int) {
	env.hooks.EXPECT().Run(gomock.Any(), hook.PreRemove, gomock.Any()).Return(nil).Times(n)
	env.hooks.EXPECT().Run(gomock.Any(), hook.PostRemove, gomock.Any()).Return(nil).Times(n)
}

func TestRemove_DependentBeforeDependency(t *testing.T) {
	env := newTestEnv(t)

	app := installedPkg("app", "1.0")
	app.Depends = []model.Dependency{dep("lib")}
	env.seedInstalled(t, app, installedPkg("lib", "1.0"))
	env.expectRemoveHooks(2)

	result, err := env.m.Remove(context.Background(), []string{"lib", "app"}, RemoveOptions{Purge: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"app", "lib"}, result.Removed)
	assert.Empty(t, env.m.InstalledPackages())
}

func TestRemove_RetainsConfigFilesWithoutPurge(t *testing.T) {
	env := newTestEnv(t)

	dataDir := filepath.Join(t.TempDir(), "data", "app")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	app := installedPkg("app", "1.0")
	app.DataDir = dataDir
	app.MetaDir = filepath.Join(t.TempDir(), "meta", "app")
	env.seedInstalled(t, app)
	env.expectRemoveHooks(1)

	result, err := env.m.Remove(context.Background(), []string{"app"}, RemoveOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"app"}, result.Removed)

	pkg, ok := env.m.Installed("app")
	require.True(t, ok, "non-purge removal keeps the catalog entry")
	assert.Equal(t, model.StateConfigFiles, pkg.State)
	assert.Nil(t, pkg.InstallTime)
	assert.Empty(t, pkg.DataDir)
	assert.NotEmpty(t, pkg.MetaDir)

	_, statErr := os.Stat(dataDir)
	assert.True(t, os.IsNotExist(statErr), "package data is deleted")
}

func TestRemove_PurgeDropsEntry(t *testing.T) {
	env := newTestEnv(t)
	env.seedInstalled(t, installedPkg("app", "1.0"))
	env.expectRemoveHooks(1)

	_, err := env.m.Remove(context.Background(), []string{"app"}, RemoveOptions{Purge: true})
	require.NoError(t, err)

	_, ok := env.m.Installed("app")
	assert.False(t, ok)

	// durable
	store, err := catalog.NewFileStore(env.dbPath)
	require.NoError(t, err)
	reloaded, err := New(Config{Store: store})
	require.NoError(t, err)
	_, ok = reloaded.Installed("app")
	assert.False(t, ok)
}

func TestRemove_PurgeOfConfigFilesPackage(t *testing.T) {
	env := newTestEnv(t)

	leftover := installedPkg("app", "1.0")
	leftover.State = model.StateConfigFiles
	leftover.InstallTime = nil
	env.seedInstalled(t, leftover)
	env.expectRemoveHooks(1)

	_, err := env.m.Remove(context.Background(), []string{"app"}, RemoveOptions{Purge: true})
	require.NoError(t, err)

	_, ok := env.m.Installed("app")
	assert.False(t, ok)
}

func TestRemove_ConfigFilesPackageWithoutPurgeIsNoOp(t *testing.T) {
	env := newTestEnv(t)

	leftover := installedPkg("app", "1.0")
	leftover.State = model.StateConfigFiles
	leftover.InstallTime = nil
	env.seedInstalled(t, leftover)
	// no hook expectations: nothing runs

	result, err := env.m.Remove(context.Background(), []string{"app"}, RemoveOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"app"}, result.Removed)

	pkg, ok := env.m.Installed("app")
	require.True(t, ok)
	assert.Equal(t, model.StateConfigFiles, pkg.State)
}

func TestRemove_MissingNamesAreWarnings(t *testing.T) {
	env := newTestEnv(t)
	env.seedInstalled(t, installedPkg("app", "1.0"))
	env.expectRemoveHooks(1)

	result, err := env.m.Remove(context.Background(), []string{"app", "ghost"}, RemoveOptions{Purge: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"app"}, result.Removed)
	assert.Equal(t, []string{"ghost"}, result.Skipped)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "ghost")
}

func TestRemove_AllMissingFails(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.m.Remove(context.Background(), []string{"ghost", "phantom"}, RemoveOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrNotInstalled)
}

func TestRemove_CycleForcesOrderWithWarning(t *testing.T) {
	env := newTestEnv(t)

	a := installedPkg("a", "1.0")
	a.Depends = []model.Dependency{dep("b")}
	b := installedPkg("b", "1.0")
	b.Depends = []model.Dependency{dep("a")}
	env.seedInstalled(t, a, b)
	env.expectRemoveHooks(2)

	result, err := env.m.Remove(context.Background(), []string{"a", "b"}, RemoveOptions{Purge: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, result.Removed)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "cycle")
}

func TestRemove_PreRemoveHookFailureBreaksPackage(t *testing.T) {
	env := newTestEnv(t)

	app := installedPkg("app", "1.0")
	app.Depends = []model.Dependency{dep("lib")}
	env.seedInstalled(t, app, installedPkg("lib", "1.0"))

	env.hooks.EXPECT().Run(gomock.Any(), hook.PreRemove, gomock.Any()).Return(fmt.Errorf("refusing to stop"))

	result, err := env.m.Remove(context.Background(), []string{"app", "lib"}, RemoveOptions{Purge: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrLifecycle)
	assert.Equal(t, []string{"app"}, result.Failed)

	pkg, ok := env.m.Installed("app")
	require.True(t, ok)
	assert.Equal(t, model.StateBroken, pkg.State)

	// lib was never reached
	pkg, ok = env.m.Installed("lib")
	require.True(t, ok)
	assert.Equal(t, model.StateInstalled, pkg.State)
}

func TestRemove_PostRemoveHookFailureIsLoggedOnly(t *testing.T) {
	env := newTestEnv(t)
	env.seedInstalled(t, installedPkg("app", "1.0"))

	env.hooks.EXPECT().Run(gomock.Any(), hook.PreRemove, gomock.Any()).Return(nil)
	env.hooks.EXPECT().Run(gomock.Any(), hook.PostRemove, gomock.Any()).Return(fmt.Errorf("cleanup grumbled"))

	result, err := env.m.Remove(context.Background(), []string{"app"}, RemoveOptions{Purge: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"app"}, result.Removed)

	_, ok := env.m.Installed("app")
	assert.False(t, ok)
}

func TestRemove_Cancellation(t *testing.T) {
	env := newTestEnv(t)

	app := installedPkg("app", "1.0")
	app.Depends = []model.Dependency{dep("lib")}
	env.seedInstalled(t, app, installedPkg("lib", "1.0"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	env.hooks.EXPECT().Run(gomock.Any(), hook.PreRemove, gomock.Any()).Return(nil)
	env.hooks.EXPECT().Run(gomock.Any(), hook.PostRemove, gomock.Any()).DoAndReturn(
		func(context.Context, hook.Phase, hook.Context) error {
			cancel()
			return nil
		})

	result, err := env.m.Remove(ctx, []string{"app", "lib"}, RemoveOptions{Purge: true})
	require.NoError(t, err)

	assert.True(t, result.Cancelled)
	assert.Equal(t, []string{"app"}, result.Removed)

	_, ok := env.m.Installed("lib")
	assert.True(t, ok, "unprocessed package survives cancellation")
}
