package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCacheFile(t *testing.T, dir, name string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), make([]byte, size), 0o644))
}

func TestGetInfo(t *testing.T) {
	dir := t.TempDir()
	writeCacheFile(t, filepath.Join(dir, "indexes"), "main.json", 100)
	writeCacheFile(t, filepath.Join(dir, "packages"), "foo@1.0.kpm", 250)
	writeCacheFile(t, filepath.Join(dir, "packages"), "bar@2.0.kpm", 50)

	m := NewManager(dir)
	info, err := m.GetInfo()
	require.NoError(t, err)

	assert.Equal(t, dir, info.Directory)
	assert.Equal(t, int64(100), info.IndexSize)
	assert.Equal(t, 1, info.IndexFiles)
	assert.Equal(t, int64(300), info.PackageSize)
	assert.Equal(t, 2, info.PackageFiles)
	assert.Equal(t, int64(400), info.TotalSize)
}

func TestGetInfo_EmptyCache(t *testing.T) {
	m := NewManager(t.TempDir())
	info, err := m.GetInfo()
	require.NoError(t, err)
	assert.Zero(t, info.TotalSize)
	assert.Zero(t, info.IndexFiles)
	assert.Zero(t, info.PackageFiles)
}

func TestClean_All(t *testing.T) {
	dir := t.TempDir()
	writeCacheFile(t, filepath.Join(dir, "indexes"), "main.json", 100)
	writeCacheFile(t, filepath.Join(dir, "packages"), "foo@1.0.kpm", 200)

	m := NewManager(dir)
	result, err := m.Clean(CleanOptions{})
	require.NoError(t, err)

	assert.Equal(t, int64(100), result.IndexFreed)
	assert.Equal(t, int64(200), result.PackageFreed)
	assert.Equal(t, int64(300), result.TotalFreed)

	// Partitions are recreated empty.
	for _, sub := range []string{"indexes", "packages"} {
		entries, err := os.ReadDir(filepath.Join(dir, sub))
		require.NoError(t, err)
		assert.Empty(t, entries)
	}
}

func TestClean_IndexesOnly(t *testing.T) {
	dir := t.TempDir()
	writeCacheFile(t, filepath.Join(dir, "indexes"), "main.json", 100)
	writeCacheFile(t, filepath.Join(dir, "packages"), "foo@1.0.kpm", 200)

	m := NewManager(dir)
	result, err := m.Clean(CleanOptions{Indexes: true})
	require.NoError(t, err)

	assert.Equal(t, int64(100), result.TotalFreed)
	assert.Zero(t, result.PackageFreed)
	assert.FileExists(t, filepath.Join(dir, "packages", "foo@1.0.kpm"))
}

func TestClean_PackagesOnly(t *testing.T) {
	dir := t.TempDir()
	writeCacheFile(t, filepath.Join(dir, "indexes"), "main.json", 100)
	writeCacheFile(t, filepath.Join(dir, "packages"), "foo@1.0.kpm", 200)

	m := NewManager(dir)
	result, err := m.Clean(CleanOptions{Packages: true})
	require.NoError(t, err)

	assert.Equal(t, int64(200), result.TotalFreed)
	assert.Zero(t, result.IndexFreed)
	assert.FileExists(t, filepath.Join(dir, "indexes", "main.json"))
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{1073741824, "1.0 GiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatBytes(tt.input))
	}
}
