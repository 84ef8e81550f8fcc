// Package cache manages the local download cache: repository indexes and
// fetched package archives.
package cache

import (
	"fmt"
	"os"
	"path/filepath"

	pkgerrors "github.com/kpm-work/kpm/pkg/errors"
	"github.com/kpm-work/kpm/pkg/fsutil"
)

// CleanOptions specifies what to clean from the cache.
type CleanOptions struct {
	All      bool
	Indexes  bool
	Packages bool
}

// CleanResult reports how much space a clean freed.
type CleanResult struct {
	TotalFreed   int64
	IndexFreed   int64
	PackageFreed int64
}

// Info describes the cache contents.
type Info struct {
	Directory    string
	TotalSize    int64
	IndexSize    int64
	IndexFiles   int
	PackageSize  int64
	PackageFiles int
}

// Manager operates on a cache directory laid out as
// <dir>/indexes and <dir>/packages.
type Manager struct {
	directory string
}

// NewManager creates a cache manager over the given directory.
func NewManager(directory string) *Manager {
	return &Manager{directory: directory}
}

// Directory returns the cache root.
func (m *Manager) Directory() string {
	return m.directory
}

// Clean removes cached files according to the options. With no specific
// selection everything is cleaned.
func (m *Manager) Clean(options CleanOptions) (*CleanResult, error) {
	if !options.Indexes && !options.Packages {
		options.All = true
	}

	result := &CleanResult{}
	if options.All || options.Indexes {
		freed, err := m.emptyDir(filepath.Join(m.directory, "indexes"))
		if err != nil {
			return nil, pkgerrors.Wrap(err, "failed to clean index cache")
		}
		result.IndexFreed = freed
		result.TotalFreed += freed
	}
	if options.All || options.Packages {
		freed, err := m.emptyDir(filepath.Join(m.directory, "packages"))
		if err != nil {
			return nil, pkgerrors.Wrap(err, "failed to clean package cache")
		}
		result.PackageFreed = freed
		result.TotalFreed += freed
	}
	return result, nil
}

// GetInfo returns size and file counts for the cache partitions.
func (m *Manager) GetInfo() (*Info, error) {
	info := &Info{Directory: m.directory}

	indexSize, indexFiles, err := dirSizeAndFiles(filepath.Join(m.directory, "indexes"))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to inspect index cache")
	}
	info.IndexSize = indexSize
	info.IndexFiles = indexFiles

	pkgSize, pkgFiles, err := dirSizeAndFiles(filepath.Join(m.directory, "packages"))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to inspect package cache")
	}
	info.PackageSize = pkgSize
	info.PackageFiles = pkgFiles

	info.TotalSize = info.IndexSize + info.PackageSize
	return info, nil
}

// emptyDir deletes a cache partition and recreates it empty, returning the
// number of bytes freed.
func (m *Manager) emptyDir(dir string) (int64, error) {
	size, _, err := dirSizeAndFiles(dir)
	if err != nil {
		return 0, err
	}
	if err := os.RemoveAll(dir); err != nil {
		return 0, pkgerrors.Wrapf(err, "failed to remove %s", dir)
	}
	if err := os.MkdirAll(dir, fsutil.DirModeSecure); err != nil {
		return size, pkgerrors.Wrapf(err, "failed to recreate %s", dir)
	}
	return size, nil
}

func dirSizeAndFiles(dir string) (size int64, count int, err error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, 0, nil
	}
	err = filepath.Walk(dir, func(_ string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !info.IsDir() {
			size += info.Size()
			count++
		}
		return nil
	})
	return size, count, err
}

// FormatBytes renders a byte count for humans.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
