//go:generate mockgen -destination=./mocks/store.go -package=mocks . Store

package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/kpm-work/kpm/pkg/errors"
	"github.com/kpm-work/kpm/pkg/model"
)

// Store is the durable record of the installed partition. LoadInstalled runs
// once at manager start; SaveInstalled runs after every successful mutating
// operation. The format must round-trip every Package field, hold and
// install_time included.
type Store interface {
	LoadInstalled() (map[string]*model.Package, error)
	SaveInstalled(map[string]*model.Package) error
}

const storeFormatVersion = "1"

// storeFile is the on-disk JSON layout.
type storeFile struct {
	FormatVersion string           `json:"format_version"`
	LastUpdate    time.Time        `json:"last_update"`
	Packages      []*model.Package `json:"packages"`
}

// FileStore persists the installed catalog as a single JSON file, written
// atomically via a temp file and rename.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path. The path must
// be absolute.
func NewFileStore(path string) (*FileStore, error) {
	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		return nil, fmt.Errorf("store path must be absolute: %s: %w", path, errors.ErrInvalidPath)
	}
	return &FileStore{path: cleanPath}, nil
}

// LoadInstalled reads the installed set from disk. A missing file is an empty
// catalog, not an error. Entries that violate the lifecycle invariants are
// rejected so a corrupted file cannot smuggle a not-installed package into
// the installed partition.
func (s *FileStore) LoadInstalled() (map[string]*model.Package, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]*model.Package{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read installed catalog")
	}

	var file storeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "failed to parse installed catalog")
	}

	out := make(map[string]*model.Package, len(file.Packages))
	for _, pkg := range file.Packages {
		if err := pkg.Validate(); err != nil {
			return nil, errors.Wrap(err, "invalid installed catalog entry")
		}
		out[pkg.Name] = pkg
	}
	return out, nil
}

// SaveInstalled writes the full installed set. The write goes to a temp file
// in the same directory and is renamed into place so a crash never leaves a
// half-written catalog.
func (s *FileStore) SaveInstalled(pkgs map[string]*model.Package) (err error) {
	file := storeFile{
		FormatVersion: storeFormatVersion,
		LastUpdate:    time.Now(),
		Packages:      make([]*model.Package, 0, len(pkgs)),
	}
	for _, pkg := range pkgs {
		file.Packages = append(file.Packages, pkg)
	}
	sort.Slice(file.Packages, func(i, j int) bool { return file.Packages[i].Name < file.Packages[j].Name })

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal installed catalog")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.Wrap(err, "failed to create state directory")
	}

	tmp, err := os.CreateTemp(dir, "kpm-db-*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary file")
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "failed to write installed catalog")
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "failed to sync installed catalog")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close temporary file")
	}
	if err = os.Rename(tmpPath, s.path); err != nil {
		return errors.Wrapf(err, "failed to rename temporary file to %s", s.path)
	}
	return nil
}
