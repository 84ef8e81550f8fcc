// Package archive extracts and creates package archives (gzipped tarballs).
package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"

	pkgerrors "github.com/kpm-work/kpm/pkg/errors"
	"github.com/kpm-work/kpm/pkg/fsutil"
)

// Extractor unpacks package archives onto the filesystem.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Unpack extracts all entries of the archive at archivePath into destDir.
// Entries that would escape destDir are rejected.
func (e *Extractor) Unpack(ctx context.Context, archivePath, destDir string) error {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open archive %s", archivePath)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	if err := os.MkdirAll(destDir, fsutil.DirModeDefault); err != nil {
		return pkgerrors.Wrap(err, "failed to create destination directory")
	}

	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		return e.extractEntry(fsys, path, destDir, d)
	})
}

func (e *Extractor) extractEntry(fsys fs.FS, path, destDir string, d fs.DirEntry) error {
	if path == "." {
		return nil
	}

	targetPath, err := securePath(destDir, path)
	if err != nil {
		return err
	}

	if d.IsDir() {
		return os.MkdirAll(targetPath, fsutil.DirModeDefault)
	}

	info, err := d.Info()
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to stat archive entry %s", path)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return e.writeSymlink(fsys, path, targetPath)
	}
	return e.writeRegularFile(fsys, path, targetPath, info)
}

// securePath joins an archive entry path onto destDir, rejecting entries that
// would resolve outside it.
func securePath(destDir, entry string) (string, error) {
	target := filepath.Join(destDir, entry)
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %q escapes destination: %w", entry, pkgerrors.ErrInvalidPath)
	}
	return target, nil
}

func (e *Extractor) writeSymlink(fsys fs.FS, path, targetPath string) error {
	src, err := fsys.Open(path)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read symlink %s", path)
	}
	defer func() { _ = src.Close() }()

	linkTarget, err := io.ReadAll(src)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read symlink target %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(targetPath), fsutil.DirModeDefault); err != nil {
		return pkgerrors.Wrapf(err, "failed to create parent directory for %s", path)
	}
	_ = os.Remove(targetPath)
	return os.Symlink(string(linkTarget), targetPath)
}

func (e *Extractor) writeRegularFile(fsys fs.FS, path, targetPath string, info fs.FileInfo) error {
	src, err := fsys.Open(path)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open archive entry %s", path)
	}
	defer func() { _ = src.Close() }()

	if err := os.MkdirAll(filepath.Dir(targetPath), fsutil.DirModeDefault); err != nil {
		return pkgerrors.Wrapf(err, "failed to create parent directory for %s", path)
	}
	dst, err := os.OpenFile(targetPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to create %s", targetPath)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return pkgerrors.Wrapf(err, "failed to extract %s", path)
	}
	return nil
}

// Create builds a gzipped tar archive from the contents of sourceDir. It is
// the counterpart of Unpack for publishing packages.
func Create(ctx context.Context, sourceDir, archivePath string) error {
	absSource, err := filepath.Abs(sourceDir)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to resolve source directory")
	}
	files, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		absSource + string(os.PathSeparator): "",
	})
	if err != nil {
		return pkgerrors.Wrap(err, "failed to read source files")
	}

	out, err := os.Create(archivePath)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to create archive %s", archivePath)
	}
	defer func() {
		_ = out.Sync()
		_ = out.Close()
	}()

	format := archives.CompressedArchive{
		Compression: archives.Gz{},
		Archival:    archives.Tar{},
	}
	if err := format.Archive(ctx, out, files); err != nil {
		return pkgerrors.Wrap(err, "failed to write archive")
	}
	return nil
}
