package download

import (
	"context"
	"fmt"
	"net/url"

	pkgerrors "github.com/kpm-work/kpm/pkg/errors"
	"github.com/kpm-work/kpm/pkg/model"
)

// PackageFetcher fetches package archives into a local cache directory. The
// catalog carries each package's archive URL in its Filename field, resolved
// against the owning repository when indexes are merged.
type PackageFetcher struct {
	manager  Manager
	cacheDir string
	progress bool
}

// NewPackageFetcher creates a fetcher that stores archives under cacheDir.
func NewPackageFetcher(manager Manager, cacheDir string, progress bool) *PackageFetcher {
	return &PackageFetcher{manager: manager, cacheDir: cacheDir, progress: progress}
}

// FetchAndVerify downloads the archive for pkg and verifies its checksum.
// It returns the local path of the verified archive.
func (f *PackageFetcher) FetchAndVerify(ctx context.Context, pkg *model.Package) (string, error) {
	if pkg.Filename == "" {
		return "", fmt.Errorf("package %s has no archive location: %w", pkg.Name, pkgerrors.ErrDownloadFailed)
	}
	u, err := url.Parse(pkg.Filename)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "invalid archive URL for package %s", pkg.Name)
	}
	item := Item{
		ID:       pkg.ID(),
		URL:      u,
		Checksum: pkg.Checksum,
		Filename: pkg.ID() + ".kpm",
	}
	return f.manager.Fetch(ctx, item, Options{Dir: f.cacheDir, Progress: f.progress})
}
