//go:generate mockgen -destination=./mocks/manager.go -package=mocks . Fetcher,Unpacker,HookRunner

package manager

import (
	"context"

	"github.com/kpm-work/kpm/pkg/hook"
	"github.com/kpm-work/kpm/pkg/model"
)

// Fetcher obtains a package archive and verifies its checksum. Any error is
// treated as that package's install failure.
type Fetcher interface {
	// FetchAndVerify downloads (or reuses from cache) the archive for pkg and
	// returns its local path. A checksum mismatch wraps errors.ErrVerification.
	FetchAndVerify(ctx context.Context, pkg *model.Package) (string, error)
}

// Unpacker extracts a fetched archive into the package's install directory.
// The archive format is opaque to the lifecycle manager.
type Unpacker interface {
	Unpack(ctx context.Context, archivePath, destDir string) error
}

// HookRunner executes a package's maintainer hook for one lifecycle phase.
// A missing hook is not an error.
type HookRunner interface {
	Run(ctx context.Context, phase hook.Phase, hctx hook.Context) error
}
