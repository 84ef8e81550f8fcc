package hook

import (
	"context"
	"os"
	"path/filepath"

	"github.com/kpm-work/kpm/pkg/errors"
)

const scriptExtension = ".tengo"

// DirRunner runs hooks from a package's unpacked hooks directory
// (<packageDir>/hooks/<phase>.tengo). Packages without hooks are common; a
// missing script simply runs nothing.
type DirRunner struct {
	exec *Executor
}

// NewDirRunner creates a runner backed by the default executor.
func NewDirRunner() *DirRunner {
	return &DirRunner{exec: NewExecutor()}
}

// Run executes the script for phase if the package ships one.
func (r *DirRunner) Run(ctx context.Context, phase Phase, hctx Context) error {
	if hctx.PackageDir == "" {
		return nil
	}
	scriptPath := filepath.Join(hctx.PackageDir, "hooks", string(phase)+scriptExtension)
	script, err := os.ReadFile(scriptPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "failed to read hook %s", scriptPath)
	}
	return r.exec.Execute(ctx, phase, string(script), hctx)
}
