package hook

import (
	"context"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/kpm-work/kpm/pkg/errors"
)

// Executor compiles and runs Tengo hook scripts.
type Executor struct{}

// NewExecutor creates a script executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute runs one script for the given phase. The script sees the context
// fields as top-level variables and reports failure by setting a non-empty
// "err" variable.
func (e *Executor) Execute(ctx context.Context, phase Phase, script string, hctx Context) error {
	instance := tengo.NewScript([]byte(script))
	instance.SetImports(stdlib.GetModuleMap("fmt", "os", "text", "times"))

	_ = instance.Add("packageName", hctx.PackageName)
	_ = instance.Add("packageVersion", hctx.PackageVersion)
	_ = instance.Add("packageDir", hctx.PackageDir)
	for k, v := range hctx.Vars {
		_ = instance.Add(k, v)
	}

	compiled, err := instance.RunContext(ctx)
	if err != nil {
		return errors.Wrapf(errors.ErrHookExecution, "%s: %v", phase, err)
	}

	errVar := compiled.Get("err")
	if errVar != nil {
		switch v := errVar.Value().(type) {
		case error:
			return errors.Wrap(errors.ErrHookScript, v.Error())
		case string:
			if v != "" {
				return errors.Wrap(errors.ErrHookScript, v)
			}
		}
	}
	return nil
}
