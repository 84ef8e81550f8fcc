// Package errors defines the sentinel errors shared across kpm and small
// helpers for wrapping them with context. Callers classify failures with
// errors.Is against these sentinels; the CLI maps them to exit codes.
package errors

import "fmt"

// Resolution and catalog errors.
var (
	// ErrPackageNotFound is returned when a requested or depended-on package
	// is absent from the available catalog.
	ErrPackageNotFound = fmt.Errorf("package not found")

	// ErrDependencyUnsatisfiable is returned when no candidate satisfies a
	// mandatory dependency.
	ErrDependencyUnsatisfiable = fmt.Errorf("dependency unsatisfiable")

	// ErrConflict is returned when two planned packages conflict.
	ErrConflict = fmt.Errorf("package conflict")

	// ErrResolution aggregates a plan's collected resolution errors.
	ErrResolution = fmt.Errorf("dependency resolution failed")
)

// Lifecycle errors.
var (
	// ErrVerification is returned when a fetched archive fails checksum
	// verification.
	ErrVerification = fmt.Errorf("checksum verification failed")

	// ErrLifecycle is returned when a package transitioned to broken during
	// an install or remove.
	ErrLifecycle = fmt.Errorf("package lifecycle failure")

	// ErrNotInstalled is returned for remove/hold/unhold/upgrade requests on
	// a package that is not installed.
	ErrNotInstalled = fmt.Errorf("package not installed")

	// ErrHeldPackage is returned when an explicit upgrade is requested for a
	// held package without an override.
	ErrHeldPackage = fmt.Errorf("package is held")

	// ErrPartialFailure is returned when a batch completed for some packages
	// but not all of them.
	ErrPartialFailure = fmt.Errorf("operation partially failed")

	// ErrPersist is returned when the installed catalog could not be written.
	// It is fatal even when the in-memory mutation succeeded: diverging
	// on-disk and in-memory state is worse than reporting failure.
	ErrPersist = fmt.Errorf("failed to persist installed catalog")
)

// Repository and config errors.
var (
	ErrIndexFormat       = fmt.Errorf("unsupported index format version")
	ErrIndexParse        = fmt.Errorf("failed to parse repository index")
	ErrDownloadFailed    = fmt.Errorf("download failed")
	ErrInvalidPath       = fmt.Errorf("invalid path")
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrNoRepositories    = fmt.Errorf("no repositories configured")
	ErrNoPackagesMatched = fmt.Errorf("no packages matched the request")
)

// Hook errors.
var (
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
