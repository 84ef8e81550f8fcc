package model

import "fmt"

// ResolutionErrorKind classifies why a resolution step failed.
type ResolutionErrorKind string

const (
	// ResolutionErrorNotFound means a requested or depended-on name is absent
	// from the available catalog.
	ResolutionErrorNotFound ResolutionErrorKind = "not-found"
	// ResolutionErrorUnsatisfiable means no candidate satisfies a mandatory
	// dependency constraint.
	ResolutionErrorUnsatisfiable ResolutionErrorKind = "unsatisfiable"
	// ResolutionErrorConflict means two packages in the plan conflict.
	ResolutionErrorConflict ResolutionErrorKind = "conflict"
)

// ResolutionError is one collected resolver failure. Resolution errors are
// accumulated, not short-circuited, so a single plan reports every problem.
type ResolutionError struct {
	Kind     ResolutionErrorKind
	Packages []string
	Message  string
}

func (e ResolutionError) Error() string {
	return e.Message
}

// NotFoundError builds the error recorded when name is absent from the
// available catalog.
func NotFoundError(name string) ResolutionError {
	return ResolutionError{
		Kind:     ResolutionErrorNotFound,
		Packages: []string{name},
		Message:  fmt.Sprintf("package %s not found", name),
	}
}

// UnsatisfiableError builds the error recorded when no candidate satisfies a
// mandatory dependency of owner.
func UnsatisfiableError(owner string, dep Dependency) ResolutionError {
	return ResolutionError{
		Kind:     ResolutionErrorUnsatisfiable,
		Packages: append([]string{owner}, dep.Candidates()...),
		Message:  fmt.Sprintf("cannot satisfy dependency: %s (required by %s)", dep, owner),
	}
}

// ConflictError builds the error recorded when two planned packages conflict.
func ConflictError(a, b *Package, dep Dependency) ResolutionError {
	return ResolutionError{
		Kind:     ResolutionErrorConflict,
		Packages: []string{a.Name, b.Name},
		Message:  fmt.Sprintf("package %s conflicts with %s (%s)", a.ID(), b.ID(), dep),
	}
}

// InstallPlan is the resolver output: the packages to install in dependency
// order (dependencies strictly before their dependents) plus every error
// collected along the way. A plan with errors is not installable as-is.
type InstallPlan struct {
	ToInstall []*Package
	Errors    []ResolutionError
}

// HasErrors reports whether the plan is blocked.
func (p *InstallPlan) HasErrors() bool {
	return len(p.Errors) > 0
}

// Contains reports whether name is part of the plan.
func (p *InstallPlan) Contains(name string) bool {
	for _, pkg := range p.ToInstall {
		if pkg.Name == name {
			return true
		}
	}
	return false
}

// ErrorMessages returns the collected error strings in order.
func (p *InstallPlan) ErrorMessages() []string {
	msgs := make([]string, len(p.Errors))
	for i, e := range p.Errors {
		msgs[i] = e.Message
	}
	return msgs
}
