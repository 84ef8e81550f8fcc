// Package model provides the data structures shared across the kpm package
// manager: packages, dependencies, lifecycle states and install plans.
package model

import (
	"fmt"
	"time"

	"github.com/kpm-work/kpm/pkg/version"
)

// State is a package's position in the install lifecycle.
type State string

const (
	// StateNotInstalled marks a package that is not present on the system.
	StateNotInstalled State = "not-installed"
	// StateHalfInstalled marks a package whose unpack step has begun.
	StateHalfInstalled State = "half-installed"
	// StateUnpacked marks a package whose files are on disk but unconfigured.
	StateUnpacked State = "unpacked"
	// StateHalfConfigured marks a package mid-configuration.
	StateHalfConfigured State = "half-configured"
	// StateInstalled marks a fully installed package.
	StateInstalled State = "installed"
	// StateConfigFiles marks a removed package whose config files remain.
	StateConfigFiles State = "config-files"
	// StateBroken marks a package that failed mid-transition. Broken packages
	// are never auto-recovered; they require operator intervention.
	StateBroken State = "broken"
)

// Active reports whether the state belongs in the installed catalog.
// NotInstalled packages must never appear there.
func (s State) Active() bool {
	return s != "" && s != StateNotInstalled
}

// Priority classifies how essential a package is.
type Priority string

const (
	PriorityRequired  Priority = "required"
	PriorityImportant Priority = "important"
	PriorityStandard  Priority = "standard"
	PriorityOptional  Priority = "optional"
	PriorityExtra     Priority = "extra"
)

// Package is the catalog entity. Name is unique within a catalog. The file
// metadata fields are opaque to the resolver; only the fetch collaborator
// reads them.
type Package struct {
	Name         string          `json:"name"`
	Version      version.Version `json:"version"`
	Description  string          `json:"description,omitempty"`
	Architecture string          `json:"architecture,omitempty"`
	Priority     Priority        `json:"priority,omitempty"`

	Depends    []Dependency `json:"depends,omitempty"`
	PreDepends []Dependency `json:"pre_depends,omitempty"`
	Recommends []Dependency `json:"recommends,omitempty"`
	Suggests   []Dependency `json:"suggests,omitempty"`
	Conflicts  []Dependency `json:"conflicts,omitempty"`
	Breaks     []Dependency `json:"breaks,omitempty"`
	Replaces   []Dependency `json:"replaces,omitempty"`
	Provides   []string     `json:"provides,omitempty"`

	Filename string `json:"filename,omitempty"`
	Size     int64  `json:"size,omitempty"`
	Checksum string `json:"checksum,omitempty"`

	State         State      `json:"state,omitempty"`
	AutoInstalled bool       `json:"auto_installed,omitempty"`
	Hold          bool       `json:"hold,omitempty"`
	InstallTime   *time.Time `json:"install_time,omitempty"`

	// DataDir and MetaDir record where the package's files were unpacked.
	DataDir string `json:"data_dir,omitempty"`
	MetaDir string `json:"meta_dir,omitempty"`
}

// ID returns the name@version identifier used in logs and progress output.
func (p *Package) ID() string {
	return p.Name + "@" + p.Version.String()
}

// MandatoryDependencies returns pre_depends followed by depends, the order
// the resolver walks them in.
func (p *Package) MandatoryDependencies() []Dependency {
	deps := make([]Dependency, 0, len(p.PreDepends)+len(p.Depends))
	deps = append(deps, p.PreDepends...)
	deps = append(deps, p.Depends...)
	return deps
}

// Validate checks the lifecycle invariants a Package must satisfy before it
// enters the installed catalog.
func (p *Package) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("package has no name")
	}
	if !p.State.Active() {
		return fmt.Errorf("package %s has state %q which does not belong in the installed catalog", p.Name, p.State)
	}
	if p.State == StateInstalled && p.InstallTime == nil {
		return fmt.Errorf("package %s is installed but has no install time", p.Name)
	}
	return nil
}

// Clone returns a deep copy. Snapshots hand clones to the resolver so that
// catalog mutations never race with planning.
func (p *Package) Clone() *Package {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Depends = append([]Dependency(nil), p.Depends...)
	clone.PreDepends = append([]Dependency(nil), p.PreDepends...)
	clone.Recommends = append([]Dependency(nil), p.Recommends...)
	clone.Suggests = append([]Dependency(nil), p.Suggests...)
	clone.Conflicts = append([]Dependency(nil), p.Conflicts...)
	clone.Breaks = append([]Dependency(nil), p.Breaks...)
	clone.Replaces = append([]Dependency(nil), p.Replaces...)
	clone.Provides = append([]string(nil), p.Provides...)
	for i := range clone.Depends {
		clone.Depends[i] = p.Depends[i].clone()
	}
	for i := range clone.PreDepends {
		clone.PreDepends[i] = p.PreDepends[i].clone()
	}
	for i := range clone.Recommends {
		clone.Recommends[i] = p.Recommends[i].clone()
	}
	for i := range clone.Suggests {
		clone.Suggests[i] = p.Suggests[i].clone()
	}
	for i := range clone.Conflicts {
		clone.Conflicts[i] = p.Conflicts[i].clone()
	}
	for i := range clone.Breaks {
		clone.Breaks[i] = p.Breaks[i].clone()
	}
	for i := range clone.Replaces {
		clone.Replaces[i] = p.Replaces[i].clone()
	}
	if p.InstallTime != nil {
		t := *p.InstallTime
		clone.InstallTime = &t
	}
	return &clone
}
