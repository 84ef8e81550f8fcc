package model

import (
	"slices"
	"strings"

	"github.com/kpm-work/kpm/pkg/version"
)

// Operator is a version comparison operator in a dependency constraint.
type Operator string

const (
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
)

// Dependency is one entry in a depends/conflicts/recommends list: a target
// name, an optional version constraint and optional alternative names that
// satisfy the entry equally. Immutable once constructed.
type Dependency struct {
	Name         string          `json:"name"`
	Op           Operator        `json:"op,omitempty"`
	Version      version.Version `json:"version,omitzero"`
	Alternatives []string        `json:"alternatives,omitempty"`
}

// Constrained reports whether the dependency carries a version constraint.
func (d Dependency) Constrained() bool {
	return d.Op != ""
}

// Matches reports whether the given package name is the target or one of the
// alternatives, ignoring versions.
func (d Dependency) Matches(name string) bool {
	return name == d.Name || slices.Contains(d.Alternatives, name)
}

// SatisfiedBy is the single satisfaction predicate the resolver uses: the
// name must match the target or an alternative, and the version must pass the
// constraint if one is present.
func (d Dependency) SatisfiedBy(name string, v version.Version) bool {
	if !d.Matches(name) {
		return false
	}
	if !d.Constrained() {
		return true
	}
	c := v.Compare(d.Version)
	switch d.Op {
	case OpGreaterEqual:
		return c >= 0
	case OpLessEqual:
		return c <= 0
	case OpGreater:
		return c > 0
	case OpLess:
		return c < 0
	case OpEqual:
		return c == 0
	case OpNotEqual:
		return c != 0
	}
	return false
}

// String renders the dependency the way it appears in error messages,
// e.g. "libfoo (>= 2.0) | libfoo-compat".
func (d Dependency) String() string {
	var sb strings.Builder
	sb.WriteString(d.Name)
	if d.Constrained() {
		sb.WriteString(" (")
		sb.WriteString(string(d.Op))
		sb.WriteString(" ")
		sb.WriteString(d.Version.String())
		sb.WriteString(")")
	}
	for _, alt := range d.Alternatives {
		sb.WriteString(" | ")
		sb.WriteString(alt)
	}
	return sb.String()
}

// Candidates returns the target name followed by the alternatives, the
// literal order the resolver tries them in.
func (d Dependency) Candidates() []string {
	out := make([]string, 0, 1+len(d.Alternatives))
	out = append(out, d.Name)
	out = append(out, d.Alternatives...)
	return out
}

func (d Dependency) clone() Dependency {
	d.Alternatives = append([]string(nil), d.Alternatives...)
	return d
}
