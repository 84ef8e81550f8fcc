package model

import (
	"testing"
	"time"

	"github.com/kpm-work/kpm/pkg/version"
	"github.com/stretchr/testify/assert"
)

func nowPtr() *time.Time {
	t := time.Now()
	return &t
}

func TestDependency_SatisfiedBy(t *testing.T) {
	tests := []struct {
		name    string
		dep     Dependency
		pkgName string
		pkgVer  string
		want    bool
	}{
		{
			name:    "name mismatch fails immediately",
			dep:     Dependency{Name: "libfoo"},
			pkgName: "libbar",
			pkgVer:  "1.0",
			want:    false,
		},
		{
			name:    "unconstrained matches any version",
			dep:     Dependency{Name: "libfoo"},
			pkgName: "libfoo",
			pkgVer:  "0.0.1",
			want:    true,
		},
		{
			name:    "alternative name matches",
			dep:     Dependency{Name: "libfoo", Alternatives: []string{"libfoo-compat"}},
			pkgName: "libfoo-compat",
			pkgVer:  "1.0",
			want:    true,
		},
		{
			name:    "greater-equal boundary",
			dep:     Dependency{Name: "libfoo", Op: OpGreaterEqual, Version: version.Parse("2.0")},
			pkgName: "libfoo",
			pkgVer:  "2.0",
			want:    true,
		},
		{
			name:    "greater-equal below",
			dep:     Dependency{Name: "libfoo", Op: OpGreaterEqual, Version: version.Parse("2.0")},
			pkgName: "libfoo",
			pkgVer:  "1.9",
			want:    false,
		},
		{
			name:    "strictly-less",
			dep:     Dependency{Name: "libfoo", Op: OpLess, Version: version.Parse("3.0")},
			pkgName: "libfoo",
			pkgVer:  "2.9",
			want:    true,
		},
		{
			name:    "strictly-less at boundary",
			dep:     Dependency{Name: "libfoo", Op: OpLess, Version: version.Parse("3.0")},
			pkgName: "libfoo",
			pkgVer:  "3.0",
			want:    false,
		},
		{
			name:    "equal",
			dep:     Dependency{Name: "libfoo", Op: OpEqual, Version: version.Parse("1.2")},
			pkgName: "libfoo",
			pkgVer:  "1.2.0",
			want:    true,
		},
		{
			name:    "not-equal",
			dep:     Dependency{Name: "libfoo", Op: OpNotEqual, Version: version.Parse("1.2")},
			pkgName: "libfoo",
			pkgVer:  "1.2",
			want:    false,
		},
		{
			name:    "constraint applies to alternatives too",
			dep:     Dependency{Name: "libfoo", Op: OpGreaterEqual, Version: version.Parse("2.0"), Alternatives: []string{"libfoo2"}},
			pkgName: "libfoo2",
			pkgVer:  "1.0",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.dep.SatisfiedBy(tt.pkgName, version.Parse(tt.pkgVer))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDependency_String(t *testing.T) {
	assert.Equal(t, "libfoo", Dependency{Name: "libfoo"}.String())
	assert.Equal(t, "libfoo (>= 2.0)",
		Dependency{Name: "libfoo", Op: OpGreaterEqual, Version: version.Parse("2.0")}.String())
	assert.Equal(t, "libfoo (= 1.0) | libbar | libbaz",
		Dependency{Name: "libfoo", Op: OpEqual, Version: version.Parse("1.0"), Alternatives: []string{"libbar", "libbaz"}}.String())
}

func TestPackage_Validate(t *testing.T) {
	now := nowPtr()

	assert.Error(t, (&Package{Name: "a", State: StateNotInstalled}).Validate())
	assert.Error(t, (&Package{Name: "a", State: StateInstalled}).Validate())
	assert.NoError(t, (&Package{Name: "a", State: StateInstalled, InstallTime: now}).Validate())
	assert.NoError(t, (&Package{Name: "a", State: StateBroken}).Validate())
	assert.Error(t, (&Package{State: StateInstalled, InstallTime: now}).Validate())
}

func TestPackage_Clone(t *testing.T) {
	orig := &Package{
		Name:    "a",
		Depends: []Dependency{{Name: "b", Alternatives: []string{"c"}}},
		State:   StateInstalled,
	}
	clone := orig.Clone()
	clone.Depends[0].Alternatives[0] = "mutated"
	clone.Depends = append(clone.Depends, Dependency{Name: "d"})

	assert.Equal(t, "c", orig.Depends[0].Alternatives[0])
	assert.Len(t, orig.Depends, 1)
}
