package resolve

import (
	"testing"

	"github.com/kpm-work/kpm/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func installedWith(name, ver string, deps ...model.Dependency) *model.Package {
	p := installed(name, ver)
	p.Depends = deps
	return p
}

func installedMap(pkgs ...*model.Package) map[string]*model.Package {
	m := make(map[string]*model.Package, len(pkgs))
	for _, p := range pkgs {
		m[p.Name] = p
	}
	return m
}

func TestRemovalOrder_DependentBeforeDependency(t *testing.T) {
	// a depends b: a has no dependents within the set, b is depended on by a,
	// so a must go first.
	inst := installedMap(
		installedWith("a", "1.0", dep("b")),
		installed("b", "1.0"),
	)

	order, forced := RemovalOrder(inst, []string{"a", "b"})

	require.False(t, forced)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestRemovalOrder_Chain(t *testing.T) {
	inst := installedMap(
		installedWith("app", "1.0", dep("lib")),
		installedWith("lib", "1.0", dep("core")),
		installed("core", "1.0"),
	)

	order, forced := RemovalOrder(inst, []string{"core", "lib", "app"})

	require.False(t, forced)
	assert.Equal(t, []string{"app", "lib", "core"}, order)
}

func TestRemovalOrder_TiesSortedLexically(t *testing.T) {
	inst := installedMap(
		installedWith("zeta", "1.0", dep("shared")),
		installedWith("alpha", "1.0", dep("shared")),
		installed("shared", "1.0"),
	)

	order, forced := RemovalOrder(inst, []string{"zeta", "shared", "alpha"})

	require.False(t, forced)
	assert.Equal(t, []string{"alpha", "zeta", "shared"}, order)
}

func TestRemovalOrder_CycleForcesRemainder(t *testing.T) {
	inst := installedMap(
		installedWith("a", "1.0", dep("b")),
		installedWith("b", "1.0", dep("a")),
		installedWith("top", "1.0", dep("a")),
	)

	order, forced := RemovalOrder(inst, []string{"a", "b", "top"})

	assert.True(t, forced)
	assert.Equal(t, []string{"top", "a", "b"}, order)
}

func TestRemovalOrder_IgnoresNamesNotInstalled(t *testing.T) {
	inst := installedMap(installed("a", "1.0"))

	order, forced := RemovalOrder(inst, []string{"a", "ghost"})

	require.False(t, forced)
	assert.Equal(t, []string{"a"}, order)
}

func TestRemovalOrder_DependentsOutsideSetIgnored(t *testing.T) {
	// needy depends lib but is not being removed; the order only considers
	// dependents within the removal set.
	inst := installedMap(
		installedWith("needy", "1.0", dep("lib")),
		installed("lib", "1.0"),
	)

	order, forced := RemovalOrder(inst, []string{"lib"})

	require.False(t, forced)
	assert.Equal(t, []string{"lib"}, order)
}

func TestRemovalOrder_SafetyProperty(t *testing.T) {
	// After applying the order left to right, no removed package may have had
	// a dependent removed at a later step.
	inst := installedMap(
		installedWith("a", "1.0", dep("b"), dep("c")),
		installedWith("b", "1.0", dep("d")),
		installedWith("c", "1.0", dep("d")),
		installed("d", "1.0"),
	)
	names := []string{"d", "c", "b", "a"}

	order, forced := RemovalOrder(inst, names)
	require.False(t, forced)
	require.Len(t, order, 4)

	pos := make(map[string]int)
	for i, name := range order {
		pos[name] = i
	}
	for _, name := range names {
		for _, d := range inst[name].MandatoryDependencies() {
			if _, ok := pos[d.Name]; ok {
				assert.Less(t, pos[name], pos[d.Name],
					"dependent %s must be removed before its dependency %s", name, d.Name)
			}
		}
	}
}
