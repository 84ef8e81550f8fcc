package resolve

import (
	"sort"

	"github.com/kpm-work/kpm/pkg/model"
)

// RemovalOrder computes a safe order for removing the given installed
// packages: each iteration takes the subset of remaining names with no
// dependent among the other remaining names (lexically sorted among ties)
// until nothing is left. Dependents are therefore removed no later than
// their dependencies.
//
// If an iteration finds no safe subset the remaining packages depend on each
// other in a cycle. Rather than loop forever, the remainder is appended in
// one sorted batch and forced=true is returned; callers must surface that as
// a warning, not perform it silently.
func RemovalOrder(installed map[string]*model.Package, names []string) (order []string, forced bool) {
	remaining := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := installed[name]; ok {
			remaining[name] = struct{}{}
		}
	}

	for len(remaining) > 0 {
		var safe []string
		for name := range remaining {
			if !hasDependentWithin(installed, remaining, name) {
				safe = append(safe, name)
			}
		}

		if len(safe) == 0 {
			// Dependency cycle among the remaining packages.
			rest := make([]string, 0, len(remaining))
			for name := range remaining {
				rest = append(rest, name)
			}
			sort.Strings(rest)
			return append(order, rest...), true
		}

		sort.Strings(safe)
		order = append(order, safe...)
		for _, name := range safe {
			delete(remaining, name)
		}
	}
	return order, false
}

// hasDependentWithin reports whether any other package in the remaining set
// depends on target: Y is a dependent of X when Y is installed and one of
// Y's mandatory dependencies is satisfied by X.
func hasDependentWithin(installed map[string]*model.Package, remaining map[string]struct{}, target string) bool {
	pkg := installed[target]
	for other := range remaining {
		if other == target {
			continue
		}
		dependent, ok := installed[other]
		if !ok {
			continue
		}
		for _, dep := range dependent.MandatoryDependencies() {
			if dep.SatisfiedBy(pkg.Name, pkg.Version) {
				return true
			}
		}
	}
	return false
}
