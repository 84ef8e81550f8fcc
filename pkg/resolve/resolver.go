// Package resolve implements the dependency resolver: a deterministic,
// greedy depth-first expansion of an install request into an ordered plan,
// plus the safe removal ordering for uninstalls. Everything here is pure
// computation over a catalog snapshot; the resolver never mutates state.
package resolve

import (
	"sort"

	"github.com/kpm-work/kpm/pkg/catalog"
	"github.com/kpm-work/kpm/pkg/model"
)

// Plan expands the requested package names into a full installation plan
// against the given snapshot. The returned order is the install order:
// dependencies are appended before the packages that need them (post-order
// walk). Errors are collected, never short-circuited, so one call surfaces
// every missing package, unsatisfiable dependency and conflict at once.
//
// Alternative selection is first-match with no backtracking: if a later
// alternative would have avoided a downstream conflict, this resolver does
// not discover it. That matches the reference behavior and is documented as
// an open question in DESIGN.md.
func Plan(snap catalog.Snapshot, requested []string, includeRecommends bool) *model.InstallPlan {
	p := &planner{
		snap:              snap,
		includeRecommends: includeRecommends,
		visited:           make(map[string]struct{}),
		plan:              &model.InstallPlan{},
	}
	for _, name := range requested {
		p.resolveName(name)
	}
	p.detectConflicts()
	return p.plan
}

type planner struct {
	snap              catalog.Snapshot
	includeRecommends bool
	visited           map[string]struct{}
	plan              *model.InstallPlan
}

// resolveName resolves one package by name. Memoized: a name is processed at
// most once per plan, which both makes resolution idempotent and breaks
// dependency cycles (the cycle participant is already marked visited when
// recursion reaches it again).
func (p *planner) resolveName(name string) {
	if _, ok := p.visited[name]; ok {
		return
	}
	p.visited[name] = struct{}{}

	avail, ok := p.snap.Available[name]
	if !ok {
		p.plan.Errors = append(p.plan.Errors, model.NotFoundError(name))
		return
	}

	// An installed package of equal-or-newer version already satisfies the
	// request: nothing to plan.
	if inst, ok := p.snap.Installed[name]; ok &&
		inst.State == model.StateInstalled &&
		inst.Version.Compare(avail.Version) >= 0 {
		return
	}

	deps := avail.MandatoryDependencies()
	for _, dep := range deps {
		p.resolveDependency(avail, dep, true)
	}
	if p.includeRecommends {
		for _, dep := range avail.Recommends {
			p.resolveDependency(avail, dep, false)
		}
	}

	// Post-order append: every dependency resolved above sits earlier in the
	// list, which is the install order contract.
	p.plan.ToInstall = append(p.plan.ToInstall, avail)
}

// resolveDependency finds something that satisfies dep. Search order: the
// installed catalog first, then the candidates [target]+alternatives in that
// literal order against the available catalog, taking the first match. A
// mandatory dependency with no satisfying candidate records an error and
// leaves the branch unresolved; siblings keep resolving.
func (p *planner) resolveDependency(owner *model.Package, dep model.Dependency, mandatory bool) {
	if p.installedSatisfies(dep) {
		return
	}

	for _, candidate := range dep.Candidates() {
		avail, ok := p.snap.Available[candidate]
		if !ok {
			continue
		}
		if dep.SatisfiedBy(avail.Name, avail.Version) {
			p.resolveName(candidate)
			return
		}
	}

	if mandatory {
		p.plan.Errors = append(p.plan.Errors, model.UnsatisfiableError(owner.Name, dep))
	}
}

// installedSatisfies reports whether the installed catalog already covers
// dep, either directly or through a virtual name. Virtual provides only
// count for unversioned constraints: a provides entry carries no version to
// check against.
func (p *planner) installedSatisfies(dep model.Dependency) bool {
	for _, candidate := range dep.Candidates() {
		inst, ok := p.snap.Installed[candidate]
		if !ok || inst.State != model.StateInstalled {
			continue
		}
		if dep.SatisfiedBy(inst.Name, inst.Version) {
			return true
		}
	}
	if dep.Constrained() {
		return false
	}
	for _, name := range sortedNames(p.snap.Installed) {
		inst := p.snap.Installed[name]
		if inst.State != model.StateInstalled {
			continue
		}
		for _, provided := range inst.Provides {
			if dep.Matches(provided) {
				return true
			}
		}
	}
	return false
}

// detectConflicts runs the pairwise conflict check over the final plan. A
// conflict does not remove packages from the plan; it is surfaced as a
// blocking error for the caller to resolve.
func (p *planner) detectConflicts() {
	pkgs := p.plan.ToInstall
	for i := 0; i < len(pkgs); i++ {
		for j := i + 1; j < len(pkgs); j++ {
			p.checkConflict(pkgs[i], pkgs[j])
			p.checkConflict(pkgs[j], pkgs[i])
		}
	}
}

func (p *planner) checkConflict(a, b *model.Package) {
	for _, c := range a.Conflicts {
		if c.SatisfiedBy(b.Name, b.Version) {
			p.plan.Errors = append(p.plan.Errors, model.ConflictError(a, b, c))
			return
		}
	}
}

func sortedNames(m map[string]*model.Package) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
