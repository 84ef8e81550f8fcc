// Package catalog holds the in-memory package catalog: what the repositories
// offer (available) and what is present on the system (installed). The
// resolver only ever reads snapshots; mutation goes through the lifecycle
// manager.
package catalog

import (
	"sort"
	"sync"

	"github.com/kpm-work/kpm/pkg/model"
)

// Snapshot is an immutable deep copy of both catalog partitions, taken under
// the read lock. Resolvers work exclusively on snapshots so a concurrent
// mutation can never skew a plan mid-computation.
type Snapshot struct {
	Available map[string]*model.Package
	Installed map[string]*model.Package
}

// Catalog is the ground truth the resolver reads. Readers may run
// concurrently; writers must additionally hold the lifecycle manager's
// operation lock so resolve-then-mutate stays atomic.
type Catalog struct {
	mu        sync.RWMutex
	available map[string]*model.Package
	installed map[string]*model.Package
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		available: make(map[string]*model.Package),
		installed: make(map[string]*model.Package),
	}
}

// ReplaceAvailable swaps in a wholesale new available partition, as produced
// by a repository sync. No diffing or merging with the previous set.
func (c *Catalog) ReplaceAvailable(pkgs map[string]*model.Package) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.available = make(map[string]*model.Package, len(pkgs))
	for name, pkg := range pkgs {
		c.available[name] = pkg.Clone()
	}
}

// SetInstalled replaces the installed partition, used once at manager start
// after loading the durable record.
func (c *Catalog) SetInstalled(pkgs map[string]*model.Package) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.installed = make(map[string]*model.Package, len(pkgs))
	for name, pkg := range pkgs {
		c.installed[name] = pkg.Clone()
	}
}

// Available looks up a package offered by the repositories. The returned
// clone is the caller's to mutate.
func (c *Catalog) Available(name string) (*model.Package, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pkg, ok := c.available[name]
	if !ok {
		return nil, false
	}
	return pkg.Clone(), true
}

// Installed looks up an installed package by name.
func (c *Catalog) Installed(name string) (*model.Package, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pkg, ok := c.installed[name]
	if !ok {
		return nil, false
	}
	return pkg.Clone(), true
}

// UpsertInstalled records pkg in the installed partition, replacing any
// previous entry with the same name. Packages that do not belong in the
// installed catalog are rejected by Validate.
func (c *Catalog) UpsertInstalled(pkg *model.Package) error {
	if err := pkg.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.installed[pkg.Name] = pkg.Clone()
	return nil
}

// RemoveInstalled drops a package from the installed partition. It reports
// whether an entry was present.
func (c *Catalog) RemoveInstalled(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.installed[name]; !ok {
		return false
	}
	delete(c.installed, name)
	return true
}

// Snapshot returns a deep copy of both partitions.
func (c *Catalog) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := Snapshot{
		Available: make(map[string]*model.Package, len(c.available)),
		Installed: make(map[string]*model.Package, len(c.installed)),
	}
	for name, pkg := range c.available {
		snap.Available[name] = pkg.Clone()
	}
	for name, pkg := range c.installed {
		snap.Installed[name] = pkg.Clone()
	}
	return snap
}

// InstalledPackages returns clones of every installed package, sorted by name.
func (c *Catalog) InstalledPackages() []*model.Package {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedClones(c.installed)
}

// AvailablePackages returns clones of every available package, sorted by name.
func (c *Catalog) AvailablePackages() []*model.Package {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedClones(c.available)
}

// InstalledMap returns a deep copy of the installed partition, the shape the
// persistence store expects.
func (c *Catalog) InstalledMap() map[string]*model.Package {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]*model.Package, len(c.installed))
	for name, pkg := range c.installed {
		out[name] = pkg.Clone()
	}
	return out
}

func sortedClones(m map[string]*model.Package) []*model.Package {
	out := make([]*model.Package, 0, len(m))
	for _, pkg := range m {
		out = append(out, pkg.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
