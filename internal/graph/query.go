package graph

import (
	"slices"

	"github.com/quantmind-br/depkg/internal/core"
)

// PlanInstall returns the backend calls Install(pkg) would make, in order
func (e *Engine) PlanInstall(pkg core.Package) []core.Package {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.planInstall(pkg)
}

// PlanUninstall returns the backend calls Uninstall(pkg) would make, in order
func (e *Engine) PlanUninstall(pkg core.Package) []core.Package {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.planUninstall(pkg)
}

// Forward returns a copy of the forward map
func (e *Engine) Forward() map[core.Package][]core.Package {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.forward()
}

// Dependencies returns the direct dependencies of pkg in declaration order
func (e *Engine) Dependencies(pkg core.Package) []core.Package {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := slices.Clone(e.st.deps[pkg])
	if out == nil {
		out = make([]core.Package, 0)
	}
	return out
}

// Dependents returns every package declaring pkg as a dependency, sorted
func (e *Engine) Dependents(pkg core.Package) []core.Package {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dependentsLocked(pkg, false)
}

// InstalledDependents returns the installed packages declaring pkg, sorted
func (e *Engine) InstalledDependents(pkg core.Package) []core.Package {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dependentsLocked(pkg, true)
}

func (e *Engine) dependentsLocked(pkg core.Package, installedOnly bool) []core.Package {
	out := make([]core.Package, 0, len(e.st.dependents[pkg]))
	for q := range e.st.dependents[pkg] {
		if installedOnly && !e.st.isInstalled(q) {
			continue
		}
		out = append(out, q)
	}
	slices.Sort(out)
	return out
}

// Closure returns every transitive dependency of pkg in install order
func (e *Engine) Closure(pkg core.Package) []core.Package {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.closure(pkg)
}

// Packages returns every package the engine knows about, sorted
func (e *Engine) Packages() []core.Package {
	e.mu.Lock()
	defer e.mu.Unlock()

	seen := make(map[core.Package]struct{})
	for p, deps := range e.st.deps {
		seen[p] = struct{}{}
		for _, d := range deps {
			seen[d] = struct{}{}
		}
	}
	for _, p := range e.st.installed {
		seen[p] = struct{}{}
	}

	out := make([]core.Package, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
