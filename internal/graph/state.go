package graph

import (
	"slices"

	"github.com/quantmind-br/depkg/internal/core"
)

// state holds the three containers owned by an Engine. All of them are
// created empty up front; a missing key always means "nothing recorded".
type state struct {
	// package -> direct dependencies, first declaration order, no duplicates
	deps map[core.Package][]core.Package
	// dependency -> packages declaring it (inverse of deps)
	dependents map[core.Package]map[core.Package]struct{}
	// packages with at least one declared dependency, first declaration order
	declared []core.Package

	installed   []core.Package
	installedIx map[core.Package]struct{}
}

func newState() *state {
	return &state{
		deps:        make(map[core.Package][]core.Package),
		dependents:  make(map[core.Package]map[core.Package]struct{}),
		declared:    make([]core.Package, 0),
		installed:   make([]core.Package, 0),
		installedIx: make(map[core.Package]struct{}),
	}
}

// checkEdges returns a CycleError if adding pkg -> d for any d in deps
// would close a cycle. New edges all leave pkg, so only existing paths
// from d back to pkg matter.
func (s *state) checkEdges(pkg core.Package, deps []core.Package) error {
	for _, d := range deps {
		if d == pkg {
			return &core.CycleError{Path: []core.Package{pkg, pkg}}
		}
		if path := s.path(d, pkg); path != nil {
			return &core.CycleError{Path: append([]core.Package{pkg}, path...)}
		}
	}
	return nil
}

// addEdges merges deps into pkg's dependency set and updates the reverse map
func (s *state) addEdges(pkg core.Package, deps []core.Package) {
	if _, ok := s.deps[pkg]; !ok {
		s.declared = append(s.declared, pkg)
	}
	current := s.deps[pkg]
	for _, d := range deps {
		if !slices.Contains(current, d) {
			current = append(current, d)
		}
		refs, ok := s.dependents[d]
		if !ok {
			refs = make(map[core.Package]struct{})
			s.dependents[d] = refs
		}
		refs[pkg] = struct{}{}
	}
	s.deps[pkg] = current
}

// path returns the dependency chain from -> ... -> to, or nil
func (s *state) path(from, to core.Package) []core.Package {
	parent := map[core.Package]core.Package{from: from}
	stack := []core.Package{from}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur == to {
			chain := []core.Package{cur}
			for cur != from {
				cur = parent[cur]
				chain = append(chain, cur)
			}
			slices.Reverse(chain)
			return chain
		}

		deps := s.deps[cur]
		for i := len(deps) - 1; i >= 0; i-- {
			d := deps[i]
			if _, seen := parent[d]; seen {
				continue
			}
			parent[d] = cur
			stack = append(stack, d)
		}
	}
	return nil
}

func (s *state) isInstalled(p core.Package) bool {
	_, ok := s.installedIx[p]
	return ok
}

func (s *state) markInstalled(p core.Package) {
	if s.isInstalled(p) {
		return
	}
	s.installed = append(s.installed, p)
	s.installedIx[p] = struct{}{}
}

func (s *state) markUninstalled(p core.Package) {
	if !s.isInstalled(p) {
		return
	}
	delete(s.installedIx, p)
	s.installed = slices.DeleteFunc(s.installed, func(q core.Package) bool { return q == p })
}

// liveRefs counts installed dependents of d that are not in skip
func (s *state) liveRefs(d core.Package, skip map[core.Package]bool) int {
	n := 0
	for q := range s.dependents[d] {
		if s.isInstalled(q) && !skip[q] {
			n++
		}
	}
	return n
}

func (s *state) forward() map[core.Package][]core.Package {
	out := make(map[core.Package][]core.Package, len(s.deps))
	for p, deps := range s.deps {
		out[p] = slices.Clone(deps)
	}
	return out
}
