package graph

import "github.com/quantmind-br/depkg/internal/core"

type frame struct {
	pkg  core.Package
	next int
}

// planInstall returns the packages install(root) hands to the backend, in
// call order: every dependency in post-order, root last. Installed packages
// are skipped along with their subtrees.
func (s *state) planInstall(root core.Package) []core.Package {
	plan := make([]core.Package, 0)
	if s.isInstalled(root) {
		return plan
	}

	seen := map[core.Package]bool{root: true}
	stack := []frame{{pkg: root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		deps := s.deps[top.pkg]

		if top.next < len(deps) {
			d := deps[top.next]
			top.next++
			if seen[d] || s.isInstalled(d) {
				continue
			}
			seen[d] = true
			stack = append(stack, frame{pkg: d})
			continue
		}

		plan = append(plan, top.pkg)
		stack = stack[:len(stack)-1]
	}

	return plan
}

// planUninstall returns the packages uninstall(root) hands to the backend,
// in call order. The removal set starts at root and grows to a fixed point:
// an installed dependency joins once a member of the set depends on it and
// no installed dependent outside the set remains. The set is then walked in
// post-order from root so dependencies go before the packages needing them.
func (s *state) planUninstall(root core.Package) []core.Package {
	plan := make([]core.Package, 0)
	if !s.isInstalled(root) {
		return plan
	}

	removing := map[core.Package]bool{root: true}
	candidates := s.closure(root)
	for changed := true; changed; {
		changed = false
		for _, d := range candidates {
			if removing[d] || !s.isInstalled(d) || !s.heldBy(d, removing) {
				continue
			}
			if s.liveRefs(d, removing) > 0 {
				continue
			}
			removing[d] = true
			changed = true
		}
	}

	seen := map[core.Package]bool{root: true}
	stack := []frame{{pkg: root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		deps := s.deps[top.pkg]

		if top.next < len(deps) {
			d := deps[top.next]
			top.next++
			if seen[d] || !removing[d] {
				continue
			}
			seen[d] = true
			stack = append(stack, frame{pkg: d})
			continue
		}

		plan = append(plan, top.pkg)
		stack = stack[:len(stack)-1]
	}

	return plan
}

// heldBy reports whether some member of set declares d as a dependency
func (s *state) heldBy(d core.Package, set map[core.Package]bool) bool {
	for q := range s.dependents[d] {
		if set[q] {
			return true
		}
	}
	return false
}

// closure returns every transitive dependency of root in post-order,
// regardless of install state. root itself is not included.
func (s *state) closure(root core.Package) []core.Package {
	out := make([]core.Package, 0)
	seen := map[core.Package]bool{root: true}
	stack := []frame{{pkg: root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		deps := s.deps[top.pkg]

		if top.next < len(deps) {
			d := deps[top.next]
			top.next++
			if !seen[d] {
				seen[d] = true
				stack = append(stack, frame{pkg: d})
			}
			continue
		}

		if top.pkg != root {
			out = append(out, top.pkg)
		}
		stack = stack[:len(stack)-1]
	}

	return out
}
