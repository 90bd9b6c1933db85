package graph

import (
	"fmt"
	"slices"

	"github.com/quantmind-br/depkg/internal/core"
)

// Edge is one declared (package, dependency) pair
type Edge struct {
	Package    core.Package `json:"package"`
	Dependency core.Package `json:"dependency"`
}

// Snapshot is the serializable state of an engine
type Snapshot struct {
	Edges     []Edge         `json:"edges"`
	Installed []core.Package `json:"installed"`
}

// Snapshot exports edges in declaration order and the installed set in
// installation order
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Edges:     make([]Edge, 0),
		Installed: e.listLocked(),
	}
	for _, p := range e.st.declared {
		for _, d := range e.st.deps[p] {
			snap.Edges = append(snap.Edges, Edge{Package: p, Dependency: d})
		}
	}
	return snap
}

// Restore replaces the engine state with snap. The edges go through the same
// cycle check as DeclareDependencies. Install order is taken as recorded:
// edges declared after a package was installed may point at packages that
// come later or are absent. On error the current state is left untouched.
func (e *Engine) Restore(snap Snapshot) error {
	next := newState()

	for _, edge := range snap.Edges {
		deps := []core.Package{edge.Dependency}
		if err := next.checkEdges(edge.Package, deps); err != nil {
			return fmt.Errorf("%w: %w", core.ErrInvalidSnapshot, err)
		}
		next.addEdges(edge.Package, deps)
	}

	for _, p := range snap.Installed {
		if next.isInstalled(p) {
			return fmt.Errorf("%w: %s listed twice", core.ErrInvalidSnapshot, p)
		}
		next.markInstalled(p)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.st = next

	e.log.Debug().
		Int("edges", len(snap.Edges)).
		Int("installed", len(snap.Installed)).
		Msg("engine state restored")
	return nil
}

// Equal reports whether two snapshots describe the same state
func (s Snapshot) Equal(other Snapshot) bool {
	return slices.Equal(s.Edges, other.Edges) && slices.Equal(s.Installed, other.Installed)
}
