// Package graph implements the dependency graph engine: it records dependency
// edges, resolves install order over the transitive closure, and keeps a
// live reference count of shared dependencies so uninstalling one package
// never removes something another installed package still needs.
//
// An Engine is safe for concurrent use; every operation holds a single lock
// for its whole duration because one install can touch any number of entries.
package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/quantmind-br/depkg/internal/core"
	"github.com/quantmind-br/depkg/internal/transaction"
	"github.com/rs/zerolog"
)

// Backend performs the actual side effects for a single package
type Backend interface {
	// Name returns the backend name
	Name() string

	// InstallOne installs exactly one package
	InstallOne(ctx context.Context, pkg core.Package) error

	// UninstallOne removes exactly one package
	UninstallOne(ctx context.Context, pkg core.Package) error
}

// Step reports one backend call made by an operation
type Step struct {
	Op      core.Operation
	Package core.Package
	Index   int // 1-based position in the plan
	Total   int
	Err     error
}

// Options configures an Engine
type Options struct {
	Policy            core.FailurePolicy
	RollbackOnFailure bool
	// Observer, when set, is called after every backend call. It runs with
	// the engine lock held and must not call back into the Engine.
	Observer func(Step)
}

// Engine owns the dependency graph and the installed set
type Engine struct {
	mu      sync.Mutex
	st      *state
	backend Backend
	log     *zerolog.Logger
	opts    Options
}

// New creates an engine with empty state
func New(backend Backend, log *zerolog.Logger, opts Options) *Engine {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	if opts.Policy == "" {
		opts.Policy = core.FailStrict
	}
	return &Engine{
		st:      newState(),
		backend: backend,
		log:     log,
		opts:    opts,
	}
}

// SetObserver replaces the step observer
func (e *Engine) SetObserver(fn func(Step)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Observer = fn
}

// DeclareDependencies merges deps into pkg's dependency set and returns a
// copy of the whole forward map. An empty deps list changes nothing.
// Declarations that would close a cycle are rejected as a whole.
func (e *Engine) DeclareDependencies(pkg core.Package, deps ...core.Package) (map[core.Package][]core.Package, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(deps) == 0 {
		return e.st.forward(), nil
	}

	if err := e.st.checkEdges(pkg, deps); err != nil {
		e.log.Warn().Err(err).Str("package", pkg.String()).Msg("dependency declaration rejected")
		return e.st.forward(), err
	}

	e.st.addEdges(pkg, deps)
	e.log.Debug().
		Str("package", pkg.String()).
		Strs("dependencies", core.Names(deps)).
		Msg("dependencies declared")

	return e.st.forward(), nil
}

// IsInstalled reports whether pkg is in the installed set
func (e *Engine) IsInstalled(pkg core.Package) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.isInstalled(pkg)
}

// ListInstalled returns the installed set in installation order
func (e *Engine) ListInstalled() []core.Package {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listLocked()
}

func (e *Engine) listLocked() []core.Package {
	out := make([]core.Package, len(e.st.installed))
	copy(out, e.st.installed)
	return out
}

// Install installs pkg after its whole dependency closure. Installing an
// installed package is a no-op. It returns the installed set, which on
// failure reflects every step completed before the failing one.
func (e *Engine) Install(ctx context.Context, pkg core.Package) ([]core.Package, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	plan := e.st.planInstall(pkg)
	if len(plan) == 0 {
		e.log.Debug().Str("package", pkg.String()).Msg("already installed")
		return e.listLocked(), nil
	}

	e.log.Debug().
		Str("package", pkg.String()).
		Strs("plan", core.Names(plan)).
		Msg("resolved install plan")

	var tx *transaction.Manager
	if e.opts.RollbackOnFailure && e.opts.Policy == core.FailStrict {
		tx = transaction.NewManager(e.log)
	}

	for i, p := range plan {
		err := e.call(ctx, core.OpInstall, p, i+1, len(plan))
		if err != nil {
			err = fmt.Errorf("install %s: %w", pkg, err)
			if tx != nil {
				if rbErr := tx.Rollback(); rbErr != nil {
					err = fmt.Errorf("%w; %w", err, rbErr)
				}
			}
			return e.listLocked(), err
		}

		e.st.markInstalled(p)
		if tx != nil {
			tx.Add(p.String(), func() error {
				if err := e.backend.UninstallOne(context.WithoutCancel(ctx), p); err != nil {
					return err
				}
				e.st.markUninstalled(p)
				return nil
			})
		}
	}

	if tx != nil {
		tx.Commit()
	}

	return e.listLocked(), nil
}

// Uninstall removes pkg together with every dependency no other installed
// package still needs. Only installed dependents keep a dependency: a package
// that declares it but was never installed does not. Uninstalling an absent
// package is a no-op.
func (e *Engine) Uninstall(ctx context.Context, pkg core.Package) ([]core.Package, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	plan := e.st.planUninstall(pkg)
	if len(plan) == 0 {
		e.log.Debug().Str("package", pkg.String()).Msg("not installed")
		return e.listLocked(), nil
	}

	e.log.Debug().
		Str("package", pkg.String()).
		Strs("plan", core.Names(plan)).
		Msg("resolved uninstall plan")

	for i, p := range plan {
		if err := e.call(ctx, core.OpUninstall, p, i+1, len(plan)); err != nil {
			return e.listLocked(), fmt.Errorf("uninstall %s: %w", pkg, err)
		}
		e.st.markUninstalled(p)
	}

	return e.listLocked(), nil
}

// call runs one backend transition and applies the failure policy. A nil
// return means the transition must be recorded.
func (e *Engine) call(ctx context.Context, op core.Operation, p core.Package, index, total int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var err error
	switch op {
	case core.OpInstall:
		err = e.backend.InstallOne(ctx, p)
	case core.OpUninstall:
		err = e.backend.UninstallOne(ctx, p)
	}

	if err != nil {
		err = &core.BackendError{Op: op, Package: p, Backend: e.backend.Name(), Err: err}
	}
	if e.opts.Observer != nil {
		e.opts.Observer(Step{Op: op, Package: p, Index: index, Total: total, Err: err})
	}

	if err != nil {
		if e.opts.Policy == core.FailLenient {
			e.log.Warn().
				Err(err).
				Str("package", p.String()).
				Str("op", string(op)).
				Msg("backend failure ignored")
			return nil
		}
		e.log.Error().
			Err(err).
			Str("package", p.String()).
			Str("op", string(op)).
			Msg("backend failure")
		return err
	}

	e.log.Info().
		Str("package", p.String()).
		Str("backend", e.backend.Name()).
		Str("op", string(op)).
		Msg("package " + string(op) + "ed")
	return nil
}
