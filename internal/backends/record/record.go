// Package record provides a backend that only records the calls it receives.
// It backs dry configurations (backend.kind = "record") and tests.
package record

import (
	"context"
	"sync"

	"github.com/quantmind-br/depkg/internal/backends/base"
	"github.com/quantmind-br/depkg/internal/config"
	"github.com/quantmind-br/depkg/internal/core"
	"github.com/rs/zerolog"
)

// Call is one recorded backend invocation
type Call struct {
	Op      core.Operation
	Package core.Package
}

type failure struct {
	op  core.Operation
	pkg core.Package
}

// Backend records install and uninstall calls in memory
type Backend struct {
	*base.BaseBackend

	mu    sync.Mutex
	calls []Call
	fail  map[failure]error
}

// New creates a new recording backend
func New(cfg *config.Config, log *zerolog.Logger) *Backend {
	return &Backend{
		BaseBackend: base.NewWithDeps(cfg, log, nil),
		fail:        make(map[failure]error),
	}
}

// Name returns the backend name
func (b *Backend) Name() string {
	return "record"
}

// Check always succeeds
func (b *Backend) Check(_ context.Context) error {
	return nil
}

// InstallOne records an install
func (b *Backend) InstallOne(ctx context.Context, pkg core.Package) error {
	return b.record(ctx, core.OpInstall, pkg)
}

// UninstallOne records an uninstall
func (b *Backend) UninstallOne(ctx context.Context, pkg core.Package) error {
	return b.record(ctx, core.OpUninstall, pkg)
}

// FailOn makes every later op on pkg return err. A nil err clears it.
func (b *Backend) FailOn(op core.Operation, pkg core.Package, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.fail, failure{op, pkg})
		return
	}
	b.fail[failure{op, pkg}] = err
}

// Calls returns a copy of the recorded calls, failed ones excluded
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Call, len(b.calls))
	copy(out, b.calls)
	return out
}

// Packages returns the packages recorded for op, in call order
func (b *Backend) Packages(op core.Operation) []core.Package {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]core.Package, 0, len(b.calls))
	for _, c := range b.calls {
		if c.Op == op {
			out = append(out, c.Package)
		}
	}
	return out
}

// Reset forgets recorded calls and configured failures
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
	b.fail = make(map[failure]error)
}

func (b *Backend) record(ctx context.Context, op core.Operation, pkg core.Package) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err, ok := b.fail[failure{op, pkg}]; ok {
		return err
	}
	b.calls = append(b.calls, Call{Op: op, Package: pkg})

	b.Log.Debug().
		Str("op", string(op)).
		Str("package", pkg.String()).
		Msg("recorded backend call")
	return nil
}
