// Package system installs packages through the host package manager.
package system

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/quantmind-br/depkg/internal/backends/base"
	"github.com/quantmind-br/depkg/internal/config"
	"github.com/quantmind-br/depkg/internal/core"
	"github.com/quantmind-br/depkg/internal/helpers"
	"github.com/quantmind-br/depkg/internal/syspkg"
	"github.com/quantmind-br/depkg/internal/syspkg/arch"
	"github.com/quantmind-br/depkg/internal/syspkg/debian"
	"github.com/quantmind-br/depkg/internal/syspkg/fedora"
	"github.com/rs/zerolog"
)

// Backend adapts a syspkg.Provider to the engine's backend contract
type Backend struct {
	*base.BaseBackend

	providers []syspkg.Provider

	once     sync.Once
	provider syspkg.Provider
	err      error
}

// New creates a system backend using the host command runner
func New(cfg *config.Config, log *zerolog.Logger) *Backend {
	return NewWithDeps(cfg, log, helpers.NewOSCommandRunner())
}

// NewWithDeps creates a system backend with an injected runner
func NewWithDeps(cfg *config.Config, log *zerolog.Logger, runner helpers.CommandRunner) *Backend {
	b := &Backend{BaseBackend: base.NewWithDeps(cfg, log, runner)}
	opts := syspkg.Options{UseSudo: b.Cfg.Backend.UseSudo}

	// Probe order for auto-detection
	b.providers = []syspkg.Provider{
		arch.NewPacmanProviderWithRunner(runner, opts),
		debian.NewAptProviderWithRunner(runner, opts),
		fedora.NewDnfProviderWithRunner(runner, opts),
	}
	return b
}

// Name returns the backend name
func (b *Backend) Name() string {
	return "system"
}

// Provider returns the configured provider, detecting it on first use
func (b *Backend) Provider() (syspkg.Provider, error) {
	b.once.Do(func() {
		b.provider, b.err = b.selectProvider()
		if b.err == nil {
			b.Log.Debug().
				Str("provider", b.provider.Name()).
				Msg("system package manager selected")
		}
	})
	return b.provider, b.err
}

func (b *Backend) selectProvider() (syspkg.Provider, error) {
	want := strings.ToLower(strings.TrimSpace(b.Cfg.Backend.Provider))

	if want == "" || want == "auto" {
		for _, p := range b.providers {
			if b.Runner.CommandExists(p.Binary()) {
				return p, nil
			}
		}
		return nil, fmt.Errorf("detect package manager: %w: none of %s in PATH", core.ErrCommandNotFound, strings.Join(b.binaries(), ", "))
	}

	for _, p := range b.providers {
		if p.Name() == want {
			if err := b.Runner.RequireCommand(p.Binary()); err != nil {
				return nil, fmt.Errorf("provider %s: %w", want, err)
			}
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown provider %q", want)
}

func (b *Backend) binaries() []string {
	out := make([]string, len(b.providers))
	for i, p := range b.providers {
		out[i] = p.Binary()
	}
	return out
}

// Check reports whether a usable package manager is available
func (b *Backend) Check(_ context.Context) error {
	_, err := b.Provider()
	return err
}

// InstallOne installs pkg unless the package manager already has it
func (b *Backend) InstallOne(ctx context.Context, pkg core.Package) error {
	p, err := b.Provider()
	if err != nil {
		return err
	}

	ctx, cancel := b.WithTimeout(ctx)
	defer cancel()

	present, err := p.IsInstalled(ctx, pkg.String())
	if err != nil {
		b.Log.Warn().Err(err).Str("package", pkg.String()).Msg("could not query package state")
	}
	if present {
		b.Log.Debug().
			Str("package", pkg.String()).
			Str("provider", p.Name()).
			Msg("package already present on system")
		return nil
	}

	return p.Install(ctx, pkg.String())
}

// UninstallOne removes pkg through the package manager
func (b *Backend) UninstallOne(ctx context.Context, pkg core.Package) error {
	p, err := b.Provider()
	if err != nil {
		return err
	}

	ctx, cancel := b.WithTimeout(ctx)
	defer cancel()

	return p.Remove(ctx, pkg.String())
}
