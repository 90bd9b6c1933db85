package arch

import (
	"context"
	"fmt"

	"github.com/quantmind-br/depkg/internal/helpers"
	"github.com/quantmind-br/depkg/internal/syspkg"
)

// PacmanProvider implements the Provider interface for Arch Linux
type PacmanProvider struct {
	runner helpers.CommandRunner
	opts   syspkg.Options
}

// NewPacmanProvider creates a new Pacman provider
func NewPacmanProvider(opts syspkg.Options) *PacmanProvider {
	return NewPacmanProviderWithRunner(helpers.NewOSCommandRunner(), opts)
}

// NewPacmanProviderWithRunner creates a Pacman provider with an injected runner
func NewPacmanProviderWithRunner(runner helpers.CommandRunner, opts syspkg.Options) *PacmanProvider {
	return &PacmanProvider{runner: runner, opts: opts}
}

func (p *PacmanProvider) Name() string {
	return "pacman"
}

func (p *PacmanProvider) Binary() string {
	return "pacman"
}

// Install installs a package from the sync repositories
func (p *PacmanProvider) Install(ctx context.Context, pkgName string) error {
	name, args := helpers.Elevate(p.opts.UseSudo, "pacman", "-S", "--noconfirm", "--needed", pkgName)
	if _, err := p.runner.RunCommand(ctx, name, args...); err != nil {
		return fmt.Errorf("pacman installation failed: %w", err)
	}
	return nil
}

// Remove removes a package by name
func (p *PacmanProvider) Remove(ctx context.Context, pkgName string) error {
	name, args := helpers.Elevate(p.opts.UseSudo, "pacman", "-R", "--noconfirm", pkgName)
	if _, err := p.runner.RunCommand(ctx, name, args...); err != nil {
		return fmt.Errorf("pacman removal failed: %w", err)
	}
	return nil
}

// IsInstalled checks if a package is installed
func (p *PacmanProvider) IsInstalled(ctx context.Context, pkgName string) (bool, error) {
	_, err := p.runner.RunCommand(ctx, "pacman", "-Qi", pkgName)
	if err == nil {
		return true, nil
	}
	// pacman -Qi exits 1 for unknown packages
	if p.runner.GetExitCode(err) == 1 {
		return false, nil
	}
	return false, fmt.Errorf("pacman query failed: %w", err)
}
