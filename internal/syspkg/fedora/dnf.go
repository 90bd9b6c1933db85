package fedora

import (
	"context"
	"fmt"

	"github.com/quantmind-br/depkg/internal/helpers"
	"github.com/quantmind-br/depkg/internal/syspkg"
)

// DnfProvider implements the Provider interface for Fedora and RHEL
type DnfProvider struct {
	runner helpers.CommandRunner
	opts   syspkg.Options
}

// NewDnfProvider creates a new dnf provider
func NewDnfProvider(opts syspkg.Options) *DnfProvider {
	return NewDnfProviderWithRunner(helpers.NewOSCommandRunner(), opts)
}

// NewDnfProviderWithRunner creates a dnf provider with an injected runner
func NewDnfProviderWithRunner(runner helpers.CommandRunner, opts syspkg.Options) *DnfProvider {
	return &DnfProvider{runner: runner, opts: opts}
}

func (p *DnfProvider) Name() string {
	return "dnf"
}

func (p *DnfProvider) Binary() string {
	return "dnf"
}

// Install installs a package with dnf
func (p *DnfProvider) Install(ctx context.Context, pkgName string) error {
	name, args := helpers.Elevate(p.opts.UseSudo, "dnf", "install", "-y", pkgName)
	if _, err := p.runner.RunCommand(ctx, name, args...); err != nil {
		return fmt.Errorf("dnf installation failed: %w", err)
	}
	return nil
}

// Remove removes a package with dnf
func (p *DnfProvider) Remove(ctx context.Context, pkgName string) error {
	name, args := helpers.Elevate(p.opts.UseSudo, "dnf", "remove", "-y", pkgName)
	if _, err := p.runner.RunCommand(ctx, name, args...); err != nil {
		return fmt.Errorf("dnf removal failed: %w", err)
	}
	return nil
}

// IsInstalled checks the rpm database for a package
func (p *DnfProvider) IsInstalled(ctx context.Context, pkgName string) (bool, error) {
	_, err := p.runner.RunCommand(ctx, "rpm", "-q", pkgName)
	if err == nil {
		return true, nil
	}
	if p.runner.GetExitCode(err) == 1 {
		return false, nil
	}
	return false, fmt.Errorf("rpm query failed: %w", err)
}
