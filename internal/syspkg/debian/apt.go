package debian

import (
	"context"
	"fmt"
	"strings"

	"github.com/quantmind-br/depkg/internal/helpers"
	"github.com/quantmind-br/depkg/internal/syspkg"
)

// AptProvider implements the Provider interface for Debian and Ubuntu
type AptProvider struct {
	runner helpers.CommandRunner
	opts   syspkg.Options
}

// NewAptProvider creates a new apt provider
func NewAptProvider(opts syspkg.Options) *AptProvider {
	return NewAptProviderWithRunner(helpers.NewOSCommandRunner(), opts)
}

// NewAptProviderWithRunner creates an apt provider with an injected runner
func NewAptProviderWithRunner(runner helpers.CommandRunner, opts syspkg.Options) *AptProvider {
	return &AptProvider{runner: runner, opts: opts}
}

func (p *AptProvider) Name() string {
	return "apt"
}

func (p *AptProvider) Binary() string {
	return "apt-get"
}

// Install installs a package with apt-get
func (p *AptProvider) Install(ctx context.Context, pkgName string) error {
	name, args := helpers.Elevate(p.opts.UseSudo, "apt-get", "install", "-y", "--no-install-recommends", pkgName)
	if _, err := p.runner.RunCommand(ctx, name, args...); err != nil {
		return fmt.Errorf("apt installation failed: %w", err)
	}
	return nil
}

// Remove removes a package with apt-get
func (p *AptProvider) Remove(ctx context.Context, pkgName string) error {
	name, args := helpers.Elevate(p.opts.UseSudo, "apt-get", "remove", "-y", pkgName)
	if _, err := p.runner.RunCommand(ctx, name, args...); err != nil {
		return fmt.Errorf("apt removal failed: %w", err)
	}
	return nil
}

// IsInstalled checks the dpkg status of a package
func (p *AptProvider) IsInstalled(ctx context.Context, pkgName string) (bool, error) {
	out, err := p.runner.RunCommand(ctx, "dpkg-query", "-W", "-f=${Status}", pkgName)
	if err != nil {
		// dpkg-query exits 1 when the package is unknown
		if p.runner.GetExitCode(err) == 1 {
			return false, nil
		}
		return false, fmt.Errorf("dpkg query failed: %w", err)
	}
	return strings.Contains(out, "install ok installed"), nil
}
