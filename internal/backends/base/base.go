package base

import (
	"context"

	"github.com/quantmind-br/depkg/internal/config"
	"github.com/quantmind-br/depkg/internal/helpers"
	"github.com/rs/zerolog"
)

// BaseBackend holds dependencies shared by every backend.
// It does not implement Backend itself; concrete backends embed it.
//
//nolint:revive // exported name is kept for clarity across internal packages.
type BaseBackend struct {
	Runner helpers.CommandRunner
	Log    *zerolog.Logger
	Cfg    *config.Config
}

// New creates a BaseBackend with the default system dependencies.
func New(cfg *config.Config, log *zerolog.Logger) *BaseBackend {
	return NewWithDeps(cfg, log, helpers.NewOSCommandRunner())
}

// NewWithDeps creates a BaseBackend with injected dependencies (for tests).
func NewWithDeps(cfg *config.Config, log *zerolog.Logger, runner helpers.CommandRunner) *BaseBackend {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &BaseBackend{
		Runner: runner,
		Log:    log,
		Cfg:    cfg,
	}
}

// WithTimeout bounds a single backend call by backend.timeout_secs.
func (b *BaseBackend) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := b.Cfg.Backend.Timeout(); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}
