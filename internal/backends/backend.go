package backends

import (
	"context"
	"fmt"

	"github.com/quantmind-br/depkg/internal/backends/record"
	"github.com/quantmind-br/depkg/internal/backends/system"
	"github.com/quantmind-br/depkg/internal/config"
	"github.com/quantmind-br/depkg/internal/core"
	"github.com/quantmind-br/depkg/internal/graph"
	"github.com/rs/zerolog"
)

// Backend is an installer the engine can drive
type Backend interface {
	graph.Backend

	// Check reports whether the backend can run on this host
	Check(ctx context.Context) error
}

// Registry manages all available backends
type Registry struct {
	backends []Backend
	logger   *zerolog.Logger
	cfg      *config.Config
}

// NewRegistry creates a backend registry with all backends
func NewRegistry(cfg *config.Config, log *zerolog.Logger) *Registry {
	return NewRegistryWith(cfg, log, record.New(cfg, log), system.New(cfg, log))
}

// NewRegistryWith creates a registry over the given backends, in order
func NewRegistryWith(cfg *config.Config, log *zerolog.Logger, backends ...Backend) *Registry {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Registry{
		backends: backends,
		logger:   log,
		cfg:      cfg,
	}
}

// Get retrieves a backend by name
func (r *Registry) Get(name string) (Backend, error) {
	for _, backend := range r.backends {
		if backend.Name() == name {
			return backend, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", core.ErrUnknownBackend, name)
}

// Default returns the backend selected by backend.kind
func (r *Registry) Default() (Backend, error) {
	name := r.cfg.Backend.Kind
	if name == "" {
		name = "record"
	}

	backend, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	r.logger.Debug().
		Str("backend", backend.Name()).
		Msg("backend selected")
	return backend, nil
}

// List returns all registered backend names
func (r *Registry) List() []string {
	names := make([]string, len(r.backends))
	for i, backend := range r.backends {
		names[i] = backend.Name()
	}
	return names
}
