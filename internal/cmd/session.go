package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/quantmind-br/depkg/internal/backends"
	"github.com/quantmind-br/depkg/internal/config"
	"github.com/quantmind-br/depkg/internal/core"
	"github.com/quantmind-br/depkg/internal/db"
	"github.com/quantmind-br/depkg/internal/fsops"
	"github.com/quantmind-br/depkg/internal/graph"
	"github.com/quantmind-br/depkg/internal/lock"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// session is the engine rebuilt from the state store for one command run
type session struct {
	cfg     *config.Config
	log     *zerolog.Logger
	db      *db.DB
	lock    *lock.Lock
	backend backends.Backend
	engine  *graph.Engine
}

// openSession opens the state store and restores the engine. Mutating
// sessions hold the state lock until Close.
func openSession(ctx context.Context, cfg *config.Config, log *zerolog.Logger, registry *backends.Registry, mutate bool) (*session, error) {
	policy, err := core.ParseFailurePolicy(cfg.Engine.FailurePolicy)
	if err != nil {
		return nil, fmt.Errorf("engine.failure_policy: %w", err)
	}

	backend, err := registry.Default()
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, log: log, backend: backend}

	if mutate {
		s.lock, err = lock.Acquire(lockPath(cfg))
		if err != nil {
			return nil, err
		}
	}

	if err := fsops.EnsureDir(afero.NewOsFs(), filepath.Dir(cfg.Paths.DBFile), 0755); err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: %w", core.ErrDatabase, err)
	}

	s.db, err = db.New(ctx, cfg.Paths.DBFile)
	if err != nil {
		s.Close()
		return nil, err
	}

	snap, err := s.db.LoadSnapshot(ctx)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.engine = graph.New(backend, log, graph.Options{
		Policy:            policy,
		RollbackOnFailure: cfg.Engine.RollbackOnFailure,
	})
	if err := s.engine.Restore(snap); err != nil {
		s.Close()
		return nil, fmt.Errorf("restore state from %s: %w", cfg.Paths.DBFile, err)
	}

	log.Debug().
		Str("db", cfg.Paths.DBFile).
		Str("backend", backend.Name()).
		Bool("locked", mutate).
		Msg("session opened")
	return s, nil
}

// save persists the current engine state
func (s *session) save(ctx context.Context) error {
	// Persist even when the caller's context was cancelled mid-operation
	return s.db.SaveSnapshot(context.WithoutCancel(ctx), s.engine.Snapshot(), s.backend.Name())
}

// finish saves state and joins the save error with the operation error
func (s *session) finish(ctx context.Context, opErr error) error {
	if err := s.save(ctx); err != nil {
		s.log.Error().Err(err).Msg("failed to save state")
		return errors.Join(opErr, err)
	}
	return opErr
}

// Close releases the database and the lock
func (s *session) Close() error {
	var errs []error
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	if s.lock != nil {
		errs = append(errs, s.lock.Release())
	}
	return errors.Join(errs...)
}

func lockPath(cfg *config.Config) string {
	if cfg.Paths.LockFile != "" {
		return cfg.Paths.LockFile
	}
	return filepath.Join(filepath.Dir(cfg.Paths.DBFile), "depkg.lock")
}

// parsePackages validates command line package names
func parsePackages(args []string) ([]core.Package, error) {
	pkgs := make([]core.Package, 0, len(args))
	for _, arg := range args {
		p, err := core.ParsePackage(arg)
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, p)
	}
	return pkgs, nil
}
