package transaction

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// UndoFunc reverses one completed step
type UndoFunc func() error

type step struct {
	name string
	undo UndoFunc
}

// Manager keeps the undo stack of an in-flight operation
type Manager struct {
	steps  []step
	mu     sync.Mutex
	logger *zerolog.Logger
}

// NewManager creates a new transaction manager
func NewManager(logger *zerolog.Logger) *Manager {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Manager{
		steps:  make([]step, 0),
		logger: logger,
	}
}

// Add pushes the undo function of a completed step
func (m *Manager) Add(name string, fn UndoFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, step{name: name, undo: fn})
}

// Len returns the number of pending undo steps
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.steps)
}

// Names returns the pending step names in the order they were added
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.steps))
	for i, s := range m.steps {
		names[i] = s.name
	}
	return names
}

// Rollback runs every undo function in reverse order (LIFO).
// All steps are attempted; failures are joined into the returned error.
func (m *Manager) Rollback() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.steps) == 0 {
		return nil
	}

	m.logger.Info().Int("steps", len(m.steps)).Msg("rolling back transaction")

	var errs []error
	for i := len(m.steps) - 1; i >= 0; i-- {
		s := m.steps[i]
		m.logger.Debug().Str("step", s.name).Msg("rolling back")

		if err := s.undo(); err != nil {
			errs = append(errs, fmt.Errorf("rollback %q: %w", s.name, err))
			m.logger.Error().Err(err).Str("step", s.name).Msg("rollback failed")
		}
	}

	m.steps = nil

	if len(errs) > 0 {
		return fmt.Errorf("rollback completed with errors: %w", errors.Join(errs...))
	}
	return nil
}

// Commit discards the undo stack, confirming the transaction
func (m *Manager) Commit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = nil
}
