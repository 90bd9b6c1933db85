package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrBackendFailure is matched by every error returned from an installer backend
	ErrBackendFailure = errors.New("backend failure")

	// ErrCyclicDependency is returned when a declaration would introduce a cycle
	ErrCyclicDependency = errors.New("cyclic dependency")

	// ErrInvalidSnapshot is returned when restored state has a cycle or duplicate entries
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	// ErrUnknownBackend is returned when no backend is registered under a name
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrInvalidPackage is returned for malformed package names
	ErrInvalidPackage = errors.New("invalid package name")

	// ErrStateLocked is returned when another process holds the state lock
	ErrStateLocked = errors.New("state is locked by another process")

	// ErrInvalidArgs is returned for malformed command line arguments
	ErrInvalidArgs = errors.New("invalid arguments")

	// ErrDatabase marks failures of the state store
	ErrDatabase = errors.New("database error")

	// ErrCommandNotFound is returned when a required binary is not in PATH
	ErrCommandNotFound = errors.New("command not found")
)

// BackendError describes a failed backend call for one package
type BackendError struct {
	Op      Operation
	Package Package
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s %s via %s: %v", e.Op, e.Package, e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Is reports ErrBackendFailure for any BackendError
func (e *BackendError) Is(target error) bool {
	return target == ErrBackendFailure
}

// CycleError carries the dependency path that would close a cycle
type CycleError struct {
	Path []Package
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCyclicDependency, strings.Join(Names(e.Path), " -> "))
}

// Is reports ErrCyclicDependency for any CycleError
func (e *CycleError) Is(target error) bool {
	return target == ErrCyclicDependency
}

// ExitCodeFor maps an error to a process exit code
func ExitCodeFor(err error, op Operation) int {
	var backendErr *BackendError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, ErrCyclicDependency):
		return ExitDependencyCycle
	case errors.Is(err, ErrStateLocked):
		return ExitLocked
	case errors.Is(err, ErrInvalidPackage), errors.Is(err, ErrInvalidArgs):
		return ExitInvalidArgs
	case errors.Is(err, ErrCommandNotFound):
		return ExitCommandNotFound
	case errors.Is(err, os.ErrPermission):
		return ExitPermission
	case errors.Is(err, ErrDatabase), errors.Is(err, ErrInvalidSnapshot):
		return ExitDatabase
	case errors.As(err, &backendErr):
		op = backendErr.Op
	}

	switch op {
	case OpInstall:
		return ExitInstallFailed
	case OpUninstall:
		return ExitUninstallFailed
	default:
		return ExitGeneral
	}
}
