package helpers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/quantmind-br/depkg/internal/core"
)

// CommandRunner runs package manager commands. Providers take it so tests can
// swap in MockCommandRunner.
type CommandRunner interface {
	// CommandExists reports whether name resolves in PATH
	CommandExists(name string) bool

	// RequireCommand returns core.ErrCommandNotFound when name is missing
	RequireCommand(name string) error

	// RunCommand returns stdout; stderr is folded into the error
	RunCommand(ctx context.Context, name string, args ...string) (string, error)

	RunCommandWithOutput(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)

	// GetExitCode returns the process exit status, 0 for nil and -1 when err
	// did not come from a finished process
	GetExitCode(err error) int
}

// OSCommandRunner runs commands through os/exec
type OSCommandRunner struct {
	// Env is appended to the parent environment of every command
	Env []string

	lookups sync.Map // name -> bool
}

// NewOSCommandRunner returns a runner with a C locale so package manager
// output parses the same everywhere
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{Env: []string{"LC_ALL=C"}}
}

func (r *OSCommandRunner) CommandExists(name string) bool {
	if v, ok := r.lookups.Load(name); ok {
		return v.(bool)
	}
	_, err := exec.LookPath(name)
	r.lookups.Store(name, err == nil)
	return err == nil
}

func (r *OSCommandRunner) RequireCommand(name string) error {
	if r.CommandExists(name) {
		return nil
	}
	return fmt.Errorf("%w: %q not found in PATH", core.ErrCommandNotFound, name)
}

func (r *OSCommandRunner) RunCommand(ctx context.Context, name string, args ...string) (string, error) {
	stdout, stderr, err := r.RunCommandWithOutput(ctx, name, args...)
	if err != nil {
		if msg := strings.TrimSpace(stderr); msg != "" {
			return stdout, fmt.Errorf("%w: %s", err, msg)
		}
		return stdout, err
	}
	return stdout, nil
}

func (r *OSCommandRunner) RunCommandWithOutput(ctx context.Context, name string, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return stdout.String(), stderr.String(), fmt.Errorf("run %s: %w", CommandLine(name, args...), err)
	}
	return stdout.String(), stderr.String(), nil
}

func (r *OSCommandRunner) GetExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// CommandLine renders a command as it would be typed
func CommandLine(name string, args ...string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

// Elevate prefixes a command with sudo when useSudo is set
func Elevate(useSudo bool, name string, args ...string) (string, []string) {
	if !useSudo {
		return name, args
	}
	return "sudo", append([]string{name}, args...)
}
