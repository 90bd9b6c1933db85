package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/quantmind-br/depkg/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestOSCommandRunner(t *testing.T) {
	runner := NewOSCommandRunner()

	t.Run("CommandExists", func(t *testing.T) {
		assert.True(t, runner.CommandExists("echo"))
		assert.False(t, runner.CommandExists("nonexistentcommand123"))
		// cached result
		assert.True(t, runner.CommandExists("echo"))
	})

	t.Run("RequireCommand", func(t *testing.T) {
		assert.NoError(t, runner.RequireCommand("echo"))
		assert.ErrorIs(t, runner.RequireCommand("nonexistentcommand123"), core.ErrCommandNotFound)
	})

	t.Run("RunCommand", func(t *testing.T) {
		output, err := runner.RunCommand(context.Background(), "echo", "test")
		assert.NoError(t, err)
		assert.Contains(t, output, "test")
	})

	t.Run("RunCommand includes stderr on failure", func(t *testing.T) {
		_, err := runner.RunCommand(context.Background(), "sh", "-c", "echo oops >&2; exit 3")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "oops")
		assert.Equal(t, 3, runner.GetExitCode(err))
	})

	t.Run("RunCommandWithOutput", func(t *testing.T) {
		stdout, stderr, err := runner.RunCommandWithOutput(context.Background(), "echo", "hello")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "hello")
		assert.Empty(t, stderr)
	})

	t.Run("RunCommand timeout exceeded", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, err := runner.RunCommand(ctx, "sleep", "5")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("C locale", func(t *testing.T) {
		output, err := runner.RunCommand(context.Background(), "sh", "-c", "echo $LC_ALL")
		assert.NoError(t, err)
		assert.Equal(t, "C\n", output)
	})

	t.Run("GetExitCode", func(t *testing.T) {
		assert.Equal(t, 0, runner.GetExitCode(nil))
		_, err := runner.RunCommand(context.Background(), "false")
		assert.NotEqual(t, 0, runner.GetExitCode(err))
		assert.Equal(t, -1, runner.GetExitCode(assert.AnError))
	})
}

func TestCommandLine(t *testing.T) {
	assert.Equal(t, "pacman", CommandLine("pacman"))
	assert.Equal(t, "pacman -Qi vim", CommandLine("pacman", "-Qi", "vim"))
}

func TestElevate(t *testing.T) {
	name, args := Elevate(false, "pacman", "-S", "vim")
	assert.Equal(t, "pacman", name)
	assert.Equal(t, []string{"-S", "vim"}, args)

	name, args = Elevate(true, "pacman", "-S", "vim")
	assert.Equal(t, "sudo", name)
	assert.Equal(t, []string{"pacman", "-S", "vim"}, args)
}
