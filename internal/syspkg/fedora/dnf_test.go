package fedora

import (
	"context"
	"errors"
	"testing"

	"github.com/quantmind-br/depkg/internal/helpers"
	"github.com/quantmind-br/depkg/internal/syspkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDnfProvider_Commands(t *testing.T) {
	mockRunner := &helpers.MockCommandRunner{}
	p := NewDnfProviderWithRunner(mockRunner, syspkg.Options{})
	ctx := context.Background()

	assert.Equal(t, "dnf", p.Name())
	assert.Equal(t, "dnf", p.Binary())

	require.NoError(t, p.Install(ctx, "git"))
	require.NoError(t, p.Remove(ctx, "git"))
	installed, err := p.IsInstalled(ctx, "git")
	require.NoError(t, err)
	assert.True(t, installed)

	assert.Equal(t, []string{
		"dnf install -y git",
		"dnf remove -y git",
		"rpm -q git",
	}, mockRunner.Calls())
}

func TestDnfProvider_IsInstalledMissing(t *testing.T) {
	mockRunner := &helpers.MockCommandRunner{
		RunCommandFunc: func(ctx context.Context, name string, args ...string) (string, error) {
			return "package git is not installed", errors.New("exit status 1")
		},
		GetExitCodeFunc: func(err error) int { return 1 },
	}
	p := NewDnfProviderWithRunner(mockRunner, syspkg.Options{})

	installed, err := p.IsInstalled(context.Background(), "git")
	require.NoError(t, err)
	assert.False(t, installed)
}

func TestDnfProvider_InstallFailure(t *testing.T) {
	mockRunner := &helpers.MockCommandRunner{
		RunCommandFunc: func(ctx context.Context, name string, args ...string) (string, error) {
			return "", errors.New("no match for argument")
		},
	}
	p := NewDnfProviderWithRunner(mockRunner, syspkg.Options{UseSudo: true})

	err := p.Install(context.Background(), "git")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dnf installation failed")
	assert.Equal(t, []string{"sudo dnf install -y git"}, mockRunner.Calls())
}
