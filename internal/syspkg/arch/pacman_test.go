package arch

import (
	"context"
	"errors"
	"testing"

	"github.com/quantmind-br/depkg/internal/helpers"
	"github.com/quantmind-br/depkg/internal/syspkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacmanProvider_Name(t *testing.T) {
	p := NewPacmanProvider(syspkg.Options{})
	assert.Equal(t, "pacman", p.Name())
	assert.Equal(t, "pacman", p.Binary())
}

func TestPacmanProvider_Install(t *testing.T) {
	tests := []struct {
		name    string
		useSudo bool
		want    string
	}{
		{name: "with sudo", useSudo: true, want: "sudo pacman -S --noconfirm --needed htop"},
		{name: "without sudo", useSudo: false, want: "pacman -S --noconfirm --needed htop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRunner := &helpers.MockCommandRunner{}
			p := NewPacmanProviderWithRunner(mockRunner, syspkg.Options{UseSudo: tt.useSudo})

			require.NoError(t, p.Install(context.Background(), "htop"))
			assert.Equal(t, []string{tt.want}, mockRunner.Calls())
		})
	}
}

func TestPacmanProvider_InstallFailure(t *testing.T) {
	mockRunner := &helpers.MockCommandRunner{
		RunCommandFunc: func(ctx context.Context, name string, args ...string) (string, error) {
			return "", errors.New("target not found: htop")
		},
	}
	p := NewPacmanProviderWithRunner(mockRunner, syspkg.Options{UseSudo: true})

	err := p.Install(context.Background(), "htop")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pacman installation failed")
	assert.Contains(t, err.Error(), "target not found")
}

func TestPacmanProvider_Remove(t *testing.T) {
	mockRunner := &helpers.MockCommandRunner{}
	p := NewPacmanProviderWithRunner(mockRunner, syspkg.Options{UseSudo: true})

	require.NoError(t, p.Remove(context.Background(), "htop"))
	assert.Equal(t, []string{"sudo pacman -R --noconfirm htop"}, mockRunner.Calls())
}

func TestPacmanProvider_IsInstalled(t *testing.T) {
	queryErr := errors.New("exit status")

	tests := []struct {
		name     string
		err      error
		exitCode int
		want     bool
		wantErr  bool
	}{
		{name: "installed", want: true},
		{name: "not installed", err: queryErr, exitCode: 1, want: false},
		{name: "query failure", err: queryErr, exitCode: 127, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRunner := &helpers.MockCommandRunner{
				RunCommandFunc: func(ctx context.Context, name string, args ...string) (string, error) {
					return "", tt.err
				},
				GetExitCodeFunc: func(err error) int {
					return tt.exitCode
				},
			}
			p := NewPacmanProviderWithRunner(mockRunner, syspkg.Options{UseSudo: true})

			got, err := p.IsInstalled(context.Background(), "htop")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{"pacman -Qi htop"}, mockRunner.Calls(), "queries never use sudo")
		})
	}
}
