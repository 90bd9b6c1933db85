package debian

import (
	"context"
	"errors"
	"testing"

	"github.com/quantmind-br/depkg/internal/helpers"
	"github.com/quantmind-br/depkg/internal/syspkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAptProvider_Commands(t *testing.T) {
	mockRunner := &helpers.MockCommandRunner{}
	p := NewAptProviderWithRunner(mockRunner, syspkg.Options{UseSudo: true})
	ctx := context.Background()

	assert.Equal(t, "apt", p.Name())
	assert.Equal(t, "apt-get", p.Binary())

	require.NoError(t, p.Install(ctx, "curl"))
	require.NoError(t, p.Remove(ctx, "curl"))

	assert.Equal(t, []string{
		"sudo apt-get install -y --no-install-recommends curl",
		"sudo apt-get remove -y curl",
	}, mockRunner.Calls())
}

func TestAptProvider_RemoveFailure(t *testing.T) {
	mockRunner := &helpers.MockCommandRunner{
		RunCommandFunc: func(ctx context.Context, name string, args ...string) (string, error) {
			return "", errors.New("dpkg was interrupted")
		},
	}
	p := NewAptProviderWithRunner(mockRunner, syspkg.Options{})

	err := p.Remove(context.Background(), "curl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apt removal failed")
}

func TestAptProvider_IsInstalled(t *testing.T) {
	tests := []struct {
		name     string
		out      string
		err      error
		exitCode int
		want     bool
		wantErr  bool
	}{
		{name: "installed", out: "install ok installed", want: true},
		{name: "removed but configured", out: "deinstall ok config-files", want: false},
		{name: "unknown package", err: errors.New("no packages found"), exitCode: 1, want: false},
		{name: "query failure", err: errors.New("boom"), exitCode: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRunner := &helpers.MockCommandRunner{
				RunCommandFunc: func(ctx context.Context, name string, args ...string) (string, error) {
					assert.Equal(t, "dpkg-query", name)
					return tt.out, tt.err
				},
				GetExitCodeFunc: func(err error) int {
					return tt.exitCode
				},
			}
			p := NewAptProviderWithRunner(mockRunner, syspkg.Options{UseSudo: true})

			got, err := p.IsInstalled(context.Background(), "curl")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
