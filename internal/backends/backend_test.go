package backends

import (
	"io"
	"testing"

	"github.com/quantmind-br/depkg/internal/backends/record"
	"github.com/quantmind-br/depkg/internal/config"
	"github.com/quantmind-br/depkg/internal/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_OrderIsPreserved(t *testing.T) {
	t.Parallel()
	logger := zerolog.New(io.Discard)
	registry := NewRegistry(&config.Config{}, &logger)

	require.Equal(t, []string{"record", "system"}, registry.List())
}

func TestRegistry_Get(t *testing.T) {
	t.Parallel()
	registry := NewRegistry(&config.Config{}, nil)

	b, err := registry.Get("system")
	require.NoError(t, err)
	assert.Equal(t, "system", b.Name())

	_, err = registry.Get("flatpak")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownBackend)
	assert.Contains(t, err.Error(), "flatpak")
}

func TestRegistry_Default(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		kind    string
		want    string
		wantErr bool
	}{
		{name: "empty falls back to record", kind: "", want: "record"},
		{name: "record", kind: "record", want: "record"},
		{name: "system", kind: "system", want: "system"},
		{name: "unknown", kind: "snap", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := &config.Config{Backend: config.BackendConfig{Kind: tt.kind}}
			registry := NewRegistry(cfg, nil)

			b, err := registry.Default()
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrUnknownBackend)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.Name())
		})
	}
}

func TestNewRegistryWith(t *testing.T) {
	t.Parallel()
	rec := record.New(nil, nil)
	registry := NewRegistryWith(nil, nil, rec)

	b, err := registry.Default()
	require.NoError(t, err)
	assert.Same(t, rec, b)
}
