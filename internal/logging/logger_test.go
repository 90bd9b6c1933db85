package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("writes to console", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(Config{Level: "info", NoColor: true, Console: &buf})
		require.NotNil(t, logger)

		logger.Info().Str("package", "TCPIP").Msg("package installed")
		logger.Debug().Msg("hidden")

		assert.Contains(t, buf.String(), "package installed")
		assert.Contains(t, buf.String(), "TCPIP")
		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("creates logger with file writer", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "nested", "depkg.log")

		logger := NewLogger(Config{Level: "debug", LogFile: logFile, NoColor: true, Console: &bytes.Buffer{}})
		logger.Debug().Msg("to file")

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"message":"to file"`)
		assert.Contains(t, string(data), `"pid":`)
	})

	t.Run("unwritable log dir falls back to console", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))

		var buf bytes.Buffer
		logger := NewLogger(Config{LogFile: filepath.Join(blocker, "depkg.log"), NoColor: true, Console: &buf})
		logger.Info().Msg("still logged")

		assert.Contains(t, buf.String(), "still logged")
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", "debug"},
		{"DEBUG", "debug"},
		{"info", "info"},
		{"warning", "warn"},
		{" Trace ", "trace"},
		{"error", "error"},
		{"invalid", "info"},
		{"", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input).String())
		})
	}
}

func TestNoColorFor(t *testing.T) {
	assert.False(t, NoColorFor("always"))
	assert.True(t, NoColorFor("never"))
	assert.True(t, NoColorFor(" NEVER "))
	assert.Equal(t, color.NoColor, NoColorFor("auto"))
	assert.Equal(t, color.NoColor, NoColorFor(""))
}
