package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quantmind-br/depkg/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclareCmd(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	out := env.mustRun(t, "declare", "BROWSER", "TCPIP", "HTML")
	assert.Contains(t, out, "declared 2 dependencies for BROWSER")
	assert.Contains(t, out, "Depends on: TCPIP, HTML")

	out = env.mustRun(t, "declare", "BROWSER", "HTML", "CSS")
	assert.Contains(t, out, "Depends on: TCPIP, HTML, CSS")

	out = env.mustRun(t, "declare", "BROWSER")
	assert.Contains(t, out, "nothing to declare for BROWSER")
}

func TestDeclareCmd_Cycle(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.mustRun(t, "declare", "A", "B")
	env.mustRun(t, "declare", "B", "C")

	_, stderr, err := env.run(t, "declare", "C", "A")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrCyclicDependency)
	assert.Contains(t, stderr, "C -> A -> B -> C")
	assert.Equal(t, core.ExitDependencyCycle, core.ExitCodeFor(err, ""))

	_, _, err = env.run(t, "declare", "D", "D")
	assert.ErrorIs(t, err, core.ErrCyclicDependency)
}

func TestDeclareCmd_InvalidName(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, _, err := env.run(t, "declare", "A", "B C")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidPackage)

	_, _, err = env.run(t)
	assert.NoError(t, err, "bare root prints help")
}

func TestApplyCmd(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	path := filepath.Join(t.TempDir(), "deps.toml")
	content := `
[[package]]
name = "TCPIP"
depends = ["NETCARD"]

[[package]]
name = "BROWSER"
depends = ["TCPIP", "HTML"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	out := env.mustRun(t, "apply", path)
	assert.Contains(t, out, "applied 2 entries (3 dependencies)")

	out = env.mustRun(t, "plan", "install", "BROWSER")
	assert.Contains(t, out, "[1/4] install NETCARD")
	assert.Contains(t, out, "[4/4] install BROWSER")
}

func TestApplyCmd_PartialCycle(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	path := filepath.Join(t.TempDir(), "deps.yaml")
	content := `
package:
  - name: A
    depends: [B]
  - name: B
    depends: [A]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, stderr, err := env.run(t, "apply", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrCyclicDependency)
	assert.Contains(t, stderr, "1 of 2 entries were applied")

	// The accepted entry was persisted
	out := env.mustRun(t, "plan", "install", "A")
	assert.Contains(t, out, "[1/2] install B")
}

func TestApplyCmd_BadFile(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, _, err := env.run(t, "apply", filepath.Join(t.TempDir(), "deps.json"))
	assert.Error(t, err)

	_, _, err = env.run(t, "apply", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
