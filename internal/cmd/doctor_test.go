package cmd

import (
	"testing"

	"github.com/quantmind-br/depkg/internal/lock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorCmd_Healthy(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.declareReference(t)
	env.mustRun(t, "install", "-q", "TELNET")

	out := env.mustRun(t, "doctor")
	assert.Contains(t, out, "data directory writable")
	assert.Contains(t, out, "state lock free")
	assert.Contains(t, out, "state store loaded (5 edges, 3 installed)")
	assert.Contains(t, out, "record backend ready")
	assert.Contains(t, out, "everything looks good")
	assert.NotContains(t, out, "no state store")
}

func TestDoctorCmd_FreshStateStore(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	out := env.mustRun(t, "doctor")
	assert.Contains(t, out, "no state store at "+env.cfg.Paths.DBFile+" yet")
	assert.Contains(t, out, "state store loaded (0 edges, 0 installed)")
	assert.FileExists(t, env.cfg.Paths.DBFile)
	assert.Contains(t, out, "everything looks good")
}

func TestDoctorCmd_Warnings(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.mustRun(t, "install", "-q", "A")
	env.mustRun(t, "declare", "A", "B")

	held, err := lock.Acquire(env.cfg.Paths.LockFile)
	require.NoError(t, err)
	defer held.Release()

	out := env.mustRun(t, "doctor")
	assert.Contains(t, out, "A is installed but its dependency B is not")
	assert.Contains(t, out, "state lock")
	assert.Contains(t, out, "2 warning(s)")
}
