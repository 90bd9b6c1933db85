package record

import (
	"context"
	"errors"
	"testing"

	"github.com/quantmind-br/depkg/internal/core"
	"github.com/quantmind-br/depkg/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ graph.Backend = (*Backend)(nil)

func TestBackendRecordsCalls(t *testing.T) {
	b := New(nil, nil)
	ctx := context.Background()

	assert.Equal(t, "record", b.Name())
	require.NoError(t, b.Check(ctx))
	require.NoError(t, b.InstallOne(ctx, "NETCARD"))
	require.NoError(t, b.InstallOne(ctx, "TCPIP"))
	require.NoError(t, b.UninstallOne(ctx, "TCPIP"))

	assert.Equal(t, []Call{
		{Op: core.OpInstall, Package: "NETCARD"},
		{Op: core.OpInstall, Package: "TCPIP"},
		{Op: core.OpUninstall, Package: "TCPIP"},
	}, b.Calls())
	assert.Equal(t, core.Packages("NETCARD", "TCPIP"), b.Packages(core.OpInstall))
	assert.Equal(t, core.Packages("TCPIP"), b.Packages(core.OpUninstall))

	b.Reset()
	assert.Empty(t, b.Calls())
}

func TestBackendFailOn(t *testing.T) {
	b := New(nil, nil)
	ctx := context.Background()
	boom := errors.New("boom")

	b.FailOn(core.OpInstall, "HTML", boom)
	assert.ErrorIs(t, b.InstallOne(ctx, "HTML"), boom)
	require.NoError(t, b.UninstallOne(ctx, "HTML"), "failures are scoped to one op")
	assert.Equal(t, []Call{{Op: core.OpUninstall, Package: "HTML"}}, b.Calls())

	b.FailOn(core.OpInstall, "HTML", nil)
	require.NoError(t, b.InstallOne(ctx, "HTML"))
}

func TestBackendCancelledContext(t *testing.T) {
	b := New(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, b.InstallOne(ctx, "HTML"), context.Canceled)
	assert.Empty(t, b.Calls())
}

func TestBackendDrivesEngine(t *testing.T) {
	b := New(nil, nil)
	e := graph.New(b, nil, graph.Options{})
	ctx := context.Background()

	_, err := e.DeclareDependencies("BROWSER", "TCPIP", "HTML")
	require.NoError(t, err)
	_, err = e.Install(ctx, "BROWSER")
	require.NoError(t, err)

	assert.Equal(t, core.Packages("TCPIP", "HTML", "BROWSER"), b.Packages(core.OpInstall))
}
