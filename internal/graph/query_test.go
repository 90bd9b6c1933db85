package graph

import (
	"context"
	"testing"

	"github.com/quantmind-br/depkg/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlansDoNotMutate(t *testing.T) {
	e, backend := newTestEngine(t, Options{})
	referenceGraph(t, e)

	assert.Equal(t, core.Packages("NETCARD", "TCPIP", "HTML", "BROWSER"), e.PlanInstall("BROWSER"))
	assert.Empty(t, e.PlanUninstall("BROWSER"))
	assert.Empty(t, e.ListInstalled())
	assert.Empty(t, backend.calls)

	_, err := e.Install(context.Background(), "BROWSER")
	require.NoError(t, err)
	_, err = e.Install(context.Background(), "TELNET")
	require.NoError(t, err)

	assert.Empty(t, e.PlanInstall("BROWSER"))
	assert.Equal(t, core.Packages("HTML", "BROWSER"), e.PlanUninstall("BROWSER"))
	assert.Equal(t, core.Packages("TELNET"), e.PlanUninstall("TELNET"))
}

func TestClosure(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	referenceGraph(t, e)

	assert.Equal(t, core.Packages("NETCARD", "TCPIP", "HTML"), e.Closure("BROWSER"))
	assert.Equal(t, core.Packages("NETCARD", "TCPIP"), e.Closure("TELNET"))
	assert.Empty(t, e.Closure("NETCARD"))
	assert.Empty(t, e.Closure("UNKNOWN"))
}

func TestDependenciesUnknownPackage(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	deps := e.Dependencies("UNKNOWN")
	assert.NotNil(t, deps)
	assert.Empty(t, deps)
	assert.Empty(t, e.Dependents("UNKNOWN"))
}

func TestInstalledDependents(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	referenceGraph(t, e)

	_, err := e.Install(context.Background(), "TELNET")
	require.NoError(t, err)

	assert.Equal(t, core.Packages("BROWSER", "TELNET"), e.Dependents("TCPIP"))
	assert.Equal(t, core.Packages("TELNET"), e.InstalledDependents("TCPIP"))
}

func TestPackages(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	referenceGraph(t, e)
	_, err := e.Install(context.Background(), "EXTRA")
	require.NoError(t, err)

	assert.Equal(t,
		core.Packages("BROWSER", "EXTRA", "HTML", "NETCARD", "TCPIP", "TELNET"),
		e.Packages())
}
