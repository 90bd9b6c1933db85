package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withoutColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestPrintHelpers(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer

	PrintSuccess(&buf, "installed %s", "TCPIP")
	PrintError(&buf, "failed %d", 2)
	PrintWarning(&buf, "careful")
	PrintInfo(&buf, "note")
	PrintStep(&buf, 1, 3, "NETCARD")
	PrintKeyValue(&buf, "Package", "BROWSER")
	PrintList(&buf, []string{"a", "b"})
	PrintNumberedList(&buf, []string{"x"})

	out := buf.String()
	assert.Contains(t, out, "installed TCPIP")
	assert.Contains(t, out, "Error: failed 2")
	assert.Contains(t, out, "Warning: careful")
	assert.Contains(t, out, "note")
	assert.Contains(t, out, "[1/3] NETCARD")
	assert.Contains(t, out, "Package: BROWSER")
	assert.Contains(t, out, "a\n")
	assert.Contains(t, out, "1. x")
}

func TestPrintHeader(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer

	PrintHeader(&buf, "Installed Packages")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Installed Packages", lines[0])
	assert.Equal(t, separator, lines[1])
}

func TestInitColors(t *testing.T) {
	prev := color.NoColor
	t.Cleanup(func() { color.NoColor = prev })

	InitColors("always")
	assert.True(t, AreColorsEnabled())

	InitColors("never")
	assert.False(t, AreColorsEnabled())

	color.NoColor = false
	t.Setenv("NO_COLOR", "1")
	InitColors("auto")
	assert.False(t, AreColorsEnabled())
}

func TestFormatHelpers(t *testing.T) {
	withoutColor(t)

	assert.Equal(t, "installed", ColorizeInstalled(true))
	assert.Equal(t, "not installed", ColorizeInstalled(false))
	assert.Equal(t, "(none)", JoinOrNone(nil))
	assert.Equal(t, "A, B", JoinOrNone([]string{"A", "B"}))
	assert.Contains(t, SprintError("bad %s", "thing"), "Error: bad thing")
}

func TestSuggest(t *testing.T) {
	candidates := []string{"BROWSER", "TCPIP", "TELNET", "NETCARD", "HTML"}

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "prefix", input: "tel", want: []string{"TELNET"}},
		{name: "typo", input: "BROWSRE", want: []string{"BROWSER"}},
		{name: "subsequence", input: "tcp", want: []string{"TCPIP"}},
		{name: "nothing close", input: "zzzzzzzz", want: []string{}},
		{name: "exact match excluded", input: "HTML", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggest(tt.input, candidates, 3))
		})
	}
}

func TestSuggestLimit(t *testing.T) {
	got := Suggest("a", []string{"a1", "a2", "a3", "a4"}, 2)
	assert.Len(t, got, 2)
}

func TestFuzzySearcher(t *testing.T) {
	items := []string{"BROWSER", "TELNET"}
	search := fuzzySearcher(items)

	assert.True(t, search("", 0))
	assert.True(t, search("brw", 0))
	assert.False(t, search("brw", 1))
	assert.False(t, search("x", 5))
}

func TestStepProgressBar(t *testing.T) {
	var buf bytes.Buffer
	bar := NewStepProgressBar(&buf, 3, "installing")

	require.NoError(t, bar.Step("NETCARD", false))
	require.NoError(t, bar.Step("TCPIP", true))
	assert.Equal(t, 2, bar.Current())
	assert.Equal(t, 1, bar.Failed())
	assert.False(t, bar.IsFinished())

	require.NoError(t, bar.Finish())
	assert.True(t, bar.IsFinished())
	assert.NotEmpty(t, buf.String())
}

func TestNilStepProgressBar(t *testing.T) {
	var bar *ProgressBar

	assert.NoError(t, bar.Step("NETCARD", false))
	assert.NoError(t, bar.Finish())
	assert.Zero(t, bar.Current())
	assert.Zero(t, bar.Failed())
	assert.False(t, bar.IsFinished())
}
