package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Flags   []string `json:"flags" yaml:"flags"`
	DoCache bool     `json:"do_cache" yaml:"do_cache"`
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sample{Flags: []string{"-I/x"}, DoCache: true}))
	assert.JSONEq(t, `{"flags":["-I/x"],"do_cache":true}`, buf.String())
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, sample{Flags: []string{"-I/x", "-Wall"}, DoCache: true}))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "flags:\n"), out)
	assert.Contains(t, out, "-I/x")
	assert.Contains(t, out, "do_cache: true")
}

func TestWrite_Unsupported(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, "xml", sample{}))
}

func TestFlagDiffTable(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	out := FlagDiffTable(
		[]string{"-I", "inc", "-Wall"},
		[]string{"-I", "/p/inc", "-Wall"},
	).Render()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.NotContains(t, lines[2], "rewritten")
	assert.Contains(t, lines[3], "/p/inc")
	assert.Contains(t, lines[3], "rewritten")
	assert.NotContains(t, lines[4], "rewritten")
}

func TestSection(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	assert.Contains(t, Section("Doctor"), "Doctor")
}
