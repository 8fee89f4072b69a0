package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestEvalCommandSummary(t *testing.T) {
	out, err := execute(t, "eval", "examples/holed_box.ldr")
	require.NoError(t, err)
	assert.Contains(t, out, "part#>holed_box.ldr")
	assert.Contains(t, out, "1 meshes")
	assert.Contains(t, out, "rebuilt")
}

func TestEvalCommandJSON(t *testing.T) {
	t.Cleanup(func() { _ = evalCmd.Flags().Set("json", "false") })
	out, err := execute(t, "eval", "--json", "examples/holed_box.ldr")
	require.NoError(t, err)

	var result EvalResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Meshes, 1)
	assert.Equal(t, "part#>holed_box.ldr", result.Meshes[0].PartName)
	assert.Empty(t, result.Inert)
}

func TestEvalCommandMissingFile(t *testing.T) {
	_, err := execute(t, "eval", filepath.Join(t.TempDir(), "nope.ldr"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.ldr")
}

func TestInlineCommand(t *testing.T) {
	p := writeDoc(t, "part.ldr", cubeLine)
	out, err := execute(t, "inline", p, "box")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 12)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "3 4 "), l)
	}
}

func TestReinlineCommand(t *testing.T) {
	t.Cleanup(func() {
		_ = reinlineCmd.Flags().Set("matrix", "0 0 0 1 0 0 0 1 0 0 0 1")
		_ = reinlineCmd.Flags().Set("override", "")
	})
	p := writeDoc(t, "part.ldr", "0 !LPE CSG_CYLINDER peg 2 0 0 0 1 0 0 0 4 0 0 0 1\n")
	out, err := execute(t, "reinline", p, "peg", "--matrix", "0 8 0 1 0 0 0 1 0 0 0 1", "--override", "2")
	require.NoError(t, err)
	assert.Equal(t, "0 !LPE CSG_CYLINDER peg 16 0 8 0 1 0 0 0 4 0 0 0 1\n", out)

	_, err = execute(t, "reinline", p, "peg", "--matrix", "1 2 3")
	assert.Error(t, err)
}

func TestReadFilesKeepsOrder(t *testing.T) {
	var paths []string
	for _, name := range []string{"a.ldr", "b.ldr", "c.ldr"} {
		paths = append(paths, writeDoc(t, name, "0 "+name+"\n"))
	}
	sources, err := readFiles(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, []string{"0 a.ldr\n", "0 b.ldr\n", "0 c.ldr\n"}, sources)

	_, err = readFiles(context.Background(), append(paths, "/does/not/exist.ldr"))
	assert.Error(t, err)
}

func TestMatchArg(t *testing.T) {
	abs, err := filepath.Abs("examples/holed_box.ldr")
	require.NoError(t, err)
	assert.Equal(t, "examples/holed_box.ldr", matchArg([]string{"other.ldr", "examples/holed_box.ldr"}, abs))
	assert.Equal(t, "/elsewhere/x.ldr", matchArg([]string{"examples/holed_box.ldr"}, "/elsewhere/x.ldr"))
}
