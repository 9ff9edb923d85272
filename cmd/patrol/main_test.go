package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `....#.....
.........#
..........
..#.......
.......#..
..........
.#..^.....
........#.
#.........
......#...
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func writeGrid(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grid.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func noConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.yaml")
}

func TestTraceCommand(t *testing.T) {
	out, err := execute(t, "trace", writeGrid(t, sample), "--config", noConfig(t))
	require.NoError(t, err)
	assert.Contains(t, out, "outcome: exit")
	assert.Contains(t, out, "visited: 41")
}

func TestSearchCommand(t *testing.T) {
	out, err := execute(t, "search", writeGrid(t, sample), "--config", noConfig(t), "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "loops:      6")
}

func TestAnalyzeAndReports_FileStore(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "patrol.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("store:\n  backend: file\n  dir: "+dir+"\n"), 0644))

	out, err := execute(t, "analyze", writeGrid(t, sample), "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "loops:      6")

	out, err = execute(t, "reports", "list", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "- ")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAnalyzeAndReports_DefaultConfigPersists(t *testing.T) {
	work := t.TempDir()
	t.Chdir(work)
	grid := writeGrid(t, sample)

	out, err := execute(t, "analyze", grid, "--config", noConfig(t))
	require.NoError(t, err)
	assert.Contains(t, out, "loops:      6")

	out, err = execute(t, "reports", "list", "--config", noConfig(t))
	require.NoError(t, err)
	assert.NotContains(t, out, "No reports found")
	assert.Contains(t, out, "- ")

	entries, err := os.ReadDir(filepath.Join(work, ".patrol", "reports"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTraceCommand_Malformed(t *testing.T) {
	_, err := execute(t, "trace", writeGrid(t, "...\n...\n"), "--config", noConfig(t))
	assert.ErrorContains(t, err, "no agent marker")
}
