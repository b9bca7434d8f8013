package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hashdrift/internal/archive"
	"github.com/roach88/hashdrift/internal/results"
)

func digest(c string) results.HashResult {
	return results.Digest(strings.Repeat(c, 64))
}

// writeSet saves a two-test result set for platform into dir and returns
// its path. drift changes the float digest.
func writeSet(t *testing.T, dir, platform string, drift bool) string {
	t.Helper()
	id := results.SystemIdentity{Platform: platform, RuntimeVersion: "go1.22.0"}
	b := results.NewBuilder(id)
	require.NoError(t, b.Add(results.Coordinate{Protocol: 0, Category: "simple_types", Test: "int"}, digest("a")))
	float := digest("b")
	if drift {
		float = digest("c")
	}
	require.NoError(t, b.Add(results.Coordinate{Protocol: 0, Category: "simple_types", Test: "float"}, float))

	path := filepath.Join(dir, results.DefaultFilename(id))
	require.NoError(t, results.Save(b.Freeze(), path))
	return path
}

func executeCompare(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewCompareCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCompareIdenticalFiles(t *testing.T) {
	dir := t.TempDir()
	linux := writeSet(t, dir, "Linux", false)
	darwin := writeSet(t, dir, "Darwin", false)

	out, err := executeCompare(t, testRootOptions("text"), linux, darwin)
	require.NoError(t, err)
	assert.Contains(t, out, "===== COMPARISON REPORT =====")
	assert.Contains(t, out, "identical")
}

func TestCompareReportsDrift(t *testing.T) {
	dir := t.TempDir()
	linux := writeSet(t, dir, "Linux", false)
	windows := writeSet(t, dir, "Windows", true)

	out, err := executeCompare(t, testRootOptions("text"), linux, windows)
	require.NoError(t, err, "drift alone does not fail without --fail-on-diff")
	assert.Contains(t, out, "Protocol 0:")
	assert.Contains(t, out, "float")
	assert.Contains(t, out, "Windows go1.22.0 differs from Linux go1.22.0 in 1 tests")
}

func TestCompareFailOnDiff(t *testing.T) {
	dir := t.TempDir()
	linux := writeSet(t, dir, "Linux", false)
	windows := writeSet(t, dir, "Windows", true)

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewCompareCommand(testRootOptions("json"))
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{"--fail-on-diff", linux, windows})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "Error [E007]: found 1 differing results\n", errOut.String())
	assert.True(t, json.Valid(out.Bytes()), "stdout holds only the report")

	same := writeSet(t, t.TempDir(), "Darwin", false)
	_, err = executeCompare(t, testRootOptions("text"), "--fail-on-diff", linux, same)
	assert.NoError(t, err)
}

func TestCompareFailOnDiffFromConfig(t *testing.T) {
	dir := t.TempDir()
	linux := writeSet(t, dir, "Linux", false)
	windows := writeSet(t, dir, "Windows", true)

	opts := testRootOptions("text")
	opts.Config.FailOnDiff = true
	_, err := executeCompare(t, opts, linux, windows)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCompareDiscoversResultsDir(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, "Linux", false)
	writeSet(t, dir, "Windows", true)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.json"), []byte("{}"), 0644))

	opts := testRootOptions("json")
	opts.Config.ResultsDir = dir

	out, err := executeCompare(t, opts)
	require.NoError(t, err)

	var rep struct {
		Reference string   `json:"reference"`
		Compared  []string `json:"compared"`
		Identical bool     `json:"identical"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	// Discovery sorts by file name, so linux comes before windows.
	assert.Equal(t, "Linux go1.22.0", rep.Reference)
	assert.Equal(t, []string{"Windows go1.22.0"}, rep.Compared)
	assert.False(t, rep.Identical)
}

func TestCompareNoResultFiles(t *testing.T) {
	opts := testRootOptions("text")
	opts.Config.ResultsDir = t.TempDir()

	out, err := executeCompare(t, opts)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")
}

func TestCompareSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	linux := writeSet(t, dir, "Linux", false)
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("not json"), 0644))

	out, err := executeCompare(t, testRootOptions("text"), linux, broken)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")
	assert.Contains(t, out, "need at least 2 result sets to compare, got 1")
}

func TestCompareMinCount(t *testing.T) {
	dir := t.TempDir()
	linux := writeSet(t, dir, "Linux", false)
	darwin := writeSet(t, dir, "Darwin", false)

	_, err := executeCompare(t, testRootOptions("text"), "--min-count", "3", linux, darwin)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = executeCompare(t, testRootOptions("text"), "--min-count", "1", linux)
	assert.NoError(t, err)
}

func TestCompareIncludesArchive(t *testing.T) {
	dir := t.TempDir()
	linux := writeSet(t, dir, "Linux", false)
	windows, err := results.Load(writeSet(t, t.TempDir(), "Windows", true))
	require.NoError(t, err)

	dbPath := filepath.Join(dir, "runs.db")
	a, err := archive.Open(t.Context(), dbPath)
	require.NoError(t, err)
	_, _, err = a.Save(t.Context(), windows)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	out, err := executeCompare(t, testRootOptions("yaml"), "--archive", dbPath, linux)
	require.NoError(t, err)
	assert.Contains(t, out, "reference: Linux go1.22.0")
	assert.Contains(t, out, "- Windows go1.22.0")
}

func TestCompareConfigArchiveKeepsDiscovery(t *testing.T) {
	dir := t.TempDir()
	writeSet(t, dir, "Linux", false)
	windows, err := results.Load(writeSet(t, t.TempDir(), "Windows", true))
	require.NoError(t, err)

	dbPath := filepath.Join(t.TempDir(), "runs.db")
	a, err := archive.Open(t.Context(), dbPath)
	require.NoError(t, err)
	_, _, err = a.Save(t.Context(), windows)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	opts := testRootOptions("json")
	opts.Config.ResultsDir = dir
	opts.Config.Archive = dbPath

	out, err := executeCompare(t, opts)
	require.NoError(t, err)

	var rep struct {
		Reference string   `json:"reference"`
		Compared  []string `json:"compared"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "Linux go1.22.0", rep.Reference, "discovered files come before archived runs")
	assert.Equal(t, []string{"Windows go1.22.0"}, rep.Compared)
}

func TestCompareMissingArchive(t *testing.T) {
	dir := t.TempDir()
	linux := writeSet(t, dir, "Linux", false)
	dbPath := filepath.Join(dir, "typo.db")

	out, err := executeCompare(t, testRootOptions("text"), "--archive", dbPath, linux)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E004]")
	assert.NoFileExists(t, dbPath)
}
