package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const harnessScenarios = "../harness/testdata/scenarios"

func copyScenario(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(harnessScenarios, name))
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestScenario_Directory(t *testing.T) {
	r := runCLI(t, "scenario", harnessScenarios)
	require.Equal(t, ExitSuccess, r.Code, "stdout: %s\nstderr: %s", r.Stdout, r.Stderr)
	assert.Contains(t, r.Stdout, "✓ bolt_lifecycle")
	assert.Contains(t, r.Stdout, "✓ All scenarios passed")
}

func TestScenario_UpdateThenMatch(t *testing.T) {
	dir := t.TempDir()
	file := copyScenario(t, dir, "bolt_lifecycle.yaml")

	r := runCLI(t, "scenario", file, "--update")
	require.Equal(t, ExitSuccess, r.Code, r.Stdout)
	assert.Contains(t, r.Stdout, "(golden updated)")

	written, err := os.ReadFile(filepath.Join(dir, "golden", "bolt_lifecycle.golden"))
	require.NoError(t, err)
	want, err := os.ReadFile("../harness/testdata/golden/bolt_lifecycle.golden")
	require.NoError(t, err)
	assert.Equal(t, string(want), string(written), "CLI and harness snapshots should agree")

	resp, code := runJSON(t, "scenario", file)
	require.Equal(t, ExitSuccess, code)
	var summary ScenarioSummary
	decodeData(t, resp, &summary)
	require.Len(t, summary.Scenarios, 1)
	assert.Equal(t, "match", summary.Scenarios[0].Golden)
	assert.Equal(t, 1, summary.Passed)
}

func TestScenario_GoldenMismatch(t *testing.T) {
	dir := t.TempDir()
	file := copyScenario(t, dir, "bolt_lifecycle.yaml")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "bolt_lifecycle.golden"), []byte("{}\n"), 0o644))

	r := runCLI(t, "scenario", file)
	assert.Equal(t, ExitFailure, r.Code)
	assert.Contains(t, r.Stdout, "✗ bolt_lifecycle")
	assert.Contains(t, r.Stdout, "does not match golden file")
}

func TestScenario_FailingExpectation(t *testing.T) {
	file := filepath.Join(t.TempDir(), "wrong.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`name: wrong
flow:
  - op: create_item
    args: { name: Bolt }
    expect:
      result: { item_id: 5 }
`), 0o644))

	resp, code := runJSON(t, "scenario", file)
	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeScenario, resp.Error.Code)

	var summary ScenarioSummary
	require.NoError(t, json.Unmarshal(resp.Data, &summary))
	require.Len(t, summary.Scenarios, 1)
	assert.False(t, summary.Scenarios[0].Pass)
	assert.NotEmpty(t, summary.Scenarios[0].Errors)
}

func TestScenario_Filter(t *testing.T) {
	r := runCLI(t, "scenario", harnessScenarios, "--filter", "error_*")
	require.Equal(t, ExitSuccess, r.Code, r.Stdout)
	assert.NotContains(t, r.Stdout, "bolt_lifecycle")
	assert.Contains(t, r.Stdout, "1 passed, 0 failed, 1 total")
}

func TestScenario_NoneFound(t *testing.T) {
	r := runCLI(t, "scenario", t.TempDir())
	require.Equal(t, ExitSuccess, r.Code)
	assert.Contains(t, r.Stdout, "No scenarios found.")
}

func TestScenario_MissingPath(t *testing.T) {
	r := runCLI(t, "scenario", filepath.Join(t.TempDir(), "nope"))
	assert.Equal(t, ExitCommandError, r.Code)
	assert.Contains(t, r.Stdout, ErrCodeNotFound)
}
