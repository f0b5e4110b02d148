package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: test_scenario
description: "Test scenario for validation"
setup:
  - op: create_item
    args: { name: Washer }
flow:
  - op: box_one
    args:
      item_id: 1
    expect:
      case: ok
assertions:
  - type: trace_contains
    op: box_one
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	assert.Len(t, scenario.Setup, 1)
	assert.Len(t, scenario.Flow, 1)
	assert.Len(t, scenario.Assertions, 1)
	assert.Equal(t, "box_one", scenario.Flow[0].Op)
	assert.Equal(t, 1, scenario.Flow[0].Args["item_id"])
	assert.Equal(t, "ok", scenario.Flow[0].Expect.Case)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
flow:
  - op: fetch_items
assertion:
  - type: trace_count
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "missing name",
			content: "flow:\n  - op: fetch_items\n",
			errMsg:  "name is required",
		},
		{
			name:    "empty flow",
			content: "name: x\n",
			errMsg:  "flow must have at least one step",
		},
		{
			name:    "missing op",
			content: "name: x\nflow:\n  - args: { item_id: 1 }\n",
			errMsg:  "flow[0]: op is required",
		},
		{
			name:    "unknown op",
			content: "name: x\nflow:\n  - op: teleport\n",
			errMsg:  `unknown op "teleport"`,
		},
		{
			name:    "unknown setup op",
			content: "name: x\nsetup:\n  - op: teleport\nflow:\n  - op: fetch_items\n",
			errMsg:  "setup[0]",
		},
		{
			name:    "unknown assertion",
			content: "name: x\nflow:\n  - op: fetch_items\nassertions:\n  - type: vibes\n",
			errMsg:  `unknown assertion type "vibes"`,
		},
		{
			name:    "trace_order without ops",
			content: "name: x\nflow:\n  - op: fetch_items\nassertions:\n  - type: trace_order\n",
			errMsg:  "ops list is required",
		},
		{
			name:    "final_state without expect",
			content: "name: x\nflow:\n  - op: fetch_items\nassertions:\n  - type: final_state\n    table: Item\n",
			errMsg:  "expect is required",
		},
		{
			name:    "item_location without location",
			content: "name: x\nflow:\n  - op: fetch_items\nassertions:\n  - type: item_location\n    item_id: 1\n",
			errMsg:  "location is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadScenario_TestdataFiles(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			_, err := LoadScenario(f)
			require.NoError(t, err)
		})
	}
}
