package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// cliRun is the captured outcome of one CLI invocation.
type cliRun struct {
	Stdout string
	Stderr string
	Code   int
}

// jsonResponse mirrors CLIResponse with the payload left raw.
type jsonResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
}

// runCLI executes the CLI with config isolated from the process environment.
func runCLI(t *testing.T, args ...string) cliRun {
	t.Helper()
	return runCLIWithEnv(t, nil, args...)
}

func runCLIWithEnv(t *testing.T, env map[string]string, args ...string) cliRun {
	t.Helper()

	opts := &RootOptions{
		EnvFile: filepath.Join(t.TempDir(), ".env"),
		Getenv:  func(k string) string { return env[k] },
	}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := execute(newRootCommand(opts), args, stdout, stderr)
	return cliRun{Stdout: stdout.String(), Stderr: stderr.String(), Code: code}
}

// runJSON runs a command with --format json and decodes the response.
func runJSON(t *testing.T, args ...string) (jsonResponse, int) {
	t.Helper()

	r := runCLI(t, append(args, "--format", "json")...)
	var resp jsonResponse
	require.NoError(t, json.Unmarshal([]byte(r.Stdout), &resp), "stdout: %s\nstderr: %s", r.Stdout, r.Stderr)
	return resp, r.Code
}

// decodeData unmarshals a successful response payload into v.
func decodeData(t *testing.T, resp jsonResponse, v any) {
	t.Helper()
	require.Equal(t, "ok", resp.Status, "error: %+v", resp.Error)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

// newDB runs init in a temp dir and returns the database path.
func newDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "inventory.db")
	r := runCLI(t, "init", "--db", path)
	require.Equal(t, ExitSuccess, r.Code, "init failed: %s%s", r.Stdout, r.Stderr)
	return path
}
