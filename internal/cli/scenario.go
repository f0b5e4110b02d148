package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/homeinv/internal/harness"
)

// ScenarioOptions holds flags for the scenario command.
type ScenarioOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	Pass   bool     `json:"pass"`
	Golden string   `json:"golden,omitempty"` // "match", "updated" or "" when absent
	Errors []string `json:"errors,omitempty"`
}

// ScenarioSummary holds the overall result of a scenario run.
type ScenarioSummary struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScenarioOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scenario <file-or-dir>...",
		Short: "Run YAML scenarios against a fresh in-memory store",
		Long: `Run scenario files against an in-memory store, checking expect clauses,
trace assertions and final state. Directories are searched for .yaml and
.yml files.

When golden/<name>.golden exists next to a scenario file, the trace must
match it byte for byte. Use --update to regenerate golden files.

The --db database is never touched.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  homeinv scenario ./scenarios
  homeinv scenario ./scenarios --filter "bolt-*"
  homeinv scenario ./scenarios/bolt.yaml --update`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runScenarios(opts *ScenarioOptions, paths []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	var files []string
	for _, path := range paths {
		found, err := findScenarioFiles(path, opts.Filter)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeNotFound, "failed to find scenarios", err)
		}
		files = append(files, found...)
	}

	summary := ScenarioSummary{
		Scenarios: make([]ScenarioResult, 0, len(files)),
		Total:     len(files),
	}
	if len(files) == 0 {
		if opts.Format == "json" {
			return outputScenarioJSON(cmd, summary)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}

	for _, file := range files {
		r := runScenarioFile(opts, file)
		if opts.Format != "json" {
			printScenarioResult(cmd.OutOrStdout(), r)
		}
		summary.Scenarios = append(summary.Scenarios, r)
		if r.Pass {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}

	if opts.Format == "json" {
		return outputScenarioJSON(cmd, summary)
	}
	return outputScenarioText(cmd, summary)
}

// findScenarioFiles returns path itself when it is a file, or every YAML
// file beneath it when it is a directory.
func findScenarioFiles(path string, filter string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		// Only process .yaml and .yml files
		ext := filepath.Ext(p)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(p), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, p)
		return nil
	})
	return files, err
}

// runScenarioFile loads, runs and golden-checks one scenario file.
func runScenarioFile(opts *ScenarioOptions, file string) ScenarioResult {
	r := ScenarioResult{Name: filepath.Base(file), File: file}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		r.Errors = []string{fmt.Sprintf("failed to load scenario: %v", err)}
		return r
	}
	r.Name = scenario.Name

	result, err := harness.Run(scenario, harness.WithLogger(opts.Logger))
	if err != nil {
		r.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
		return r
	}
	r.Pass = result.Pass
	r.Errors = result.Errors

	snapshot, err := harness.MarshalSnapshot(scenario.Name, result)
	if err != nil {
		r.Pass = false
		r.Errors = append(r.Errors, fmt.Sprintf("failed to marshal trace: %v", err))
		return r
	}

	goldenPath := goldenFilePath(file)
	if opts.Update {
		if err := writeGoldenFile(goldenPath, snapshot); err != nil {
			r.Pass = false
			r.Errors = append(r.Errors, fmt.Sprintf("failed to update golden file: %v", err))
			return r
		}
		r.Golden = "updated"
		return r
	}

	golden, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		// No golden file - assertion-based validation only
		return r
	}
	if err != nil {
		r.Pass = false
		r.Errors = append(r.Errors, fmt.Sprintf("golden comparison failed: %v", err))
		return r
	}
	if !bytes.Equal(golden, snapshot) {
		r.Pass = false
		r.Errors = append(r.Errors, "trace does not match golden file (run with --update to regenerate)")
		return r
	}
	r.Golden = "match"
	return r
}

// goldenFilePath returns the path to the golden file for a scenario.
func goldenFilePath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

func writeGoldenFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func printScenarioResult(w io.Writer, r ScenarioResult) {
	mark := "✓"
	if !r.Pass {
		mark = "✗"
	}
	suffix := ""
	if r.Golden == "updated" {
		suffix = " (golden updated)"
	}
	fmt.Fprintf(w, "%s %s%s\n", mark, r.Name, suffix)
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

// outputScenarioJSON outputs the summary as JSON.
func outputScenarioJSON(cmd *cobra.Command, summary ScenarioSummary) error {
	status := "ok"
	if summary.Failed > 0 {
		status = "error"
	}

	response := CLIResponse{
		Status: status,
		Data:   summary,
	}
	if summary.Failed > 0 {
		response.Error = &CLIError{
			Code:    ErrCodeScenario,
			Message: fmt.Sprintf("%d scenario(s) failed", summary.Failed),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if summary.Failed > 0 {
		exitErr := NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", summary.Failed))
		exitErr.reported = true
		return exitErr
	}
	return nil
}

// outputScenarioText outputs the summary as text.
func outputScenarioText(cmd *cobra.Command, summary ScenarioSummary) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Scenario Summary: %d passed, %d failed, %d total\n", summary.Passed, summary.Failed, summary.Total)

	if summary.Failed > 0 {
		exitErr := NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", summary.Failed))
		exitErr.reported = true
		return exitErr
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
