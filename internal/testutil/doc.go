// Package testutil holds helpers shared by tests and the scenario harness:
// deterministic id generators, a step sequence, and initialized temp stores.
package testutil
