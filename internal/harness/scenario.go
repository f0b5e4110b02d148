package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted run against a fresh store.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// StoreID fixes the store identity. Empty uses testutil.DefaultStoreID.
	StoreID string `yaml:"store_id,omitempty"`

	// Setup steps establish state and must succeed.
	Setup []SetupStep `yaml:"setup,omitempty"`

	// Flow steps are checked against their expect clauses.
	Flow []FlowStep `yaml:"flow"`

	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// SetupStep is an operation run before the flow.
type SetupStep struct {
	Op   string         `yaml:"op"`
	Args map[string]any `yaml:"args,omitempty"`
}

// FlowStep is an operation with an optional expectation.
type FlowStep struct {
	Op     string         `yaml:"op"`
	Args   map[string]any `yaml:"args,omitempty"`
	Expect *ExpectClause  `yaml:"expect,omitempty"`
}

// ExpectClause describes the expected outcome of a flow step.
type ExpectClause struct {
	// Case is "ok" or a store error code such as ITEM_NOT_FOUND.
	// Empty means "ok".
	Case string `yaml:"case,omitempty"`

	// Result is matched as a subset of the operation's result.
	Result map[string]any `yaml:"result,omitempty"`
}

// Assertion checks the trace or the final state.
type Assertion struct {
	Type string `yaml:"type"`

	// Op is used by trace_contains and trace_count.
	Op string `yaml:"op,omitempty"`

	// Args is a subset match for trace_contains.
	Args map[string]any `yaml:"args,omitempty"`

	// Ops is the expected order for trace_order.
	Ops []string `yaml:"ops,omitempty"`

	// Count is used by trace_count.
	Count int `yaml:"count,omitempty"`

	// Table, Where and Expect are used by final_state.
	Table  string         `yaml:"table,omitempty"`
	Where  map[string]any `yaml:"where,omitempty"`
	Expect map[string]any `yaml:"expect,omitempty"`

	// ItemID and Location are used by item_location.
	ItemID   int64  `yaml:"item_id,omitempty"`
	Location string `yaml:"location,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
	AssertItemLocation  = "item_location"
)

// LoadScenario reads and validates a scenario file. Unknown fields are
// rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow must have at least one step")
	}

	for i, step := range s.Setup {
		if err := validateOp(step.Op); err != nil {
			return fmt.Errorf("setup[%d]: %w", i, err)
		}
	}
	for i, step := range s.Flow {
		if err := validateOp(step.Op); err != nil {
			return fmt.Errorf("flow[%d]: %w", i, err)
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(a, i); err != nil {
			return err
		}
	}
	return nil
}

func validateOp(op string) error {
	if op == "" {
		return fmt.Errorf("op is required")
	}
	if _, ok := operations[op]; !ok {
		return fmt.Errorf("unknown op %q", op)
	}
	return nil
}

func validateAssertion(a Assertion, index int) error {
	switch a.Type {
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	case AssertItemLocation:
		if a.ItemID <= 0 {
			return fmt.Errorf("assertions[%d]: item_id is required for item_location", index)
		}
		if a.Location == "" {
			return fmt.Errorf("assertions[%d]: location is required for item_location", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
