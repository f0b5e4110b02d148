package harness

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/roach88/homeinv/internal/inventory"
	"github.com/roach88/homeinv/internal/store"
)

// validIdentifier restricts table and column names interpolated into SQL.
var validIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nCalls:\n")
		n := 0
		for _, event := range e.Trace {
			if event.Type == EventCall {
				n++
				fmt.Fprintf(&buf, "  [%d] %s %v\n", n, event.Op, event.Args)
			}
		}
	}

	return buf.String()
}

// assertTraceContains checks for a call to the op whose args include the
// assertion's args.
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	want := normalizeMap(assertion.Args)
	for _, event := range trace {
		if event.Type == EventCall && event.Op == assertion.Op && matchArgs(event.Args, want) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("op %s with args %v", assertion.Op, assertion.Args),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the first call of each op appears in the given
// order. Other calls may come between them.
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	positions := make(map[string]int)
	n := 0
	for _, event := range trace {
		if event.Type != EventCall {
			continue
		}
		n++
		if _, seen := positions[event.Op]; !seen {
			positions[event.Op] = n
		}
	}

	for _, op := range assertion.Ops {
		if _, ok := positions[op]; !ok {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all ops present: %v", assertion.Ops),
				Actual:   fmt.Sprintf("missing op: %s", op),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(assertion.Ops); i++ {
		prev, curr := assertion.Ops[i-1], assertion.Ops[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("ops in order: %v", assertion.Ops),
				Actual: fmt.Sprintf("%s (call %d) should be before %s (call %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks the op was called exactly Count times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Type == EventCall && event.Op == assertion.Op {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d calls of %s", assertion.Count, assertion.Op),
			Actual:   fmt.Sprintf("%d calls", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertFinalState checks that exactly one row of the table matches Where and
// that it holds the Expect values. Identifiers are validated and quoted;
// values are bound as parameters.
func assertFinalState(ctx context.Context, st *store.Store, assertion Assertion) error {
	if !validIdentifier.MatchString(assertion.Table) {
		return fmt.Errorf("invalid table name %q: must match pattern %s", assertion.Table, validIdentifier.String())
	}

	whereSQL, whereArgs, err := buildWhereClause(assertion.Where)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`SELECT * FROM "%s"`, assertion.Table)
	if whereSQL != "" {
		query += " WHERE " + whereSQL
	}

	rows, err := st.Query(ctx, query, whereArgs...)
	if err != nil {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("query table %s", assertion.Table),
			Actual:   fmt.Sprintf("query error: %v", err),
		}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("get columns: %w", err)
	}

	if !rows.Next() {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("row in %s where %s", assertion.Table, formatWhereClause(assertion.Where)),
			Actual:   "row not found",
		}
	}

	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return fmt.Errorf("scan row: %w", err)
	}

	if rows.Next() {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("exactly one row in %s where %s", assertion.Table, formatWhereClause(assertion.Where)),
			Actual:   "multiple rows matched (assertion is ambiguous)",
		}
	}

	row := make(map[string]any, len(columns))
	for i, col := range columns {
		row[col] = values[i]
	}

	keys := sortedKeys(assertion.Expect)
	for _, key := range keys {
		actual, exists := row[key]
		if !exists {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q to exist", key),
				Actual:   fmt.Sprintf("field %q not present in result columns: %v", key, columns),
			}
		}
		expected := normalize(assertion.Expect[key])
		if !stateValuesEqual(expected, actual) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q = %v (type %T)", key, expected, expected),
				Actual:   fmt.Sprintf("field %q = %v (type %T)", key, actual, actual),
			}
		}
	}
	return nil
}

// assertItemLocation checks an item's current ledger location.
func assertItemLocation(ctx context.Context, st *store.Store, assertion Assertion) error {
	want := inventory.Location(assertion.Location)
	got, err := st.ItemLocation(ctx, assertion.ItemID)
	if err != nil {
		return &AssertionError{
			Type:     AssertItemLocation,
			Expected: fmt.Sprintf("item %d %s", assertion.ItemID, want),
			Actual:   fmt.Sprintf("error: %v", err),
		}
	}
	if got != want {
		return &AssertionError{
			Type:     AssertItemLocation,
			Expected: fmt.Sprintf("item %d %s", assertion.ItemID, want),
			Actual:   fmt.Sprintf("item %d %s", assertion.ItemID, got),
		}
	}
	return nil
}

// buildWhereClause returns a parameterized condition with keys in sorted order.
func buildWhereClause(where map[string]any) (string, []any, error) {
	if len(where) == 0 {
		return "", nil, nil
	}

	keys := sortedKeys(where)
	clauses := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, key := range keys {
		if !validIdentifier.MatchString(key) {
			return "", nil, fmt.Errorf("invalid column name %q in where clause: must match pattern %s", key, validIdentifier.String())
		}
		clauses = append(clauses, fmt.Sprintf(`"%s" = ?`, key))
		args = append(args, normalize(where[key]))
	}
	return strings.Join(clauses, " AND "), args, nil
}

func formatWhereClause(where map[string]any) string {
	if len(where) == 0 {
		return "(no conditions)"
	}
	keys := sortedKeys(where)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, where[k]))
	}
	return strings.Join(parts, " AND ")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// stateValuesEqual compares a normalized expected value with a column value.
// SQLite returns integers as int64 and text as string or []byte.
func stateValuesEqual(expected, actual any) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}
	if b, ok := actual.([]byte); ok {
		actual = string(b)
	}

	switch exp := expected.(type) {
	case bool:
		if n, ok := actual.(int64); ok {
			return exp == (n != 0)
		}
	case float64:
		if n, ok := actual.(int64); ok {
			return exp == float64(n)
		}
	}
	return reflect.DeepEqual(expected, actual)
}

// matchArgs reports whether actual holds every key of expected with an equal
// value. Extra keys are ignored.
func matchArgs(actual, expected map[string]any) bool {
	for key, want := range expected {
		got, exists := actual[key]
		if !exists || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// AssertionContext gives assertions access to the final store.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// EvaluateAssertions returns one message per failed assertion.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var failures []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertFinalState, AssertItemLocation:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: %s requires database context", i, assertion.Type)
			} else if assertion.Type == AssertFinalState {
				err = assertFinalState(actx.Ctx, actx.Store, assertion)
			} else {
				err = assertItemLocation(actx.Ctx, actx.Store, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}
