package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/homeinv/internal/testutil"
)

func sampleTrace() []TraceEvent {
	r := NewResult()
	r.AddCall("create_item", map[string]any{"name": "Bolt", "unit": "each"}, 1)
	r.AddReturn("create_item", CaseOK, map[string]any{"item_id": int64(1)}, 2)
	r.AddCall("box_one", map[string]any{"item_id": int64(1)}, 3)
	r.AddReturn("box_one", CaseOK, nil, 4)
	r.AddCall("create_item", map[string]any{"name": "Nut"}, 5)
	r.AddReturn("create_item", CaseOK, map[string]any{"item_id": int64(2)}, 6)
	return r.Trace
}

func TestAssertTraceContains(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceContains(trace, Assertion{Op: "box_one"}))
	assert.NoError(t, assertTraceContains(trace, Assertion{Op: "box_one", Args: map[string]any{"item_id": 1}}))
	assert.NoError(t, assertTraceContains(trace, Assertion{Op: "create_item", Args: map[string]any{"name": "Nut"}}))

	err := assertTraceContains(trace, Assertion{Op: "box_one", Args: map[string]any{"item_id": 2}})
	require.Error(t, err)
	var aerr *AssertionError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, AssertTraceContains, aerr.Type)
	assert.Contains(t, err.Error(), "[2] box_one")

	assert.Error(t, assertTraceContains(trace, Assertion{Op: "unbox"}))
}

func TestAssertTraceOrder(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceOrder(trace, Assertion{Ops: []string{"create_item", "box_one"}}))

	err := assertTraceOrder(trace, Assertion{Ops: []string{"box_one", "create_item"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "should be before")

	err = assertTraceOrder(trace, Assertion{Ops: []string{"create_item", "unbox"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing op: unbox")
}

func TestAssertTraceCount(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceCount(trace, Assertion{Op: "create_item", Count: 2}))
	assert.NoError(t, assertTraceCount(trace, Assertion{Op: "unbox", Count: 0}))

	err := assertTraceCount(trace, Assertion{Op: "box_one", Count: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 calls")
}

func TestAssertFinalState(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()
	_, err := st.CreateItem(ctx, "Bolt", 1, "steel")
	require.NoError(t, err)
	_, err = st.CreateItem(ctx, "Nut", 1, "steel")
	require.NoError(t, err)

	t.Run("match", func(t *testing.T) {
		err := assertFinalState(ctx, st, Assertion{
			Table:  "Item",
			Where:  map[string]any{"id": 1},
			Expect: map[string]any{"name": "Bolt", "unitId": 1},
		})
		assert.NoError(t, err)
	})

	t.Run("value mismatch", func(t *testing.T) {
		err := assertFinalState(ctx, st, Assertion{
			Table:  "Item",
			Where:  map[string]any{"id": 1},
			Expect: map[string]any{"name": "Nut"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `field "name"`)
	})

	t.Run("row not found", func(t *testing.T) {
		err := assertFinalState(ctx, st, Assertion{
			Table:  "Item",
			Where:  map[string]any{"id": 42},
			Expect: map[string]any{"name": "Bolt"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row not found")
	})

	t.Run("ambiguous", func(t *testing.T) {
		err := assertFinalState(ctx, st, Assertion{
			Table:  "Item",
			Where:  map[string]any{"notes": "steel"},
			Expect: map[string]any{"name": "Bolt"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "multiple rows matched")
	})

	t.Run("missing column", func(t *testing.T) {
		err := assertFinalState(ctx, st, Assertion{
			Table:  "Item",
			Where:  map[string]any{"id": 1},
			Expect: map[string]any{"colour": "red"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not present")
	})

	t.Run("transaction table", func(t *testing.T) {
		err := assertFinalState(ctx, st, Assertion{
			Table:  "Transaction",
			Where:  map[string]any{"id": 1},
			Expect: map[string]any{"id": 1},
		})
		assert.NoError(t, err)
	})

	t.Run("invalid identifiers", func(t *testing.T) {
		err := assertFinalState(ctx, st, Assertion{
			Table:  "Item; DROP TABLE Item",
			Expect: map[string]any{"name": "Bolt"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid table name")

		err = assertFinalState(ctx, st, Assertion{
			Table:  "Item",
			Where:  map[string]any{"id = 1 OR 1": 1},
			Expect: map[string]any{"name": "Bolt"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid column name")
	})
}

func TestAssertItemLocation(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()
	ids := testutil.SeedItems(t, st, "each", "Bolt")
	_, err := st.BoxOne(ctx, ids[0])
	require.NoError(t, err)

	assert.NoError(t, assertItemLocation(ctx, st, Assertion{ItemID: ids[0], Location: "boxed"}))

	err = assertItemLocation(ctx, st, Assertion{ItemID: ids[0], Location: "unboxed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boxed")

	err = assertItemLocation(ctx, st, Assertion{ItemID: 99, Location: "boxed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ITEM_NOT_FOUND")
}

func TestStateValuesEqual(t *testing.T) {
	assert.True(t, stateValuesEqual(int64(1), int64(1)))
	assert.True(t, stateValuesEqual("a", []byte("a")))
	assert.True(t, stateValuesEqual(true, int64(1)))
	assert.True(t, stateValuesEqual(float64(2), int64(2)))
	assert.True(t, stateValuesEqual(nil, nil))
	assert.False(t, stateValuesEqual(nil, int64(0)))
	assert.False(t, stateValuesEqual("1", int64(1)))
}

func TestMatchArgs(t *testing.T) {
	actual := map[string]any{"a": int64(1), "b": "x"}

	assert.True(t, matchArgs(actual, nil))
	assert.True(t, matchArgs(actual, map[string]any{"a": int64(1)}))
	assert.False(t, matchArgs(actual, map[string]any{"a": int64(2)}))
	assert.False(t, matchArgs(actual, map[string]any{"c": "x"}))
	assert.False(t, matchArgs(nil, map[string]any{"a": int64(1)}))
}

func TestEvaluateAssertions(t *testing.T) {
	result := &Result{Trace: sampleTrace()}

	failures := EvaluateAssertions(result, []Assertion{
		{Type: AssertTraceCount, Op: "create_item", Count: 2},
		{Type: AssertTraceCount, Op: "create_item", Count: 5},
		{Type: AssertFinalState, Table: "Item", Expect: map[string]any{"id": 1}},
		{Type: "bogus"},
	}, nil)

	require.Len(t, failures, 3)
	assert.Contains(t, failures[1], "requires database context")
	assert.Contains(t, failures[2], `unknown assertion type "bogus"`)
}
