package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/homeinv/internal/store"
	"github.com/roach88/homeinv/internal/testutil"
)

// Harness executes scenario steps against one store.
type Harness struct {
	store  *store.Store
	seq    *testutil.Sequence
	logger *slog.Logger
}

// Option configures a run.
type Option func(*Harness)

// WithLogger routes step logging to logger. Defaults to discard.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Run executes a scenario in a fresh in-memory store and returns the result.
//
// Execution flow:
//  1. Open and initialize an in-memory store with a fixed store id
//  2. Run setup steps, which must succeed
//  3. Run flow steps, checking each against its expect clause
//  4. Evaluate assertions against the trace and the final state
//
// An error is returned only when the scenario cannot be executed; failed
// expectations are reported in Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	ctx := context.Background()

	h := &Harness{
		seq:    &testutil.Sequence{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}

	st, err := store.Open(":memory:",
		store.WithIDGenerator(testutil.NewFixedIDGenerator(scenario.StoreID)),
		store.WithLogger(h.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	if err := st.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	h.store = st

	result := NewResult()
	if err := h.executeSetup(ctx, scenario.Setup, result); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}
	if err := h.executeFlow(ctx, scenario.Flow, result); err != nil {
		return nil, fmt.Errorf("failed to execute flow: %w", err)
	}

	actx := &AssertionContext{Store: st, Ctx: ctx}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	h.logger.Info("scenario finished",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"steps", len(scenario.Setup)+len(scenario.Flow))
	return result, nil
}

func (h *Harness) executeSetup(ctx context.Context, setup []SetupStep, result *Result) error {
	for i, step := range setup {
		outcome, _, err := h.execute(ctx, step.Op, step.Args, result)
		if err != nil {
			return fmt.Errorf("setup step %d (%s): %w", i, step.Op, err)
		}
		if outcome != CaseOK {
			return fmt.Errorf("setup step %d (%s): failed with %s", i, step.Op, outcome)
		}
	}
	return nil
}

func (h *Harness) executeFlow(ctx context.Context, flow []FlowStep, result *Result) error {
	for i, step := range flow {
		outcome, got, err := h.execute(ctx, step.Op, step.Args, result)
		if err != nil {
			return fmt.Errorf("flow step %d (%s): %w", i, step.Op, err)
		}

		wantCase := CaseOK
		var wantResult map[string]any
		if step.Expect != nil {
			if step.Expect.Case != "" {
				wantCase = step.Expect.Case
			}
			wantResult = normalizeMap(step.Expect.Result)
		}

		if outcome != wantCase {
			result.AddError(fmt.Sprintf("flow step %d (%s): expected case %s, got %s",
				i, step.Op, wantCase, outcome))
			continue
		}
		if !matchArgs(got, wantResult) {
			result.AddError(fmt.Sprintf("flow step %d (%s): expected result %v, got %v",
				i, step.Op, wantResult, got))
		}

		h.logger.Debug("flow step completed",
			"step", i,
			"op", step.Op,
			"case", outcome)
	}
	return nil
}

// execute runs one operation and records its call and result events. Store
// errors become the outcome case; other errors are returned.
func (h *Harness) execute(ctx context.Context, op string, rawArgs map[string]any, result *Result) (string, map[string]any, error) {
	fn, ok := operations[op]
	if !ok {
		return "", nil, fmt.Errorf("unknown op %q", op)
	}

	args := normalizeMap(rawArgs)
	result.AddCall(op, args, h.seq.Next())

	got, err := fn(ctx, h.store, args)
	outcome := CaseOK
	if err != nil {
		var storeErr *store.Error
		if !errors.As(err, &storeErr) {
			return "", nil, err
		}
		outcome = string(storeErr.Code)
		got = nil
	}

	result.AddReturn(op, outcome, got, h.seq.Next())
	return outcome, got, nil
}
