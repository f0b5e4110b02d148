package harness

// Trace event types.
const (
	EventCall   = "call"
	EventResult = "result"
)

// CaseOK is the case of an operation that succeeded.
const CaseOK = "ok"

// TraceEvent is one call or result in a scenario trace.
type TraceEvent struct {
	Seq    int64          `json:"seq"`
	Type   string         `json:"type"`
	Op     string         `json:"op"`
	Args   map[string]any `json:"args,omitempty"`
	Case   string         `json:"case,omitempty"`
	Result map[string]any `json:"result,omitempty"`
}

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace holds the calls and results of setup and flow, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors describes each failed expectation.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result with an empty trace.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddCall appends a call event.
func (r *Result) AddCall(op string, args map[string]any, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:  seq,
		Type: EventCall,
		Op:   op,
		Args: args,
	})
}

// AddReturn appends a result event.
func (r *Result) AddReturn(op, outcome string, result map[string]any, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:    seq,
		Type:   EventResult,
		Op:     op,
		Case:   outcome,
		Result: result,
	})
}
