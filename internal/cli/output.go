package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/homeinv/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Refused operation or failed scenario
	ExitCommandError = 2 // Command error (bad config, database missing, etc.)
)

// Error codes reported by OutputFormatter.Error.
// E0xx are command errors, E1xx mirror store error codes.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeConfig         = "E002" // Invalid configuration or flags
	ErrCodeOpenFailed     = "E003" // Database could not be opened
	ErrCodeNotFound       = "E004" // Path not found
	ErrCodeExists         = "E005" // Database already exists
	ErrCodeInvalidArg     = "E006" // Malformed argument
	ErrCodeCSV            = "E007" // CSV read/write failure
	ErrCodeScenario       = "E008" // Scenario load or run failure
	ErrCodeNotInitialized = "E101"
	ErrCodeSchema         = "E102"
	ErrCodeUnknownUnit    = "E103"
	ErrCodeItemNotFound   = "E104"
	ErrCodeNoTransaction  = "E105"
	ErrCodeStorage        = "E106"
	ErrCodeItemHasHistory = "E107"
	ErrCodeInvalidMove    = "E108"
)

var storeErrorCodes = map[store.ErrorCode]string{
	store.CodeNotInitialized:       ErrCodeNotInitialized,
	store.CodeSchema:               ErrCodeSchema,
	store.CodeUnknownUnit:          ErrCodeUnknownUnit,
	store.CodeItemNotFound:         ErrCodeItemNotFound,
	store.CodeNoCurrentTransaction: ErrCodeNoTransaction,
	store.CodeStorage:              ErrCodeStorage,
	store.CodeItemHasHistory:       ErrCodeItemHasHistory,
	store.CodeInvalidMove:          ErrCodeInvalidMove,
}

// errorCodeFor maps a store error to its CLI code. Anything else is generic.
func errorCodeFor(err error) string {
	if code, ok := storeErrorCodes[store.CodeOf(err)]; ok {
		return code
	}
	return ErrCodeGeneric
}

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	// reported is set once the error has been written by an OutputFormatter.
	reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E104", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
// Text output relies on data's String method.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err under code and returns an ExitError carrying exitCode.
// The returned error is not printed again by Execute.
func (f *OutputFormatter) Fail(exitCode int, code, message string, err error) error {
	text := message
	if err != nil {
		text = fmt.Sprintf("%s: %v", message, err)
	}
	var details any
	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		details = storeErrorDetails(storeErr)
	}
	_ = f.Error(code, text, details)

	exitErr := WrapExitError(exitCode, message, err)
	exitErr.reported = true
	return exitErr
}

// FailStore reports a store error with its mapped code. Refusals exit 1.
func (f *OutputFormatter) FailStore(message string, err error) error {
	exitCode := ExitFailure
	switch store.CodeOf(err) {
	case store.CodeNotInitialized, store.CodeSchema, store.CodeStorage:
		exitCode = ExitCommandError
	}
	return f.Fail(exitCode, errorCodeFor(err), message, err)
}

func storeErrorDetails(e *store.Error) map[string]any {
	details := map[string]any{"store_code": string(e.Code)}
	if e.ItemID != 0 {
		details["item_id"] = e.ItemID
	}
	if e.UnitID != 0 {
		details["unit_id"] = e.UnitID
	}
	return details
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
