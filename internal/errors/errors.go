// Package errors provides structured error types for resgate operations.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// KindIO represents I/O errors.
	KindIO ErrorKind = iota
	// KindPath represents path-related errors.
	KindPath
	// KindConfig represents configuration validation errors.
	KindConfig
	// KindScenarioParse represents scenario file parsing errors.
	KindScenarioParse
	// KindLimitTable represents unusable resolution bitrate limit tables.
	KindLimitTable
	// KindExpectation represents a replayed decision that did not match its expectation.
	KindExpectation
	// KindNoScenarios represents no scenario files found.
	KindNoScenarios
	// KindOperationFailed represents general operation failures.
	KindOperationFailed
	// KindCancelled represents user-cancelled operations.
	KindCancelled
)

// String returns a string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "I/O error"
	case KindPath:
		return "Path error"
	case KindConfig:
		return "Configuration error"
	case KindScenarioParse:
		return "Scenario parse error"
	case KindLimitTable:
		return "Limit table error"
	case KindExpectation:
		return "Expectation mismatch"
	case KindNoScenarios:
		return "No scenarios found"
	case KindOperationFailed:
		return "Operation failed"
	case KindCancelled:
		return "Operation cancelled"
	default:
		return "Unknown error"
	}
}

// ExpectationError describes a proposal whose decision differed from the
// expectation recorded in the scenario.
type ExpectationError struct {
	Scenario string
	Step     int
	Want     string
	Got      string
	Reason   string
}

func (e *ExpectationError) Error() string {
	return fmt.Sprintf("scenario %q step %d: expected %s, got %s (%s)", e.Scenario, e.Step, e.Want, e.Got, e.Reason)
}

// CoreError is the main error type for resgate operations.
type CoreError struct {
	Kind       ErrorKind
	Message    string
	Underlying error
}

func (e *CoreError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CoreError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target matches this error's kind.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewIOError creates a new I/O error.
func NewIOError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindIO, Message: message, Underlying: underlying}
}

// NewPathError creates a new path-related error.
func NewPathError(message string) *CoreError {
	return &CoreError{Kind: KindPath, Message: message}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindConfig, Message: message, Underlying: underlying}
}

// NewScenarioParseError creates an error for a scenario file that could not be parsed.
func NewScenarioParseError(source string, underlying error) *CoreError {
	return &CoreError{Kind: KindScenarioParse, Message: source, Underlying: underlying}
}

// NewLimitTableError creates an error for an unusable limit table.
func NewLimitTableError(source string, underlying error) *CoreError {
	return &CoreError{Kind: KindLimitTable, Message: source, Underlying: underlying}
}

// NewExpectationError creates an expectation mismatch error.
func NewExpectationError(scenario string, step int, want, got, reason string) *CoreError {
	expErr := &ExpectationError{
		Scenario: scenario,
		Step:     step,
		Want:     want,
		Got:      got,
		Reason:   reason,
	}
	return &CoreError{Kind: KindExpectation, Message: expErr.Error(), Underlying: expErr}
}

// NewMismatchesError creates an expectation error summarizing a replay in
// which mismatches of total decisions differed from their expectation.
func NewMismatchesError(mismatches, total int) *CoreError {
	return &CoreError{
		Kind:    KindExpectation,
		Message: fmt.Sprintf("%d of %d decisions differed from their expectation", mismatches, total),
	}
}

// NewNoScenariosError creates an error for when no scenario files are found.
func NewNoScenariosError(dir string) *CoreError {
	return &CoreError{Kind: KindNoScenarios, Message: fmt.Sprintf("no scenario files found in %s", dir)}
}

// NewOperationFailedError creates a new general operation failure error.
func NewOperationFailedError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindOperationFailed, Message: message, Underlying: underlying}
}

// NewCancelledError creates an error for user-cancelled operations.
func NewCancelledError() *CoreError {
	return &CoreError{Kind: KindCancelled, Message: "operation was cancelled by the user"}
}

// IsKind checks if the error has the specified kind.
func IsKind(err error, kind ErrorKind) bool {
	var coreErr *CoreError
	if errors.As(err, &coreErr) {
		return coreErr.Kind == kind
	}
	return false
}

// IsCancelled checks if the error is a cancellation error.
func IsCancelled(err error) bool {
	return IsKind(err, KindCancelled)
}

// IsExpectationMismatch checks if the error is an expectation mismatch.
func IsExpectationMismatch(err error) bool {
	return IsKind(err, KindExpectation)
}

// WrapContextError converts context cancellation into a cancelled CoreError
// and returns other errors unchanged.
func WrapContextError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &CoreError{Kind: KindCancelled, Message: "operation was cancelled by the user", Underlying: err}
	}
	return err
}
