// Package apperrors defines the application error types and the exit codes
// derived from them. Engine errors (matrix and multiply packages) stay
// sentinels; this package wraps them with the context the CLI and the HTTP
// server need to report them.
//
// Every wrapping type implements Unwrap, so errors.Is(err,
// matrix.ErrDimensionMismatch) keeps working through the wrappers.
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitSuccess       = 0   // Successful run.
	ExitErrorGeneric  = 1   // Any other failure.
	ExitErrorTimeout  = 2   // The -timeout deadline was reached.
	ExitErrorMismatch = 3   // Two algorithms disagreed beyond the tolerance.
	ExitErrorConfig   = 4   // Invalid flags or environment.
	ExitErrorCanceled = 130 // Interrupted by a signal.
)

// ConfigError reports an invalid user setting.
type ConfigError struct {
	// Flag is the offending flag name, without the leading dash. It may be empty.
	Flag string
	// Message explains what is wrong.
	Message string
}

// Error implements error.
func (e ConfigError) Error() string {
	if e.Flag != "" {
		return fmt.Sprintf("invalid -%s: %s", e.Flag, e.Message)
	}
	return e.Message
}

// NewConfigError creates a ConfigError that is not tied to a single flag.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// NewFlagError creates a ConfigError for flag.
func NewFlagError(flag, format string, a ...any) error {
	return ConfigError{Flag: flag, Message: fmt.Sprintf(format, a...)}
}

// MultiplicationError records which run failed and why.
type MultiplicationError struct {
	// Algorithm is the identifier of the failed algorithm.
	Algorithm string
	// Size is the dimension of the operands.
	Size int
	// Cause is the engine error.
	Cause error
}

// Error implements error.
func (e MultiplicationError) Error() string {
	return fmt.Sprintf("%s (n=%d): %v", e.Algorithm, e.Size, e.Cause)
}

// Unwrap returns the engine error.
func (e MultiplicationError) Unwrap() error { return e.Cause }

// MismatchError reports a product that differs from the reference product
// by more than the configured tolerance.
type MismatchError struct {
	Algorithm     string
	Reference     string
	Size          int
	RelativeError float64
	Tolerance     float64
}

// Error implements error.
func (e MismatchError) Error() string {
	return fmt.Sprintf("%s disagrees with %s at n=%d: relative error %.3g exceeds %.3g",
		e.Algorithm, e.Reference, e.Size, e.RelativeError, e.Tolerance)
}

// ServerError wraps a failure of the HTTP server.
type ServerError struct {
	// Message describes the failed operation.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements error.
func (e ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError creates a ServerError.
//
// Parameters:
//   - message: The failed operation.
//   - cause: The underlying error, may be nil.
//
// Returns:
//   - error: The ServerError.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// ValidationError reports an invalid API request field.
type ValidationError struct {
	// Field is the request field that failed validation.
	Field string
	// Message describes the problem.
	Message string
	// Value is the rejected value, if useful.
	Value any
	// Cause is the engine error behind the rejection, if any.
	Cause error
}

// Error implements error.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap returns the engine error behind the rejection.
func (e ValidationError) Unwrap() error { return e.Cause }

// NewValidationError creates a ValidationError without a cause.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}

// WrapError prefixes err with a formatted message, keeping it unwrappable.
// It returns nil when err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err is a cancellation or a deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	var configErr ConfigError
	var mismatchErr MismatchError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &configErr):
		return ExitErrorConfig
	case errors.As(err, &mismatchErr):
		return ExitErrorMismatch
	default:
		return ExitErrorGeneric
	}
}
