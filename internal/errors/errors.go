// Package apperrors defines the error classes of hypercalc (configuration,
// evaluation, server, validation, backend disagreement) and maps them to
// process exit codes.
//
// Every wrapping type implements Unwrap so that errors.Is and errors.As see
// through it.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Process exit codes.
const (
	ExitSuccess       = 0   // Successful execution.
	ExitErrorGeneric  = 1   // Any other failure.
	ExitErrorTimeout  = 2   // The evaluation hit its timeout.
	ExitErrorMismatch = 3   // Backends returned different values.
	ExitErrorConfig   = 4   // Invalid flags, environment or config file.
	ExitErrorCanceled = 130 // Interrupted (SIGINT).
)

// ConfigError is a user configuration mistake.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError returns a ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError is a failed evaluation. Backend names the numeric
// backend that failed, when known.
type CalculationError struct {
	Backend string
	Cause   error
}

func (e CalculationError) Error() string {
	if e.Backend == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.Backend, e.Cause)
}

func (e CalculationError) Unwrap() error { return e.Cause }

// NewCalculationError wraps cause, or returns nil when cause is nil.
func NewCalculationError(backend string, cause error) error {
	if cause == nil {
		return nil
	}
	return CalculationError{Backend: backend, Cause: cause}
}

// MismatchError reports that backends evaluated the same expression to
// different values. With fixed-width backends this is how overflow shows.
type MismatchError struct {
	// Expression is the rendered expression, e.g. "3 ↑↑ 3".
	Expression string
	// Backends lists the backends that disagree with the first result.
	Backends []string
}

func (e MismatchError) Error() string {
	return fmt.Sprintf("results for %s differ between backends (%s)", e.Expression, strings.Join(e.Backends, ", "))
}

// ServerError is a failure of the HTTP server component.
type ServerError struct {
	Message string
	Cause   error
}

func (e ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError returns a ServerError. cause may be nil.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// ValidationError is an invalid input value, from an API request or the
// command line.
type ValidationError struct {
	// Field is the name of the rejected field.
	Field string
	// Message describes the problem.
	Message string
	// Value is the rejected value, if useful.
	Value any
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError returns a ValidationError.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}

// WrapError adds context to err with %w, or returns nil when err is nil.
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err comes from a cancelled or expired
// context.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	var (
		configErr   ConfigError
		mismatchErr MismatchError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &mismatchErr):
		return ExitErrorMismatch
	case errors.As(err, &configErr):
		return ExitErrorConfig
	}
	return ExitErrorGeneric
}
