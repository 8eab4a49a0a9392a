package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = errors.New("not implemented")

	// Configuration errors
	ErrMissingConfig = errors.New("configuration not found")
	ErrInvalidConfig = errors.New("invalid configuration")

	// Authentication errors
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrAuthFailed     = errors.New("authentication failed")
	ErrSessionRestore = errors.New("session restoration failed")
	ErrRevokeFailed   = errors.New("session revocation failed")
	ErrTimeout        = errors.New("operation timed out")

	// API and record errors
	ErrAPIRequest         = errors.New("API request failed")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrMalformedRecord    = errors.New("malformed record")

	// Input validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidArgument = errors.New("invalid argument")
)

// ValidationError describes a client-side contract violation: a bad field
// value, an out-of-range limit, or an oversized string. Validation errors are
// surfaced to the user synchronously and never retried.
//
// Index identifies the offending element for sequence-scoped violations
// (e.g., a single bad sound interval) and is -1 otherwise.
type ValidationError struct {
	Field  string
	Index  int
	Reason string
}

// NewValidationError creates a [ValidationError] scoped to a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Index: -1, Reason: reason}
}

// NewElementValidationError creates a [ValidationError] scoped to one element
// of a sequence-valued field.
func NewElementValidationError(field string, index int, reason string) *ValidationError {
	return &ValidationError{Field: field, Index: index, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s[%d]: %s", e.Field, e.Index, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap makes validation errors match [ErrInvalidInput] via [errors.Is].
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// AuthError describes an authentication failure: no active session, a failed
// interactive sign-in, or a failed revocation. Err carries the matching
// sentinel ([ErrNotLoggedIn], [ErrAuthFailed], [ErrRevokeFailed]).
type AuthError struct {
	Reason string
	Err    error
}

// NewAuthError creates an [AuthError] wrapping the given sentinel.
func NewAuthError(sentinel error, reason string) *AuthError {
	return &AuthError{Reason: reason, Err: sentinel}
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// APIError describes a failed remote call. StatusCode is the HTTP status,
// Code the machine-readable error name from the response body (when the
// server provided one), and Message the human-readable detail.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// Unwrap makes API errors match [ErrAPIRequest] via [errors.Is].
func (e *APIError) Unwrap() error { return ErrAPIRequest }
