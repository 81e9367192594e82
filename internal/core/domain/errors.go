// Package domain defines the core domain models for taskdeck.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a client-side error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "TD-AUTH-4010")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches any DomainError carrying the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Token errors.
var (
	// ErrTokenMalformed indicates a bearer token that cannot be decoded.
	ErrTokenMalformed = NewDomainError("TD-TOKN-4000", "malformed token")
)

// Authentication errors.
var (
	// ErrNotLoggedIn indicates a command that needs a session ran without one.
	ErrNotLoggedIn = NewDomainError("TD-AUTH-4010", "not logged in")

	// ErrSessionRejected indicates the server refused the stored token.
	ErrSessionRejected = NewDomainError("TD-AUTH-4011", "session rejected by server")
)

// Storage errors.
var (
	// ErrStorage indicates the credential store could not be read or written.
	ErrStorage = NewDomainError("TD-STOR-5000", "credential storage error")
)

// Task errors.
var (
	// ErrTaskInvalid indicates task input failed local validation.
	ErrTaskInvalid = NewDomainError("TD-TASK-4000", "invalid task")
)

// Configuration errors.
var (
	// ErrConfigInvalid indicates the CLI configuration failed verification.
	ErrConfigInvalid = NewDomainError("TD-CONF-4000", "invalid configuration")
)
