package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name:     "without details",
			err:      NewDomainError("TD-TEST-1000", "test message"),
			expected: "[TD-TEST-1000] test message",
		},
		{
			name:     "with details",
			err:      NewDomainError("TD-TEST-1001", "test message").WithDetails("extra info"),
			expected: "[TD-TEST-1001] test message: extra info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDomainError_Is(t *testing.T) {
	a := NewDomainError("TD-TEST-1000", "message 1")
	b := NewDomainError("TD-TEST-1000", "message 2")
	c := NewDomainError("TD-TEST-1001", "message 1")

	if !errors.Is(a, b) {
		t.Error("errors with the same code should match")
	}
	if errors.Is(a, c) {
		t.Error("errors with different codes should not match")
	}
	if errors.Is(a, fmt.Errorf("plain")) {
		t.Error("DomainError should not match a plain error")
	}
	if !errors.Is(ErrTaskInvalid.WithDetails("title is required"), ErrTaskInvalid) {
		t.Error("WithDetails copy should match its sentinel")
	}
}

func TestDomainError_UnwrapAndCause(t *testing.T) {
	cause := errors.New("disk full")
	err := ErrStorage.WithCause(cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if !errors.Is(err, ErrStorage) {
		t.Error("errors.Is should match the sentinel")
	}
	if ErrStorage.Cause != nil {
		t.Error("WithCause must not mutate the sentinel")
	}
	if NewDomainError("TD-TEST-1000", "x").Unwrap() != nil {
		t.Error("Unwrap() without cause should be nil")
	}
}

func TestDomainError_WithDetailsKeepsCause(t *testing.T) {
	cause := errors.New("root")
	err := ErrStorage.WithCause(cause).WithDetails("write access_token")

	if err.Cause != cause {
		t.Error("WithDetails dropped the cause")
	}
	if err.Details != "write access_token" {
		t.Errorf("Details = %q", err.Details)
	}
	if ErrStorage.Details != "" {
		t.Error("WithDetails must not mutate the sentinel")
	}
}

func TestIsDomainError(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", ErrNotLoggedIn)

	if !IsDomainError(wrapped, "TD-AUTH-4010") {
		t.Error("wrapped error should match its code")
	}
	if IsDomainError(wrapped, "TD-AUTH-4011") {
		t.Error("should not match a different code")
	}
	if !IsDomainError(wrapped, "") {
		t.Error("empty code should match any DomainError")
	}
	if IsDomainError(errors.New("plain"), "") {
		t.Error("plain error is not a DomainError")
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"sentinel", ErrSessionRejected, "TD-AUTH-4011"},
		{"wrapped", fmt.Errorf("decode: %w", ErrTokenMalformed), "TD-TOKN-4000"},
		{"plain", errors.New("x"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err  *DomainError
		code string
	}{
		{ErrTokenMalformed, "TD-TOKN-4000"},
		{ErrNotLoggedIn, "TD-AUTH-4010"},
		{ErrSessionRejected, "TD-AUTH-4011"},
		{ErrStorage, "TD-STOR-5000"},
		{ErrTaskInvalid, "TD-TASK-4000"},
		{ErrConfigInvalid, "TD-CONF-4000"},
	}
	for _, tt := range tests {
		if tt.err.Code != tt.code {
			t.Errorf("code = %q, want %q", tt.err.Code, tt.code)
		}
		if tt.err.Message == "" {
			t.Errorf("%s has no message", tt.code)
		}
	}
}
