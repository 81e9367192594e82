package token

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yndnr/taskdeck-go/internal/core/domain"
)

// Claims is the decoded payload of a bearer token.
type Claims struct {
	Subject   string `json:"subject"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expires_at"`
}

// ExpiresTime returns ExpiresAt as a time.Time.
func (c Claims) ExpiresTime() time.Time {
	return time.Unix(c.ExpiresAt, 0)
}

// Expired reports whether the expiry lies at or before now.
// This is a display hint only.
func (c Claims) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresTime())
}

// DecodeError is returned when a token is not well-formed.
type DecodeError struct {
	Reason string
	Cause  error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decode token: %s: %v", e.Reason, e.Cause)
	}
	return "decode token: " + e.Reason
}

// Unwrap returns the underlying parse error, if any.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match DecodeError against domain.ErrTokenMalformed.
func (e *DecodeError) Is(target error) bool {
	return errors.Is(domain.ErrTokenMalformed, target)
}

// segmentParser only decodes base64url segments; it never verifies anything.
var segmentParser = jwt.NewParser()

// Decode extracts the claims from a compact JWT without verifying it.
//
// It fails with *DecodeError when the input is empty, does not have exactly
// three segments, carries a payload that is not a single base64url-encoded
// JSON object, or lacks any of sub, role and exp.
func Decode(raw string) (Claims, error) {
	if raw == "" {
		return Claims{}, &DecodeError{Reason: "empty token"}
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return Claims{}, &DecodeError{Reason: fmt.Sprintf("expected 3 segments, got %d", len(parts))}
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return Claims{}, &DecodeError{Reason: "payload is not base64url", Cause: err}
	}

	mc := jwt.MapClaims{}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&mc); err != nil {
		return Claims{}, &DecodeError{Reason: "payload is not a JSON object", Cause: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Claims{}, &DecodeError{Reason: "payload is not a JSON object", Cause: err}
	}

	return claimsFromMap(mc)
}

func claimsFromMap(mc jwt.MapClaims) (Claims, error) {
	if _, ok := mc["sub"]; !ok {
		return Claims{}, &DecodeError{Reason: "missing sub"}
	}
	sub, err := mc.GetSubject()
	if err != nil {
		return Claims{}, &DecodeError{Reason: "invalid sub", Cause: err}
	}
	if sub == "" {
		return Claims{}, &DecodeError{Reason: "empty sub"}
	}

	rawRole, ok := mc["role"]
	if !ok {
		return Claims{}, &DecodeError{Reason: "missing role"}
	}
	role, ok := rawRole.(string)
	if !ok {
		return Claims{}, &DecodeError{Reason: "role is not a string"}
	}

	exp, err := mc.GetExpirationTime()
	if err != nil {
		return Claims{}, &DecodeError{Reason: "invalid exp", Cause: err}
	}
	if exp == nil {
		return Claims{}, &DecodeError{Reason: "missing exp"}
	}

	// Fractional exp values are truncated to whole seconds.
	return Claims{
		Subject:   sub,
		Role:      role,
		ExpiresAt: exp.Unix(),
	}, nil
}
