package logger

import (
	"log/slog"
	"strings"
)

// Key fragments that mark an attribute as secret.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"key",
	"credential",
	"auth",
	"bearer",
}

const redactedValue = "***REDACTED***"

const bearerPrefix = "Bearer "

// redactSensitive masks JWT-looking values and redacts values under
// sensitive keys. Value masking wins so a logged token stays recognizable.
func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		v := a.Value.String()
		if masked, ok := maskCredential(v); ok {
			return slog.String(a.Key, masked)
		}
		if v != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// maskCredential masks a compact JWT, optionally prefixed with "Bearer ".
func maskCredential(v string) (string, bool) {
	prefix := ""
	if strings.HasPrefix(v, bearerPrefix) {
		prefix, v = bearerPrefix, v[len(bearerPrefix):]
	}
	if !looksLikeJWT(v) {
		return "", false
	}
	return prefix + maskValue(v, 3), true
}

// looksLikeJWT reports whether v has the shape of a compact JWT: a base64url
// JSON header ("eyJ") followed by exactly two more dot-separated segments.
func looksLikeJWT(v string) bool {
	return strings.HasPrefix(v, "eyJ") && strings.Count(v, ".") == 2
}

// maskValue keeps the first and last n characters.
// Format: first n + "..." + last n, or first 3 + "***" when too short.
func maskValue(value string, n int) string {
	if len(value) <= 2*n+6 {
		return value[:min(3, len(value))] + "***"
	}
	return value[:n] + "..." + value[len(value)-n:]
}

// RedactString masks value if it looks like a bearer token.
// Use this when a token is embedded in a message rather than an attribute.
func RedactString(value string) string {
	if masked, ok := maskCredential(value); ok {
		return masked
	}
	return value
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// IsSensitiveValue checks if a value appears to be a bearer token.
func IsSensitiveValue(value string) bool {
	_, ok := maskCredential(value)
	return ok
}
