// Package logger provides structured logging for taskdeck.
//
// It wraps log/slog behind a small Logger interface:
//
//   - logger.go: construction, dynamic level, process default
//   - context.go: logger, command name and request ID propagation
//   - redact.go: masking of credentials before they reach the handler
//
// The CLI writes logs to stderr so they never mix with command output.
// Bearer tokens are masked wherever they appear as attribute values.
package logger
