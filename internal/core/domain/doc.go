// Package domain defines the core domain models for taskdeck.
//
// Domain models are plain values without IO dependencies:
//
//   - User: principal derived from a decoded bearer token
//   - Task: server-owned task record and its input payload
//   - Registration, Account: account creation payloads
//   - Errors: coded client errors
package domain
