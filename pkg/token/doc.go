// Package token decodes bearer tokens issued by the task API.
//
// Tokens use the compact three-segment JWT form (header.payload.signature).
// Decode reads the payload only. It does not verify the signature and does
// not reject expired tokens: the server alone decides whether a token is
// still valid, so a decoded Claims value must never be treated as proof of
// authentication.
//
// Payload mapping:
//
//   - sub  -> Claims.Subject (conventionally the account email)
//   - role -> Claims.Role (informational)
//   - exp  -> Claims.ExpiresAt (seconds since epoch)
package token
