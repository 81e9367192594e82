// Package connection is the HTTP transport to the task API.
//
//   - http.go: HTTPClient, attaching the session's bearer token to every call
//   - errors.go: APIError, decoding the server's "detail" error bodies
//
// The client paces itself with a token-bucket limiter, tags each request
// with a ULID in X-Request-ID, and records per-route latency metrics.
package connection
