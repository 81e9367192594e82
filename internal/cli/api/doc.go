// Package api is the typed client for the task API.
//
// Auth endpoints live under /users and task endpoints under /tasks. Task
// calls that come back 401 are reported as domain.ErrSessionRejected
// wrapping the *connection.APIError, so callers can suggest logging in
// again without inspecting status codes.
package api
