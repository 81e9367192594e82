// Package service holds the client-side application services for taskdeck.
//
// SessionStore owns the process-wide authentication state: the bearer token
// and the user derived from it. It restores the token from durable storage
// at startup and is mutated only by Login and Logout. It never talks to the
// API; commands hand it tokens they obtained themselves.
package service
