package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/yndnr/taskdeck-go/internal/core/domain"
	"github.com/yndnr/taskdeck-go/internal/storage"
	"github.com/yndnr/taskdeck-go/internal/telemetry/logger"
	"github.com/yndnr/taskdeck-go/pkg/token"
)

// TokenKey is the storage key holding the persisted bearer token.
const TokenKey = "access_token"

// TokenStore is the durable storage the session persists into.
// storage.KV satisfies it.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// SessionState is an immutable snapshot of the authentication state.
// User is nil exactly when Token is empty.
type SessionState struct {
	Token string
	User  *domain.User

	// ExpiresAt is the token's exp claim, for display only.
	ExpiresAt int64
}

// Authenticated reports whether the snapshot carries a token.
func (s SessionState) Authenticated() bool {
	return s.Token != ""
}

// SessionStore holds the current session.
//
// Reads are lock-free snapshot loads. Mutations are serialized so a failed
// storage write never races another mutation.
type SessionStore struct {
	store  TokenStore
	logger logger.Logger

	mu    sync.Mutex
	state atomic.Pointer[SessionState]
}

// NewSessionStore creates an unauthenticated store. Call Initialize to
// restore a persisted session.
func NewSessionStore(store TokenStore, log logger.Logger) *SessionStore {
	if log == nil {
		log = logger.Default()
	}
	s := &SessionStore{store: store, logger: log}
	s.state.Store(&SessionState{})
	return s
}

// Initialize restores the persisted token.
//
// A missing token leaves the store unauthenticated. A token that no longer
// decodes is removed from storage and logged; Initialize still returns nil.
// Storage read failures are returned and leave the state as it was.
func (s *SessionStore) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.store.Get(ctx, TokenKey)
	switch {
	case errors.Is(err, storage.ErrKeyNotFound):
		s.state.Store(&SessionState{})
		s.logger.Debug("no persisted session")
		return nil
	case errors.Is(err, storage.ErrCorruptValue):
		s.state.Store(&SessionState{})
		s.discard(ctx, err)
		return nil
	case err != nil:
		return domain.ErrStorage.WithDetails("read " + TokenKey).WithCause(err)
	}

	claims, err := token.Decode(raw)
	if err != nil {
		s.state.Store(&SessionState{})
		s.discard(ctx, err)
		return nil
	}

	s.state.Store(newState(raw, claims))
	s.logger.Debug("session restored", "subject", claims.Subject, "role", claims.Role)
	return nil
}

// discard removes an unreadable persisted token. Removal failures are only
// logged; the next successful Login overwrites the value anyway.
func (s *SessionStore) discard(ctx context.Context, cause error) {
	s.logger.Warn("discarding unreadable persisted session", "error", cause)
	if err := s.store.Remove(ctx, TokenKey); err != nil {
		s.logger.Warn("failed to remove persisted session", "error", err)
	}
}

// Login decodes tok, persists it and makes it current.
//
// A token that fails to decode is returned as *token.DecodeError and the
// state is unchanged. A storage failure also leaves the state unchanged.
func (s *SessionStore) Login(ctx context.Context, tok string) error {
	claims, err := token.Decode(tok)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(ctx, TokenKey, tok); err != nil {
		return domain.ErrStorage.WithDetails("write " + TokenKey).WithCause(err)
	}

	s.state.Store(newState(tok, claims))
	s.logger.Info("logged in", "subject", claims.Subject, "role", claims.Role)
	return nil
}

// Logout removes the persisted token and clears the state. It always
// attempts the removal, even when already logged out. On storage failure
// the state is unchanged.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Remove(ctx, TokenKey); err != nil {
		return domain.ErrStorage.WithDetails("remove " + TokenKey).WithCause(err)
	}

	s.state.Store(&SessionState{})
	s.logger.Info("logged out")
	return nil
}

// Current returns the current snapshot.
func (s *SessionStore) Current() SessionState {
	return *s.state.Load()
}

// Token returns the current bearer token, or "" when logged out.
func (s *SessionStore) Token() string {
	return s.state.Load().Token
}

func newState(tok string, c token.Claims) *SessionState {
	return &SessionState{
		Token:     tok,
		User:      &domain.User{Subject: c.Subject, Role: c.Role},
		ExpiresAt: c.ExpiresAt,
	}
}
