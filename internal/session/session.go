// Package session owns the authentication lifecycle of the client: the
// persisted bearer token, the identity of the logged-in user, and the
// transitions between the unauthenticated, checking, and authenticated
// states. Views never touch the token directly; they are handed a *Store
// and render according to its state.
package session

import (
	"context"
	"sync"

	"github.com/task2sms/tui/internal/api"
	"github.com/task2sms/tui/internal/credential"
	"github.com/task2sms/tui/internal/model"
)

// State is the authentication state of the client.
type State int

const (
	// StateUnauthenticated means there is no usable token.
	StateUnauthenticated State = iota

	// StateChecking means a persisted token exists but the identity
	// fetch has not confirmed it yet.
	StateChecking

	// StateAuthenticated means the identity fetch succeeded.
	StateAuthenticated
)

// TokenStore persists the bearer token between runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// KeyringTokens stores the token in the system keyring under a fixed key.
type KeyringTokens struct{}

func (KeyringTokens) Load() (string, error) { return credential.Get(credential.TokenKey) }

func (KeyringTokens) Save(token string) error { return credential.Set(credential.TokenKey, token) }

func (KeyringTokens) Clear() error { return credential.Delete(credential.TokenKey) }

// authClient is the slice of the API client the session depends on.
type authClient interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, req api.RegisterRequest) (*model.User, error)
	Me(ctx context.Context) (*model.User, error)
	ResetEviction()
}

// Store holds the authenticated user and exposes login/register/logout.
type Store struct {
	api    authClient
	tokens TokenStore

	mu    sync.Mutex
	token string
	user  *model.User
	state State
}

// New creates a session store, loading any persisted token. A present
// token puts the session into the checking state; Check confirms or
// discards it.
func New(client authClient, tokens TokenStore) *Store {
	s := &Store{api: client, tokens: tokens}

	token, err := tokens.Load()
	if err == nil && token != "" {
		s.token = token
		s.state = StateChecking
	}
	return s
}

// Token returns the current bearer token, or "" when unauthenticated.
// Wired into the API client as its token source.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// State returns the current authentication state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the confirmed identity, or nil outside StateAuthenticated.
func (s *Store) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Check runs the startup identity fetch. With no token it is a no-op in
// the unauthenticated state. A token that the server rejects is discarded
// and the session drops back to unauthenticated; the caller sees no error
// because a stale token is an expected condition, not a failure.
func (s *Store) Check(ctx context.Context) error {
	s.mu.Lock()
	if s.token == "" {
		s.state = StateUnauthenticated
		s.mu.Unlock()
		return nil
	}
	s.state = StateChecking
	s.mu.Unlock()

	user, err := s.api.Me(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.token = ""
		s.user = nil
		s.state = StateUnauthenticated
		s.tokens.Clear()
		return nil
	}

	s.user = user
	s.state = StateAuthenticated
	return nil
}

// Login exchanges credentials for a token, persists it, and re-runs the
// identity fetch.
func (s *Store) Login(ctx context.Context, username, password string) error {
	token, err := s.api.Login(ctx, username, password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if err := s.tokens.Save(token); err != nil {
		return err
	}

	// A fresh token means a fresh session; re-arm the 401 eviction hook.
	s.api.ResetEviction()
	return s.Check(ctx)
}

// Register creates an account and immediately logs in. A registration
// failure is returned unchanged so the form can map it to a field.
func (s *Store) Register(ctx context.Context, email, username, password string) error {
	_, err := s.api.Register(ctx, api.RegisterRequest{
		Email:    email,
		Username: username,
		Password: password,
	})
	if err != nil {
		return err
	}
	return s.Login(ctx, username, password)
}

// Logout discards the token and clears the identity synchronously. The
// session is terminal until the next process start or login.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.state = StateUnauthenticated
	s.mu.Unlock()

	s.tokens.Clear()
}

// HandleUnauthorized is the API client's global 401 eviction hook. It is
// identical to Logout; the client guarantees it fires at most once per
// session.
func (s *Store) HandleUnauthorized() {
	s.Logout()
}
