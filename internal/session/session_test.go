package session

import (
	"context"
	"errors"
	"testing"

	"github.com/task2sms/tui/internal/api"
	"github.com/task2sms/tui/internal/model"
)

// memTokens is an in-memory TokenStore.
type memTokens struct {
	token string
}

func (m *memTokens) Load() (string, error) { return m.token, nil }
func (m *memTokens) Save(tok string) error { m.token = tok; return nil }
func (m *memTokens) Clear() error { m.token = ""; return nil }

// fakeAuth is a scriptable authClient.
type fakeAuth struct {
	loginToken  string
	loginErr    error
	registerErr error
	meUser      *model.User
	meErr       error
	resets      int
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (string, error) {
	return f.loginToken, f.loginErr
}

func (f *fakeAuth) Register(ctx context.Context, req api.RegisterRequest) (*model.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &model.User{Email: req.Email, Username: req.Username}, nil
}

func (f *fakeAuth) Me(ctx context.Context) (*model.User, error) {
	return f.meUser, f.meErr
}

func (f *fakeAuth) ResetEviction() { f.resets++ }

func TestNewWithoutTokenStartsUnauthenticated(t *testing.T) {
	s := New(&fakeAuth{}, &memTokens{})
	if s.State() != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", s.State())
	}
}

func TestNewWithTokenStartsChecking(t *testing.T) {
	s := New(&fakeAuth{}, &memTokens{token: "persisted"})
	if s.State() != StateChecking {
		t.Errorf("state = %v, want checking", s.State())
	}
	if s.Token() != "persisted" {
		t.Errorf("token = %q", s.Token())
	}
}

func TestCheckConfirmsIdentity(t *testing.T) {
	auth := &fakeAuth{meUser: &model.User{Username: "alice"}}
	s := New(auth, &memTokens{token: "persisted"})

	if err := s.Check(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.State() != StateAuthenticated {
		t.Errorf("state = %v, want authenticated", s.State())
	}
	if s.User() == nil || s.User().Username != "alice" {
		t.Errorf("user = %+v", s.User())
	}
}

func TestCheckDiscardsRejectedToken(t *testing.T) {
	auth := &fakeAuth{meErr: &api.Error{StatusCode: 401}}
	tokens := &memTokens{token: "stale"}
	s := New(auth, tokens)

	if err := s.Check(context.Background()); err != nil {
		t.Fatalf("a stale token is expected, not an error: %v", err)
	}
	if s.State() != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", s.State())
	}
	if tokens.token != "" {
		t.Errorf("persisted token not discarded: %q", tokens.token)
	}
}

func TestLoginPersistsTokenAndFetchesIdentity(t *testing.T) {
	auth := &fakeAuth{loginToken: "fresh", meUser: &model.User{Username: "alice"}}
	tokens := &memTokens{}
	s := New(auth, tokens)

	if err := s.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatal(err)
	}

	if tokens.token != "fresh" {
		t.Errorf("persisted token = %q", tokens.token)
	}
	if s.State() != StateAuthenticated {
		t.Errorf("state = %v, want authenticated", s.State())
	}
	if auth.resets != 1 {
		t.Errorf("eviction hook re-armed %d times, want 1", auth.resets)
	}
}

func TestLoginFailureLeavesSessionUnauthenticated(t *testing.T) {
	auth := &fakeAuth{loginErr: &api.Error{StatusCode: 401, Detail: "Incorrect username or password"}}
	s := New(auth, &memTokens{})

	err := s.Login(context.Background(), "alice", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if s.State() != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", s.State())
	}
}

func TestRegisterFailureReturnedUnchanged(t *testing.T) {
	regErr := &api.Error{StatusCode: 400, Detail: "Email already registered"}
	auth := &fakeAuth{registerErr: regErr}
	s := New(auth, &memTokens{})

	err := s.Register(context.Background(), "a@b.co", "alice", "secret1")
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr != regErr {
		t.Errorf("registration error was not returned unchanged: %v", err)
	}
}

func TestRegisterSuccessLogsIn(t *testing.T) {
	auth := &fakeAuth{loginToken: "fresh", meUser: &model.User{Username: "alice"}}
	s := New(auth, &memTokens{})

	if err := s.Register(context.Background(), "a@b.co", "alice", "secret1"); err != nil {
		t.Fatal(err)
	}
	if s.State() != StateAuthenticated {
		t.Errorf("state = %v, want authenticated", s.State())
	}
}

func TestLogoutClearsSynchronously(t *testing.T) {
	auth := &fakeAuth{meUser: &model.User{Username: "alice"}}
	tokens := &memTokens{token: "persisted"}
	s := New(auth, tokens)
	s.Check(context.Background())

	s.Logout()

	if s.State() != StateUnauthenticated || s.Token() != "" || s.User() != nil {
		t.Errorf("logout left session state behind: %v %q %+v", s.State(), s.Token(), s.User())
	}
	if tokens.token != "" {
		t.Errorf("persisted token survived logout: %q", tokens.token)
	}
}
