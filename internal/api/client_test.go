package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/task2sms/tui/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler, token string, onUnauthorized func()) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, func() string { return token }, onUnauthorized)
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth, gotRequestID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`[]`))
	})

	c := newTestClient(t, handler, "tok-123", nil)
	if _, err := c.ListTasks(context.Background()); err != nil {
		t.Fatal(err)
	}

	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestNoAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"access_token":"t","token_type":"bearer"}`))
	})

	c := newTestClient(t, handler, "", nil)
	if _, err := c.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Errorf("unauthenticated request carried Authorization %q", gotAuth)
	}
}

func TestLoginPostsFormEncodedCredentials(t *testing.T) {
	var gotContentType, gotUsername, gotPassword string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		r.ParseForm()
		gotUsername = r.PostFormValue("username")
		gotPassword = r.PostFormValue("password")
		w.Write([]byte(`{"access_token":"tok-9","token_type":"bearer"}`))
	})

	c := newTestClient(t, handler, "", nil)
	token, err := c.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatal(err)
	}

	if token != "tok-9" {
		t.Errorf("token = %q, want tok-9", token)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotUsername != "alice" || gotPassword != "s3cret" {
		t.Errorf("credentials = %q/%q", gotUsername, gotPassword)
	}
}

func TestUnauthorizedEvictsTokenExactlyOnce(t *testing.T) {
	requests := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	})

	evictions := 0
	c := newTestClient(t, handler, "stale", func() { evictions++ })

	for i := 0; i < 3; i++ {
		_, err := c.ListTasks(context.Background())
		if !IsAuthError(err) {
			t.Fatalf("request %d: expected auth error, got %v", i, err)
		}
	}

	if evictions != 1 {
		t.Errorf("eviction hook ran %d times, want 1", evictions)
	}
	// Each caller's request goes out once; a 401 must never trigger a
	// follow-up authenticated call from inside the client.
	if requests != 3 {
		t.Errorf("server saw %d requests for 3 calls, want 3", requests)
	}
}

func TestResetEvictionRearmsHook(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	evictions := 0
	c := newTestClient(t, handler, "stale", func() { evictions++ })

	c.ListTasks(context.Background())
	c.ResetEviction()
	c.ListTasks(context.Background())

	if evictions != 2 {
		t.Errorf("eviction hook ran %d times across two sessions, want 2", evictions)
	}
}

func TestServerDetailSurfacesInError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Email already registered"}`))
	})

	c := newTestClient(t, handler, "", nil)
	_, err := c.Register(context.Background(), RegisterRequest{
		Email:    "a@b.co",
		Username: "alice",
		Password: "secret1",
	})
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type %T", err)
	}
	if apiErr.Detail != "Email already registered" {
		t.Errorf("detail = %q", apiErr.Detail)
	}
	if IsAuthError(err) {
		t.Error("400 must not be treated as an auth error")
	}
}

func TestTaskPayloadCarriesEncodedConditionRules(t *testing.T) {
	var gotBody []byte
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"id":7,"name":"x","recipients":[],"condition_rules":{"type":"always"},"is_active":true,"created_at":"2026-08-30T00:00:00Z","updated_at":"2026-08-30T00:00:00Z"}`))
	})

	c := newTestClient(t, handler, "tok", nil)
	task := model.Task{Name: "x", Recipients: []string{"+254712345678"}}
	task.ConditionRules.Type = "total_over"
	task.ConditionRules.Number = 150

	if _, err := c.CreateTask(context.Background(), task); err != nil {
		t.Fatal(err)
	}

	body := string(gotBody)
	want := `"condition_rules":{"type":"total_over","value":150}`
	if !strings.Contains(body, want) {
		t.Errorf("payload %s missing %s", body, want)
	}
}

func TestMatchField(t *testing.T) {
	cases := []struct {
		detail string
		want   string
	}{
		{"Email already registered", "email"},
		{"Username already taken", "username"},
		{"Password too weak", "password"},
		{"Something else went wrong", ""},
	}

	for _, c := range cases {
		if got := MatchField(c.detail); got != c.want {
			t.Errorf("MatchField(%q) = %q, want %q", c.detail, got, c.want)
		}
	}
}
