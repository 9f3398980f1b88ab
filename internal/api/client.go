// Package api is the REST gateway client for the Task2SMS backend. It
// attaches the bearer token to every outbound request and centralizes 401
// handling: the first unauthorized response evicts the persisted token
// through a callback and every caller sees an auth error without any
// further authenticated calls being issued.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Client is a thin HTTP client for the Task2SMS REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// token returns the current bearer token, or "" when unauthenticated.
	token func() string

	// onUnauthorized is invoked at most once per authenticated session
	// when the server answers 401.
	onUnauthorized func()

	mu      sync.Mutex
	evicted bool
}

// NewClient creates an API client for the server at baseURL. The token
// function supplies the current bearer token for each request and
// onUnauthorized is the global token-eviction hook; either may be nil.
func NewClient(baseURL string, timeout time.Duration, token func() string, onUnauthorized func()) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     &http.Client{Timeout: timeout},
		token:          token,
		onUnauthorized: onUnauthorized,
	}
}

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, result)
}

// Post performs an HTTP POST request with a JSON body and unmarshals
// the JSON response.
func (c *Client) Post(ctx context.Context, path string, body, result interface{}) error {
	return c.doJSON(ctx, http.MethodPost, path, body, result)
}

// Put performs an HTTP PUT request with a JSON body and unmarshals the
// JSON response.
func (c *Client) Put(ctx context.Context, path string, body, result interface{}) error {
	return c.doJSON(ctx, http.MethodPut, path, body, result)
}

// Delete performs an HTTP DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// PostForm performs an HTTP POST with a form-encoded body. The login
// endpoint is the only consumer; everything else speaks JSON.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, result interface{}) error {
	body := []byte(form.Encode())
	return c.send(ctx, http.MethodPost, path, "application/x-www-form-urlencoded", body, result)
}

// doJSON marshals body (when present) and dispatches the request.
func (c *Client) doJSON(ctx context.Context, method, path string, body, result interface{}) error {
	var payload []byte
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		payload = data
		contentType = "application/json"
	}
	return c.send(ctx, method, path, contentType, payload, result)
}

// send is the core HTTP method that builds the request, attaches auth,
// and handles JSON (de)serialization and error mapping. Requests are
// issued exactly once: a failure surfaces to the caller, never retried.
func (c *Client) send(ctx context.Context, method, path, contentType string, payload []byte, result interface{}) error {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.evictToken()
		return &Error{StatusCode: resp.StatusCode, Detail: serverDetail(respBody)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{StatusCode: resp.StatusCode, Detail: serverDetail(respBody)}
	}

	// No content to parse (e.g. 204).
	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}

	return nil
}

// evictToken fires the eviction hook at most once per session.
func (c *Client) evictToken() {
	c.mu.Lock()
	already := c.evicted
	c.evicted = true
	c.mu.Unlock()

	if !already && c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

// ResetEviction re-arms the 401 eviction hook. Called after a fresh login
// so a later expiry is handled again.
func (c *Client) ResetEviction() {
	c.mu.Lock()
	c.evicted = false
	c.mu.Unlock()
}
