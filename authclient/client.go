// Package authclient talks to the external login endpoint and drives the
// full login flow: sanitize, rate-limit, network call, session write.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dhkang/novelkeep/secstore"
	"github.com/dhkang/novelkeep/session"
)

// clientIDKey is the secstore key holding the per-install client id.
const clientIDKey = "clientID"

const defaultTimeout = 15 * time.Second

// ErrNetwork wraps transport-level login failures. Callers surface it as
// a generic network error; the detail is for internal logging only.
var ErrNetwork = errors.New("network error")

// AuthError is a definitive rejection from the login endpoint.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("login rejected (status %d)", e.Status)
	}
	return e.Message
}

// Credentials is the payload of a successful login response.
type Credentials struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client posts login requests to the configured auth endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	clientID string
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithInstallID attaches the stable per-install id persisted in store,
// creating one on first use. Sent as X-Client-ID on every request.
func WithInstallID(store *secstore.Store) ClientOption {
	return func(c *Client) {
		c.clientID = loadOrCreateInstallID(store)
	}
}

// NewClient creates a Client for the given auth endpoint URL.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func loadOrCreateInstallID(store *secstore.Store) string {
	var id string
	if store.Get(clientIDKey, &id) && id != "" {
		return id
	}
	id = uuid.NewString()
	if err := store.Set(clientIDKey, id); err != nil {
		// Best effort; a fresh id next run is harmless.
		return id
	}
	return id
}

// Login posts the credentials to the auth endpoint. A non-2xx response
// yields *AuthError; a transport failure wraps ErrNetwork. The error text
// from the server is carried through for display, never interpreted.
func (c *Client) Login(ctx context.Context, username, password string) (Credentials, error) {
	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return Credentials{}, fmt.Errorf("serializing login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Credentials{}, fmt.Errorf("building login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.clientID != "" {
		req.Header.Set("X-Client-ID", c.clientID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Credentials{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var er errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&er)
		return Credentials{}, &AuthError{Status: resp.StatusCode, Message: er.Error}
	}

	var creds Credentials
	if err := json.NewDecoder(resp.Body).Decode(&creds); err != nil {
		return Credentials{}, fmt.Errorf("%w: decoding login response: %v", ErrNetwork, err)
	}
	return creds, nil
}
