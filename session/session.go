// Package session holds the authenticated user's token and profile,
// persisted tamper-evidently and gating access to protected views.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/dhkang/novelkeep/secstore"
)

const (
	tokenKey = "authToken"
	userKey  = "currentUser"
)

// ErrIncompleteSession is returned by Login when the token or the user id
// is empty. Partial sessions are never persisted.
var ErrIncompleteSession = errors.New("incomplete session")

// User is the authenticated user's profile.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// Session is the active token plus user. At most one exists at a time.
type Session struct {
	Token     string     `json:"token"`
	User      User       `json:"user"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Event describes a change in authentication state.
type Event int

const (
	// EventLogin fires after a session has been written.
	EventLogin Event = iota
	// EventLogout fires after the session has been removed, whether by an
	// explicit logout or by invalidation of partial state.
	EventLogout
)

// tokenRecord is the persisted shape of the authToken entry.
type tokenRecord struct {
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Context reads and writes the active session. Every check re-derives
// from the persisted record; the event broadcast is advisory only and is
// never used for enforcement.
type Context struct {
	store *secstore.Store
	now   func() time.Time

	mu   sync.Mutex
	subs []func(Event)
}

// Option customizes a Context.
type Option func(*Context)

// WithClock overrides the time source. Tests only.
func WithClock(now func() time.Time) Option {
	return func(c *Context) {
		c.now = now
	}
}

// NewContext creates a session context over store.
func NewContext(store *secstore.Store, opts ...Option) *Context {
	c := &Context{store: store, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login persists a new session and notifies subscribers. A session with
// an empty token or empty user id is rejected.
func (c *Context) Login(token string, user User, expiresAt *time.Time) error {
	if token == "" || user.ID == "" {
		return ErrIncompleteSession
	}
	if err := c.store.Set(tokenKey, tokenRecord{Token: token, ExpiresAt: expiresAt}); err != nil {
		return err
	}
	if err := c.store.Set(userKey, user); err != nil {
		// Do not leave a token without a user behind.
		c.store.Remove(tokenKey)
		return err
	}
	c.notify(EventLogin)
	return nil
}

// Logout removes the session and notifies subscribers. Idempotent.
func (c *Context) Logout() {
	c.store.Remove(tokenKey)
	c.store.Remove(userKey)
	c.notify(EventLogout)
}

// Current returns the active session. Absent, tampered, expired, or
// structurally incomplete state reads as no session, and whatever half
// remains is purged — partial state is not trusted.
func (c *Context) Current() (Session, bool) {
	var tok tokenRecord
	tokOK := c.store.Get(tokenKey, &tok)
	var user User
	userOK := c.store.Get(userKey, &user)

	valid := tokOK && userOK && tok.Token != "" && user.ID != ""
	if valid && tok.ExpiresAt != nil && !c.now().Before(*tok.ExpiresAt) {
		valid = false
	}
	if !valid {
		if tokOK || userOK {
			c.store.Remove(tokenKey)
			c.store.Remove(userKey)
		}
		return Session{}, false
	}
	return Session{Token: tok.Token, User: user, ExpiresAt: tok.ExpiresAt}, true
}

// CurrentUserID returns the active user id, or "" when no trusted
// session exists.
func (c *Context) CurrentUserID() string {
	s, ok := c.Current()
	if !ok {
		return ""
	}
	return s.User.ID
}

// IsAuthenticated reports whether a trusted session exists.
func (c *Context) IsAuthenticated() bool {
	return c.CurrentUserID() != ""
}

// Subscribe registers fn for authentication-state change events. The
// broadcast is fire-and-forget: subscribers refresh their view from the
// store, they do not receive session data.
func (c *Context) Subscribe(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

func (c *Context) notify(e Event) {
	c.mu.Lock()
	subs := make([]func(Event), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()
	for _, fn := range subs {
		fn(e)
	}
}
