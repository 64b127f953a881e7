package authclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dhkang/novelkeep/ratelimit"
	"github.com/dhkang/novelkeep/sanitize"
	"github.com/dhkang/novelkeep/session"
)

const (
	// MaxUsernameLength bounds the accepted username, in bytes.
	MaxUsernameLength = 64
	// MaxPasswordLength bounds the accepted password, in bytes.
	MaxPasswordLength = 128
)

// ErrValidation indicates the input was rejected before any network or
// storage call was made.
var ErrValidation = errors.New("invalid username or password input")

// LockedError indicates the identifier is rate-limited; no network call
// was made.
type LockedError struct {
	RetryAfter time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("too many failed login attempts; try again in %s", e.RetryAfter.Round(time.Second))
}

// Flow runs the complete login sequence: sanitize and validate the input,
// ask the guard for permission, call the login endpoint, feed the outcome
// back into the guard, and write the session on success.
type Flow struct {
	client   *Client
	guard    *ratelimit.Guard
	sessions *session.Context
	logger   *slog.Logger
}

// FlowOption customizes a Flow.
type FlowOption func(*Flow)

// WithLogger sets the logger. Credentials are never logged.
func WithLogger(l *slog.Logger) FlowOption {
	return func(f *Flow) {
		f.logger = l
	}
}

// NewFlow wires a login flow from its collaborators.
func NewFlow(client *Client, guard *ratelimit.Guard, sessions *session.Context, opts ...FlowOption) *Flow {
	f := &Flow{
		client:   client,
		guard:    guard,
		sessions: sessions,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run performs one login attempt. Returns the established session, or:
// ErrValidation for rejected input, *LockedError while rate-limited,
// *AuthError for a definitive server rejection, or an ErrNetwork-wrapped
// error for transport failures. Only definitive rejections count against
// the failure counter; an unreachable server does not lock anyone out.
func (f *Flow) Run(ctx context.Context, username, password string) (session.Session, error) {
	username = sanitize.Sanitize(username)
	if !sanitize.Valid(username, MaxUsernameLength) || !sanitize.Valid(password, MaxPasswordLength) {
		return session.Session{}, ErrValidation
	}

	if d := f.guard.Check(username); !d.Allowed {
		f.logger.Warn("login attempt rejected locally", "retry_after", d.RetryAfter)
		return session.Session{}, &LockedError{RetryAfter: d.RetryAfter}
	}

	creds, err := f.client.Login(ctx, username, password)
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			if recErr := f.guard.Record(username, false); recErr != nil {
				f.logger.Error("recording failed attempt", "err", recErr)
			}
			f.logger.Warn("login rejected by server", "status", authErr.Status)
			return session.Session{}, err
		}
		f.logger.Warn("login transport failure", "err", err)
		return session.Session{}, err
	}

	if recErr := f.guard.Record(username, true); recErr != nil {
		f.logger.Error("resetting attempt record", "err", recErr)
	}
	if err := f.sessions.Login(creds.Token, creds.User, nil); err != nil {
		return session.Session{}, fmt.Errorf("persisting session: %w", err)
	}

	f.logger.Info("login succeeded", "user_id", creds.User.ID)
	s, ok := f.sessions.Current()
	if !ok {
		// Write raced with an invalidation from another process.
		return session.Session{}, fmt.Errorf("persisting session: %w", session.ErrIncompleteSession)
	}
	return s, nil
}
