// Package ratelimit enforces a time-windowed lockout on login attempts
// per identifier, without a server round-trip.
//
// Attempt records are persisted through secstore so every process of one
// profile shares the same counters. This is a defense-in-depth UX guard:
// it slows casual brute force and gives the user feedback, while the
// server remains the authoritative limiter — anyone who clears local
// state clears the counters with it.
package ratelimit

import (
	"time"

	"github.com/dhkang/novelkeep/secstore"
)

const (
	// Threshold is the number of consecutive failures before lockout.
	Threshold = 5
	// LockoutDuration is how long an identifier stays locked once the
	// threshold is crossed. Fixed at the moment of crossing; repeated
	// failures inside the locked window do not extend it.
	LockoutDuration = 15 * time.Minute
	// recordExpiry is how long after the last failure before a stale
	// record is eligible for Sweep.
	recordExpiry = 1 * time.Hour

	keyPrefix = "loginAttempts:"
)

// AttemptRecord tracks failed login attempts for one identifier.
type AttemptRecord struct {
	Identifier     string     `json:"identifier"`
	Failures       int        `json:"failures"`
	FirstFailureAt time.Time  `json:"first_failure_at"`
	LastFailureAt  time.Time  `json:"last_failure_at"`
	LockedUntil    *time.Time `json:"locked_until,omitempty"`
}

// State is the logical rate-limit state of an identifier.
type State int

const (
	// StateClear means no recorded failures.
	StateClear State = iota
	// StateWarning means some failures below the threshold.
	StateWarning
	// StateLocked means attempts are currently rejected.
	StateLocked
)

// Decision is the outcome of a Check call.
type Decision struct {
	Allowed bool
	// RetryAfter is how long until the lock expires. Zero when Allowed.
	RetryAfter time.Duration
}

// Guard rate-limits login attempts per identifier.
type Guard struct {
	store     *secstore.Store
	threshold int
	lockout   time.Duration
	now       func() time.Time
}

// Option customizes a Guard.
type Option func(*Guard)

// WithPolicy overrides the failure threshold and lockout duration.
func WithPolicy(threshold int, lockout time.Duration) Option {
	return func(g *Guard) {
		g.threshold = threshold
		g.lockout = lockout
	}
}

// WithClock overrides the time source. Tests only.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) {
		g.now = now
	}
}

// NewGuard creates a Guard persisting attempt records through store.
func NewGuard(store *secstore.Store, opts ...Option) *Guard {
	g := &Guard{
		store:     store,
		threshold: Threshold,
		lockout:   LockoutDuration,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func recordKey(identifier string) string {
	return keyPrefix + identifier
}

// load returns the persisted record for identifier, or false if absent
// (or unreadable, which secstore degrades to absent).
func (g *Guard) load(identifier string) (AttemptRecord, bool) {
	var rec AttemptRecord
	ok := g.store.Get(recordKey(identifier), &rec)
	return rec, ok
}

// Check reports whether a login attempt for identifier may proceed. A
// lock that has expired reads as allowed; the record itself is not reset
// until the next recorded outcome.
func (g *Guard) Check(identifier string) Decision {
	rec, ok := g.load(identifier)
	if !ok {
		return Decision{Allowed: true}
	}
	if rec.LockedUntil != nil {
		if remaining := rec.LockedUntil.Sub(g.now()); remaining > 0 {
			return Decision{Allowed: false, RetryAfter: remaining}
		}
	}
	return Decision{Allowed: true}
}

// State returns the logical state of identifier, re-derived from the
// persisted record.
func (g *Guard) State(identifier string) State {
	rec, ok := g.load(identifier)
	if !ok || rec.Failures == 0 {
		return StateClear
	}
	if rec.LockedUntil != nil && g.now().Before(*rec.LockedUntil) {
		return StateLocked
	}
	// Below the threshold, or past it with an expired lock.
	return StateWarning
}

// Record registers the outcome of a login attempt. Success wipes the
// record; failure increments the counter and, on crossing the threshold,
// sets the lock once. An expired lock starts a fresh failure window on
// the next failure.
func (g *Guard) Record(identifier string, success bool) error {
	key := recordKey(identifier)
	if success {
		g.store.Remove(key)
		return nil
	}

	now := g.now()
	rec, ok := g.load(identifier)
	if !ok {
		rec = AttemptRecord{Identifier: identifier}
	}
	if rec.LockedUntil != nil && !now.Before(*rec.LockedUntil) {
		// Previous lock has expired: this failure opens a fresh window.
		rec = AttemptRecord{Identifier: identifier}
	}

	if rec.Failures == 0 {
		rec.FirstFailureAt = now
	}
	rec.Failures++
	rec.LastFailureAt = now

	if rec.Failures >= g.threshold && rec.LockedUntil == nil {
		until := now.Add(g.lockout)
		rec.LockedUntil = &until
	}

	return g.store.Set(key, rec)
}

// Sweep removes stale records: expired locks and failure windows with no
// activity for recordExpiry. Safe to call opportunistically.
func (g *Guard) Sweep() {
	now := g.now()
	for _, key := range g.store.Keys(keyPrefix) {
		var rec AttemptRecord
		if !g.store.Get(key, &rec) {
			continue // unreadable entries are purged by the store itself
		}
		if now.Sub(rec.LastFailureAt) > recordExpiry {
			g.store.Remove(key)
		}
	}
}
