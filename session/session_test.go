package session

import (
	"testing"
	"time"

	"github.com/dhkang/novelkeep/secstore"
	"github.com/dhkang/novelkeep/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, opts ...Option) (*Context, *memory.Backend) {
	t.Helper()
	backend := memory.NewBackend()
	store, err := secstore.Open(backend)
	require.NoError(t, err)
	return NewContext(store, opts...), backend
}

func TestContext_LoginThenCurrent(t *testing.T) {
	c, _ := newTestContext(t)

	require.NoError(t, c.Login("t1", User{ID: "u1", Username: "alice"}, nil))

	s, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "t1", s.Token)
	assert.Equal(t, "u1", s.User.ID)
	assert.Equal(t, "u1", c.CurrentUserID())
	assert.True(t, c.IsAuthenticated())
}

func TestContext_NoSession(t *testing.T) {
	c, _ := newTestContext(t)

	_, ok := c.Current()
	assert.False(t, ok)
	assert.Empty(t, c.CurrentUserID())
	assert.False(t, c.IsAuthenticated())
}

func TestContext_Logout(t *testing.T) {
	c, _ := newTestContext(t)

	require.NoError(t, c.Login("t1", User{ID: "u1"}, nil))
	c.Logout()

	assert.Empty(t, c.CurrentUserID())

	// Logout with no session is a no-op.
	c.Logout()
}

func TestContext_RejectsIncompleteLogin(t *testing.T) {
	c, _ := newTestContext(t)

	assert.ErrorIs(t, c.Login("", User{ID: "u1"}, nil), ErrIncompleteSession)
	assert.ErrorIs(t, c.Login("t1", User{}, nil), ErrIncompleteSession)
	assert.False(t, c.IsAuthenticated())
}

func TestContext_TamperedSessionReadsAbsent(t *testing.T) {
	c, backend := newTestContext(t)

	require.NoError(t, c.Login("t1", User{ID: "u1"}, nil))

	ok := backend.Corrupt("authToken", func(data []byte) []byte {
		data[len(data)/2] ^= 0x01
		return data
	})
	require.True(t, ok)

	assert.Empty(t, c.CurrentUserID(), "tampered session must read as absent, not throw")

	// Both halves must be gone afterwards.
	var ignored User
	store, err := secstore.Open(backend)
	require.NoError(t, err)
	assert.False(t, store.Get("currentUser", &ignored), "surviving half of a broken session must be purged")
}

func TestContext_PartialStateIsPurged(t *testing.T) {
	c, _ := newTestContext(t)

	require.NoError(t, c.Login("t1", User{ID: "u1"}, nil))

	// Drop only the user half.
	c.store.Remove("currentUser")

	_, ok := c.Current()
	assert.False(t, ok)

	var tok tokenRecord
	assert.False(t, c.store.Get("authToken", &tok), "orphaned token must be purged")
}

func TestContext_ExpiredSessionReadsAbsent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c, _ := newTestContext(t, WithClock(func() time.Time { return now }))

	expires := now.Add(time.Hour)
	require.NoError(t, c.Login("t1", User{ID: "u1"}, &expires))
	assert.True(t, c.IsAuthenticated())

	now = now.Add(2 * time.Hour)
	assert.False(t, c.IsAuthenticated(), "expired session must read as absent")
}

func TestContext_NotifiesSubscribers(t *testing.T) {
	c, _ := newTestContext(t)

	var events []Event
	c.Subscribe(func(e Event) { events = append(events, e) })

	require.NoError(t, c.Login("t1", User{ID: "u1"}, nil))
	c.Logout()

	assert.Equal(t, []Event{EventLogin, EventLogout}, events)
}

func TestContext_LoginReplacesPreviousSession(t *testing.T) {
	c, _ := newTestContext(t)

	require.NoError(t, c.Login("t1", User{ID: "u1"}, nil))
	require.NoError(t, c.Login("t2", User{ID: "u2"}, nil))

	s, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "t2", s.Token)
	assert.Equal(t, "u2", s.User.ID)
}
