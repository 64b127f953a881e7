package userdata

import (
	"testing"

	"github.com/dhkang/novelkeep/secstore"
	"github.com/dhkang/novelkeep/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSecStore(t *testing.T) *secstore.Store {
	t.Helper()
	store, err := secstore.Open(memory.NewBackend())
	require.NoError(t, err)
	return store
}

func TestProgressStore_SetGet(t *testing.T) {
	p := NewProgressStore(newTestSecStore(t))

	require.NoError(t, p.Set("u1", "n1", 12, 45))

	entry, ok := p.Get("u1", "n1")
	require.True(t, ok)
	assert.Equal(t, "u1", entry.UserID)
	assert.Equal(t, "n1", entry.NovelID)
	assert.Equal(t, 12, entry.Episode)
	assert.Equal(t, 45, entry.Progress)
	assert.False(t, entry.UpdatedAt.IsZero())
}

func TestProgressStore_GetMissing(t *testing.T) {
	p := NewProgressStore(newTestSecStore(t))

	_, ok := p.Get("u1", "n1")
	assert.False(t, ok)
}

func TestProgressStore_ClampsProgress(t *testing.T) {
	p := NewProgressStore(newTestSecStore(t))

	require.NoError(t, p.Set("u1", "n1", 1, 150))
	entry, ok := p.Get("u1", "n1")
	require.True(t, ok)
	assert.Equal(t, 100, entry.Progress)

	require.NoError(t, p.Set("u1", "n1", 1, -5))
	entry, ok = p.Get("u1", "n1")
	require.True(t, ok)
	assert.Equal(t, 0, entry.Progress)
}

func TestProgressStore_UpsertsInPlace(t *testing.T) {
	p := NewProgressStore(newTestSecStore(t))

	require.NoError(t, p.Set("u1", "n1", 1, 10))
	require.NoError(t, p.Set("u1", "n1", 2, 80))

	entry, ok := p.Get("u1", "n1")
	require.True(t, ok)
	assert.Equal(t, 2, entry.Episode)
	assert.Equal(t, 80, entry.Progress)
}

func TestProgressStore_IsolatesUsers(t *testing.T) {
	p := NewProgressStore(newTestSecStore(t))

	require.NoError(t, p.Set("u1", "n1", 3, 30))
	require.NoError(t, p.Set("u2", "n1", 9, 90))

	e1, ok := p.Get("u1", "n1")
	require.True(t, ok)
	e2, ok := p.Get("u2", "n1")
	require.True(t, ok)
	assert.Equal(t, 3, e1.Episode)
	assert.Equal(t, 9, e2.Episode)
}

func TestProgressStore_NoSessionIsNoOp(t *testing.T) {
	store := newTestSecStore(t)
	p := NewProgressStore(store)

	require.NoError(t, p.Set("", "n1", 1, 50), "write without a user must be a no-op")

	_, ok := p.Get("", "n1")
	assert.False(t, ok, "read without a user must miss")
	assert.Empty(t, store.Keys("progress:"), "nothing may be persisted without a user")
}
