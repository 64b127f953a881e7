package userdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoritesStore_AddIsIdempotent(t *testing.T) {
	f := NewFavoritesStore(newTestSecStore(t))

	require.NoError(t, f.Add("u1", "n1"))
	require.NoError(t, f.Add("u1", "n1"))

	assert.Equal(t, []string{"n1"}, f.List("u1"), "double add must leave exactly one membership")
	assert.True(t, f.IsFavorite("u1", "n1"))
}

func TestFavoritesStore_RemoveNonMemberIsNoOp(t *testing.T) {
	f := NewFavoritesStore(newTestSecStore(t))

	require.NoError(t, f.Add("u1", "n1"))
	require.NoError(t, f.Remove("u1", "n2"))

	assert.Equal(t, []string{"n1"}, f.List("u1"))
}

func TestFavoritesStore_Remove(t *testing.T) {
	f := NewFavoritesStore(newTestSecStore(t))

	require.NoError(t, f.Add("u1", "n1"))
	require.NoError(t, f.Add("u1", "n2"))
	require.NoError(t, f.Remove("u1", "n1"))

	assert.Equal(t, []string{"n2"}, f.List("u1"))
	assert.False(t, f.IsFavorite("u1", "n1"))
}

func TestFavoritesStore_ListIsSorted(t *testing.T) {
	f := NewFavoritesStore(newTestSecStore(t))

	require.NoError(t, f.Add("u1", "zeta"))
	require.NoError(t, f.Add("u1", "alpha"))
	require.NoError(t, f.Add("u1", "mid"))

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, f.List("u1"))
}

func TestFavoritesStore_IsolatesUsers(t *testing.T) {
	f := NewFavoritesStore(newTestSecStore(t))

	require.NoError(t, f.Add("u1", "n1"))

	assert.False(t, f.IsFavorite("u2", "n1"))
	assert.Empty(t, f.List("u2"))
}

func TestFavoritesStore_NoSessionIsNoOp(t *testing.T) {
	store := newTestSecStore(t)
	f := NewFavoritesStore(store)

	require.NoError(t, f.Add("", "n1"))

	assert.False(t, f.IsFavorite("", "n1"))
	assert.Nil(t, f.List(""))
	assert.Empty(t, store.Keys("favorites:"))
}

func TestBookmarkStore_SetSemantics(t *testing.T) {
	b := NewBookmarkStore(newTestSecStore(t))

	require.NoError(t, b.Add("n2"))
	require.NoError(t, b.Add("n1"))
	require.NoError(t, b.Add("n1"))

	assert.Equal(t, []string{"n1", "n2"}, b.List())
	assert.True(t, b.IsBookmarked("n1"))

	require.NoError(t, b.Remove("n1"))
	require.NoError(t, b.Remove("n1"))
	assert.Equal(t, []string{"n2"}, b.List())
	assert.False(t, b.IsBookmarked("n1"))
}
