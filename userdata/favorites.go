package userdata

import (
	"slices"

	"github.com/dhkang/novelkeep/secstore"
)

const favoritesPrefix = "favorites:"

// FavoritesStore persists each user's favorite novel set.
type FavoritesStore struct {
	store *secstore.Store
}

// NewFavoritesStore creates a FavoritesStore over store.
func NewFavoritesStore(store *secstore.Store) *FavoritesStore {
	return &FavoritesStore{store: store}
}

func favoritesKey(userID string) string {
	return favoritesPrefix + userID
}

func (f *FavoritesStore) load(userID string) []string {
	var ids []string
	f.store.Get(favoritesKey(userID), &ids)
	return ids
}

// IsFavorite reports whether novelID is in userID's favorite set.
func (f *FavoritesStore) IsFavorite(userID, novelID string) bool {
	if userID == "" {
		return false
	}
	return slices.Contains(f.load(userID), novelID)
}

// List returns userID's favorites in sorted order.
func (f *FavoritesStore) List(userID string) []string {
	if userID == "" {
		return nil
	}
	return f.load(userID)
}

// Add inserts novelID into userID's favorite set. Idempotent; a write
// with an empty userID is a no-op.
func (f *FavoritesStore) Add(userID, novelID string) error {
	if userID == "" || novelID == "" {
		return nil
	}
	ids := f.load(userID)
	if slices.Contains(ids, novelID) {
		return nil
	}
	ids = append(ids, novelID)
	slices.Sort(ids)
	return f.store.Set(favoritesKey(userID), ids)
}

// Remove deletes novelID from userID's favorite set. Removing a
// non-member is a no-op.
func (f *FavoritesStore) Remove(userID, novelID string) error {
	if userID == "" || novelID == "" {
		return nil
	}
	ids := f.load(userID)
	i := slices.Index(ids, novelID)
	if i < 0 {
		return nil
	}
	ids = slices.Delete(ids, i, i+1)
	return f.store.Set(favoritesKey(userID), ids)
}
