package userdata

import (
	"slices"

	"github.com/dhkang/novelkeep/secstore"
)

// bookmarksKey is the legacy session-independent bookmark set. It
// predates per-user scoping and is kept for profiles carrying old data.
const bookmarksKey = "bookmarks"

// BookmarkStore persists the legacy profile-wide bookmark set.
type BookmarkStore struct {
	store *secstore.Store
}

// NewBookmarkStore creates a BookmarkStore over store.
func NewBookmarkStore(store *secstore.Store) *BookmarkStore {
	return &BookmarkStore{store: store}
}

func (b *BookmarkStore) load() []string {
	var ids []string
	b.store.Get(bookmarksKey, &ids)
	return ids
}

// IsBookmarked reports whether novelID is in the bookmark set.
func (b *BookmarkStore) IsBookmarked(novelID string) bool {
	return slices.Contains(b.load(), novelID)
}

// List returns the bookmarks in sorted order.
func (b *BookmarkStore) List() []string {
	return b.load()
}

// Add inserts novelID into the bookmark set. Idempotent.
func (b *BookmarkStore) Add(novelID string) error {
	if novelID == "" {
		return nil
	}
	ids := b.load()
	if slices.Contains(ids, novelID) {
		return nil
	}
	ids = append(ids, novelID)
	slices.Sort(ids)
	return b.store.Set(bookmarksKey, ids)
}

// Remove deletes novelID from the bookmark set. Removing a non-member is
// a no-op.
func (b *BookmarkStore) Remove(novelID string) error {
	ids := b.load()
	i := slices.Index(ids, novelID)
	if i < 0 {
		return nil
	}
	ids = slices.Delete(ids, i, i+1)
	return b.store.Set(bookmarksKey, ids)
}
