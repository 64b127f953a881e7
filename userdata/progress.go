// Package userdata provides the per-user scoped caches: reading progress
// and favorites, plus the legacy session-independent bookmark set.
//
// Keys are namespaced by user id so switching the active session never
// leaks another user's data. A caller with no session passes an empty
// user id: reads miss and writes are no-ops.
package userdata

import (
	"time"

	"github.com/dhkang/novelkeep/secstore"
)

const progressPrefix = "progress:"

// ProgressEntry is the reading position for one (user, novel) pair.
type ProgressEntry struct {
	UserID    string    `json:"user_id"`
	NovelID   string    `json:"novel_id"`
	Episode   int       `json:"episode"`
	Progress  int       `json:"progress"` // percent within the episode, 0..100
	UpdatedAt time.Time `json:"updated_at"`
}

// ProgressStore persists per-(user, novel) reading progress.
type ProgressStore struct {
	store *secstore.Store
	now   func() time.Time
}

// NewProgressStore creates a ProgressStore over store.
func NewProgressStore(store *secstore.Store) *ProgressStore {
	return &ProgressStore{store: store, now: time.Now}
}

func progressKey(userID, novelID string) string {
	return progressPrefix + userID + ":" + novelID
}

// Get returns the progress entry for (userID, novelID), or false if none
// exists or userID is empty.
func (p *ProgressStore) Get(userID, novelID string) (ProgressEntry, bool) {
	if userID == "" || novelID == "" {
		return ProgressEntry{}, false
	}
	var entry ProgressEntry
	ok := p.store.Get(progressKey(userID, novelID), &entry)
	return entry, ok
}

// Set upserts the progress entry for (userID, novelID). Progress is
// clamped to [0,100]; out-of-range values are never stored verbatim.
// A write with an empty userID is a no-op.
func (p *ProgressStore) Set(userID, novelID string, episode, progress int) error {
	if userID == "" || novelID == "" {
		return nil
	}
	entry := ProgressEntry{
		UserID:    userID,
		NovelID:   novelID,
		Episode:   episode,
		Progress:  clampProgress(progress),
		UpdatedAt: p.now(),
	}
	return p.store.Set(progressKey(userID, novelID), entry)
}

func clampProgress(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
