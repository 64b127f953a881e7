// Package storage defines the raw key/value backend behind the client's
// persistent state. Higher layers depend only on the Backend interface,
// never on a concrete backing.
package storage

import "errors"

// ErrNotFound is returned by Get when no entry exists for the key.
var ErrNotFound = errors.New("entry not found")

// Backend is a flat key/value store shared by every process of one
// profile. Implementations must be safe for concurrent use; writes are
// last-write-wins with no cross-process locking.
type Backend interface {
	// Put stores data under key, overwriting any existing entry.
	Put(key string, data []byte) error
	// Get returns the data stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Delete removes the entry for key. Deleting a missing key is a no-op.
	Delete(key string) error
	// List returns the keys that start with prefix, in no particular order.
	List(prefix string) ([]string, error)
}
