// Package memory provides a thread-safe in-memory implementation of
// storage.Backend. State does not survive the process; suitable for tests
// and ephemeral profiles.
package memory

import (
	"strings"
	"sync"

	"github.com/dhkang/novelkeep/internal/util"
	"github.com/dhkang/novelkeep/storage"
)

// Backend is a thread-safe in-memory implementation of storage.Backend.
type Backend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ storage.Backend = (*Backend)(nil)

// NewBackend creates a new empty in-memory Backend.
func NewBackend() *Backend {
	return &Backend{data: make(map[string][]byte)}
}

func (b *Backend) Put(key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = util.CopyBytes(data)
	return nil
}

func (b *Backend) Get(key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return util.CopyBytes(data), nil
}

func (b *Backend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}

func (b *Backend) List(prefix string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var keys []string
	for k := range b.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Corrupt overwrites the raw entry for key without going through any
// integrity layer. Test helper for simulating external tampering.
func (b *Backend) Corrupt(key string, mutate func([]byte) []byte) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.data[key]
	if !ok {
		return false
	}
	b.data[key] = mutate(util.CopyBytes(data))
	return true
}
