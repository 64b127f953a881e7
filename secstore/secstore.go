// Package secstore provides tamper-evident key/value persistence on top
// of a storage.Backend.
//
// Every entry is serialized JSON wrapped in an envelope carrying an
// HMAC-SHA256 tag keyed per entry via HKDF from a device-local secret.
// The tag is recomputed on every read; any mismatch purges the entry and
// reads as absent. This is tamper-evidence only — the secret lives next
// to the data, so an attacker with full control of the profile can
// re-tag whatever they like. It neutralizes corruption, partial writes,
// and casual editing, not a hostile runtime.
package secstore

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/awnumar/memguard"

	"github.com/dhkang/novelkeep/internal/util"
	"github.com/dhkang/novelkeep/storage"
)

const (
	envelopeVersion = 1
	schemeHMAC      = "hmac-sha256"

	// secretKey is the reserved backend key holding the device secret.
	secretKey = "__device_secret"

	// SecretLength is the required device secret size in bytes.
	SecretLength = 32

	keyInfoPrefix = "novelkeep:secstore:v1:"
)

// envelope is the persisted form of one entry.
type envelope struct {
	Ver       int             `json:"ver"`
	Scheme    string          `json:"scheme"`
	Payload   json.RawMessage `json:"payload"`
	Tag       []byte          `json:"tag"`
	WrittenAt time.Time       `json:"written_at"`
}

// Store is a tamper-evident key/value store. The device secret is held
// in a memguard Enclave and only opened for the duration of a tag
// computation.
type Store struct {
	backend storage.Backend
	secret  *memguard.Enclave
}

// NewStore creates a Store over backend using the given device secret.
// The secret must be exactly SecretLength bytes; the caller's copy is
// wiped once it has been moved into locked memory.
func NewStore(backend storage.Backend, secret []byte) (*Store, error) {
	if len(secret) != SecretLength {
		return nil, fmt.Errorf("device secret must be exactly %d bytes, got %d", SecretLength, len(secret))
	}
	// NewEnclave wipes the input slice.
	return &Store{backend: backend, secret: memguard.NewEnclave(secret)}, nil
}

// Open loads the device secret from backend, generating and persisting a
// fresh one on first use, and returns a Store bound to it.
func Open(backend storage.Backend) (*Store, error) {
	secret, err := loadOrCreateSecret(backend)
	if err != nil {
		return nil, err
	}
	return NewStore(backend, secret)
}

// loadOrCreateSecret returns the persisted device secret, creating a new
// random one if none exists. The secret is stored raw: it provides
// tamper-evidence for the rest of the store, not confidentiality.
func loadOrCreateSecret(backend storage.Backend) ([]byte, error) {
	data, err := backend.Get(secretKey)
	if err == nil && len(data) == SecretLength {
		return data, nil
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("loading device secret: %w", err)
	}

	// Missing or wrong-sized: generate and persist a fresh secret. A
	// wrong-sized secret means every existing tag is unverifiable anyway.
	secret, err := util.RandomBytes(SecretLength)
	if err != nil {
		return nil, err
	}
	if err := backend.Put(secretKey, secret); err != nil {
		return nil, fmt.Errorf("persisting device secret: %w", err)
	}
	return util.CopyBytes(secret), nil
}

// Set serializes value, tags it, and persists it under key, overwriting
// any prior entry in a single backend write.
func (s *Store) Set(key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("serializing entry %q: %w", key, err)
	}
	tag, err := s.tag(key, payload)
	if err != nil {
		return err
	}
	env := envelope{
		Ver:       envelopeVersion,
		Scheme:    schemeHMAC,
		Payload:   payload,
		Tag:       tag,
		WrittenAt: time.Now(),
	}
	data, err := json.Marshal(&env)
	if err != nil {
		return fmt.Errorf("serializing envelope %q: %w", key, err)
	}
	if err := s.backend.Put(key, data); err != nil {
		return fmt.Errorf("persisting entry %q: %w", key, err)
	}
	return nil
}

// Get loads the entry under key into out and reports whether a trusted
// value was found. Absent, corrupted, and tampered entries all read as
// absent; a failed verification purges the entry so it cannot be reread.
// Integrity problems are never surfaced as errors.
func (s *Store) Get(key string, out any) bool {
	data, err := s.backend.Get(key)
	if err != nil {
		return false
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.Remove(key)
		return false
	}
	if env.Ver != envelopeVersion || env.Scheme != schemeHMAC {
		s.Remove(key)
		return false
	}
	want, err := s.tag(key, env.Payload)
	if err != nil {
		return false
	}
	if !hmac.Equal(want, env.Tag) {
		s.Remove(key)
		return false
	}
	if err := json.Unmarshal(env.Payload, out); err != nil {
		s.Remove(key)
		return false
	}
	return true
}

// Remove deletes the entry unconditionally. Idempotent.
func (s *Store) Remove(key string) {
	_ = s.backend.Delete(key)
}

// Keys returns the entry keys starting with prefix. The reserved device
// secret key is never included.
func (s *Store) Keys(prefix string) []string {
	keys, err := s.backend.List(prefix)
	if err != nil {
		return nil
	}
	out := keys[:0]
	for _, k := range keys {
		if k != secretKey {
			out = append(out, k)
		}
	}
	return out
}

// tag computes the HMAC-SHA256 tag for payload under a per-entry key
// derived from the device secret, binding the tag to the entry key so
// envelopes cannot be swapped between keys.
func (s *Store) tag(key string, payload []byte) ([]byte, error) {
	buf, err := s.secret.Open()
	if err != nil {
		return nil, fmt.Errorf("opening device secret: %w", err)
	}
	defer buf.Destroy()

	k, err := util.HKDF(buf.Bytes(), nil, []byte(keyInfoPrefix+key))
	if err != nil {
		return nil, err
	}
	defer util.WipeBytes(k)

	mac := hmac.New(sha256.New, k)
	mac.Write(payload)
	return mac.Sum(nil), nil
}
