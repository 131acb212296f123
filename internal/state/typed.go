// Package state provides typed, JSON-persisted entity collections on top of a KV bucket.
package state

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/pagestore/internal/storage/kv"
)

// Status is the hydration state of a TypedStore.
type Status int

const (
	Uninitialized Status = iota
	Hydrated
)

func (s Status) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Hydrated:
		return "hydrated"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// TypedStore owns one storage key holding a collection of T.
//
// Load hydrates the collection, writing the seed only when the key is absent or
// corrupt. Replace is the only other write and is called by mutations. Nothing in
// the hydration path ever writes the empty pre-load state back.
//
// The current collection is kept in its persisted form and every read decodes a
// fresh copy, so callers never share nested slices or pointers with the store.
type TypedStore[T any] struct {
	bucket kv.Bucket
	key    string
	codec  *Codec[T]
	seed   SeedFunc[T]

	mu     sync.Mutex
	status Status
	blob   string
}

// NewTypedStore creates a store for key. A nil seed seeds an empty collection.
func NewTypedStore[T any](bucket kv.Bucket, key string, codec *Codec[T], seed SeedFunc[T]) *TypedStore[T] {
	if codec == nil {
		codec = MustCodec[T](DateFields[T]()...)
	}
	if seed == nil {
		seed = NoSeed[T]()
	}
	return &TypedStore[T]{
		bucket: bucket,
		key:    key,
		codec:  codec,
		seed:   seed,
	}
}

// Key returns the storage key this store owns.
func (s *TypedStore[T]) Key() string {
	return s.key
}

// Codec returns the store's codec.
func (s *TypedStore[T]) Codec() *Codec[T] {
	return s.codec
}

// Raw returns the value currently stored under the key, without decoding it
// or changing the store.
func (s *TypedStore[T]) Raw() (string, bool, error) {
	return s.bucket.Get(s.key)
}

// Status returns the hydration state.
func (s *TypedStore[T]) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Load reads the collection from storage.
//
// A stored, decodable blob is returned as is with no write. An absent or corrupt
// blob is replaced by the encoded seed, and the seed is returned. Storage
// failures are returned wrapped in ErrStorageUnavailable and leave the store
// unchanged.
func (s *TypedStore[T]) Load() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.bucket.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", s.key, err)
	}

	if ok {
		items, err := s.codec.Decode(raw)
		if err == nil {
			s.hydrate(raw)
			log.Debug().Str("key", s.key).Int("count", len(items)).Msg("Hydrated collection")
			return items, nil
		}
		log.Warn().Err(err).Str("key", s.key).Msg("Corrupt persisted collection, reseeding")
	}

	items := s.seed()
	blob, err := s.write(items)
	if err != nil {
		return nil, fmt.Errorf("failed to seed %s: %w", s.key, err)
	}
	s.hydrate(blob)
	log.Debug().Str("key", s.key).Int("count", len(items)).Bool("corrupt", ok).Msg("Seeded collection")

	return s.current(), nil
}

// Replace writes items through to storage and makes them the current collection.
// On error the current collection is unchanged.
func (s *TypedStore[T]) Replace(items []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replace(items)
}

// Update computes the next collection from the current one and replaces it.
// fn receives a copy and must not call back into the store.
// Returns ErrNotHydrated before the first Load.
func (s *TypedStore[T]) Update(fn func(current []T) []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != Hydrated {
		return fmt.Errorf("failed to update %s: %w", s.key, ErrNotHydrated)
	}
	return s.replace(fn(s.current()))
}

// Snapshot returns a copy of the current in-memory collection.
// It is empty until the store is hydrated.
func (s *TypedStore[T]) Snapshot() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current()
}

// Clear deletes the stored collection and returns the store to Uninitialized,
// so the next Load seeds again. Returns false if nothing was stored.
func (s *TypedStore[T]) Clear() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existed, err := s.bucket.Delete(s.key)
	if err != nil {
		return false, fmt.Errorf("failed to clear %s: %w", s.key, err)
	}
	s.blob = ""
	s.status = Uninitialized
	log.Debug().Str("key", s.key).Bool("existed", existed).Msg("Cleared collection")
	return existed, nil
}

func (s *TypedStore[T]) replace(items []T) error {
	blob, err := s.write(items)
	if err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.key, err)
	}
	s.hydrate(blob)
	log.Debug().Str("key", s.key).Int("count", len(items)).Msg("Replaced collection")
	return nil
}

func (s *TypedStore[T]) write(items []T) (string, error) {
	blob, err := s.codec.Encode(items)
	if err != nil {
		return "", err
	}
	if err := s.bucket.Set(s.key, blob); err != nil {
		return "", err
	}
	return blob, nil
}

func (s *TypedStore[T]) hydrate(blob string) {
	s.blob = blob
	s.status = Hydrated
}

// current decodes a private copy of the hydrated collection.
func (s *TypedStore[T]) current() []T {
	if s.status != Hydrated {
		return []T{}
	}
	items, err := s.codec.Decode(s.blob)
	if err != nil {
		// Only blobs that already decoded or were produced by Encode are kept.
		log.Error().Err(err).Str("key", s.key).Msg("Failed to decode hydrated collection")
		return []T{}
	}
	return items
}
