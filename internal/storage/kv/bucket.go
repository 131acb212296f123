// Package kv provides a string key-value storage system with SQLite, Postgres, Redis and in-memory backends.
package kv

import (
	"errors"
	"fmt"
)

// ErrUnavailable is wrapped by every backend error caused by the storage itself
// (I/O failure, quota, closed connection). Callers surface it rather than retry.
var ErrUnavailable = errors.New("storage unavailable")

// ErrQuotaExceeded is returned when a write would grow a bucket past its quota.
var ErrQuotaExceeded = fmt.Errorf("%w: quota exceeded", ErrUnavailable)

// Bucket is the interface for key-value storage operations.
// Values are opaque strings; encoding is the caller's concern.
type Bucket interface {
	// Name returns the bucket name.
	Name() string

	// IsPersistent returns true if the bucket outlives the process.
	IsPersistent() bool

	// Get retrieves the value stored at key.
	// ok is false if the key doesn't exist.
	Get(key string) (value string, ok bool, err error)

	// Set stores value at key, replacing any previous value.
	Set(key, value string) error

	// Delete removes a key from the bucket.
	// Returns true if the key existed.
	Delete(key string) (bool, error)

	// Keys returns all keys in the bucket.
	Keys() ([]string, error)

	// Clear removes all keys from the bucket.
	Clear() error
}
