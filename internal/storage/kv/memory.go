package kv

import (
	"sort"
	"sync"
)

// MemoryBucket is an in-memory bucket (not persisted).
type MemoryBucket struct {
	name    string
	entries map[string]string
	quota   int // Max total bytes of keys+values; zero means unlimited
	size    int
	mu      sync.RWMutex
}

// NewMemoryBucket creates a new in-memory bucket.
func NewMemoryBucket(name string) *MemoryBucket {
	return &MemoryBucket{
		name:    name,
		entries: make(map[string]string),
	}
}

// WithQuota limits the bucket to the given number of bytes (keys plus values),
// the way browser local storage does. Zero disables the limit.
func (b *MemoryBucket) WithQuota(bytes int) *MemoryBucket {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.quota = bytes
	return b
}

// Name returns the bucket name.
func (b *MemoryBucket) Name() string {
	return b.name
}

// IsPersistent returns false (memory buckets are not persistent).
func (b *MemoryBucket) IsPersistent() bool {
	return false
}

// Get retrieves a value by key.
func (b *MemoryBucket) Get(key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	value, ok := b.entries[key]
	return value, ok, nil
}

// Set saves a value with the given key.
func (b *MemoryBucket) Set(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	size := b.size + len(key) + len(value)
	if existing, ok := b.entries[key]; ok {
		size -= len(key) + len(existing)
	}
	if b.quota > 0 && size > b.quota {
		return ErrQuotaExceeded
	}

	b.entries[key] = value
	b.size = size
	return nil
}

// Delete removes a key from the bucket.
func (b *MemoryBucket) Delete(key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	value, ok := b.entries[key]
	if ok {
		b.size -= len(key) + len(value)
		delete(b.entries, key)
	}
	return ok, nil
}

// Keys returns all keys in the bucket, sorted.
func (b *MemoryBucket) Keys() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.entries))
	for key := range b.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Clear removes all keys from the bucket.
func (b *MemoryBucket) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = make(map[string]string)
	b.size = 0
	return nil
}

// Size returns the number of bytes currently held (keys plus values).
func (b *MemoryBucket) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}
