// Package kvtest provides bucket doubles for tests.
package kvtest

import (
	"sync"

	"github.com/dokzlo13/pagestore/internal/storage/kv"
)

// Op is one recorded bucket call.
type Op struct {
	Method string
	Key    string
}

// Spy wraps a bucket and records every keyed call.
// Setting FailGet or FailSet makes the matching calls return that error.
type Spy struct {
	kv.Bucket

	mu      sync.Mutex
	ops     []Op
	FailGet error
	FailSet error
}

// NewSpy wraps an in-memory bucket.
func NewSpy() *Spy {
	return Wrap(kv.NewMemoryBucket("spy"))
}

// Wrap records calls made to bucket.
func Wrap(bucket kv.Bucket) *Spy {
	return &Spy{Bucket: bucket}
}

func (s *Spy) record(method, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, Op{Method: method, Key: key})
}

// Get records and forwards.
func (s *Spy) Get(key string) (string, bool, error) {
	s.record("get", key)
	if s.FailGet != nil {
		return "", false, s.FailGet
	}
	return s.Bucket.Get(key)
}

// Set records and forwards.
func (s *Spy) Set(key, value string) error {
	s.record("set", key)
	if s.FailSet != nil {
		return s.FailSet
	}
	return s.Bucket.Set(key, value)
}

// Delete records and forwards.
func (s *Spy) Delete(key string) (bool, error) {
	s.record("delete", key)
	return s.Bucket.Delete(key)
}

// Ops returns the recorded calls in order.
func (s *Spy) Ops() []Op {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Op(nil), s.ops...)
}

// Count returns how many times method was called for key.
// An empty key counts calls for any key.
func (s *Spy) Count(method, key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, op := range s.ops {
		if op.Method == method && (key == "" || op.Key == key) {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls.
func (s *Spy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = nil
}

// Raw reads key from the wrapped bucket without recording.
func (s *Spy) Raw(key string) (string, bool) {
	value, ok, _ := s.Bucket.Get(key)
	return value, ok
}
