package kv

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBucket is a persistent bucket backed by Redis.
// Keys are stored as "<namespace>:<bucket>:<key>".
type RedisBucket struct {
	client  redis.UniversalClient
	name    string
	prefix  string
	timeout time.Duration
}

// NewRedisBucket creates a new Redis-backed bucket.
// timeout bounds every round trip; zero means 5s.
func NewRedisBucket(client redis.UniversalClient, namespace, name string, timeout time.Duration) *RedisBucket {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	prefix := name + ":"
	if namespace != "" {
		prefix = namespace + ":" + prefix
	}
	return &RedisBucket{
		client:  client,
		name:    name,
		prefix:  prefix,
		timeout: timeout,
	}
}

// Name returns the bucket name.
func (b *RedisBucket) Name() string {
	return b.name
}

// IsPersistent returns true.
func (b *RedisBucket) IsPersistent() bool {
	return true
}

func (b *RedisBucket) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), b.timeout)
}

// Get retrieves a value by key.
func (b *RedisBucket) Get(key string) (string, bool, error) {
	ctx, cancel := b.ctx()
	defer cancel()

	value, err := b.client.Get(ctx, b.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: failed to get value: %w", ErrUnavailable, err)
	}
	return value, true, nil
}

// Set saves a value with the given key.
func (b *RedisBucket) Set(key, value string) error {
	ctx, cancel := b.ctx()
	defer cancel()

	if err := b.client.Set(ctx, b.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("%w: failed to store value: %w", ErrUnavailable, err)
	}
	return nil
}

// Delete removes a key from the bucket.
func (b *RedisBucket) Delete(key string) (bool, error) {
	ctx, cancel := b.ctx()
	defer cancel()

	n, err := b.client.Del(ctx, b.prefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: failed to delete key: %w", ErrUnavailable, err)
	}
	return n > 0, nil
}

// Keys returns all keys in the bucket, sorted.
func (b *RedisBucket) Keys() ([]string, error) {
	ctx, cancel := b.ctx()
	defer cancel()

	var keys []string
	iter := b.client.Scan(ctx, 0, b.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), b.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to list keys: %w", ErrUnavailable, err)
	}

	sort.Strings(keys)
	return keys, nil
}

// Clear removes all keys from the bucket.
func (b *RedisBucket) Clear() error {
	keys, err := b.Keys()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = b.prefix + key
	}

	ctx, cancel := b.ctx()
	defer cancel()

	if err := b.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("%w: failed to clear bucket: %w", ErrUnavailable, err)
	}
	return nil
}
