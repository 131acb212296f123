package kv

import (
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Backend selects where a Manager keeps its buckets.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendRedis    Backend = "redis"
)

// ParseBackend validates a backend name from configuration.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendMemory, BackendSQLite, BackendPostgres, BackendRedis:
		return b, nil
	default:
		return "", fmt.Errorf("unknown storage backend %q", s)
	}
}

// ManagerOptions configures a Manager. Only the fields for the chosen backend are used.
type ManagerOptions struct {
	Backend Backend

	// SQLite and Postgres
	DB              *sql.DB
	PostgresTimeout time.Duration

	// Redis
	Redis          redis.UniversalClient
	RedisNamespace string
	RedisTimeout   time.Duration

	// Memory
	MemoryQuota int
}

// Manager manages bucket lifecycle and provides access to buckets.
type Manager struct {
	opts    ManagerOptions
	buckets map[string]Bucket
	mu      sync.RWMutex
}

// NewManager creates a new KV manager.
func NewManager(opts ManagerOptions) (*Manager, error) {
	switch opts.Backend {
	case BackendMemory:
	case BackendSQLite, BackendPostgres:
		if opts.DB == nil {
			return nil, fmt.Errorf("%s backend requires a database", opts.Backend)
		}
	case BackendRedis:
		if opts.Redis == nil {
			return nil, fmt.Errorf("redis backend requires a client")
		}
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}

	return &Manager{
		opts:    opts,
		buckets: make(map[string]Bucket),
	}, nil
}

// Backend returns the backend this manager creates buckets on.
func (m *Manager) Backend() Backend {
	return m.opts.Backend
}

// Bucket returns a bucket by name, creating it if it doesn't exist.
func (m *Manager) Bucket(name string) Bucket {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Check if bucket already exists
	if bucket, ok := m.buckets[name]; ok {
		return bucket
	}

	var bucket Bucket
	switch m.opts.Backend {
	case BackendSQLite:
		bucket = NewSQLiteBucket(m.opts.DB, name)
	case BackendPostgres:
		bucket = NewPostgresBucket(m.opts.DB, name, m.opts.PostgresTimeout)
	case BackendRedis:
		bucket = NewRedisBucket(m.opts.Redis, m.opts.RedisNamespace, name, m.opts.RedisTimeout)
	default:
		bucket = NewMemoryBucket(name).WithQuota(m.opts.MemoryQuota)
	}

	m.buckets[name] = bucket
	log.Debug().
		Str("bucket", name).
		Str("backend", string(m.opts.Backend)).
		Bool("persistent", bucket.IsPersistent()).
		Msg("Created KV bucket")

	return bucket
}

// Delete removes a bucket and all its data.
func (m *Manager) Delete(name string) error {
	bucket := m.Bucket(name)
	if err := bucket.Clear(); err != nil {
		return fmt.Errorf("failed to delete bucket: %w", err)
	}

	m.mu.Lock()
	delete(m.buckets, name)
	m.mu.Unlock()

	log.Debug().Str("bucket", name).Msg("Deleted KV bucket")
	return nil
}

// List returns the names of the buckets opened through this manager.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.buckets))
	for name := range m.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
