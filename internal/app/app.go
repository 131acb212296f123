package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/pagestore/internal/config"
	"github.com/dokzlo13/pagestore/internal/db"
	"github.com/dokzlo13/pagestore/internal/pages"
	"github.com/dokzlo13/pagestore/internal/storage/kv"
	"github.com/dokzlo13/pagestore/internal/stores"
)

// App owns the storage backend selected by configuration and hands out page registries.
type App struct {
	cfg     *config.Config
	db      *db.DB
	redis   *redis.Client
	kv      *kv.Manager
	bucket  kv.Bucket
	metrics *prometheus.Registry
}

// New opens the configured backend. Call Close when done.
func New(cfg *config.Config) (*App, error) {
	backend, err := kv.ParseBackend(cfg.Storage.Backend)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, metrics: prometheus.NewRegistry()}
	opts := kv.ManagerOptions{
		Backend:     backend,
		MemoryQuota: cfg.Storage.MemoryQuota,
	}

	switch backend {
	case kv.BackendSQLite:
		database, err := db.Open(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		a.db = database
		opts.DB = database.DB

	case kv.BackendPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Postgres.Timeout.Duration())
		database, err := db.OpenPostgres(ctx, cfg.Postgres.DSN)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", kv.ErrUnavailable, err)
		}
		a.db = database
		opts.DB = database.DB
		opts.PostgresTimeout = cfg.Postgres.Timeout.Duration()

	case kv.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.Timeout.Duration())
		err := client.Ping(ctx).Err()
		cancel()
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("%w: failed to connect to redis at %s: %w", kv.ErrUnavailable, cfg.Redis.Addr, err)
		}
		a.redis = client
		opts.Redis = client
		opts.RedisNamespace = cfg.Redis.Namespace
		opts.RedisTimeout = cfg.Redis.Timeout.Duration()
	}

	a.kv, err = kv.NewManager(opts)
	if err != nil {
		a.Close()
		return nil, err
	}

	m, err := kv.NewMetrics(a.metrics)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.bucket = kv.Instrument(a.kv.Bucket(cfg.Storage.Bucket), m)

	log.Debug().
		Str("backend", string(backend)).
		Str("bucket", cfg.Storage.Bucket).
		Msg("Storage ready")

	return a, nil
}

// Bucket returns the bucket holding every page key.
func (a *App) Bucket() kv.Bucket {
	return a.bucket
}

// Backend returns the configured backend.
func (a *App) Backend() kv.Backend {
	return a.kv.Backend()
}

// Metrics returns the registry the storage metrics are recorded in.
func (a *App) Metrics() prometheus.Gatherer {
	return a.metrics
}

// Page builds and hydrates the registry of the named page.
func (a *App) Page(name string) (*stores.Registry, error) {
	return pages.Open(name, a.bucket)
}

// Close writes the metrics textfile when configured and releases the backend connections.
func (a *App) Close() error {
	var errs []error
	if path := a.cfg.Metrics.Textfile; path != "" && a.bucket != nil {
		if err := prometheus.WriteToTextfile(path, a.metrics); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics: %w", err))
		}
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
		a.redis = nil
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
		a.db = nil
	}
	return errors.Join(errs...)
}
