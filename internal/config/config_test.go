package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log:\n  colors: true\n"))
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "pages", cfg.Storage.Bucket)
	assert.Equal(t, "./pagestore.sqlite", cfg.Database.Path)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Second, cfg.Redis.Timeout.Duration())
	assert.Equal(t, "postgres://localhost:5432/pagestore?sslmode=disable", cfg.Postgres.DSN)
	assert.Equal(t, 5*time.Second, cfg.Postgres.Timeout.Duration())
	assert.Empty(t, cfg.Metrics.Textfile)
	assert.Equal(t, "info", cfg.Log.GetLevel())
	assert.True(t, cfg.Log.Colors)
}

func TestLoad_Full(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
storage:
  backend: redis
  bucket: dashboards
database:
  path: /tmp/x.sqlite
postgres:
  dsn: postgres://app@db/pages
  timeout: 2s
metrics:
  textfile: /var/lib/node_exporter/pagestore.prom
redis:
  addr: redis:6380
  db: 2
  namespace: prod
  timeout: 250ms
log:
  level: DEBUG
  json: true
`))
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, "dashboards", cfg.Storage.Bucket)
	assert.Equal(t, "postgres://app@db/pages", cfg.Postgres.DSN)
	assert.Equal(t, 2*time.Second, cfg.Postgres.Timeout.Duration())
	assert.Equal(t, "/var/lib/node_exporter/pagestore.prom", cfg.Metrics.Textfile)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "prod", cfg.Redis.Namespace)
	assert.Equal(t, 250*time.Millisecond, cfg.Redis.Timeout.Duration())
	assert.Equal(t, "debug", cfg.Log.GetLevel())
	assert.True(t, cfg.Log.UseJSON)
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("PAGESTORE_DB", "/data/pages.sqlite")
	cfg, err := Load(writeConfig(t, `
storage:
  backend: ${PAGESTORE_BACKEND:sqlite}
database:
  path: ${PAGESTORE_DB}
`))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/data/pages.sqlite", cfg.Database.Path)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "storage:\n  backend: etcd\n"))
	assert.ErrorContains(t, err, "unknown backend")

	_, err = Load(writeConfig(t, "storage:\n  memory_quota: -1\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "redis:\n  timeout: soon\n"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 0, cfg.Storage.MemoryQuota)
	assert.Equal(t, "info", cfg.Log.Level)
}
