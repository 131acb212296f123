package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dokzlo13/pagestore/internal/storage/kv"
)

// Config represents the application configuration
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
}

// StorageConfig selects the key-value backend the collections are persisted in
type StorageConfig struct {
	Backend     string `yaml:"backend"`      // memory | sqlite | postgres | redis
	Bucket      string `yaml:"bucket"`       // Bucket (namespace) holding every page key
	MemoryQuota int    `yaml:"memory_quota"` // Byte quota for the memory backend, 0 = unlimited
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	DSN     string   `yaml:"dsn"`
	Timeout Duration `yaml:"timeout"` // Per-statement timeout
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Addr      string   `yaml:"addr"`
	Password  string   `yaml:"password"`
	DB        int      `yaml:"db"`
	Namespace string   `yaml:"namespace"`
	Timeout   Duration `yaml:"timeout"` // Per-command timeout
}

// MetricsConfig contains Prometheus settings
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // Written on exit for the node_exporter textfile collector, empty = disabled
}

// LogConfig contains logging settings
type LogConfig struct {
	Level   string `yaml:"level"`
	Colors  bool   `yaml:"colors"`
	UseJSON bool   `yaml:"json"`
}

// GetLevel returns the log level with default
func (c *LogConfig) GetLevel() string {
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "error":
		return strings.ToLower(c.Level)
	default:
		return "info"
	}
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is given: an in-memory bucket.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	// Storage defaults
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "memory"
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "pages"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./pagestore.sqlite"
	}

	// Postgres defaults
	if cfg.Postgres.DSN == "" {
		cfg.Postgres.DSN = "postgres://localhost:5432/pagestore?sslmode=disable"
	}
	if cfg.Postgres.Timeout == 0 {
		cfg.Postgres.Timeout = Duration(5 * time.Second)
	}

	// Redis defaults
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.Namespace == "" {
		cfg.Redis.Namespace = "pagestore"
	}
	if cfg.Redis.Timeout == 0 {
		cfg.Redis.Timeout = Duration(5 * time.Second)
	}
}

func (cfg *Config) validate() error {
	if _, err := kv.ParseBackend(cfg.Storage.Backend); err != nil {
		return fmt.Errorf("storage.backend: %w", err)
	}
	if cfg.Storage.MemoryQuota < 0 {
		return fmt.Errorf("storage.memory_quota: must not be negative")
	}
	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	// Match ${VAR} or ${VAR:default}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
