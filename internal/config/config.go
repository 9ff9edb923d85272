// Package config loads patrol settings from a YAML file layered with PATROL_* environment
// variables. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the full runtime configuration.
type Config struct {
	LogLevel   string        `mapstructure:"log_level" yaml:"log_level"`
	Workers    int           `mapstructure:"workers" yaml:"workers"`
	Exhaustive bool          `mapstructure:"exhaustive" yaml:"exhaustive"`
	Store      StoreConfig   `mapstructure:"store" yaml:"store"`
	HTTP       HTTPConfig    `mapstructure:"http" yaml:"http"`
	Metrics    MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// StoreConfig selects where analysis reports live.
type StoreConfig struct {
	Backend string      `mapstructure:"backend" yaml:"backend"`
	Dir     string      `mapstructure:"dir" yaml:"dir"`
	Redis   RedisConfig `mapstructure:"redis" yaml:"redis"`
}

// RedisConfig holds connection settings for the redis backend.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// HTTPConfig holds the listen port for `patrol serve`.
type HTTPConfig struct {
	Port int `mapstructure:"port" yaml:"port"`
}

// MetricsConfig toggles the Prometheus registry and its /metrics route.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// envKeys maps environment variables to their dotted config path.
var envKeys = map[string]string{
	"PATROL_LOG_LEVEL":       "log_level",
	"PATROL_WORKERS":         "workers",
	"PATROL_EXHAUSTIVE":      "exhaustive",
	"PATROL_STORE_BACKEND":   "store.backend",
	"PATROL_STORE_DIR":       "store.dir",
	"PATROL_REDIS_ADDR":      "store.redis.addr",
	"PATROL_REDIS_PASSWORD":  "store.redis.password",
	"PATROL_REDIS_DB":        "store.redis.db",
	"PATROL_REDIS_PREFIX":    "store.redis.prefix",
	"PATROL_REDIS_TTL":       "store.redis.ttl",
	"PATROL_HTTP_PORT":       "http.port",
	"PATROL_METRICS_ENABLED": "metrics.enabled",
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Store: StoreConfig{
			Backend: BackendFile,
			Dir:     ".patrol/reports",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "patrol:",
			},
		},
		HTTP:    HTTPConfig{Port: 8080},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load reads path (if any), applies environment overrides and validates the result.
// An empty path or a missing file yields the defaults plus environment.
func Load(path string) (Config, error) {
	raw := map[string]any{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// No file: defaults + env.
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &raw); err != nil {
				return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
			if raw == nil {
				raw = map[string]any{}
			}
		}
	}
	return decode(raw, os.LookupEnv)
}

func decode(raw map[string]any, lookup func(string) (string, bool)) (Config, error) {
	for env, key := range envKeys {
		if v, ok := lookup(env); ok {
			setPath(raw, strings.Split(key, "."), v)
		}
	}

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, cfg.Validate()
}

// setPath writes v at the nested key path, creating intermediate maps.
func setPath(m map[string]any, path []string, v any) {
	for _, k := range path[:len(path)-1] {
		next, ok := m[k].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[k] = next
		}
		m = next
	}
	m[path[len(path)-1]] = v
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("invalid config: workers must not be negative, got %d", c.Workers)
	}
	switch c.Store.Backend {
	case BackendMemory, BackendRedis:
	case BackendFile:
		if c.Store.Dir == "" {
			return errors.New("invalid config: store.dir is required for the file backend")
		}
	default:
		return fmt.Errorf("invalid config: unknown store backend %q", c.Store.Backend)
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid config: http.port out of range: %d", c.HTTP.Port)
	}
	if c.Store.Redis.TTL < 0 {
		return fmt.Errorf("invalid config: store.redis.ttl must not be negative")
	}
	return nil
}
