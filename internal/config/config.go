// Package config loads the configuration of the item lists from defaults, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of the environment variables read by Load.
const EnvPrefix = "ITEMS_"

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is the configuration of the item lists.
type Config struct {
	API     APIConfig     `koanf:"api"`
	User    UserConfig    `koanf:"user"`
	Cache   CacheConfig   `koanf:"cache"`
	Refresh RefreshConfig `koanf:"refresh"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// APIConfig configures the remote API.
type APIConfig struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Token   string        `koanf:"token"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// UserConfig identifies the current user.
type UserConfig struct {
	ID      string `koanf:"id" validate:"required"`
	Premium bool   `koanf:"premium"`
}

// CacheConfig configures the friends cache.
type CacheConfig struct {
	Backend   string        `koanf:"backend" validate:"oneof=memory redis"`
	TTL       time.Duration `koanf:"ttl" validate:"gte=0"`
	RedisAddr string        `koanf:"redis_addr" validate:"required_if=Backend redis"`
	KeyPrefix string        `koanf:"key_prefix"`
}

// RefreshConfig configures the background refresh of the friends cache.
type RefreshConfig struct {
	Interval time.Duration `koanf:"interval" validate:"gt=0"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	Namespace string `koanf:"namespace"`
	Addr      string `koanf:"addr" validate:"omitempty,hostname_port"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Backend:   CacheMemory,
			TTL:       24 * time.Hour,
			RedisAddr: "localhost:6379",
			KeyPrefix: "items:friends:",
		},
		Refresh: RefreshConfig{
			Interval: 5 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Namespace: "items",
		},
	}
}

// Source overrides configuration keys, such as the flags set on the command line.
// Keys are koanf paths like "user.id".
type Source map[string]any

// Loader loads the configuration.
type Loader struct {
	// Environ provides the environment variables. The default is os.Environ.
	Environ func() []string
}

// Load merges the defaults, the environment variables and the overrides in this order,
// then validates the result.
func (l *Loader) Load(overrides Source) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	environ := l.Environ
	if environ == nil {
		environ = os.Environ
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnvKey,
		EnvironFunc:   environ,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	for key, value := range overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Load loads the configuration from the process environment.
func Load(overrides Source) (*Config, error) {
	var l Loader
	return l.Load(overrides)
}

// transformEnvKey converts an environment variable name to a koanf path.
// For example: ITEMS_CACHE_REDIS_ADDR -> cache.redis_addr
func transformEnvKey(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, field, ok := strings.Cut(key, "_")
	if !ok || section == "" || field == "" {
		return "", nil
	}
	return section + "." + field, value
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate validates the configuration.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, e := range verrs {
				msgs[i] = fmt.Sprintf("%s: failed on %q", e.Namespace(), e.Tag())
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}
