// Package config loads client settings from an optional YAML file and
// GTRANS_* environment variables.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ZaguanLabs/gtrans"
	"github.com/ZaguanLabs/gtrans/cache"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// GTRANS_CACHE_BACKEND overrides cache.backend.
const EnvPrefix = "GTRANS"

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is the full client configuration.
type Config struct {
	ServiceURLs    []string        `mapstructure:"service_urls" validate:"required,min=1,dive,required"`
	Fallback       bool            `mapstructure:"fallback"` // use the fallback hosts instead of ServiceURLs
	UserAgent      string          `mapstructure:"user_agent" validate:"required"`
	RaiseException bool            `mapstructure:"raise_exception"`
	Timeout        time.Duration   `mapstructure:"timeout" validate:"min=1ms"`
	LogLevel       string          `mapstructure:"log_level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Cache          CacheConfig     `mapstructure:"cache"`
	Retry          RetryConfig     `mapstructure:"retry"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

type CacheConfig struct {
	Backend   string        `mapstructure:"backend" validate:"oneof=none memory redis"`
	TTL       time.Duration `mapstructure:"ttl" validate:"min=0"`
	RedisURL  string        `mapstructure:"redis_url" validate:"required_if=Backend redis"`
	KeyPrefix string        `mapstructure:"key_prefix"`
}

// Persistent reports whether entries outlive the process.
func (c CacheConfig) Persistent() bool {
	return c.Backend == CacheRedis
}

type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries" validate:"min=0,max=10"`
	BaseDelay  time.Duration `mapstructure:"base_delay" validate:"min=0"`
	MaxDelay   time.Duration `mapstructure:"max_delay" validate:"gtefield=BaseDelay"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute" validate:"min=0"`
	BurstSize         int `mapstructure:"burst_size" validate:"min=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_urls", gtrans.DefaultServiceURLs)
	v.SetDefault("fallback", false)
	v.SetDefault("user_agent", gtrans.DefaultUserAgent)
	v.SetDefault("raise_exception", true)
	v.SetDefault("timeout", gtrans.DefaultTimeout)
	v.SetDefault("log_level", "warn")

	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.key_prefix", cache.DefaultKeyPrefix)

	retry := gtrans.DefaultRetryConfig()
	v.SetDefault("retry.max_retries", 0)
	v.SetDefault("retry.base_delay", retry.BaseDelay)
	v.SetDefault("retry.max_delay", retry.MaxDelay)

	v.SetDefault("rate_limit.requests_per_minute", 0)
	v.SetDefault("rate_limit.burst_size", 0)
}

// Load reads path (skipped when empty), applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateStruct(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Logger builds a logrus logger at the configured level.
func (c *Config) Logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetLevel(level)
	return logger, nil
}

// ClientOptions maps the transport settings to client options. The cache is
// opened separately with OpenCache.
func (c *Config) ClientOptions(logger *logrus.Logger) []gtrans.ClientOption {
	opts := []gtrans.ClientOption{
		gtrans.WithServiceURLs(c.ServiceURLs...),
		gtrans.WithUserAgent(c.UserAgent),
		gtrans.WithRaiseException(c.RaiseException),
		gtrans.WithTimeout(c.Timeout),
	}
	if c.Fallback {
		opts = append(opts, gtrans.WithFallback())
	}
	if logger != nil {
		opts = append(opts, gtrans.WithLogger(logger))
	}
	return opts
}

// OpenCache returns the configured response cache, or nil for "none".
func (c *Config) OpenCache(ctx context.Context) (cache.TranslationCache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return nil, nil
	case CacheMemory:
		return cache.NewInMemoryCache(c.Cache.TTL), nil
	case CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			URL:       c.Cache.RedisURL,
			TTL:       c.Cache.TTL,
			KeyPrefix: c.Cache.KeyPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
}

// Decorate wraps t with rate limiting and retries when they are enabled.
// Retries sit outside the limiter so every attempt waits for a token.
func (c *Config) Decorate(t gtrans.Translator) gtrans.Translator {
	if c.RateLimit.RequestsPerMinute > 0 {
		t = gtrans.NewRateLimitedTranslator(t, gtrans.RateLimitConfig{
			RequestsPerMinute: c.RateLimit.RequestsPerMinute,
			BurstSize:         c.RateLimit.BurstSize,
		})
	}
	if c.Retry.MaxRetries > 0 {
		t = gtrans.NewRetryTranslator(t, gtrans.RetryConfig{
			MaxRetries: c.Retry.MaxRetries,
			BaseDelay:  c.Retry.BaseDelay,
			MaxDelay:   c.Retry.MaxDelay,
		})
	}
	return t
}
