package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORS            bool          `yaml:"cors"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Metrics struct {
		Enabled       bool          `yaml:"enabled"`
		Path          string        `yaml:"path" default:"/metrics"`
		SlowThreshold time.Duration `yaml:"slow_threshold" default:"2s"`
	} `yaml:"metrics"`
	MarketSource struct {
		URL      string        `yaml:"url" default:"https://api-v2.pendle.finance/core/v1/markets/all?isActive=true"`
		Timeout  time.Duration `yaml:"timeout" default:"30s"`
		CacheTTL time.Duration `yaml:"cache_ttl" default:"5m"`
		// SharedCache stores fetched snapshots in Redis so replicas share one fetch per window.
		SharedCache bool `yaml:"shared_cache"`
	} `yaml:"market_source"`
	Session struct {
		Backend  string        `yaml:"backend" default:"memory"`
		IdleTTL  time.Duration `yaml:"idle_ttl" default:"24h"`
		MaxPools int           `yaml:"max_pools" default:"200"`
	} `yaml:"session"`
	Redis struct {
		Host     string `yaml:"host" default:"localhost"`
		Port     int    `yaml:"port" default:"6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		PoolSize int    `yaml:"pool_size" default:"10"`
		Prefix   string `yaml:"prefix" default:"maturity"`
	} `yaml:"redis"`
	RateLimit struct {
		Capacity     float64 `yaml:"capacity" default:"20"`
		RefillPerSec float64 `yaml:"refill_per_sec" default:"5"`
	} `yaml:"rate_limit"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML, fills defaults and validates.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("MARKET_SOURCE_URL"); v != "" {
		c.MarketSource.URL = v
	}
	if v := getenv("SESSION_BACKEND"); v != "" {
		c.Session.Backend = v
	}
	if v := getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HTTP_PORT: %w", err)
		}
		c.Server.Port = port
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.MarketSource.URL == "" {
		return fmt.Errorf("market_source.url is required")
	}
	if c.MarketSource.CacheTTL <= 0 {
		return fmt.Errorf("market_source.cache_ttl must be positive")
	}
	if c.Session.Backend != SessionBackendMemory && c.Session.Backend != SessionBackendRedis {
		return fmt.Errorf("session.backend must be '%s' or '%s', got '%s'", SessionBackendMemory, SessionBackendRedis, c.Session.Backend)
	}
	if c.Session.MaxPools <= 0 {
		return fmt.Errorf("session.max_pools must be positive")
	}
	if c.MarketSource.SharedCache && c.Session.Backend != SessionBackendRedis {
		return fmt.Errorf("market_source.shared_cache requires session.backend 'redis'")
	}
	return nil
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *Config) UsesRedis() bool {
	return c.Session.Backend == SessionBackendRedis || c.MarketSource.SharedCache
}
