package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerAddress string          `mapstructure:"server_address"`
	DBSource      string          `mapstructure:"db_source"`
	Log           LogConfig       `mapstructure:"log"`
	Geocode       GeocodeConfig   `mapstructure:"geocode"`
	Resolver      ResolverConfig  `mapstructure:"resolver"`
	Catalog       CatalogConfig   `mapstructure:"catalog"`
	Cache         CacheConfig     `mapstructure:"cache"`
	Dashboard     DashboardConfig `mapstructure:"dashboard"`
	CORS          CORSConfig      `mapstructure:"cors"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type GeocodeConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"`
	Zoom      int           `mapstructure:"zoom"`
}

type ResolverConfig struct {
	Budget time.Duration `mapstructure:"budget"`
}

// CatalogConfig selects where districts and their statistics come from.
type CatalogConfig struct {
	Mode        string        `mapstructure:"mode"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
}

type CacheConfig struct {
	Backend     string        `mapstructure:"backend"`
	TTL         time.Duration `mapstructure:"ttl"`
	LoadTimeout time.Duration `mapstructure:"load_timeout"`
	RedisURL    string        `mapstructure:"redis_url"`
}

type DashboardConfig struct {
	Dedupe  bool          `mapstructure:"dedupe"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

const (
	CatalogModePostgres = "postgres"
	CatalogModeHTTP     = "http"

	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
	CacheBackendNone   = "none"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_address", ":8080")
	v.SetDefault("db_source", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.user_agent", "MGNREGA-Dashboard/1.0")
	v.SetDefault("geocode.timeout", 20*time.Second)
	v.SetDefault("geocode.rate_limit", 1.0)
	v.SetDefault("geocode.zoom", 10)
	v.SetDefault("resolver.budget", 25*time.Second)
	v.SetDefault("catalog.mode", CatalogModePostgres)
	v.SetDefault("catalog.base_url", "")
	v.SetDefault("catalog.timeout", 15*time.Second)
	v.SetDefault("catalog.concurrency", 4)
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.ttl", 15*time.Minute)
	v.SetDefault("cache.load_timeout", 30*time.Second)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("dashboard.dedupe", false)
	v.SetDefault("dashboard.timeout", 30*time.Second)
	v.SetDefault("cors.allowed_origins", []string{"*"})
}

// LoadConfig reads configuration from app.yaml in path, overridden by environment variables
// such as GEOCODE_TIMEOUT or CATALOG_MODE. A missing file is not an error.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("yaml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: decoding: %w", err)
	}

	return config, config.Validate()
}

// Validate checks the combinations the server cannot start with.
func (c Config) Validate() error {
	switch c.Catalog.Mode {
	case CatalogModePostgres:
		if c.DBSource == "" {
			return errors.New("config: db_source is required when catalog.mode is postgres")
		}
	case CatalogModeHTTP:
		if c.Catalog.BaseURL == "" {
			return errors.New("config: catalog.base_url is required when catalog.mode is http")
		}
	default:
		return fmt.Errorf("config: unknown catalog.mode %q", c.Catalog.Mode)
	}

	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendNone:
	case CacheBackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New("config: cache.redis_url is required when cache.backend is redis")
		}
	default:
		return fmt.Errorf("config: unknown cache.backend %q", c.Cache.Backend)
	}

	if c.Geocode.RateLimit < 0 {
		return errors.New("config: geocode.rate_limit must not be negative")
	}
	return nil
}
