package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/costsheet/internal/discovery"
	"github.com/davidbz/costsheet/internal/store/redis"
)

// Catalog store backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config represents the service configuration.
type Config struct {
	Server  ServerConfig
	CORS    CORSConfig
	Catalog CatalogConfig
	Redis   redis.Config
	OpenAI  discovery.Config
	Log     LogConfig
	Metrics MetricsConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"30"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// CatalogConfig selects and configures the catalog store.
type CatalogConfig struct {
	Backend string `env:"CATALOG_BACKEND" envDefault:"file"`
	Path    string `env:"CATALOG_PATH"    envDefault:"data/pricing.json"`
	Watch   bool   `env:"CATALOG_WATCH"   envDefault:"false"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// MetricsConfig contains prometheus settings.
type MetricsConfig struct {
	Namespace string `env:"METRICS_NAMESPACE" envDefault:"costsheet"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*ServerConfig
	*CORSConfig
	*CatalogConfig
	Redis  *redis.Config
	OpenAI *discovery.Config
	*LogConfig
	*MetricsConfig
}

// Load loads environment files and parses configuration.
func Load() (*Config, error) {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values the env tags cannot express.
func (c *Config) Validate() error {
	switch c.Catalog.Backend {
	case BackendFile:
		if c.Catalog.Path == "" {
			return fmt.Errorf("CATALOG_PATH is required for the %s backend", BackendFile)
		}
	case BackendRedis:
		if c.Redis.CatalogKey == "" {
			return fmt.Errorf("REDIS_CATALOG_KEY is required for the %s backend", BackendRedis)
		}
	default:
		return fmt.Errorf("unknown CATALOG_BACKEND %q (want %s or %s)", c.Catalog.Backend, BackendFile, BackendRedis)
	}

	if c.Server.Port <= 0 {
		return fmt.Errorf("SERVER_PORT must be positive, got %d", c.Server.Port)
	}

	return nil
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Server,
		&cfg.CORS,
		&cfg.Catalog,
		&cfg.Redis,
		&cfg.OpenAI,
		&cfg.Log,
		&cfg.Metrics,
	}
}
