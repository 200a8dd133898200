package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/costsheet/internal/config"
	"github.com/davidbz/costsheet/internal/discovery"
	"github.com/davidbz/costsheet/internal/domain"
	"github.com/davidbz/costsheet/internal/httpserver"
	"github.com/davidbz/costsheet/internal/httpserver/middleware"
	"github.com/davidbz/costsheet/internal/observability"
	"github.com/davidbz/costsheet/internal/schema"
	"github.com/davidbz/costsheet/internal/store/file"
	"github.com/davidbz/costsheet/internal/store/redis"
)

func buildContainer() (*dig.Container, error) {
	container := dig.New()

	providers := []struct {
		name        string
		constructor any
	}{
		// Configuration
		{"config", config.Load},
		{"config dependencies", config.ParseDependenciesConfig},

		// Observability
		{"logger", func(cfg *config.LogConfig) (*zap.Logger, error) {
			return observability.InitLogger(cfg.Level)
		}},
		{"metrics registry", prometheus.NewRegistry},
		{"metrics", func(cfg *config.MetricsConfig, registry *prometheus.Registry) *observability.Metrics {
			return observability.NewMetrics(cfg.Namespace, registry)
		}},

		// Catalog
		{"schema validator", schema.NewValidator},
		{"catalog store", newCatalogStore},
		{"catalog service", func(
			store domain.CatalogStore,
			validator *schema.Validator,
			metrics *observability.Metrics,
		) *domain.CatalogService {
			return domain.NewCatalogService(store, validator, metrics)
		}},
		{"model lister", func(cfg *discovery.Config) (*discovery.Lister, error) {
			return discovery.NewLister(*cfg)
		}},

		// HTTP Layer
		{"HTTP handler", httpserver.NewHandler},
		{"middleware chain", middleware.BuildMiddlewareChain},
		{"HTTP server", httpserver.NewServer},
	}

	for _, p := range providers {
		if err := container.Provide(p.constructor); err != nil {
			return nil, fmt.Errorf("failed to provide %s: %w", p.name, err)
		}
	}

	return container, nil
}

// newCatalogStore selects the store backend. The logger dependency makes sure
// logging is configured before the store first logs.
func newCatalogStore(
	_ *zap.Logger,
	cfg *config.CatalogConfig,
	redisCfg *redis.Config,
) (domain.CatalogStore, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return file.New(cfg.Path), nil
	case config.BackendRedis:
		return redis.New(redis.NewClient(*redisCfg), redisCfg.CatalogKey), nil
	default:
		return nil, fmt.Errorf("unknown catalog backend %q", cfg.Backend)
	}
}
