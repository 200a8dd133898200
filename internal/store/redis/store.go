// Package redis stores the catalog document under a single Redis key.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davidbz/costsheet/internal/domain"
	"github.com/davidbz/costsheet/internal/observability"
)

// Config contains Redis connection settings.
type Config struct {
	Addr       string `env:"REDIS_ADDR"        envDefault:"localhost:6379"`
	Password   string `env:"REDIS_PASSWORD"`
	DB         int    `env:"REDIS_DB"          envDefault:"0"`
	CatalogKey string `env:"REDIS_CATALOG_KEY" envDefault:"costsheet:catalog"`
}

// Client is the subset of *redis.Client the store needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Store is a Redis-backed domain.CatalogStore. A single SET replaces the
// whole document, so readers never see a partial catalog.
type Store struct {
	client Client
	key    string
}

// NewClient opens a client for cfg.
func NewClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// New creates a store that keeps the catalog under key.
func New(client Client, key string) *Store {
	return &Store{
		client: client,
		key:    key,
	}
}

// Load returns the stored document.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: key %q is not set", domain.ErrStoreUnavailable, s.key)
		}
		return nil, fmt.Errorf("failed to read catalog key %q: %w", s.key, err)
	}

	return data, nil
}

// Save replaces the stored document.
func (s *Store) Save(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write catalog key %q: %w", s.key, err)
	}

	observability.FromContext(ctx).Debug("catalog key written",
		observability.String("key", s.key),
		observability.Int("bytes", len(data)))

	return nil
}
