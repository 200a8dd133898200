// Package discovery lists the models offered by an OpenAI-compatible API.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/costsheet/internal/observability"
)

// ErrNotConfigured indicates that no API key is set.
var ErrNotConfigured = errors.New("model discovery not configured")

// Config contains OpenAI API settings.
// All fields map to SDK options:
//   - APIKey: Maps to option.WithAPIKey()
//   - BaseURL: Maps to option.WithBaseURL()
//   - Timeout: Maps to option.WithRequestTimeout() (in seconds)
//   - MaxRetries: Maps to option.WithMaxRetries()
type Config struct {
	APIKey     string `env:"OPENAI_API_KEY"`
	BaseURL    string `env:"OPENAI_BASE_URL"    envDefault:"https://api.openai.com/v1"`
	Timeout    int    `env:"OPENAI_TIMEOUT"     envDefault:"60"`
	MaxRetries int    `env:"OPENAI_MAX_RETRIES" envDefault:"3"`
}

// Lister implements domain.ModelLister with the official OpenAI SDK.
type Lister struct {
	client openai.Client
}

// NewLister creates a lister. It returns ErrNotConfigured when cfg has no
// API key.
func NewLister(cfg Config) (*Lister, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}

	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(cfg.Timeout)*time.Second))
	}

	if cfg.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}

	return &Lister{client: openai.NewClient(opts...)}, nil
}

// ListModels returns the sorted ids of every model the API offers.
func (l *Lister) ListModels(ctx context.Context) ([]string, error) {
	page, err := l.client.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	sort.Strings(ids)

	observability.FromContext(ctx).Info("provider models listed",
		observability.Int("count", len(ids)))

	return ids, nil
}
