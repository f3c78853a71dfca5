// Package embedding maps text to fixed-dimension vectors. Providers are interchangeable
// behind the Provider interface and are selected by explicit configuration.
package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobcoach/internal/logger"
)

const (
	ProviderLocal  = "local"
	ProviderGemini = "gemini"
	ProviderDummy  = "dummy"
)

// Provider embeds text. Every vector returned by one provider has Dimension() elements.
type Provider interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

type Config struct {
	Provider   string
	Dimension  int
	Seed       uint64
	MaxRetries int
	Backoff    time.Duration
	Gemini     GeminiConfig
}

// New builds the provider named in cfg. Remote providers are wrapped in a Retrying
// decorator when cfg.MaxRetries is above one.
func New(ctx context.Context, cfg Config, log *zap.Logger) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if name == "" {
		name = ProviderLocal
	}

	switch name {
	case ProviderLocal:
		return NewLocal(cfg.Dimension, cfg.Seed), nil
	case ProviderDummy:
		logger.WithFields(log).Warn("using random embeddings; rankings are meaningless",
			zap.String("hint", "set embedding.provider to local or gemini"),
		)
		return NewRandom(cfg.Dimension, cfg.Seed), nil
	case ProviderGemini:
		geminiCfg := cfg.Gemini
		if geminiCfg.Dimension == 0 {
			geminiCfg.Dimension = cfg.Dimension
		}
		g, err := NewGemini(ctx, geminiCfg, log)
		if err != nil {
			return nil, err
		}
		if cfg.MaxRetries > 1 {
			return NewRetrying(g, cfg.MaxRetries, cfg.Backoff, log), nil
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
