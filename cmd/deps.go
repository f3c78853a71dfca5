package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobcoach/internal/assistant"
	"github.com/spigell/jobcoach/internal/chat"
	"github.com/spigell/jobcoach/internal/embedding"
	"github.com/spigell/jobcoach/internal/filtering"
	"github.com/spigell/jobcoach/internal/jobtech"
	"github.com/spigell/jobcoach/internal/logger"
	"github.com/spigell/jobcoach/internal/metrics"
	"github.com/spigell/jobcoach/internal/ranking"
	"github.com/spigell/jobcoach/internal/secrets"
	"github.com/spigell/jobcoach/internal/skills"
	"github.com/spigell/jobcoach/internal/taxonomy"
)

// env holds what every command needs after start-up.
type env struct {
	logger   *zap.Logger
	config   *Config
	registry *prometheus.Registry
}

func setup() *env {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		logger.Fatal("config is required")
	}

	logger.Debug("starting", zap.String("app", app), zap.String("version", version))

	return &env{logger: logger, config: config, registry: prometheus.NewRegistry()}
}

func (e *env) loadTaxonomy() *taxonomy.Taxonomy {
	cfg := e.config.Taxonomy
	if cfg == nil {
		return taxonomy.Empty()
	}

	opts := taxonomy.Options{
		Logger:           e.logger,
		PrimaryLanguage:  cfg.PrimaryLanguage,
		FallbackLanguage: cfg.FallbackLanguage,
	}
	t := taxonomy.Load(cfg.Path, opts)
	if strings.TrimSpace(cfg.SkillsPath) != "" {
		t.LoadVocabulary(cfg.SkillsPath, opts)
	}
	return t
}

func (e *env) newSource() (*jobtech.Client, error) {
	cfg := e.config.JobTech
	if cfg == nil {
		cfg = &JobTechConfig{}
	}

	apiKey, err := secrets.LoadOptional(secrets.Source{
		Name:  "jobtech api key",
		File:  cfg.APIKeyFile,
		Value: cfg.APIKey,
	})
	if err != nil {
		return nil, err
	}

	client := jobtech.New(e.logger, apiKey, cfg.Timeout)
	if cfg.URL != "" {
		client.APIURL = strings.TrimRight(cfg.URL, "/")
	}
	if cfg.UserAgent != "" {
		client.UserAgent = cfg.UserAgent
	}
	return client, nil
}

func (e *env) newProvider(ctx context.Context) (embedding.Provider, error) {
	cfg := e.config.Embedding
	if cfg == nil {
		cfg = &EmbeddingConfig{}
	}

	embCfg := embedding.Config{
		Provider:   cfg.Provider,
		Dimension:  cfg.Dimension,
		Seed:       cfg.Seed,
		MaxRetries: cfg.MaxRetries,
		Backoff:    cfg.Backoff,
	}

	if strings.EqualFold(strings.TrimSpace(cfg.Provider), embedding.ProviderGemini) {
		g := cfg.Gemini
		if g == nil {
			g = &GeminiConfig{}
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			File:  g.APIKeyFile,
			Value: g.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set embedding.gemini.api-key-file, JOBCOACH_GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
		}

		embCfg.Gemini = embedding.GeminiConfig{
			APIKey:        apiKey,
			Model:         g.Model,
			BatchSize:     g.BatchSize,
			Concurrency:   g.Concurrency,
			MaxRetryDelay: g.MaxRetryDelay,
		}
	}

	return embedding.New(ctx, embCfg, e.logger)
}

func (e *env) filters() []filtering.Filter {
	var employers []string
	var excludeFile string
	if e.config.Exclude != nil {
		employers = e.config.Exclude.Employers
		excludeFile = e.config.Exclude.File
	}

	steps := []filtering.Filter{
		filtering.NewDuplicates(),
		filtering.NewExcludedEmployers(employers),
		filtering.NewExcludeFile(excludeFile),
	}

	for _, name := range viper.GetStringSlice("skip-filter") {
		filtering.DisableByName(steps, strings.TrimSpace(name), "skipped by flag")
	}

	for _, status := range filtering.Describe(steps) {
		e.logger.Debug("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	return steps
}

func (e *env) topSkills() int {
	if e.config.Taxonomy == nil {
		return 0
	}
	return e.config.Taxonomy.TopSkills
}

// newAssistant wires the source, the provider, the taxonomy and the router.
func (e *env) newAssistant(ctx context.Context) *assistant.Assistant {
	source, err := e.newSource()
	if err != nil {
		e.logger.Fatal("loading jobtech api key", zap.Error(err))
	}

	provider, err := e.newProvider(ctx)
	if err != nil {
		e.logger.Fatal("creating embedding provider",
			zap.Error(err),
			zap.String("hint", "set embedding.provider to local to run without a remote service"),
		)
	}

	a, err := assistant.New(assistant.Deps{
		Source:   source,
		Provider: provider,
		Ranker:   ranking.Exact{},
		Router:   chat.NewRouter(skills.New(e.loadTaxonomy(), e.topSkills())),
		Filters:  e.filters(),
		Logger:   e.logger,
		Metrics:  metrics.New(e.registry),
	})
	if err != nil {
		e.logger.Fatal("creating assistant", zap.Error(err))
	}
	return a
}

// flushMetrics writes the collected metrics when a textfile is configured.
func (e *env) flushMetrics() {
	if e.config.Metrics == nil || e.config.Metrics.Textfile == "" {
		return
	}
	if err := prometheus.WriteToTextfile(e.config.Metrics.Textfile, e.registry); err != nil {
		e.logger.Warn("writing metrics", zap.Error(err), zap.String("path", e.config.Metrics.Textfile))
	}
}

func (e *env) request(query, city string, count, topK int) assistant.Request {
	cfg := e.config.Search
	if cfg == nil {
		cfg = &SearchConfig{}
	}
	if city == "" {
		city = cfg.City
	}
	if count <= 0 {
		count = cfg.Count
	}
	if topK <= 0 {
		topK = cfg.TopK
	}
	return assistant.Request{Query: query, City: city, Count: count, TopK: topK}
}
