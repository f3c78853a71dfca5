package embedding

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"

	"github.com/spigell/jobcoach/internal/logger"
	"github.com/spigell/jobcoach/internal/utils"
)

const (
	defaultGeminiModel     = "gemini-embedding-001"
	defaultGeminiDimension = 768
	defaultBatchSize       = 100
	defaultConcurrency     = 4
	defaultMaxRetryDelay   = 30 * time.Second
	taskType               = "SEMANTIC_SIMILARITY"
	maxLogLength           = 120
)

var retryDelayPattern = regexp.MustCompile(`(?i)retry (?:after|in) ([0-9]+(?:\.[0-9]+)?)\s*s`)

type GeminiConfig struct {
	APIKey      string
	Model       string
	Dimension   int
	BatchSize   int
	Concurrency int
	// MaxRetryDelay is the longest quota delay still reported as retryable.
	MaxRetryDelay time.Duration
}

type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Gemini embeds text with the Gemini API.
type Gemini struct {
	models        contentEmbedder
	model         string
	dimension     int
	batchSize     int
	concurrency   int
	maxRetryDelay time.Duration
	logger        *zap.Logger
}

func NewGemini(ctx context.Context, cfg GeminiConfig, log *zap.Logger) (*Gemini, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, terminal(ProviderGemini, errors.New("gemini api key is required"))
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, terminal(ProviderGemini, fmt.Errorf("create genai client: %w", err))
	}

	return newGemini(client.Models, cfg, log), nil
}

func newGemini(models contentEmbedder, cfg GeminiConfig, log *zap.Logger) *Gemini {
	g := &Gemini{
		models:        models,
		model:         strings.TrimSpace(cfg.Model),
		dimension:     cfg.Dimension,
		batchSize:     cfg.BatchSize,
		concurrency:   cfg.Concurrency,
		maxRetryDelay: cfg.MaxRetryDelay,
	}

	if g.model == "" {
		g.model = defaultGeminiModel
	}
	if g.dimension <= 0 {
		g.dimension = defaultGeminiDimension
	}
	if g.batchSize <= 0 || g.batchSize > defaultBatchSize {
		g.batchSize = defaultBatchSize
	}
	if g.concurrency <= 0 {
		g.concurrency = defaultConcurrency
	}
	if g.maxRetryDelay <= 0 {
		g.maxRetryDelay = defaultMaxRetryDelay
	}
	g.logger = logger.WithEmbeddingFields(log, ProviderGemini, g.model)

	return g
}

func (g *Gemini) Name() string { return ProviderGemini }

func (g *Gemini) Dimension() int { return g.dimension }

func (g *Gemini) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := g.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in chunks of at most BatchSize. Chunks run concurrently; the
// first failure cancels the rest and no partial result is returned.
func (g *Gemini) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	if len(texts) == 0 {
		return vectors, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(g.concurrency)

	for start := 0; start < len(texts); start += g.batchSize {
		end := min(start+g.batchSize, len(texts))
		group.Go(func() error {
			return g.embedChunk(groupCtx, texts[start:end], vectors[start:end])
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return vectors, nil
}

func (g *Gemini) embedChunk(ctx context.Context, texts []string, out [][]float32) error {
	contents := make([]*genai.Content, 0, len(texts))
	positions := make([]int, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			// The API rejects empty content; an empty text has no direction.
			out[i] = make([]float32, g.dimension)
			continue
		}
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
		positions = append(positions, i)
	}

	if len(contents) == 0 {
		return nil
	}

	dimension := int32(g.dimension)
	cfg := &genai.EmbedContentConfig{
		TaskType:             taskType,
		OutputDimensionality: &dimension,
	}

	g.logger.Debug("gemini embed content request",
		zap.Int("texts", len(contents)),
		zap.String("first_text_preview", utils.TruncateForLog(texts[positions[0]], maxLogLength)),
	)

	resp, err := g.models.EmbedContent(ctx, g.model, contents, cfg)
	if err != nil {
		classified := g.classify(err)
		g.logger.Warn("gemini embed content failed",
			zap.String("kind", classified.Kind.String()),
			zap.Duration("retry_after", classified.RetryAfter),
			zap.Error(err),
		)
		return classified
	}

	if resp == nil || len(resp.Embeddings) != len(contents) {
		got := 0
		if resp != nil {
			got = len(resp.Embeddings)
		}
		return terminal(ProviderGemini, fmt.Errorf("expected %d embeddings, got %d", len(contents), got))
	}

	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) != g.dimension {
			got := 0
			if emb != nil {
				got = len(emb.Values)
			}
			return terminal(ProviderGemini, fmt.Errorf("dimension mismatch: expected %d, got %d", g.dimension, got))
		}
		out[positions[i]] = emb.Values
	}

	return nil
}

// classify sorts a failed call into retryable (timeouts, rate limits with a short
// advertised delay, server errors) and terminal (everything else, authentication included).
func (g *Gemini) classify(err error) *Error {
	if errors.Is(err, context.Canceled) {
		return terminal(ProviderGemini, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return retryable(ProviderGemini, err, 0)
	}

	if apiErr, ok := asAPIError(err); ok {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			delay := parseRetryDelay(apiErr.Message)
			if delay > g.maxRetryDelay {
				return terminal(ProviderGemini, fmt.Errorf("quota delay %s exceeds %s: %w", delay, g.maxRetryDelay, err))
			}
			return retryable(ProviderGemini, err, delay)
		case apiErr.Code == http.StatusRequestTimeout || apiErr.Code >= http.StatusInternalServerError:
			return retryable(ProviderGemini, err, 0)
		default:
			return terminal(ProviderGemini, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return retryable(ProviderGemini, err, 0)
	}

	return terminal(ProviderGemini, err)
}

func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}

func parseRetryDelay(message string) time.Duration {
	match := retryDelayPattern.FindStringSubmatch(message)
	if len(match) != 2 {
		return 0
	}
	seconds, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}
