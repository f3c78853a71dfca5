package embedding

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobcoach/internal/logger"
	"github.com/spigell/jobcoach/internal/utils"
)

// Retrying repeats calls that failed with a retryable Error, at most maxAttempts times
// in total. Terminal failures are returned at once.
type Retrying struct {
	next        Provider
	maxAttempts int
	backoff     time.Duration
	logger      *zap.Logger
}

func NewRetrying(next Provider, maxAttempts int, backoff time.Duration, log *zap.Logger) *Retrying {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Retrying{
		next:        next,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		logger:      logger.WithFields(log, zap.String("embedding_provider", next.Name())),
	}
}

func (r *Retrying) Name() string { return r.next.Name() }

func (r *Retrying) Dimension() int { return r.next.Dimension() }

func (r *Retrying) Embed(ctx context.Context, text string) ([]float32, error) {
	var vec []float32
	err := r.do(ctx, func() error {
		var err error
		vec, err = r.next.Embed(ctx, text)
		return err
	})
	return vec, err
}

func (r *Retrying) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var vectors [][]float32
	err := r.do(ctx, func() error {
		var err error
		vectors, err = r.next.EmbedBatch(ctx, texts)
		return err
	})
	return vectors, err
}

func (r *Retrying) do(ctx context.Context, call func() error) error {
	var err error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err = call()
		if err == nil || !IsRetryable(err) || attempt == r.maxAttempts {
			return err
		}

		delay := r.backoff * time.Duration(attempt)
		var embErr *Error
		if errors.As(err, &embErr) && embErr.RetryAfter > delay {
			delay = embErr.RetryAfter
		}

		r.logger.Info("retrying embedding call",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", r.maxAttempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if waitErr := utils.WaitFor(ctx, delay); waitErr != nil {
			return terminal(r.next.Name(), waitErr)
		}
	}
	return err
}
