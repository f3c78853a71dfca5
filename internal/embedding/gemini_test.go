package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeEmbedder struct {
	mu        sync.Mutex
	calls     int
	sizes     []int
	err       error
	dimension int
	short     bool
}

func (f *fakeEmbedder) EmbedContent(_ context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.sizes = append(f.sizes, len(contents))

	if f.err != nil {
		return nil, f.err
	}

	resp := &genai.EmbedContentResponse{}
	for _, c := range contents {
		values := make([]float32, f.dimension)
		values[0] = float32(len(c.Parts[0].Text))
		resp.Embeddings = append(resp.Embeddings, &genai.ContentEmbedding{Values: values})
	}
	if f.short {
		resp.Embeddings = resp.Embeddings[:len(resp.Embeddings)-1]
	}
	return resp, nil
}

func newTestGemini(f *fakeEmbedder, batchSize int) *Gemini {
	return newGemini(f, GeminiConfig{Dimension: f.dimension, BatchSize: batchSize, Concurrency: 2}, zap.NewNop())
}

func TestGeminiEmbedBatchChunks(t *testing.T) {
	f := &fakeEmbedder{dimension: 8}
	g := newTestGemini(f, 2)

	texts := []string{"a", "bb", "", "dddd", "eeeee"}
	vectors, err := g.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vectors, len(texts))

	for i, text := range texts {
		require.Len(t, vectors[i], 8)
		assert.Equal(t, float32(len(text)), vectors[i][0], "vector %d out of place", i)
	}

	assert.Equal(t, 3, f.calls)
	assert.ElementsMatch(t, []int{2, 1, 1}, f.sizes)
}

func TestGeminiRejectsWrongResponseShape(t *testing.T) {
	g := newTestGemini(&fakeEmbedder{dimension: 4, short: true}, 10)

	_, err := g.EmbedBatch(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.False(t, IsRetryable(err))

	g = newGemini(&fakeEmbedder{dimension: 4}, GeminiConfig{Dimension: 8}, zap.NewNop())
	_, err = g.Embed(context.Background(), "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension mismatch")
}

func TestGeminiClassifiesFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		kind       Kind
		retryAfter time.Duration
	}{
		{
			name: "server error",
			err:  genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"},
			kind: KindRetryable,
		},
		{
			name: "unavailable behind wrapping",
			err:  fmt.Errorf("call: %w", genai.APIError{Code: http.StatusServiceUnavailable}),
			kind: KindRetryable,
		},
		{
			name:       "short quota delay",
			err:        genai.APIError{Code: http.StatusTooManyRequests, Message: "Please retry in 2.5s."},
			kind:       KindRetryable,
			retryAfter: 2500 * time.Millisecond,
		},
		{
			name: "long quota delay",
			err:  genai.APIError{Code: http.StatusTooManyRequests, Message: "quota exhausted, retry after 60 seconds"},
			kind: KindTerminal,
		},
		{
			name: "unauthenticated",
			err:  genai.APIError{Code: http.StatusUnauthorized, Status: "UNAUTHENTICATED"},
			kind: KindTerminal,
		},
		{
			name: "permission denied",
			err:  &genai.APIError{Code: http.StatusForbidden},
			kind: KindTerminal,
		},
		{
			name: "deadline",
			err:  context.DeadlineExceeded,
			kind: KindRetryable,
		},
		{
			name: "canceled",
			err:  context.Canceled,
			kind: KindTerminal,
		},
		{
			name: "unknown",
			err:  errors.New("boom"),
			kind: KindTerminal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := newGemini(&fakeEmbedder{err: tt.err, dimension: 4}, GeminiConfig{Dimension: 4, MaxRetryDelay: 10 * time.Second}, zap.NewNop())

			_, err := g.Embed(context.Background(), "text")
			require.Error(t, err)

			var embErr *Error
			require.ErrorAs(t, err, &embErr)
			assert.Equal(t, tt.kind, embErr.Kind)
			assert.Equal(t, tt.retryAfter, embErr.RetryAfter)
			assert.NotNil(t, errors.Unwrap(err))
		})
	}
}
