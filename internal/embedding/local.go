package embedding

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/spigell/jobcoach/internal/textnorm"
)

const (
	DefaultLocalDimension = 384

	unigramWeight = 1.0
	partWeight    = 0.5
	bigramWeight  = 0.5
)

// Local is an offline provider based on signed feature hashing of words, word parts and
// word bigrams. The seed plays the role of model weights: equal seeds give equal vectors.
type Local struct {
	dimension int
	salt      string
}

func NewLocal(dimension int, seed uint64) *Local {
	if dimension <= 0 {
		dimension = DefaultLocalDimension
	}
	return &Local{dimension: dimension, salt: strconv.FormatUint(seed, 10) + "|"}
}

func (l *Local) Name() string { return ProviderLocal }

func (l *Local) Dimension() int { return l.dimension }

func (l *Local) Embed(_ context.Context, text string) ([]float32, error) {
	return l.vector(text), nil
}

func (l *Local) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = l.vector(text)
	}
	return vectors, nil
}

func (l *Local) vector(text string) []float32 {
	acc := make([]float64, l.dimension)
	tokens := tokenize(text)

	for i, tok := range tokens {
		l.add(acc, "w:"+tok, unigramWeight)

		parts := strings.FieldsFunc(tok, func(r rune) bool { return !textnorm.IsWordRune(r) })
		if len(parts) > 1 {
			for _, part := range parts {
				l.add(acc, "w:"+part, partWeight)
			}
		}

		if i > 0 {
			l.add(acc, "b:"+tokens[i-1]+" "+tok, bigramWeight)
		}
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}

	vec := make([]float32, l.dimension)
	if norm == 0 {
		return vec
	}

	norm = math.Sqrt(norm)
	for i, v := range acc {
		vec[i] = float32(v / norm)
	}
	return vec
}

// tokenize splits normalised text into words. Trailing sentence punctuation is dropped so
// "utvecklare." and "utvecklare" share features; leading dots (".net") are kept.
func tokenize(text string) []string {
	fields := strings.Fields(textnorm.Normalize(text))
	tokens := fields[:0]
	for _, f := range fields {
		if f = strings.TrimRight(f, ".-/"); f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func (l *Local) add(acc []float64, feature string, weight float64) {
	h := xxhash.Sum64String(l.salt + feature)
	idx := h % uint64(len(acc))
	if h>>63 == 1 {
		weight = -weight
	}
	acc[idx] += weight
}
