package embedding

import (
	"context"
	"math/rand/v2"
	"sync"
)

// Random returns pseudo-random vectors. It exists for demos and tests that need vectors
// without a model and is only built when the configuration asks for the dummy provider.
type Random struct {
	dimension int

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandom(dimension int, seed uint64) *Random {
	if dimension <= 0 {
		dimension = DefaultLocalDimension
	}
	return &Random{dimension: dimension, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *Random) Name() string { return ProviderDummy }

func (r *Random) Dimension() int { return r.dimension }

func (r *Random) Embed(_ context.Context, _ string) ([]float32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next(), nil
}

func (r *Random) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = r.next()
	}
	return vectors, nil
}

func (r *Random) next() []float32 {
	vec := make([]float32, r.dimension)
	for i := range vec {
		vec[i] = r.rng.Float32()
	}
	return vec
}
