// Package ranking orders postings by cosine similarity to a query vector.
package ranking

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/spigell/jobcoach/internal/postings"
)

// ErrDimensionMismatch is the panic value (wrapped) raised when a query and a posting
// vector differ in length. It signals a misconfigured provider, not bad user input.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Item is a posting with its embedding.
type Item struct {
	Posting postings.Posting
	Vector  []float32
}

// Result is a ranked posting. Rank starts at 1.
type Result struct {
	Posting postings.Posting
	Score   float64
	Rank    int
}

// Ranker orders items by similarity to query. Implementations return results sorted by
// descending score with ties in input order. An approximate nearest-neighbour index can
// satisfy this interface for large collections without changing callers.
type Ranker interface {
	Rank(query []float32, items []Item) []Result
}

// Exact scores every item with Cosine. It is O(n·D).
type Exact struct{}

func (Exact) Rank(query []float32, items []Item) []Result {
	results := make([]Result, len(items))
	for i, item := range items {
		results[i] = Result{Posting: item.Posting, Score: Cosine(query, item.Vector)}
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

// Cosine returns dot(a,b)/(|a|·|b|). A zero-norm vector has similarity 0 with anything.
// Vectors of different length panic with ErrDimensionMismatch.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		panic(fmt.Errorf("%w: query has %d dimensions, item has %d", ErrDimensionMismatch, len(a), len(b)))
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}

	if na == 0 || nb == 0 {
		return 0
	}

	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// TopK returns at most k results. A non-positive k keeps everything.
func TopK(results []Result, k int) []Result {
	if k <= 0 || k >= len(results) {
		return results
	}
	return results[:k]
}

// Postings returns the postings of results in rank order.
func Postings(results []Result) *postings.Postings {
	items := make([]postings.Posting, len(results))
	for i, r := range results {
		items[i] = r.Posting
	}
	return postings.New(items)
}
