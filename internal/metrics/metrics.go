// Package metrics exposes prometheus counters for searches, questions and embedding
// failures.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jobcoach"

// Search outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeEmpty          = "empty"
	OutcomeEmbeddingError = "embedding_error"
	OutcomeFilterError    = "filter_error"
)

// Metrics is safe to use as a nil pointer, which records nothing.
type Metrics struct {
	Searches          *prometheus.CounterVec
	Questions         *prometheus.CounterVec
	EmbeddingFailures *prometheus.CounterVec
	SearchDuration    *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Searches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Total number of searches by outcome",
			},
			[]string{"outcome"},
		),
		Questions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "questions_total",
				Help:      "Total number of chat questions by classified intent",
			},
			[]string{"intent"},
		),
		EmbeddingFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "embedding_failures_total",
				Help:      "Total number of failed embedding calls by provider and error kind",
			},
			[]string{"provider", "kind"},
		),
		SearchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Duration of a search from fetch to ranking",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
	}
}

func (m *Metrics) ObserveSearch(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.Searches.WithLabelValues(outcome).Inc()
	m.SearchDuration.WithLabelValues(outcome).Observe(took.Seconds())
}

func (m *Metrics) ObserveQuestion(intent string) {
	if m == nil {
		return
	}
	m.Questions.WithLabelValues(intent).Inc()
}

func (m *Metrics) ObserveEmbeddingFailure(provider, kind string) {
	if m == nil {
		return
	}
	m.EmbeddingFailures.WithLabelValues(provider, kind).Inc()
}
