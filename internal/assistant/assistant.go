// Package assistant runs the search and chat actions of one user session: fetch, filter,
// embed and rank postings, then answer questions about them.
package assistant

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobcoach/internal/chat"
	"github.com/spigell/jobcoach/internal/embedding"
	"github.com/spigell/jobcoach/internal/filtering"
	"github.com/spigell/jobcoach/internal/logger"
	"github.com/spigell/jobcoach/internal/metrics"
	"github.com/spigell/jobcoach/internal/postings"
	"github.com/spigell/jobcoach/internal/ranking"
	"github.com/spigell/jobcoach/internal/utils"
)

const (
	DefaultCount = 20
	topCities    = 3
)

var ErrEmptyQuery = errors.New("search query is empty")

// Source fetches postings. It never fails; problems yield an empty slice.
type Source interface {
	Fetch(ctx context.Context, query string, limit int) []postings.Posting
}

type Deps struct {
	Source   Source
	Provider embedding.Provider
	Ranker   ranking.Ranker
	Router   *chat.Router
	Filters  []filtering.Filter
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

type Assistant struct {
	source   Source
	provider embedding.Provider
	ranker   ranking.Ranker
	router   *chat.Router
	filters  []filtering.Filter
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func New(deps Deps) (*Assistant, error) {
	if deps.Source == nil {
		return nil, fmt.Errorf("postings source is required")
	}
	if deps.Provider == nil {
		return nil, fmt.Errorf("embedding provider is required")
	}
	if deps.Ranker == nil {
		deps.Ranker = ranking.Exact{}
	}
	if deps.Router == nil {
		deps.Router = chat.NewRouter(nil)
	}

	return &Assistant{
		source:   deps.Source,
		provider: deps.Provider,
		ranker:   deps.Ranker,
		router:   deps.Router,
		filters:  deps.Filters,
		logger:   logger.WithFields(deps.Logger),
		metrics:  deps.Metrics,
	}, nil
}

// Request describes one search. Count postings are fetched; TopK of them are kept after
// ranking, all when TopK is zero.
type Request struct {
	Query string
	City  string
	Count int
	TopK  int
}

func (r Request) text() string {
	return strings.Join(strings.Fields(r.Query+" "+r.City), " ")
}

type Outcome struct {
	Results []ranking.Result
	Summary Summary
}

type Summary struct {
	Count     int
	TopCities []postings.CityCount
	TopTitle  string
}

func (s Summary) String() string {
	if s.Count == 0 {
		return "Inga jobb hittades. Prova en annan sökning."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hittade %d jobb.", s.Count)
	if len(s.TopCities) > 0 {
		parts := make([]string, len(s.TopCities))
		for i, c := range s.TopCities {
			parts[i] = fmt.Sprintf("%s (%d)", c.City, c.Count)
		}
		fmt.Fprintf(&b, " Flest i %s.", strings.Join(parts, ", "))
	}
	if s.TopTitle != "" {
		fmt.Fprintf(&b, " Bäst matchning: %s.", s.TopTitle)
	}
	return b.String()
}

func summarize(results []ranking.Result) Summary {
	if len(results) == 0 {
		return Summary{}
	}

	cities := ranking.Postings(results).Cities()
	slices.SortStableFunc(cities, func(a, b postings.CityCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(cities) > topCities {
		cities = cities[:topCities]
	}

	return Summary{
		Count:     len(results),
		TopCities: cities,
		TopTitle:  results[0].Posting.Title,
	}
}

// Search replaces the session's results with the ranked postings for req. Postings located
// in another city than req.City are dropped. When nothing is
// found, or embedding fails, the session is cleared and waits for a new query. Embedding
// failures are returned as *embedding.Error.
func (a *Assistant) Search(ctx context.Context, s *chat.Session, req Request) (*Outcome, error) {
	started := time.Now()
	log := logger.WithSession(a.logger, s.ID)

	query := req.text()
	if query == "" {
		s.Clear()
		return nil, ErrEmptyQuery
	}
	count := req.Count
	if count <= 0 {
		count = DefaultCount
	}

	list := postings.New(a.source.Fetch(ctx, query, count))
	log.Debug("postings fetched", zap.String("query", query), zap.Int("count", list.Len()))

	steps := append(slices.Clone(a.filters), filtering.NewCity(req.City))
	list, err := filtering.Run(ctx, filtering.Deps{Logger: log}, steps, list)
	if err != nil {
		s.Clear()
		a.metrics.ObserveSearch(metrics.OutcomeFilterError, time.Since(started))
		return nil, fmt.Errorf("filter postings: %w", err)
	}

	if list.Len() == 0 {
		s.Clear()
		a.metrics.ObserveSearch(metrics.OutcomeEmpty, time.Since(started))
		log.Info("search found nothing", zap.String("query", query))
		return &Outcome{}, nil
	}

	items, queryVector, err := a.embed(ctx, query, list.Items)
	if err != nil {
		s.Clear()
		a.recordEmbeddingFailure(err)
		a.metrics.ObserveSearch(metrics.OutcomeEmbeddingError, time.Since(started))
		log.Warn("embedding failed", zap.Error(err))
		return nil, err
	}

	results := ranking.TopK(a.ranker.Rank(queryVector, items), req.TopK)
	s.Replace(strings.TrimSpace(req.Query), results)

	outcome := &Outcome{Results: results, Summary: summarize(results)}
	a.metrics.ObserveSearch(metrics.OutcomeOK, time.Since(started))
	log.Info("search completed",
		zap.String("query", utils.TruncateForLog(query, 200)),
		zap.Int("results", len(results)),
		zap.Duration("took", time.Since(started)),
	)

	return outcome, nil
}

func (a *Assistant) embed(ctx context.Context, query string, items []postings.Posting) ([]ranking.Item, []float32, error) {
	texts := make([]string, len(items))
	for i, p := range items {
		texts[i] = p.EmbeddingText()
	}

	vectors, err := a.provider.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, nil, err
	}
	if len(vectors) != len(items) {
		return nil, nil, &embedding.Error{
			Provider: a.provider.Name(),
			Kind:     embedding.KindTerminal,
			Err:      fmt.Errorf("got %d vectors for %d postings", len(vectors), len(items)),
		}
	}

	queryVector, err := a.provider.Embed(ctx, query)
	if err != nil {
		return nil, nil, err
	}

	ranked := make([]ranking.Item, len(items))
	for i, p := range items {
		ranked[i] = ranking.Item{Posting: p, Vector: vectors[i]}
	}
	return ranked, queryVector, nil
}

func (a *Assistant) recordEmbeddingFailure(err error) {
	kind := embedding.KindTerminal.String()
	var embErr *embedding.Error
	if errors.As(err, &embErr) {
		kind = embErr.Kind.String()
	}
	a.metrics.ObserveEmbeddingFailure(a.provider.Name(), kind)
}

// Ask records the question and the answer in the session history and returns the answer.
func (a *Assistant) Ask(s *chat.Session, text string) string {
	s.Append(chat.RoleUser, text)
	answer := a.router.Answer(s, text)
	s.Append(chat.RoleBot, answer.Text)

	a.metrics.ObserveQuestion(string(answer.Intent))
	logger.WithSession(a.logger, s.ID).Debug("question answered",
		zap.String("intent", string(answer.Intent)),
		zap.Int("count", answer.Count),
	)

	return answer.Text
}

// ResetChat clears the conversation and keeps the results.
func (a *Assistant) ResetChat(s *chat.Session) {
	s.ResetChat()
}
