package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobcoach/internal/postings"
)

type cityFilter struct {
	toggle
	city string
}

// NewCity creates a filter that drops postings located in another city. Postings without
// a city are kept. An empty city disables the filter.
func NewCity(city string) Filter {
	f := &cityFilter{city: strings.TrimSpace(city)}
	if f.city == "" {
		f.Disable("no city requested")
	}
	return f
}

func (f *cityFilter) Name() string { return "city" }

func (f *cityFilter) Validate() error { return nil }

func (f *cityFilter) Apply(_ context.Context, deps Deps, p *postings.Postings) (*postings.Postings, Step, error) {
	initial := p.Len()
	removed := p.Keep(func(item postings.Posting) bool {
		return !item.HasCity() || strings.EqualFold(strings.TrimSpace(item.City), f.city)
	})

	if len(removed) > 0 {
		deps.Logger.Debug("excluding postings in other cities",
			zap.String("city", f.city),
			zap.Int("excluded", len(removed)),
			zap.Int("postings_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(removed), Left: p.Len()}, nil
}

func (f *cityFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"city": f.city},
	}
}
