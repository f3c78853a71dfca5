package filtering

import (
	"context"
	"strings"

	"github.com/spigell/jobcoach/internal/postings"
)

type duplicatesFilter struct {
	toggle
}

// NewDuplicates creates a filter that keeps the first of postings sharing an id or the
// same title and employer.
func NewDuplicates() Filter {
	return &duplicatesFilter{}
}

func (f *duplicatesFilter) Name() string { return "duplicates" }

func (f *duplicatesFilter) Validate() error { return nil }

func (f *duplicatesFilter) Apply(_ context.Context, _ Deps, p *postings.Postings) (*postings.Postings, Step, error) {
	initial := p.Len()
	ids := map[string]struct{}{}
	keys := map[string]struct{}{}

	removed := p.Keep(func(item postings.Posting) bool {
		if item.ID != "" {
			if _, dup := ids[item.ID]; dup {
				return false
			}
			ids[item.ID] = struct{}{}
		}

		key := strings.ToLower(strings.TrimSpace(item.Title)) + "\x00" + strings.ToLower(strings.TrimSpace(item.Company))
		if _, dup := keys[key]; dup {
			return false
		}
		keys[key] = struct{}{}
		return true
	})

	return p, Step{Initial: initial, Dropped: len(removed), Left: p.Len()}, nil
}
