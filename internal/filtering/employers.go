package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobcoach/internal/postings"
)

type employersFilter struct {
	toggle
	employers []string
}

// NewExcludedEmployers creates a filter that removes postings by the named employers.
func NewExcludedEmployers(employers []string) Filter {
	return &employersFilter{employers: employers}
}

func (f *employersFilter) Name() string { return "employers" }

func (f *employersFilter) Validate() error { return nil }

func (f *employersFilter) Apply(_ context.Context, deps Deps, p *postings.Postings) (*postings.Postings, Step, error) {
	initial := p.Len()
	if len(f.employers) == 0 {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	excluded := p.Exclude(postings.CompanyField, f.employers)
	if len(excluded) > 0 {
		deps.Logger.Debug("excluding postings by employers",
			zap.Strings("excluded_employers", f.employers),
			zap.Strings("excluded_postings", excluded),
			zap.Int("postings_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(excluded), Left: p.Len()}, nil
}

func (f *employersFilter) Status() Status {
	details := map[string]string{}
	if len(f.employers) > 0 {
		details["employers"] = strings.Join(f.employers, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
