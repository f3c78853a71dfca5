package filtering

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/spigell/jobcoach/internal/postings"
)

type excludeFileFilter struct {
	toggle
	path string
}

// NewExcludeFile creates a filter that removes postings listed in a dump written by the
// chat shell.
func NewExcludeFile(path string) Filter {
	return &excludeFileFilter{path: path}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Validate() error {
	if f.path == "" {
		return nil
	}
	if _, err := os.Stat(f.path); err != nil {
		return fmt.Errorf("exclude file: %w", err)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, p *postings.Postings) (*postings.Postings, Step, error) {
	initial := p.Len()
	if f.path == "" {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	excluded, err := postings.LoadFile(f.path)
	if err != nil {
		return p, Step{}, fmt.Errorf("getting excluded postings from file: %w", err)
	}

	removed := p.Exclude(postings.IDField, excluded.IDs())
	if len(removed) > 0 {
		deps.Logger.Debug("excluding postings based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_postings", removed),
			zap.Int("postings_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(removed), Left: p.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
