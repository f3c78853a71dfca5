package taxonomy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/jobcoach/internal/textnorm"
)

// ErrUnknownShape is returned when no known document layout matches.
var ErrUnknownShape = errors.New("unknown taxonomy document shape")

// Options control how labels are read.
type Options struct {
	Logger           *zap.Logger
	PrimaryLanguage  string
	FallbackLanguage string
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.PrimaryLanguage == "" {
		o.PrimaryLanguage = DefaultPrimaryLanguage
	}
	if o.FallbackLanguage == "" {
		o.FallbackLanguage = DefaultFallbackLanguage
	}
	return o
}

type concept struct {
	PreferredLabel any   `mapstructure:"preferred_label"`
	Label          any   `mapstructure:"label"`
	Related        []any `mapstructure:"related"`
}

// shape extracts the concept list from one document layout.
type shape struct {
	name    string
	extract func(doc any) ([]any, bool)
}

// shapes are tried in order; the first match wins.
var shapes = []shape{
	{name: "data.concepts", extract: func(doc any) ([]any, bool) {
		obj, ok := doc.(map[string]any)
		if !ok {
			return nil, false
		}
		data, ok := obj["data"].(map[string]any)
		if !ok {
			return nil, false
		}
		list, ok := data["concepts"].([]any)
		return list, ok
	}},
	{name: "concepts", extract: func(doc any) ([]any, bool) {
		obj, ok := doc.(map[string]any)
		if !ok {
			return nil, false
		}
		list, ok := obj["concepts"].([]any)
		return list, ok
	}},
	{name: "data", extract: func(doc any) ([]any, bool) {
		obj, ok := doc.(map[string]any)
		if !ok {
			return nil, false
		}
		list, ok := obj["data"].([]any)
		return list, ok
	}},
	{name: "list", extract: func(doc any) ([]any, bool) {
		list, ok := doc.([]any)
		return list, ok
	}},
}

// Load reads the taxonomy file at path. It never fails: an unreadable or malformed file
// yields an empty taxonomy and a warning.
func Load(path string, opts Options) *Taxonomy {
	opts = opts.withDefaults()
	log := opts.Logger.With(zap.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("taxonomy unavailable, continuing without it", zap.Error(err))
		return Empty()
	}

	t, err := parse(data, opts)
	if err != nil {
		log.Warn("taxonomy malformed, continuing without it", zap.Error(err))
		return Empty()
	}

	log.Info("taxonomy loaded",
		zap.Int("occupations", t.Len()),
		zap.Int("skills", len(t.skillSet)),
	)
	return t
}

// Parse builds a taxonomy from a JSON document using the default languages.
func Parse(data []byte) (*Taxonomy, error) {
	return parse(data, Options{}.withDefaults())
}

func parse(data []byte, opts Options) (*Taxonomy, error) {
	concepts, err := extractConcepts(data)
	if err != nil {
		return nil, err
	}

	t := newTaxonomy()
	for _, raw := range concepts {
		var c concept
		if err := mapstructure.Decode(raw, &c); err != nil {
			opts.Logger.Debug("skipping concept", zap.Error(err))
			continue
		}

		occupation := textnorm.Label(resolveLabel(opts, c.PreferredLabel, c.Label))
		if occupation == "" {
			continue
		}

		t.add(Entry{Occupation: occupation, Skills: relatedSkills(opts, c.Related)})
	}
	t.rebuild()

	return t, nil
}

func extractConcepts(data []byte) ([]any, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode taxonomy: %w", err)
	}

	for _, s := range shapes {
		if list, ok := s.extract(doc); ok {
			return list, nil
		}
	}

	// An object without any concept list is a valid but empty document.
	if _, ok := doc.(map[string]any); ok {
		return nil, nil
	}
	return nil, ErrUnknownShape
}

func relatedSkills(opts Options, related []any) []string {
	seen := map[string]struct{}{}
	skills := make([]string, 0, len(related))
	for _, raw := range related {
		var c concept
		if _, ok := raw.(map[string]any); !ok {
			continue
		}
		if err := mapstructure.Decode(raw, &c); err != nil {
			continue
		}

		skill := textnorm.Label(resolveLabel(opts, c.PreferredLabel, c.Label))
		if utf8.RuneCountInString(skill) < MinSkillLength {
			continue
		}
		if _, dup := seen[skill]; dup {
			continue
		}
		seen[skill] = struct{}{}
		skills = append(skills, skill)
	}
	return skills
}

// resolveLabel returns the first non-empty candidate. A multilingual object prefers the
// primary language and falls back to the secondary one.
func resolveLabel(opts Options, candidates ...any) string {
	for _, c := range candidates {
		switch v := c.(type) {
		case string:
			if v != "" {
				return v
			}
		case map[string]any:
			for _, lang := range []string{opts.PrimaryLanguage, opts.FallbackLanguage} {
				if s, ok := v[lang].(string); ok && s != "" {
					return s
				}
			}
		}
	}
	return ""
}
