package taxonomy

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/jobcoach/internal/textnorm"
)

// MergeVocabulary adds the skill concepts of a flat vocabulary document to the global
// skill set. It returns how many new skills were added.
func (t *Taxonomy) MergeVocabulary(data []byte, opts Options) (int, error) {
	opts = opts.withDefaults()

	concepts, err := extractConcepts(data)
	if err != nil {
		return 0, err
	}

	known := map[string]struct{}{}
	for _, s := range t.vocabulary {
		known[s] = struct{}{}
	}

	added := 0
	for _, raw := range concepts {
		var c concept
		if err := mapstructure.Decode(raw, &c); err != nil {
			continue
		}

		skill := textnorm.Label(resolveLabel(opts, c.PreferredLabel, c.Label))
		if utf8.RuneCountInString(skill) < MinSkillLength {
			continue
		}
		if _, dup := known[skill]; dup {
			continue
		}
		known[skill] = struct{}{}
		if !t.HasSkill(skill) {
			added++
		}
		t.vocabulary = append(t.vocabulary, skill)
	}
	t.rebuild()

	return added, nil
}

// LoadVocabulary merges the vocabulary file at path. Failures are logged and leave the
// taxonomy unchanged.
func (t *Taxonomy) LoadVocabulary(path string, opts Options) int {
	opts = opts.withDefaults()
	log := opts.Logger.With(zap.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("skill vocabulary unavailable", zap.Error(err))
		return 0
	}

	added, err := t.MergeVocabulary(data, opts)
	if err != nil {
		log.Warn("skill vocabulary malformed", zap.Error(fmt.Errorf("merge vocabulary: %w", err)))
		return 0
	}

	log.Info("skill vocabulary loaded", zap.Int("added", added))
	return added
}
