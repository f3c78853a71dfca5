// Package skills finds which skills a query or a set of postings talks about.
package skills

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/spigell/jobcoach/internal/postings"
	"github.com/spigell/jobcoach/internal/taxonomy"
	"github.com/spigell/jobcoach/internal/textnorm"
)

const (
	// NoFinding is returned as the only element when nothing could be found.
	// Callers render it as text.
	NoFinding = "Inga tydliga kompetenser hittades"

	DefaultTopK = 10

	// MinCandidateLength keeps two-letter skills such as "go" and "ai" usable.
	MinCandidateLength = 2
)

var stopwords = map[string]struct{}{
	"och": {}, "att": {}, "det": {}, "som": {}, "en": {}, "ett": {}, "med": {}, "för": {},
	"på": {}, "av": {}, "är": {}, "om": {}, "till": {}, "vi": {}, "du": {}, "har": {},
	"kan": {}, "ska": {}, "inom": {}, "samt": {}, "eller": {}, "hos": {}, "oss": {},
	"arbete": {}, "jobb": {}, "erfarenhet": {}, "kunskap": {}, "god": {}, "goda": {},
	"the": {}, "and": {}, "for": {}, "with": {}, "you": {}, "our": {}, "are": {}, "of": {},
	"to": {}, "in": {}, "on": {}, "work": {}, "team": {}, "experience": {},
}

// IsStopword reports whether word is ignored as a skill candidate.
func IsStopword(word string) bool {
	_, ok := stopwords[word]
	return ok
}

// IsNoFinding reports whether result is the NoFinding sentinel.
func IsNoFinding(result []string) bool {
	return len(result) == 1 && result[0] == NoFinding
}

func usable(candidate string) bool {
	return utf8.RuneCountInString(candidate) >= MinCandidateLength && !IsStopword(candidate)
}

// PresentSkills counts whole-word occurrences of every candidate in texts and returns up
// to topK of them, most frequent first. Ties keep candidate order.
func PresentSkills(candidates []string, texts []string, topK int) []string {
	haystack := textnorm.Join(texts)
	if haystack == "" {
		return nil
	}

	type match struct {
		skill string
		count int
	}

	seen := map[string]struct{}{}
	var matches []match
	for _, c := range candidates {
		needle := textnorm.Normalize(c)
		if !usable(needle) {
			continue
		}
		if _, dup := seen[needle]; dup {
			continue
		}
		seen[needle] = struct{}{}

		if n := textnorm.CountWord(haystack, needle); n > 0 {
			matches = append(matches, match{skill: c, count: n})
		}
	}

	slices.SortStableFunc(matches, func(a, b match) int {
		return cmp.Compare(b.count, a.count)
	})

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if topK > 0 && len(out) == topK {
			break
		}
		out = append(out, m.skill)
	}
	return out
}

// Extractor ties skill extraction to a taxonomy.
type Extractor struct {
	Taxonomy *taxonomy.Taxonomy
	TopK     int
}

func New(t *taxonomy.Taxonomy, topK int) *Extractor {
	return &Extractor{Taxonomy: t, TopK: topK}
}

func (e *Extractor) topK(k int) int {
	switch {
	case k > 0:
		return k
	case e.TopK > 0:
		return e.TopK
	default:
		return DefaultTopK
	}
}

// Occupation maps query to a taxonomy occupation. A label contained in the query wins,
// first in taxonomy order. Otherwise the occupation mentioned most often in the posting
// titles is used.
func (e *Extractor) Occupation(query string, items []postings.Posting) (string, bool) {
	occupations := e.Taxonomy.Occupations()
	if len(occupations) == 0 {
		return "", false
	}

	q := textnorm.Normalize(query)
	for _, occ := range occupations {
		if n := textnorm.Normalize(occ); n != "" && strings.Contains(q, n) {
			return occ, true
		}
	}

	haystack := textnorm.Join(postings.New(items).Titles())
	if haystack == "" {
		return "", false
	}

	best, bestCount := "", 0
	for _, occ := range occupations {
		n := textnorm.Normalize(occ)
		if n == "" {
			continue
		}
		if c := strings.Count(haystack, n); c > bestCount {
			best, bestCount = occ, c
		}
	}

	return best, bestCount > 0
}

// SkillsForQuery returns the skills relevant to query given the fetched postings. It never
// returns an empty slice: when nothing is found the result is []string{NoFinding}.
//
// With an occupation, its skills present in the descriptions come first, then its own
// skills truncated to topK. An occupation without any skills falls through to the scan of
// the whole vocabulary, the same as when no occupation matches.
func (e *Extractor) SkillsForQuery(query string, items []postings.Posting, topK int) []string {
	k := e.topK(topK)
	descriptions := postings.New(items).Descriptions()

	if occ, ok := e.Occupation(query, items); ok {
		own := e.Taxonomy.Skills(occ)
		if present := PresentSkills(own, descriptions, k); len(present) > 0 {
			return present
		}
		if len(own) > 0 {
			if len(own) > k {
				own = own[:k]
			}
			return own
		}
	}

	if found := e.scanVocabulary(descriptions, k); len(found) > 0 {
		return found
	}

	return []string{NoFinding}
}

// scanVocabulary checks every known skill against descriptions, longest first, and stops
// after k matches.
func (e *Extractor) scanVocabulary(descriptions []string, k int) []string {
	haystack := textnorm.Join(descriptions)
	if haystack == "" {
		return nil
	}

	var found []string
	for _, skill := range e.Taxonomy.SkillsByLength() {
		needle := textnorm.Normalize(skill)
		if !usable(needle) {
			continue
		}
		if textnorm.ContainsWord(haystack, needle) {
			found = append(found, skill)
			if len(found) == k {
				break
			}
		}
	}
	return found
}
