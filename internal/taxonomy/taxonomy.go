// Package taxonomy loads the occupation/skill taxonomy and answers lookups against it.
package taxonomy

import (
	"cmp"
	"maps"
	"slices"
	"unicode/utf8"
)

const (
	// DefaultPrimaryLanguage is preferred when a label is a multilingual object.
	DefaultPrimaryLanguage = "sv"
	// DefaultFallbackLanguage is used when the primary language is missing.
	DefaultFallbackLanguage = "en"
	// MinSkillLength drops noise such as single letters.
	MinSkillLength = 3
)

// Entry is one occupation with its related skills.
type Entry struct {
	Occupation string
	Skills     []string
}

// Taxonomy is read-only after loading. A nil *Taxonomy behaves as an empty one.
type Taxonomy struct {
	entries    []Entry
	index      map[string]int
	vocabulary []string

	skillSet map[string]struct{}
	byLength []string
}

func newTaxonomy() *Taxonomy {
	return &Taxonomy{
		index:    map[string]int{},
		skillSet: map[string]struct{}{},
	}
}

// Empty returns a taxonomy without entries.
func Empty() *Taxonomy {
	return newTaxonomy()
}

// add stores an entry. A repeated occupation replaces the earlier skills but keeps its
// position.
func (t *Taxonomy) add(e Entry) {
	if i, ok := t.index[e.Occupation]; ok {
		t.entries[i] = e
		return
	}
	t.index[e.Occupation] = len(t.entries)
	t.entries = append(t.entries, e)
}

// rebuild recomputes the global skill set and the length-sorted scan order.
func (t *Taxonomy) rebuild() {
	t.skillSet = map[string]struct{}{}
	for _, e := range t.entries {
		for _, s := range e.Skills {
			t.skillSet[s] = struct{}{}
		}
	}
	for _, s := range t.vocabulary {
		t.skillSet[s] = struct{}{}
	}

	t.byLength = slices.Collect(maps.Keys(t.skillSet))
	slices.SortFunc(t.byLength, func(a, b string) int {
		if c := cmp.Compare(utf8.RuneCountInString(b), utf8.RuneCountInString(a)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
}

// Len returns the number of occupations.
func (t *Taxonomy) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of all entries in load order.
func (t *Taxonomy) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		out[i] = Entry{Occupation: e.Occupation, Skills: slices.Clone(e.Skills)}
	}
	return out
}

// Occupations returns occupation labels in load order.
func (t *Taxonomy) Occupations() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Occupation
	}
	return out
}

// Skills returns the skills of an occupation, or nil when it is unknown.
func (t *Taxonomy) Skills(occupation string) []string {
	if t == nil {
		return nil
	}
	i, ok := t.index[occupation]
	if !ok {
		return nil
	}
	return slices.Clone(t.entries[i].Skills)
}

// HasSkill reports whether skill is part of the global skill set.
func (t *Taxonomy) HasSkill(skill string) bool {
	if t == nil {
		return false
	}
	_, ok := t.skillSet[skill]
	return ok
}

// SkillSet returns a copy of every known skill, including the extra vocabulary.
func (t *Taxonomy) SkillSet() map[string]struct{} {
	if t == nil {
		return map[string]struct{}{}
	}
	return maps.Clone(t.skillSet)
}

// SkillsByLength returns the skill set ordered longest first, ties alphabetical.
func (t *Taxonomy) SkillsByLength() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.byLength)
}
