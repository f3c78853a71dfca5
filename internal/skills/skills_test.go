package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/jobcoach/internal/postings"
	"github.com/spigell/jobcoach/internal/taxonomy"
)

const taxonomyDoc = `{"concepts":[
  {"preferred_label":"Data scientist","related":[
    {"preferred_label":"sql"},
    {"preferred_label":"python"},
    {"preferred_label":"machine learning"}
  ]},
  {"preferred_label":"Kock","related":[
    {"preferred_label":"matlagning"},
    {"preferred_label":"hygien"}
  ]},
  {"preferred_label":"Systemutvecklare","related":[
    {"preferred_label":"java"},
    {"preferred_label":"kubernetes"},
    {"preferred_label":"ci/cd"}
  ]}
]}`

func newExtractor(t *testing.T) *Extractor {
	t.Helper()
	tx, err := taxonomy.Parse([]byte(taxonomyDoc))
	require.NoError(t, err)
	return New(tx, 5)
}

func TestPresentSkillsWholeWord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		candidates []string
		texts      []string
		expect     []string
	}{
		{
			name:       "golang is not go",
			candidates: []string{"go"},
			texts:      []string{"I use Golang daily"},
			expect:     []string{},
		},
		{
			name:       "go as its own word",
			candidates: []string{"go"},
			texts:      []string{"We write Go, and some Python."},
			expect:     []string{"go"},
		},
		{
			name:       "no match inside algorithm",
			candidates: []string{"go", "rit"},
			texts:      []string{"algorithm design"},
			expect:     []string{},
		},
		{
			name:       "frequency order with first-seen ties",
			candidates: []string{"sql", "java", "python"},
			texts:      []string{"Python och SQL.", "Python, Java och SQL", "python"},
			expect:     []string{"python", "sql", "java"},
		},
		{
			name:       "punctuated skills",
			candidates: []string{"c++", "ci/cd", ".net"},
			texts:      []string{"C++ och CI/CD i en .NET-miljö"},
			expect:     []string{"c++", "ci/cd", ".net"},
		},
		{
			name:       "hyphenated compound matches its parts",
			candidates: []string{"python"},
			texts:      []string{"Python-utvecklare sökes"},
			expect:     []string{"python"},
		},
		{
			name:       "short and stopword candidates never match",
			candidates: []string{"c", "och", "the", "erfarenhet"},
			texts:      []string{"C och the erfarenhet"},
			expect:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := PresentSkills(tt.candidates, tt.texts, 10)
			assert.ElementsMatch(t, tt.expect, got)
			if len(tt.expect) > 0 {
				assert.Equal(t, tt.expect, got)
			}
		})
	}
}

func TestPresentSkillsTopK(t *testing.T) {
	got := PresentSkills([]string{"sql", "java", "python"}, []string{"sql java python python"}, 2)
	assert.Equal(t, []string{"python", "sql"}, got)

	assert.Nil(t, PresentSkills([]string{"sql"}, nil, 2))
}

func TestSkillsForQueryDirectOccupation(t *testing.T) {
	e := newExtractor(t)
	items := []postings.Posting{
		{Title: "Analytiker", Description: "Du arbetar med Python varje dag."},
		{Title: "Utvecklare", Description: "Backend i Java."},
	}

	got := e.SkillsForQuery("jag vill bli data scientist", items, 0)
	assert.Contains(t, got, "python")
	assert.False(t, IsNoFinding(got))
}

func TestSkillsForQueryTitleVote(t *testing.T) {
	e := newExtractor(t)
	items := []postings.Posting{
		{Title: "Kock till restaurang", Description: "Matlagning och hygien, mycket matlagning."},
		{Title: "Kock", Description: "Hygien är viktigt."},
		{Title: "Systemutvecklare", Description: "Java"},
	}

	occ, ok := e.Occupation("vad krävs?", items)
	require.True(t, ok)
	assert.Equal(t, "kock", occ)

	assert.Equal(t, []string{"matlagning", "hygien"}, e.SkillsForQuery("vad krävs?", items, 0))
}

func TestSkillsForQueryOwnSkillsFallback(t *testing.T) {
	e := newExtractor(t)
	items := []postings.Posting{{Title: "Kock", Description: "Trevlig arbetsplats."}}

	assert.Equal(t, []string{"matlagning"}, e.SkillsForQuery("kock", items, 1))
	assert.Equal(t, []string{"matlagning", "hygien"}, e.SkillsForQuery("kock", items, 0))
}

func TestSkillsForQueryVocabularyScan(t *testing.T) {
	e := newExtractor(t)
	items := []postings.Posting{
		{Title: "Konsult", Description: "Machine learning, Kubernetes och SQL."},
	}

	got := e.SkillsForQuery("något helt annat", items, 2)
	assert.Equal(t, []string{"machine learning", "kubernetes"}, got)
}

func TestSkillsForQueryOccupationWithoutSkillsScansVocabulary(t *testing.T) {
	tx, err := taxonomy.Parse([]byte(`[
	  {"preferred_label":"Bagare"},
	  {"preferred_label":"Kock","related":[{"preferred_label":"hygien"}]}
	]`))
	require.NoError(t, err)
	e := New(tx, 5)

	occ, ok := e.Occupation("bagare", nil)
	require.True(t, ok)
	require.Equal(t, "bagare", occ)

	items := []postings.Posting{{Title: "Bagare", Description: "God hygien är ett krav."}}
	assert.Equal(t, []string{"hygien"}, e.SkillsForQuery("bagare", items, 0))
}

func TestSkillsForQueryNoFinding(t *testing.T) {
	e := newExtractor(t)
	items := []postings.Posting{{Title: "Konsult", Description: "Inget relevant här."}}

	got := e.SkillsForQuery("något helt annat", items, 0)
	assert.Equal(t, []string{NoFinding}, got)
	assert.True(t, IsNoFinding(got))

	empty := New(taxonomy.Empty(), 0)
	assert.Equal(t, []string{NoFinding}, empty.SkillsForQuery("data scientist", nil, 0))
}

func TestOccupationFirstInTaxonomyOrder(t *testing.T) {
	e := newExtractor(t)

	occ, ok := e.Occupation("kock eller data scientist?", nil)
	require.True(t, ok)
	assert.Equal(t, "data scientist", occ)
}
