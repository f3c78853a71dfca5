package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const nestedDoc = `{"data":{"concepts":[
  {"preferred_label":"Mjukvaruutvecklare","related":[
    {"preferred_label":"Python"},
    {"preferred_label":"Go"},
    {"preferred_label":"python"},
    {"label":{"sv":"Systemutveckling","en":"Systems development"}},
    {"label":{"en":"Kubernetes"}},
    "not-a-concept"
  ]},
  {"preferred_label":"Data scientist","related":[
    {"preferred_label":"Python"},
    {"preferred_label":"Maskininlärning"}
  ]},
  {"related":[{"preferred_label":"orphan"}]}
]}}`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxonomy.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseNestedShape(t *testing.T) {
	tx, err := Parse([]byte(nestedDoc))
	require.NoError(t, err)

	assert.Equal(t, []string{"mjukvaruutvecklare", "data scientist"}, tx.Occupations())
	assert.Equal(t, []string{"python", "systemutveckling", "kubernetes"}, tx.Skills("mjukvaruutvecklare"))
	assert.Equal(t, []string{"python", "maskininlärning"}, tx.Skills("data scientist"))
	assert.Nil(t, tx.Skills("kock"))

	assert.True(t, tx.HasSkill("python"))
	assert.False(t, tx.HasSkill("go"), "skills shorter than three runes are dropped")
	assert.Len(t, tx.SkillSet(), 4)
}

func TestParseShapes(t *testing.T) {
	t.Parallel()

	concept := `{"preferred_label":"Kock","related":[{"preferred_label":"Matlagning"}]}`
	tests := map[string]string{
		"data.concepts": `{"data":{"concepts":[` + concept + `]}}`,
		"concepts":      `{"concepts":[` + concept + `]}`,
		"data list":     `{"data":[` + concept + `]}`,
		"bare list":     `[` + concept + `]`,
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tx, err := Parse([]byte(doc))
			require.NoError(t, err)
			assert.Equal(t, []string{"kock"}, tx.Occupations())
			assert.Equal(t, []string{"matlagning"}, tx.Skills("kock"))
		})
	}
}

func TestParseEmptyAndMalformed(t *testing.T) {
	tx, err := Parse([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, 0, tx.Len())

	_, err = Parse([]byte(`{"data":`))
	assert.Error(t, err)

	_, err = Parse([]byte(`"just a string"`))
	assert.ErrorIs(t, err, ErrUnknownShape)
}

func TestParseDuplicateOccupationLastWins(t *testing.T) {
	doc := `[
	  {"preferred_label":"Kock","related":[{"preferred_label":"Matlagning"}]},
	  {"preferred_label":"Bagare","related":[{"preferred_label":"Bakning"}]},
	  {"preferred_label":"KOCK","related":[{"preferred_label":"Menyplanering"}]}
	]`

	tx, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, []string{"kock", "bagare"}, tx.Occupations())
	assert.Equal(t, []string{"menyplanering"}, tx.Skills("kock"))
	assert.False(t, tx.HasSkill("matlagning"))

	entries := tx.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Occupation: "kock", Skills: []string{"menyplanering"}}, entries[0])
	assert.Equal(t, Entry{Occupation: "bagare", Skills: []string{"bakning"}}, entries[1])

	entries[0].Skills[0] = "changed"
	assert.Equal(t, []string{"menyplanering"}, tx.Skills("kock"))
}

func TestSkillsByLength(t *testing.T) {
	doc := `[{"preferred_label":"Utvecklare","related":[
	  {"preferred_label":"sql"},
	  {"preferred_label":"machine learning"},
	  {"preferred_label":"java"},
	  {"preferred_label":"abc"},
	  {"preferred_label":"python"}
	]}]`

	tx, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, []string{"machine learning", "python", "java", "abc", "sql"}, tx.SkillsByLength())
}

func TestLoadMissingAndMalformedFile(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	opts := Options{Logger: zap.New(core)}

	tx := Load(filepath.Join(t.TempDir(), "missing.json"), opts)
	assert.Equal(t, 0, tx.Len())
	assert.Empty(t, tx.SkillsByLength())

	tx = Load(writeFile(t, "not json"), opts)
	assert.Equal(t, 0, tx.Len())

	assert.Equal(t, 2, logs.Len())
}

func TestLoadFile(t *testing.T) {
	tx := Load(writeFile(t, nestedDoc), Options{})
	assert.Equal(t, 2, tx.Len())
}

func TestLoadCustomLanguages(t *testing.T) {
	doc := `[{"preferred_label":{"sv":"Kock","en":"Cook"},"related":[{"label":{"sv":"Matlagning","en":"Cooking"}}]}]`

	tx := Load(writeFile(t, doc), Options{PrimaryLanguage: "en", FallbackLanguage: "sv"})
	assert.Equal(t, []string{"cook"}, tx.Occupations())
	assert.Equal(t, []string{"cooking"}, tx.Skills("cook"))
}

func TestVocabularyMerge(t *testing.T) {
	tx, err := Parse([]byte(nestedDoc))
	require.NoError(t, err)

	vocab := `{"data":{"concepts":[
	  {"preferred_label":"Python"},
	  {"preferred_label":"Docker"},
	  {"preferred_label":"Docker"},
	  {"preferred_label":"C"}
	]}}`

	added, err := tx.MergeVocabulary([]byte(vocab), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.True(t, tx.HasSkill("docker"))
	assert.Contains(t, tx.SkillsByLength(), "docker")
	assert.Equal(t, 2, tx.Len(), "vocabulary does not add occupations")

	assert.Equal(t, 0, tx.LoadVocabulary(filepath.Join(t.TempDir(), "none.json"), Options{}))
}

func TestNilTaxonomy(t *testing.T) {
	var tx *Taxonomy
	assert.Equal(t, 0, tx.Len())
	assert.Nil(t, tx.Occupations())
	assert.Nil(t, tx.Skills("kock"))
	assert.Empty(t, tx.SkillSet())
	assert.False(t, tx.HasSkill("python"))
}
