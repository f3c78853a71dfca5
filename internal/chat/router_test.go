package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/jobcoach/internal/postings"
	"github.com/spigell/jobcoach/internal/ranking"
	"github.com/spigell/jobcoach/internal/skills"
	"github.com/spigell/jobcoach/internal/taxonomy"
)

func sessionWith(query string, items ...postings.Posting) *Session {
	results := make([]ranking.Result, len(items))
	for i, p := range items {
		results[i] = ranking.Result{Posting: p, Score: 1, Rank: i + 1}
	}
	s := NewSession()
	s.Replace(query, results)
	return s
}

func fixture() *Session {
	return sessionWith("utvecklare",
		postings.Posting{ID: "1", Title: "Backendutvecklare", Company: "Acme", City: "Stockholm",
			Description: "Vi jobbar hybrid och delvis på distans. Heltid. Högskoleutbildning inom data. Goda kunskaper i engelska.",
			EmploymentType: "Vanlig anställning, Heltid"},
		postings.Posting{ID: "2", Title: "Chef", Company: "Beta", City: "Stockholm",
			Description: "Vi erbjuder distansutbildning i ledarskap. B-körkort krävs.",
			EmploymentType: "Vanlig anställning, Deltid"},
		postings.Posting{ID: "3", Title: "Frontendutvecklare", Company: "Gamma", City: "Malmö",
			Description: "Arbeta remote hela veckan. Du talar svenska och engelska. Gymnasieutbildning.",
			EmploymentType: "Vikariat"},
	)
}

func TestAnswerNoData(t *testing.T) {
	router := NewRouter(nil)

	for _, q := range []string{"hur många jobb finns i stockholm", "distans?", "vad som helst"} {
		a := router.Answer(NewSession(), q)
		assert.Equal(t, IntentNoData, a.Intent)
		assert.Equal(t, MessageNoData, a.Text)
	}

	s := fixture()
	s.Clear()
	assert.Equal(t, MessageNoData, router.Answer(s, "distans?").Text)
}

func TestAnswerCity(t *testing.T) {
	a := NewRouter(nil).Answer(fixture(), "hur många jobb finns i stockholm")

	assert.Equal(t, IntentCity, a.Intent)
	assert.Equal(t, 2, a.Count)
	assert.Contains(t, a.Text, "2 av jobben ligger i Stockholm")
	assert.Contains(t, a.Text, "Backendutvecklare")
	assert.Contains(t, a.Text, "Chef")
	assert.NotContains(t, a.Text, "Frontendutvecklare")
}

func TestAnswerCityBeatsRemote(t *testing.T) {
	a := NewRouter(nil).Answer(fixture(), "finns det distansjobb i Malmö?")

	assert.Equal(t, IntentCity, a.Intent)
	assert.Equal(t, 1, a.Count)
}

func TestAnswerRemoteIgnoresTraining(t *testing.T) {
	a := NewRouter(nil).Answer(fixture(), "vilka jobb är på distans?")

	assert.Equal(t, IntentRemote, a.Intent)
	assert.Equal(t, 2, a.Count)
	assert.NotContains(t, a.Text, "Chef")
}

func TestIsRemoteIgnoresTrainingInflections(t *testing.T) {
	tests := []struct {
		description string
		remote      bool
	}{
		{description: "Vi erbjuder utbildningar på distans", remote: false},
		{description: "Vi erbjuder kurser på distans", remote: false},
		{description: "Vi erbjuder distansundervisning för personalen", remote: false},
		{description: "Studier på distans ingår i tjänsten", remote: false},
		{description: "Distanskurserna betalas av oss", remote: false},
		{description: "We offer remote training", remote: false},
		{description: "Vi erbjuder kurser på distans och du kan jobba remote", remote: true},
		{description: "Tjänsten utförs på distans", remote: true},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.remote, isRemote(postings.Posting{Description: tt.description}))
		})
	}

	s := sessionWith("lärare", postings.Posting{Title: "Lärare", Description: "Vi erbjuder kurser på distans"})
	a := NewRouter(nil).Answer(s, "vilka jobb är på distans?")
	assert.Equal(t, IntentRemote, a.Intent)
	assert.Equal(t, noneRemote, a.Text)
}

func TestAnswerRemoteNoneFound(t *testing.T) {
	s := sessionWith("chef", postings.Posting{Title: "Chef", Description: "Vi erbjuder distansutbildning i ledarskap"})

	a := NewRouter(nil).Answer(s, "kan man jobba remote?")
	assert.Equal(t, IntentRemote, a.Intent)
	assert.Equal(t, 0, a.Count)
	assert.Equal(t, noneRemote, a.Text)
}

func TestAnswerHybrid(t *testing.T) {
	s := sessionWith("utvecklare",
		postings.Posting{Title: "Backendutvecklare", Company: "Acme", City: "Stockholm", Description: "Delvis på distans."},
		postings.Posting{Title: "Frontendutvecklare", Company: "Gamma", City: "Malmö", Description: "Helt remote."},
	)
	router := NewRouter(nil)

	for _, q := range []string{"Vilka jobb är delvis på distans?", "delvis distans?", "finns det hybridjobb?"} {
		a := router.Answer(s, q)
		assert.Equal(t, IntentHybrid, a.Intent, q)
		assert.Equal(t, 1, a.Count, q)
		assert.Contains(t, a.Text, "1 jobb erbjuder hybridarbete.", q)
		assert.Contains(t, a.Text, "Backendutvecklare, Acme (Stockholm)", q)
		assert.NotContains(t, a.Text, "Frontendutvecklare", q)
	}

	a := router.Answer(s, "helt på distans?")
	assert.Equal(t, IntentRemote, a.Intent)
	assert.Equal(t, 2, a.Count)
}

func TestAnswerHybridNoneFound(t *testing.T) {
	s := sessionWith("utvecklare", postings.Posting{Title: "Frontendutvecklare", Description: "Helt remote."})

	a := NewRouter(nil).Answer(s, "finns det jobb med hybridarbete?")
	assert.Equal(t, IntentHybrid, a.Intent)
	assert.Equal(t, 0, a.Count)
	assert.Equal(t, noneHybrid, a.Text)
}

func TestAnswerOnsiteNoneFound(t *testing.T) {
	s := sessionWith("utvecklare",
		postings.Posting{Title: "Frontendutvecklare", Description: "Helt remote."},
		postings.Posting{Title: "Backendutvecklare", Description: "Arbete hemifrån."},
	)

	a := NewRouter(nil).Answer(s, "vilka jobb är på plats?")
	assert.Equal(t, IntentOnsite, a.Intent)
	assert.Equal(t, 0, a.Count)
	assert.Equal(t, noneOnsite, a.Text)
}

func TestAnswerLicenseNoneFound(t *testing.T) {
	s := sessionWith("utvecklare", postings.Posting{Title: "Frontendutvecklare", Description: "Helt remote."})

	a := NewRouter(nil).Answer(s, "behövs körkort?")
	assert.Equal(t, IntentLicense, a.Intent)
	assert.Equal(t, 0, a.Count)
	assert.Equal(t, noneLicense, a.Text)
}

func TestAnswerOnsite(t *testing.T) {
	a := NewRouter(nil).Answer(fixture(), "vilka jobb är på plats?")

	assert.Equal(t, IntentOnsite, a.Intent)
	assert.Equal(t, 1, a.Count)
	assert.Contains(t, a.Text, "1 jobb utförs på plats.")
	assert.Contains(t, a.Text, "Chef")
}

func TestAnswerEmploymentEchoesKeywords(t *testing.T) {
	router := NewRouter(nil)

	a := router.Answer(fixture(), "vilka är på heltid?")
	assert.Equal(t, IntentEmployment, a.Intent)
	assert.Equal(t, 1, a.Count)

	a = router.Answer(fixture(), "finns det sommarjobb eller praktik?")
	assert.Equal(t, IntentEmployment, a.Intent)
	assert.Equal(t, 0, a.Count)
	assert.Equal(t, "Inga jobb matchar anställningsformen sommarjobb, praktik.", a.Text)

	a = router.Answer(fixture(), "tillsvidareanställning?")
	assert.Equal(t, "Inga jobb matchar anställningsformen tillsvidareanställning.", a.Text)
}

func TestAnswerEducation(t *testing.T) {
	router := NewRouter(nil)

	a := router.Answer(fixture(), "kräver de högskoleutbildning?")
	assert.Equal(t, IntentEducation, a.Intent)
	assert.Equal(t, 1, a.Count)
	assert.Contains(t, a.Text, "Backendutvecklare")

	a = router.Answer(fixture(), "vilken utbildning behövs?")
	assert.Equal(t, IntentEducation, a.Intent)
	assert.Equal(t, 2, a.Count)
	assert.Contains(t, a.Text, "1 jobb nämner gymnasieutbildning")
	assert.Contains(t, a.Text, "1 jobb nämner högskoleutbildning")
}

func TestAnswerLicenseAndLanguage(t *testing.T) {
	router := NewRouter(nil)

	a := router.Answer(fixture(), "behövs körkort?")
	assert.Equal(t, IntentLicense, a.Intent)
	assert.Equal(t, 1, a.Count)
	assert.Contains(t, a.Text, "1 jobb kräver körkort.")
	assert.Contains(t, a.Text, "Chef, Beta (Stockholm)")

	a = router.Answer(fixture(), "kräver de engelska?")
	assert.Equal(t, IntentLanguage, a.Intent)
	assert.Equal(t, 2, a.Count)

	a = router.Answer(fixture(), "kräver de tyska?")
	assert.Equal(t, IntentLanguage, a.Intent)
	assert.Equal(t, 0, a.Count)
	assert.Equal(t, "Inga jobb nämner kunskaper i tyska.", a.Text)
}

func TestAnswerSkills(t *testing.T) {
	tx, err := taxonomy.Parse([]byte(`[{"preferred_label":"Utvecklare","related":[
	  {"preferred_label":"engelska"},{"preferred_label":"kubernetes"}]}]`))
	require.NoError(t, err)
	router := NewRouter(skills.New(tx, 5))

	a := router.Answer(fixture(), "vilka kompetenser efterfrågas?")
	assert.Equal(t, IntentSkills, a.Intent)
	assert.Equal(t, "Vanliga kompetenser för utvecklare: engelska.", a.Text)
	assert.Equal(t, 1, a.Count)

	a = NewRouter(nil).Answer(fixture(), "vilka kompetenser efterfrågas?")
	assert.Equal(t, skills.NoFinding+".", a.Text)
	assert.Equal(t, 0, a.Count)
}

func TestAnswerFallback(t *testing.T) {
	a := NewRouter(nil).Answer(fixture(), "vad tycker du om väder?")

	assert.Equal(t, IntentFallback, a.Intent)
	assert.Equal(t, MessageFallback, a.Text)
}

func TestEveryAnswerHasText(t *testing.T) {
	router := NewRouter(nil)
	questions := append([]string{"", "???", "stockholm"}, PredefinedQuestions...)

	for _, q := range questions {
		a := router.Answer(fixture(), q)
		assert.NotEmpty(t, strings.TrimSpace(a.Text), q)
	}
}

func TestPredefinedQuestionsIntents(t *testing.T) {
	expect := []Intent{
		IntentRemote, IntentHybrid, IntentOnsite, IntentEmployment,
		IntentEducation, IntentLicense, IntentLanguage, IntentSkills,
	}
	require.Len(t, PredefinedQuestions, len(expect))

	router := NewRouter(nil)
	for i, q := range PredefinedQuestions {
		assert.Equal(t, expect[i], router.Answer(fixture(), q).Intent, q)
	}
}

func TestIntentsOrder(t *testing.T) {
	assert.Equal(t, []Intent{
		IntentCity, IntentRemote, IntentHybrid, IntentOnsite, IntentEmployment,
		IntentEducation, IntentLicense, IntentLanguage, IntentSkills, IntentFallback,
	}, Intents())
}

func TestExamplesCapped(t *testing.T) {
	items := make([]postings.Posting, 5)
	for i := range items {
		items[i] = postings.Posting{Title: "Jobb", City: "Umeå", Description: "remote"}
	}

	a := NewRouter(nil).Answer(sessionWith("q", items...), "remote?")
	assert.Equal(t, 5, a.Count)
	assert.Equal(t, MaxExamples, strings.Count(a.Text, "\n- "))
}
