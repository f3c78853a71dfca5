package chat

import "regexp"

// Keyword lists are matched as substrings of normalised text.

var remoteQuestionKeywords = []string{"distans", "remote", "hemifrån", "hemma", "work from home"}

// trainingPatterns match mentions of remote courses, not remote work, in any inflection
// ("kurser på distans", "distansundervisningen"). They are removed from a description
// before remoteKeywords are looked up.
var trainingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:utbildning|kurs|studi|studera|undervisning|lektion|föreläsning)[\p{L}\p{N}]*\s+på\s+distans`),
	regexp.MustCompile(`distans(?:utbildning|kurs|studi|undervisning|lektion|föreläsning)[\p{L}\p{N}]*`),
	regexp.MustCompile(`remote\s+(?:training|course|learning|class|studies)`),
}

var remoteKeywords = []string{"distans", "remote", "hemifrån", "hemmakontor", "work from home"}

var hybridKeywords = []string{"hybrid", "delvis på distans", "delvis distans", "kombinera kontor", "flexibel arbetsplats"}

var onsiteQuestionKeywords = []string{"på plats", "på kontoret", "onsite", "on-site", "on site", "kontorsbaserad"}

// employmentTypes is the fixed list of employment forms the router understands.
var employmentTypes = []string{
	"heltid",
	"deltid",
	"tillsvidareanställning",
	"tillsvidare",
	"visstidsanställning",
	"visstid",
	"vikariat",
	"provanställning",
	"timanställning",
	"sommarjobb",
	"säsongsjobb",
	"praktik",
	"konsult",
	"full-time",
	"part-time",
}

type educationLevel struct {
	name     string
	question []string
	posting  []string
}

// educationLevels have disjoint keyword groups.
var educationLevels = []educationLevel{
	{
		name:     "gymnasieutbildning",
		question: []string{"gymnasie", "gymnasium", "high school"},
		posting:  []string{"gymnasieutbildning", "gymnasiekompetens", "gymnasieexamen", "gymnasienivå", "gymnasium", "high school"},
	},
	{
		name:     "högskoleutbildning",
		question: []string{"högskol", "universitet", "akademisk", "eftergymnasial", "degree", "university"},
		posting:  []string{"högskoleutbildning", "högskoleexamen", "universitetsutbildning", "universitetsexamen", "kandidatexamen", "masterexamen", "civilingenjör", "akademisk", "eftergymnasial", "bachelor", "degree"},
	},
}

var educationQuestionKeywords = []string{"utbildning", "education", "utbildad"}

var licenseQuestionKeywords = []string{"körkort", "driving licen", "drivers licen"}

var licenseKeywords = []string{"körkort", "driving licen", "drivers licen"}

type language struct {
	name     string
	keywords []string
}

var languages = []language{
	{name: "svenska", keywords: []string{"svenska", "swedish"}},
	{name: "engelska", keywords: []string{"engelska", "english"}},
	{name: "tyska", keywords: []string{"tyska", "german"}},
}

var languageQuestionKeywords = []string{"språk", "language"}

var skillQuestionKeywords = []string{
	"kompetens",
	"färdighet",
	"kunskap",
	"kvalifikation",
	"kunna",
	"krävs",
	"skill",
	"tekniker",
	"verktyg",
}
