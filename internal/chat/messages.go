package chat

const (
	MessageNoData   = "Jag har inga jobb att svara utifrån ännu. Gör en sökning först."
	MessageFallback = "Det har jag inte lärt mig än. Fråga gärna om ort, distans, hybrid, anställningsform, utbildning, körkort, språk eller kompetenser."
)

const (
	foundCity       = "%d av jobben ligger i %s."
	noneCity        = "Inga av jobben ligger i %s."
	foundRemote     = "%d jobb går att utföra på distans."
	noneRemote      = "Inga distansjobb hittades bland resultaten."
	foundHybrid     = "%d jobb erbjuder hybridarbete."
	noneHybrid      = "Inga hybridjobb hittades bland resultaten."
	foundOnsite     = "%d jobb utförs på plats."
	noneOnsite      = "Alla jobb i resultaten nämner distansarbete."
	foundEmployment = "%d jobb matchar anställningsformen %s."
	noneEmployment  = "Inga jobb matchar anställningsformen %s."
	foundEducation  = "%d jobb nämner %s."
	noneEducation   = "Inga jobb nämner krav på %s."
	foundLicense    = "%d jobb kräver körkort."
	noneLicense     = "Inga jobb nämner körkort."
	foundLanguage   = "%d jobb nämner %s."
	noneLanguage    = "Inga jobb nämner kunskaper i %s."
	foundSkills     = "Vanliga kompetenser för %s: %s."
	foundSkillsAny  = "Vanliga kompetenser i annonserna: %s."
	examplesHeader  = "Exempel:"
)

// PredefinedQuestions are offered by the shell as quick picks.
var PredefinedQuestions = []string{
	"Vilka jobb går att göra på distans?",
	"Finns det jobb med hybridarbete?",
	"Vilka jobb är på plats?",
	"Vilka jobb är på heltid?",
	"Kräver jobben högskoleutbildning?",
	"Kräver jobben körkort?",
	"Vilka jobb kräver engelska?",
	"Vilka kompetenser efterfrågas?",
}
