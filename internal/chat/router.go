package chat

import (
	"fmt"
	"strings"

	"github.com/spigell/jobcoach/internal/postings"
	"github.com/spigell/jobcoach/internal/skills"
	"github.com/spigell/jobcoach/internal/taxonomy"
	"github.com/spigell/jobcoach/internal/textnorm"
)

type Intent string

const (
	IntentNoData     Intent = "no_data"
	IntentCity       Intent = "city"
	IntentRemote     Intent = "remote"
	IntentHybrid     Intent = "hybrid"
	IntentOnsite     Intent = "onsite"
	IntentEmployment Intent = "employment_type"
	IntentEducation  Intent = "education"
	IntentLicense    Intent = "driving_license"
	IntentLanguage   Intent = "language"
	IntentSkills     Intent = "skills"
	IntentFallback   Intent = "fallback"
)

// MaxExamples is the number of example titles listed in an answer.
const MaxExamples = 3

// Answer is the router's reply. Text is never empty.
type Answer struct {
	Intent Intent
	Text   string
	Count  int
}

type input struct {
	raw      string
	question string
	query    string
	items    []postings.Posting
}

// rule pairs a predicate with its handler. match returns the terms that triggered the
// rule, or nothing when the rule does not apply.
type rule struct {
	intent Intent
	match  func(in input) []string
	answer func(r *Router, in input, matched []string) Answer
}

// rules are evaluated in order and the first match wins. A city named in the question
// beats every keyword rule.
var rules = []rule{
	{intent: IntentCity, match: matchCity, answer: (*Router).answerCity},
	{intent: IntentRemote, match: matchRemote, answer: (*Router).answerRemote},
	{intent: IntentHybrid, match: matchAny(hybridKeywords), answer: (*Router).answerHybrid},
	{intent: IntentOnsite, match: matchAny(onsiteQuestionKeywords), answer: (*Router).answerOnsite},
	{intent: IntentEmployment, match: matchEmployment, answer: (*Router).answerEmployment},
	{intent: IntentEducation, match: matchEducation, answer: (*Router).answerEducation},
	{intent: IntentLicense, match: matchAny(licenseQuestionKeywords), answer: (*Router).answerLicense},
	{intent: IntentLanguage, match: matchLanguage, answer: (*Router).answerLanguage},
	{intent: IntentSkills, match: matchAny(skillQuestionKeywords), answer: (*Router).answerSkills},
}

// Intents returns the classification order, ending with the fallback.
func Intents() []Intent {
	out := make([]Intent, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.intent)
	}
	return append(out, IntentFallback)
}

// Router answers free-text questions about a session's results.
type Router struct {
	extractor *skills.Extractor
	examples  int
}

func NewRouter(extractor *skills.Extractor) *Router {
	if extractor == nil {
		extractor = skills.New(taxonomy.Empty(), 0)
	}
	return &Router{extractor: extractor, examples: MaxExamples}
}

// Answer classifies text and answers it from the session's current results. Without
// results it returns MessageNoData.
func (r *Router) Answer(s *Session, text string) Answer {
	if s.State() == AwaitingQuery {
		return Answer{Intent: IntentNoData, Text: MessageNoData}
	}

	in := input{
		raw:      text,
		question: textnorm.Normalize(text),
		query:    s.Query(),
		items:    s.Postings(),
	}

	for _, rl := range rules {
		if matched := rl.match(in); len(matched) > 0 {
			return rl.answer(r, in, matched)
		}
	}

	return Answer{Intent: IntentFallback, Text: MessageFallback}
}

func matchAny(keywords []string) func(in input) []string {
	return func(in input) []string {
		var matched []string
		for _, k := range keywords {
			if strings.Contains(in.question, k) {
				matched = append(matched, k)
			}
		}
		return matched
	}
}

// matchRemote looks for remote keywords after hybrid phrases are removed, so that
// "delvis på distans" reaches the hybrid rule.
func matchRemote(in input) []string {
	for _, phrase := range hybridKeywords {
		in.question = strings.ReplaceAll(in.question, phrase, " ")
	}
	return matchAny(remoteQuestionKeywords)(in)
}

func matchCity(in input) []string {
	for _, c := range postings.New(in.items).Cities() {
		if textnorm.ContainsWord(in.question, textnorm.Normalize(c.City)) {
			return []string{c.City}
		}
	}
	return nil
}

// matchEmployment returns the employment types named in the question, dropping those
// contained in a longer match ("tillsvidare" inside "tillsvidareanställning").
func matchEmployment(in input) []string {
	found := matchAny(employmentTypes)(in)
	var matched []string
	for _, f := range found {
		covered := false
		for _, other := range found {
			if other != f && strings.Contains(other, f) {
				covered = true
				break
			}
		}
		if !covered {
			matched = append(matched, f)
		}
	}
	return matched
}

func matchEducation(in input) []string {
	var matched []string
	for _, level := range educationLevels {
		if textnorm.ContainsAny(in.question, level.question) {
			matched = append(matched, level.name)
		}
	}
	if len(matched) > 0 || !textnorm.ContainsAny(in.question, educationQuestionKeywords) {
		return matched
	}
	for _, level := range educationLevels {
		matched = append(matched, level.name)
	}
	return matched
}

func matchLanguage(in input) []string {
	var matched []string
	for _, l := range languages {
		if textnorm.ContainsAny(in.question, l.keywords) {
			matched = append(matched, l.name)
		}
	}
	if len(matched) > 0 || !textnorm.ContainsAny(in.question, languageQuestionKeywords) {
		return matched
	}
	for _, l := range languages {
		matched = append(matched, l.name)
	}
	return matched
}

func filter(items []postings.Posting, keep func(p postings.Posting) bool) []postings.Posting {
	var out []postings.Posting
	for _, p := range items {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func description(p postings.Posting) string {
	return textnorm.Normalize(p.Description)
}

// isRemote reports whether a posting offers remote work. Mentions of remote training
// are ignored.
func isRemote(p postings.Posting) bool {
	d := description(p)
	for _, pattern := range trainingPatterns {
		d = pattern.ReplaceAllString(d, " ")
	}
	return textnorm.ContainsAny(d, remoteKeywords)
}

func (r *Router) report(intent Intent, matches []postings.Posting, found, none string, args ...any) Answer {
	if len(matches) == 0 {
		return Answer{Intent: intent, Text: fmt.Sprintf(none, args...)}
	}
	text := fmt.Sprintf(found, append([]any{len(matches)}, args...)...)
	return Answer{Intent: intent, Text: text + r.formatExamples(matches), Count: len(matches)}
}

func (r *Router) formatExamples(matches []postings.Posting) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(examplesHeader)
	for i, p := range matches {
		if i == r.examples {
			break
		}
		fmt.Fprintf(&b, "\n- %s, %s (%s)", p.Title, p.Company, p.City)
	}
	return b.String()
}

func (r *Router) answerCity(in input, matched []string) Answer {
	city := matched[0]
	matches := filter(in.items, func(p postings.Posting) bool {
		return strings.EqualFold(p.City, city)
	})
	return r.report(IntentCity, matches, foundCity, noneCity, city)
}

func (r *Router) answerRemote(in input, _ []string) Answer {
	return r.report(IntentRemote, filter(in.items, isRemote), foundRemote, noneRemote)
}

func (r *Router) answerHybrid(in input, _ []string) Answer {
	matches := filter(in.items, func(p postings.Posting) bool {
		return textnorm.ContainsAny(description(p), hybridKeywords)
	})
	return r.report(IntentHybrid, matches, foundHybrid, noneHybrid)
}

func (r *Router) answerOnsite(in input, _ []string) Answer {
	matches := filter(in.items, func(p postings.Posting) bool {
		return !isRemote(p)
	})
	return r.report(IntentOnsite, matches, foundOnsite, noneOnsite)
}

func (r *Router) answerEmployment(in input, matched []string) Answer {
	matches := filter(in.items, func(p postings.Posting) bool {
		text := textnorm.Normalize(p.EmploymentType + " " + p.Description)
		return textnorm.ContainsAny(text, matched)
	})
	return r.report(IntentEmployment, matches, foundEmployment, noneEmployment, strings.Join(matched, ", "))
}

// groupAnswer reports one line per group and lists examples from all groups.
func (r *Router) groupAnswer(intent Intent, items []postings.Posting, groups []string, keywords func(group string) []string, found, none string) Answer {
	lines := make([]string, 0, len(groups))
	seen := map[int]struct{}{}
	var union []postings.Posting

	for _, g := range groups {
		count := 0
		for i, p := range items {
			if !textnorm.ContainsAny(description(p), keywords(g)) {
				continue
			}
			count++
			if _, ok := seen[i]; !ok {
				seen[i] = struct{}{}
				union = append(union, p)
			}
		}
		if count == 0 {
			lines = append(lines, fmt.Sprintf(none, g))
			continue
		}
		lines = append(lines, fmt.Sprintf(found, count, g))
	}

	text := strings.Join(lines, "\n")
	if len(union) > 0 {
		text += r.formatExamples(union)
	}
	return Answer{Intent: intent, Text: text, Count: len(union)}
}

func (r *Router) answerEducation(in input, matched []string) Answer {
	return r.groupAnswer(IntentEducation, in.items, matched, func(name string) []string {
		for _, level := range educationLevels {
			if level.name == name {
				return level.posting
			}
		}
		return nil
	}, foundEducation, noneEducation)
}

func (r *Router) answerLicense(in input, _ []string) Answer {
	matches := filter(in.items, func(p postings.Posting) bool {
		return textnorm.ContainsAny(description(p), licenseKeywords)
	})
	return r.report(IntentLicense, matches, foundLicense, noneLicense)
}

func (r *Router) answerLanguage(in input, matched []string) Answer {
	return r.groupAnswer(IntentLanguage, in.items, matched, func(name string) []string {
		for _, l := range languages {
			if l.name == name {
				return l.keywords
			}
		}
		return nil
	}, foundLanguage, noneLanguage)
}

// answerSkills extracts skills for the search query that produced the results, or for
// the question itself when the query is unknown.
func (r *Router) answerSkills(in input, _ []string) Answer {
	query := in.query
	if query == "" {
		query = in.raw
	}

	found := r.extractor.SkillsForQuery(query, in.items, 0)
	if skills.IsNoFinding(found) {
		return Answer{Intent: IntentSkills, Text: skills.NoFinding + "."}
	}

	list := strings.Join(found, ", ")
	if occ, ok := r.extractor.Occupation(query, in.items); ok {
		return Answer{Intent: IntentSkills, Text: fmt.Sprintf(foundSkills, occ, list), Count: len(found)}
	}
	return Answer{Intent: IntentSkills, Text: fmt.Sprintf(foundSkillsAny, list), Count: len(found)}
}
