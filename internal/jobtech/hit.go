package jobtech

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/spigell/jobcoach/internal/postings"
)

type label struct {
	Label string `json:"label"`
}

// hit mirrors the part of a JobSearch hit the assistant uses.
type hit struct {
	ID       string `json:"id"`
	Headline string `json:"headline"`
	Employer struct {
		Name string `json:"name"`
	} `json:"employer"`
	WorkplaceAddress struct {
		Municipality string `json:"municipality"`
		City         string `json:"city"`
		Region       string `json:"region"`
	} `json:"workplace_address"`
	Description struct {
		Text          string `json:"text"`
		TextFormatted string `json:"text_formatted"`
	} `json:"description"`
	WebpageURL         string `json:"webpage_url"`
	ApplicationDetails struct {
		URL string `json:"url"`
	} `json:"application_details"`
	EmploymentType   label  `json:"employment_type"`
	WorkingHoursType label  `json:"working_hours_type"`
	PublicationDate  string `json:"publication_date"`
}

func (h *hit) toPosting() postings.Posting {
	p := postings.Posting{
		ID:          h.ID,
		Title:       h.Headline,
		Company:     h.Employer.Name,
		City:        firstNonEmpty(h.WorkplaceAddress.Municipality, h.WorkplaceAddress.City, h.WorkplaceAddress.Region),
		Description: firstNonEmpty(h.Description.Text, htmlToText(h.Description.TextFormatted)),
		URL:         firstNonEmpty(h.WebpageURL, h.ApplicationDetails.URL),
		PublishedAt: h.PublicationDate,
	}

	var employment []string
	for _, l := range []string{h.EmploymentType.Label, h.WorkingHoursType.Label} {
		if l = strings.TrimSpace(l); l != "" {
			employment = append(employment, l)
		}
	}
	p.EmploymentType = strings.Join(employment, ", ")

	return p.WithDefaults()
}

// htmlToText extracts the readable text of an HTML fragment. Block elements are separated
// by newlines so words from adjacent paragraphs do not run together.
func htmlToText(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, li, h1, h2, h3, h4, div").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	lines := strings.Split(doc.Text(), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
