// Package postings defines the job posting record shared by the source adapter, the
// ranking engine and the chat router.
package postings

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Sentinels for missing posting fields.
const (
	UnknownTitle       = "Ingen titel"
	UnknownCompany     = "Ingen arbetsgivare"
	UnknownCity        = "Ingen ort"
	UnknownDescription = "Ingen beskrivning"
	UnknownURL         = "#"
)

const (
	IDField      = "ID"
	CompanyField = "Company"
	CityField    = "City"
)

// Posting is a single job advertisement. It is never modified after the source adapter
// returned it.
type Posting struct {
	ID             string `json:"id,omitempty"`
	Title          string `json:"title"`
	Company        string `json:"company"`
	City           string `json:"city"`
	Description    string `json:"description"`
	URL            string `json:"url"`
	EmploymentType string `json:"employment_type,omitempty"`
	PublishedAt    string `json:"published_at,omitempty"`
}

// WithDefaults returns a copy of p where empty fields are replaced by their sentinels.
func (p Posting) WithDefaults() Posting {
	p.Title = orDefault(p.Title, UnknownTitle)
	p.Company = orDefault(p.Company, UnknownCompany)
	p.City = orDefault(p.City, UnknownCity)
	p.Description = orDefault(p.Description, UnknownDescription)
	p.URL = orDefault(p.URL, UnknownURL)
	return p
}

// HasCity reports whether the posting carries a real city rather than the sentinel.
func (p Posting) HasCity() bool {
	return p.City != "" && p.City != UnknownCity
}

// EmbeddingText is the text sent to an embedding provider for the posting.
func (p Posting) EmbeddingText() string {
	if p.Description == "" || p.Description == UnknownDescription {
		return p.Title
	}
	return p.Title + ". " + p.Description
}

func (p Posting) GetStringField(name string) string {
	switch name {
	case IDField:
		return p.ID
	case CompanyField:
		return p.Company
	case CityField:
		return p.City
	default:
		return ""
	}
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

// Postings is an ordered list of postings. The order is the fetch order.
type Postings struct {
	Items []Posting `json:"items"`
}

// New wraps items in a Postings list.
func New(items []Posting) *Postings {
	return &Postings{Items: items}
}

func (p *Postings) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Items)
}

func (p *Postings) FindByID(id string) *Posting {
	for i := range p.Items {
		if p.Items[i].ID == id {
			return &p.Items[i]
		}
	}
	return nil
}

func (p *Postings) Titles() []string {
	titles := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		titles = append(titles, item.Title)
	}
	return titles
}

func (p *Postings) Descriptions() []string {
	descriptions := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		descriptions = append(descriptions, item.Description)
	}
	return descriptions
}

// Keep retains the postings for which keep returns true and returns the removed ones.
// The relative order of the kept postings is preserved.
func (p *Postings) Keep(keep func(Posting) bool) []Posting {
	kept := p.Items[:0:0]
	var removed []Posting
	for _, item := range p.Items {
		if keep(item) {
			kept = append(kept, item)
			continue
		}
		removed = append(removed, item)
	}
	p.Items = kept
	return removed
}

// Exclude removes postings whose field equals one of targets, case-insensitively, and
// returns the ids of the removed postings.
func (p *Postings) Exclude(field string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		set[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	removed := p.Keep(func(item Posting) bool {
		_, found := set[strings.ToLower(strings.TrimSpace(item.GetStringField(field)))]
		return !found
	})

	ids := make([]string, 0, len(removed))
	for _, r := range removed {
		ids = append(ids, r.ID)
	}
	return ids
}

// CityCount is the number of postings in one city.
type CityCount struct {
	City  string
	Count int
}

// Cities counts postings per city in first-seen order. Postings without a city are
// skipped.
func (p *Postings) Cities() []CityCount {
	index := make(map[string]int)
	var counts []CityCount
	for _, item := range p.Items {
		if !item.HasCity() {
			continue
		}
		key := strings.ToLower(item.City)
		if i, ok := index[key]; ok {
			counts[i].Count++
			continue
		}
		index[key] = len(counts)
		counts = append(counts, CityCount{City: item.City, Count: 1})
	}
	return counts
}

// ReportByEmployer groups postings by company for the shell's report view.
func (p *Postings) ReportByEmployer() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, item := range p.Items {
		report[item.Company] = append(report[item.Company], map[string]string{
			"title":           item.Title,
			"city":            item.City,
			"url":             item.URL,
			"employment_type": item.EmploymentType,
		})
	}
	return report
}

// DumpToTmpFile writes the postings as indented json into a new temporary file and
// returns its name.
func (p *Postings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "postings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", fmt.Errorf("encode postings: %w", err)
	}
	return file.Name(), nil
}

// LoadFile reads postings written by DumpToTmpFile. An empty file yields an empty list.
func LoadFile(path string) (*Postings, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if stat.Size() == 0 {
		return &Postings{}, nil
	}

	var p Postings
	if err := json.NewDecoder(file).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode postings: %w", err)
	}
	return &p, nil
}

// IDs returns the ids of all postings that have one.
func (p *Postings) IDs() []string {
	ids := make([]string, 0, p.Len())
	for _, item := range p.Items {
		if item.ID != "" {
			ids = append(ids, item.ID)
		}
	}
	return ids
}
