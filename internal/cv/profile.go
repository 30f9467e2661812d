package cv

import (
	"fmt"
	"strings"
)

// Profile holds the structured data extracted from a résumé.
type Profile struct {
	FullName        string       `json:"full_name"`
	Email           string       `json:"email,omitempty"`
	Phone           string       `json:"phone,omitempty"`
	Location        string       `json:"location,omitempty"`
	DesiredJob      string       `json:"desired_job"`
	DesiredContract string       `json:"desired_contract,omitempty"`
	Skills          []string     `json:"skills"`
	Experiences     []Experience `json:"experiences"`
	Projects        []Project    `json:"projects,omitempty"`
	Education       []Education  `json:"education"`
	Languages       []string     `json:"languages,omitempty"`
	Summary         string       `json:"summary,omitempty"`
}

type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

type Education struct {
	Institution  string `json:"institution"`
	Diploma      string `json:"diploma"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	Description  string `json:"description,omitempty"`
}

type Project struct {
	Title        string   `json:"title"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	URL          string   `json:"url,omitempty"`
}

// PromptContext renders the profile as the compact text block the enrichment
// and recommendation prompts expect.
func (p *Profile) PromptContext() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Poste recherché: %s\n", p.DesiredJob)
	fmt.Fprintf(&b, "Compétences: %s\n", strings.Join(p.Skills, ", "))

	experiences := make([]string, 0, len(p.Experiences))
	for _, e := range p.Experiences {
		experiences = append(experiences, fmt.Sprintf("%s chez %s", e.Position, e.Company))
	}
	fmt.Fprintf(&b, "Expériences: %s\n", strings.Join(experiences, ", "))

	education := make([]string, 0, len(p.Education))
	for _, e := range p.Education {
		education = append(education, fmt.Sprintf("%s en %s", e.Diploma, e.FieldOfStudy))
	}
	fmt.Fprintf(&b, "Formation: %s\n", strings.Join(education, ", "))

	return b.String()
}
