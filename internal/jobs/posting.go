package jobs

import "strings"

// DefaultCountry is assumed when a source does not report one.
const DefaultCountry = "France"

// Location is the place a posting is attached to. Built once by a normalizer
// and never mutated afterwards.
type Location struct {
	City             string `json:"city"`
	PostalCode       string `json:"postal_code,omitempty"`
	Region           string `json:"region,omitempty"`
	Country          string `json:"country"`
	FormattedAddress string `json:"formatted_address,omitempty"`
}

// NewLocation builds a Location, filling Country and the formatted address
// when they are not provided.
func NewLocation(city, postalCode, region, country string) Location {
	if country == "" {
		country = DefaultCountry
	}

	loc := Location{
		City:       city,
		PostalCode: postalCode,
		Region:     region,
		Country:    country,
	}
	loc.FormattedAddress = loc.format()

	return loc
}

func (l Location) format() string {
	parts := make([]string, 0, 4)
	if l.City != "" {
		parts = append(parts, l.City)
	}
	if l.PostalCode != "" {
		parts = append(parts, l.PostalCode)
	}
	if l.Region != "" && l.Region != l.City && l.Region != l.PostalCode {
		parts = append(parts, l.Region)
	}
	if l.Country != "" {
		parts = append(parts, l.Country)
	}

	return strings.Join(parts, ", ")
}

func (l Location) String() string {
	if l.FormattedAddress != "" {
		return l.FormattedAddress
	}
	return l.format()
}

// JobPosting is the canonical normalized record. JobID is scoped to its
// source and is not globally unique. RawData keeps the original payload for
// debugging and traceability.
type JobPosting struct {
	JobID       string   `json:"job_id"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    Location `json:"location"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	// PostedDate keeps whatever date format the source reported. Formats
	// differ between boards, so it is not guaranteed to be sortable as a
	// timestamp.
	PostedDate         string         `json:"posted_date"`
	SalaryRange        string         `json:"salary_range,omitempty"`
	JobType            string         `json:"job_type,omitempty"`
	RequiredSkills     []string       `json:"required_skills,omitempty"`
	RequiredExperience string         `json:"required_experience,omitempty"`
	RequiredEducation  string         `json:"required_education,omitempty"`
	Source             Source         `json:"source"`
	RawData            map[string]any `json:"raw_data,omitempty"`
}

func (p *JobPosting) String() string {
	return p.Title + " chez " + p.Company + " - " + p.Location.String()
}
