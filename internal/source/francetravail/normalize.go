package francetravail

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/tlegrand/emploi-assistant/internal/jobs"
)

const (
	companyPlaceholder = "Non spécifié"
	fallbackURL        = "https://www.francetravail.fr/"
)

// rawOffer is the subset of the France Travail offer payload the normalizer
// cares about. Anything else stays in RawData.
type rawOffer struct {
	ID           string `mapstructure:"id"`
	Intitule     string `mapstructure:"intitule"`
	Description  string `mapstructure:"description"`
	DateCreation string `mapstructure:"dateCreation"`
	TypeContrat  string `mapstructure:"typeContrat"`
	Entreprise   struct {
		Nom string `mapstructure:"nom"`
	} `mapstructure:"entreprise"`
	LieuTravail struct {
		Libelle    string `mapstructure:"libelle"`
		CodePostal string `mapstructure:"codePostal"`
	} `mapstructure:"lieuTravail"`
	OrigineOffre struct {
		URLOrigine string `mapstructure:"urlOrigine"`
	} `mapstructure:"origineOffre"`
	Salaire struct {
		Libelle string `mapstructure:"libelle"`
	} `mapstructure:"salaire"`
	Competences []struct {
		Libelle string `mapstructure:"libelle"`
	} `mapstructure:"competences"`
	ExperienceExige string `mapstructure:"experienceExige"`
	FormationExige  string `mapstructure:"formationExige"`
}

// Normalize converts one raw France Travail offer into the canonical posting.
func (c *Client) Normalize(raw jobs.RawRecord) (*jobs.JobPosting, error) {
	var offer rawOffer

	cfg := &mapstructure.DecoderConfig{
		Result:           &offer,
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode offer: %w", err)
	}

	company := offer.Entreprise.Nom
	if company == "" {
		company = companyPlaceholder
	}

	url := offer.OrigineOffre.URLOrigine
	if url == "" {
		url = fallbackURL
	}

	skills := make([]string, 0, len(offer.Competences))
	for _, comp := range offer.Competences {
		if comp.Libelle != "" {
			skills = append(skills, comp.Libelle)
		}
	}

	return &jobs.JobPosting{
		JobID:              offer.ID,
		Title:              offer.Intitule,
		Company:            company,
		Location:           jobs.NewLocation(offer.LieuTravail.Libelle, offer.LieuTravail.CodePostal, "", ""),
		Description:        offer.Description,
		URL:                url,
		PostedDate:         offer.DateCreation,
		SalaryRange:        offer.Salaire.Libelle,
		JobType:            offer.TypeContrat,
		RequiredSkills:     skills,
		RequiredExperience: offer.ExperienceExige,
		RequiredEducation:  offer.FormationExige,
		Source:             jobs.SourceFranceTravail,
		RawData:            raw,
	}, nil
}
