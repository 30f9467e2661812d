package linkedin

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	"github.com/tlegrand/emploi-assistant/internal/jobs"
)

type rawCard struct {
	Title      string `mapstructure:"title"`
	Company    string `mapstructure:"company"`
	Location   string `mapstructure:"location"`
	PostedDate string `mapstructure:"posted_date"`
	URL        string `mapstructure:"url"`
}

// Normalize converts one scraped card into the canonical posting. Cards carry
// no stable identifier, so a random one is assigned.
func (c *Client) Normalize(raw jobs.RawRecord) (*jobs.JobPosting, error) {
	var card rawCard

	cfg := &mapstructure.DecoderConfig{
		Result:           &card,
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode card: %w", err)
	}

	city, country := card.Location, ""
	if idx := strings.Index(card.Location, ","); idx >= 0 {
		city = strings.TrimSpace(card.Location[:idx])
		country = strings.TrimSpace(card.Location[strings.LastIndex(card.Location, ",")+1:])
	}

	return &jobs.JobPosting{
		JobID:       "linkedin_" + uuid.NewString(),
		Title:       card.Title,
		Company:     card.Company,
		Location:    jobs.NewLocation(city, "", "", country),
		Description: card.Title + " at " + card.Company,
		URL:         card.URL,
		PostedDate:  card.PostedDate,
		Source:      jobs.SourceLinkedIn,
		RawData:     raw,
	}, nil
}
