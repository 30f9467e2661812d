package indeed

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/tlegrand/emploi-assistant/internal/jobs"
)

type rawResult struct {
	JobKey            string `mapstructure:"jobkey"`
	JobTitle          string `mapstructure:"jobtitle"`
	Company           string `mapstructure:"company"`
	FormattedLocation string `mapstructure:"formattedLocation"`
	Snippet           string `mapstructure:"snippet"`
	URL               string `mapstructure:"url"`
	Date              string `mapstructure:"date"`
}

// Normalize converts one raw Indeed result into the canonical posting.
func (c *Client) Normalize(raw jobs.RawRecord) (*jobs.JobPosting, error) {
	var result rawResult

	cfg := &mapstructure.DecoderConfig{
		Result:           &result,
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}

	city, country := splitLocation(result.FormattedLocation)

	posted := result.Date
	if posted == "" {
		posted = time.Now().Format("2006-01-02")
	}

	return &jobs.JobPosting{
		JobID:       result.JobKey,
		Title:       result.JobTitle,
		Company:     result.Company,
		Location:    jobs.NewLocation(city, "", "", country),
		Description: result.Snippet,
		URL:         result.URL,
		PostedDate:  posted,
		Source:      jobs.SourceIndeed,
		RawData:     raw,
	}, nil
}

// splitLocation pulls a city and country out of a "City, Country" style
// string; a string without a comma is treated as a bare city.
func splitLocation(formatted string) (city, country string) {
	if idx := strings.LastIndex(formatted, ","); idx >= 0 {
		return strings.TrimSpace(formatted[:strings.Index(formatted, ",")]),
			strings.TrimSpace(formatted[idx+1:])
	}
	return formatted, ""
}
