package glassdoor

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/tlegrand/emploi-assistant/internal/jobs"
)

type rawListing struct {
	JobListingID   any    `mapstructure:"jobListingId"`
	JobTitle       string `mapstructure:"jobTitle"`
	JobDescription string `mapstructure:"jobDescription"`
	JobViewURL     string `mapstructure:"jobViewUrl"`
	Location       string `mapstructure:"location"`
	Employer       struct {
		Name string `mapstructure:"name"`
	} `mapstructure:"employer"`
}

// Normalize converts one raw Glassdoor listing into the canonical posting.
// The API does not report a posting date, so the current date is used.
func (c *Client) Normalize(raw jobs.RawRecord) (*jobs.JobPosting, error) {
	var listing rawListing

	cfg := &mapstructure.DecoderConfig{
		Result:           &listing,
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	city := listing.Location
	if idx := strings.Index(city, ","); idx >= 0 {
		city = strings.TrimSpace(city[:idx])
	}

	return &jobs.JobPosting{
		JobID:       fmt.Sprintf("%v", listing.JobListingID),
		Title:       listing.JobTitle,
		Company:     listing.Employer.Name,
		Location:    jobs.NewLocation(city, "", "", ""),
		Description: listing.JobDescription,
		URL:         listing.JobViewURL,
		PostedDate:  time.Now().Format("2006-01-02"),
		Source:      jobs.SourceGlassdoor,
		RawData:     raw,
	}, nil
}
