// Package glassdoor implements the Glassdoor partner API adapter.
package glassdoor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/tlegrand/emploi-assistant/internal/jobs"
)

const defaultAPIURL = "https://api.glassdoor.com/api/api.htm"

// Config carries the Glassdoor partner credentials.
type Config struct {
	PartnerID string `mapstructure:"partner-id"`
	APIKey    string `mapstructure:"api-key"`
	APIURL    string `mapstructure:"api-url"`
}

type Client struct {
	cfg        Config
	logger     *zap.Logger
	HTTPClient *http.Client
}

// New builds a Glassdoor client; it fails when the API key is missing.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("glassdoor api key is not configured")
	}

	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}

	return &Client{
		cfg:    cfg,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

func (c *Client) Source() jobs.Source { return jobs.SourceGlassdoor }

func (c *Client) SearchJobs(ctx context.Context, criteria jobs.SearchCriteria) ([]jobs.RawRecord, error) {
	q := url.Values{}
	q.Set("v", "1")
	q.Set("format", "json")
	q.Set("t.p", c.cfg.PartnerID)
	q.Set("t.k", c.cfg.APIKey)
	q.Set("action", "jobs-prog")
	q.Set("countryId", "1")
	q.Set("jobTitle", criteria.Title)
	q.Set("numResults", strconv.Itoa(criteria.LimitPerSource))

	if criteria.Location != "" {
		q.Set("city", criteria.Location)
	}

	// Glassdoor has no extra-keywords parameter; the list is accepted and
	// ignored.
	if len(criteria.Keywords) > 0 {
		c.logger.Debug("keywords available but not added to the query",
			zap.Int("count", len(criteria.Keywords)),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIURL, nil)
	if err != nil {
		return nil, jobs.NewSourceError(c.Source(), jobs.ErrorKindTransport, err)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, jobs.NewSourceError(c.Source(), jobs.ErrorKindTransport, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, jobs.NewSourceError(c.Source(), jobs.ErrorKindAuthentication,
			fmt.Errorf("bad status: %s", resp.Status))
	case http.StatusTooManyRequests:
		return nil, jobs.NewSourceError(c.Source(), jobs.ErrorKindRateLimit,
			fmt.Errorf("bad status: %s", resp.Status))
	default:
		return nil, jobs.NewSourceError(c.Source(), jobs.ErrorKindTransport,
			fmt.Errorf("bad status: %s", resp.Status))
	}

	var payload struct {
		Response struct {
			JobListings []jobs.RawRecord `json:"jobListings"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, jobs.NewSourceError(c.Source(), jobs.ErrorKindGeneric,
			fmt.Errorf("decode response: %w", err))
	}

	return payload.Response.JobListings, nil
}
