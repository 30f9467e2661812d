// Package indeed implements the Indeed publisher API adapter.
package indeed

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

const defaultAPIURL = "https://api.indeed.com/ads/apisearch"

// Config carries the Indeed publisher credentials.
type Config struct {
	PublisherKey string `mapstructure:"publisher-key"`
	APIURL       string `mapstructure:"api-url"`
}

type Client struct {
	cfg        Config
	logger     *zap.Logger
	HTTPClient *http.Client
}

// New builds an Indeed client; it fails when the publisher key is missing.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.PublisherKey == "" {
		return nil, fmt.Errorf("indeed publisher key is not configured")
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

func (c *Client) Source() jobs.Source { return jobs.SourceIndeed }

func (c *Client) SearchJobs(ctx context.Context, criteria jobs.SearchCriteria) ([]jobs.RawRecord, error) {
	q := url.Values{}
	q.Set("publisher", c.cfg.PublisherKey)
	q.Set("q", criteria.Title)
	q.Set("limit", strconv.Itoa(criteria.LimitPerSource))
	q.Set("radius", strconv.Itoa(criteria.RadiusKM))
	q.Set("format", "json")
	q.Set("v", "2")

	if criteria.Location != "" {
		q.Set("l", criteria.Location)
	}

	// Same policy as the other boards: profile keywords are accepted but not
	// appended to the query text.
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
		Results []jobs.RawRecord `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, jobs.NewSourceError(c.Source(), jobs.ErrorKindGeneric,
			fmt.Errorf("decode response: %w", err))
	}

	return payload.Results, nil
}
