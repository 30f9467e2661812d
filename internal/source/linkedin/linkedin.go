// Package linkedin implements the LinkedIn adapter. There is no public API;
// the client scrapes the jobs search page and extracts the result cards.
package linkedin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/tlegrand/emploi-assistant/internal/jobs"
)

const defaultSearchURL = "https://www.linkedin.com/jobs/search/"

// Config carries the LinkedIn session credentials. SessionCookie is the li_at
// cookie value of an authenticated session.
type Config struct {
	SessionCookie string `mapstructure:"session-cookie"`
	SearchURL     string `mapstructure:"search-url"`
}

type Client struct {
	cfg        Config
	logger     *zap.Logger
	HTTPClient *http.Client
}

// New builds a LinkedIn client; it fails when the session cookie is missing.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.SessionCookie == "" {
		return nil, fmt.Errorf("linkedin session cookie is not configured")
	}

	if cfg.SearchURL == "" {
		cfg.SearchURL = defaultSearchURL
	}

	return &Client{
		cfg:    cfg,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}, nil
}

func (c *Client) Source() jobs.Source { return jobs.SourceLinkedIn }

func (c *Client) SearchJobs(ctx context.Context, criteria jobs.SearchCriteria) ([]jobs.RawRecord, error) {
	q := url.Values{}
	q.Set("keywords", criteria.Title)
	if criteria.Location != "" {
		q.Set("location", criteria.Location)
	}

	// Same policy as the other boards: profile keywords are accepted but not
	// appended to the query text.
	if len(criteria.Keywords) > 0 {
		c.logger.Debug("keywords available but not added to the query",
			zap.Int("count", len(criteria.Keywords)),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.SearchURL, nil)
	if err != nil {
		return nil, jobs.NewSourceError(c.Source(), jobs.ErrorKindTransport, err)
	}
	req.URL.RawQuery = q.Encode()
	req.AddCookie(&http.Cookie{Name: "li_at", Value: c.cfg.SessionCookie})
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; emploi-assistant)")

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

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, jobs.NewSourceError(c.Source(), jobs.ErrorKindGeneric,
			fmt.Errorf("parse page: %w", err))
	}

	records := c.extractCards(doc, criteria.LimitPerSource)

	return records, nil
}

// extractCards walks the result cards on the search page and keeps the ones
// with a title and a company. A card missing either is skipped, not an error.
func (c *Client) extractCards(doc *goquery.Document, limit int) []jobs.RawRecord {
	var records []jobs.RawRecord

	doc.Find("ul.jobs-search__results-list > li").EachWithBreak(func(i int, card *goquery.Selection) bool {
		if limit > 0 && len(records) >= limit {
			return false
		}

		title := strings.TrimSpace(card.Find(".base-search-card__title").Text())
		company := strings.TrimSpace(card.Find(".base-search-card__subtitle").Text())
		if title == "" || company == "" {
			return true
		}

		location := strings.TrimSpace(card.Find(".job-search-card__location").Text())

		posted, _ := card.Find("time.job-search-card__listdate").Attr("datetime")
		if posted == "" {
			posted = time.Now().Format("2006-01-02")
		}

		link, _ := card.Find("a.base-card__full-link").Attr("href")

		records = append(records, jobs.RawRecord{
			"title":       title,
			"company":     company,
			"location":    location,
			"posted_date": posted,
			"url":         link,
		})

		return true
	})

	return records
}
