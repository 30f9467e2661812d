// Package francetravail implements the France Travail (formerly Pôle Emploi)
// job search adapter. It is the reference credentialed source: a long-lived
// client id/secret pair is exchanged for a short-lived bearer token via the
// OAuth2 client-credentials flow, or a pre-issued static token is used as-is.
package francetravail

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tlegrand/emploi-assistant/internal/jobs"
)

const (
	defaultAPIURL   = "https://api.francetravail.io/partenaire/offresdemploi/v2"
	defaultTokenURL = "https://entreprise.francetravail.fr/connexion/oauth2/access_token?realm=%2Fpartenaire"
	tokenScope      = "api_offresdemploiv2 o2dsoffre"

	searchPath = "/offres/search"
)

// Config carries the credentials and endpoints for the France Travail API.
// Either ClientID+ClientSecret or a static APIKey must be present.
type Config struct {
	ClientID     string `mapstructure:"client-id"`
	ClientSecret string `mapstructure:"client-secret"`
	APIKey       string `mapstructure:"api-key"`
	APIURL       string `mapstructure:"api-url"`
	TokenURL     string `mapstructure:"token-url"`
}

type Client struct {
	cfg        Config
	logger     *zap.Logger
	HTTPClient *http.Client

	// tokenMu guards the cached bearer token so one client instance is safe
	// under concurrent searches.
	tokenMu     sync.Mutex
	accessToken string
	tokenExpiry time.Time

	now func() time.Time
}

// New builds a France Travail client. It fails when no credentials are
// configured; the registry records that as the source being unavailable.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.ClientID == "" && cfg.ClientSecret == "" && cfg.APIKey == "" {
		return nil, fmt.Errorf("france travail credentials are not configured")
	}

	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}

	return &Client{
		cfg:    cfg,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		now: time.Now,
	}, nil
}

func (c *Client) Source() jobs.Source { return jobs.SourceFranceTravail }

// SearchJobs queries the offres/search endpoint and returns the raw offers.
// On a 401 with refreshable credentials the token is renewed exactly once and
// the request retried; a second failure is terminal for this call.
func (c *Client) SearchJobs(ctx context.Context, criteria jobs.SearchCriteria) ([]jobs.RawRecord, error) {
	token, err := c.authToken(ctx)
	if err != nil {
		return nil, jobs.NewSourceError(c.Source(), jobs.ErrorKindAuthentication, err)
	}

	params := c.buildParams(criteria)

	resp, err := c.get(ctx, searchPath, params, token)
	if err != nil {
		return nil, jobs.NewSourceError(c.Source(), jobs.ErrorKindTransport, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)

		if !c.refreshable() {
			return nil, jobs.NewSourceError(c.Source(), jobs.ErrorKindAuthentication,
				fmt.Errorf("api rejected the token and no refresh is possible"))
		}

		c.logger.Info("france travail token rejected, renewing once")

		token, err = c.renewToken(ctx)
		if err != nil {
			return nil, jobs.NewSourceError(c.Source(), jobs.ErrorKindAuthentication, err)
		}

		resp, err = c.get(ctx, searchPath, params, token)
		if err != nil {
			return nil, jobs.NewSourceError(c.Source(), jobs.ErrorKindTransport, err)
		}
		if resp.StatusCode == http.StatusUnauthorized {
			drain(resp)
			return nil, jobs.NewSourceError(c.Source(), jobs.ErrorKindAuthentication,
				fmt.Errorf("api rejected the renewed token"))
		}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		drain(resp)
		return nil, jobs.NewSourceError(c.Source(), jobs.ErrorKindRateLimit,
			fmt.Errorf("bad status: %s", resp.Status))
	}

	// 206 Partial Content is how the API reports a paginated range; both it
	// and 200 are success.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		drain(resp)
		return nil, jobs.NewSourceError(c.Source(), jobs.ErrorKindTransport,
			fmt.Errorf("bad status: %s", resp.Status))
	}

	records, err := parseSearchResponse(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, jobs.NewSourceError(c.Source(), jobs.ErrorKindGeneric, err)
	}

	return records, nil
}

func (c *Client) buildParams(criteria jobs.SearchCriteria) url.Values {
	text, contract := DetectContractType(criteria.Title)

	q := url.Values{}
	q.Set("motsCles", text)
	q.Set("range", fmt.Sprintf("0-%d", criteria.LimitPerSource-1))

	if contract != "" {
		c.logger.Debug("detected contract type in job title",
			zap.String("contract_type", contract),
			zap.String("cleaned_title", text),
		)
		// The API does not filter reliably on typeContrat, so the detected
		// code is only stripped from the query text, not sent.
	}

	if criteria.Location != "" {
		dept := ResolveDepartment(criteria.Location)
		q.Set("departement", dept)
		c.logger.Debug("resolved search department",
			zap.String("location", criteria.Location),
			zap.String("departement", dept),
		)
	}

	// Profile keywords are accepted but deliberately not appended to the
	// query text: they over-filter the search and change the original request.
	if len(criteria.Keywords) > 0 {
		c.logger.Debug("keywords available but not added to the query",
			zap.Int("count", len(criteria.Keywords)),
		)
	}

	return q
}

func (c *Client) get(ctx context.Context, path string, q url.Values, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIURL+path, nil)
	if err != nil {
		return nil, err
	}

	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	return c.HTTPClient.Do(req)
}

func parseSearchResponse(body io.Reader) ([]jobs.RawRecord, error) {
	// The results key shape varies across API versions: either a plain array
	// or a nested {"resultats": [...]} object.
	var payload struct {
		Resultats json.RawMessage `json:"resultats"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(payload.Resultats) == 0 {
		return nil, nil
	}

	var records []jobs.RawRecord
	if err := json.Unmarshal(payload.Resultats, &records); err == nil {
		return records, nil
	}

	var nested struct {
		Resultats []jobs.RawRecord `json:"resultats"`
	}
	if err := json.Unmarshal(payload.Resultats, &nested); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}

	return nested.Resultats, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
