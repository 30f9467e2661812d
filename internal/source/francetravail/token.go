package francetravail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// authToken returns a usable bearer token: the static API key when one is
// configured, otherwise the cached OAuth2 token, renewed when expired.
func (c *Client) authToken(ctx context.Context) (string, error) {
	if c.cfg.APIKey != "" {
		return c.cfg.APIKey, nil
	}

	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.accessToken != "" && c.now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	return c.fetchTokenLocked(ctx)
}

// renewToken discards the cached token and performs a fresh exchange.
func (c *Client) renewToken(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	c.accessToken = ""
	return c.fetchTokenLocked(ctx)
}

func (c *Client) refreshable() bool {
	return c.cfg.ClientID != "" && c.cfg.ClientSecret != ""
}

func (c *Client) fetchTokenLocked(ctx context.Context) (string, error) {
	if !c.refreshable() {
		return "", fmt.Errorf("client id and secret are required for the token exchange")
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("scope", tokenScope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange: bad status: %s", resp.Status)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("token exchange: decode response: %w", err)
	}

	if token.AccessToken == "" {
		return "", fmt.Errorf("token exchange: no access token in response")
	}

	c.accessToken = token.AccessToken
	if token.ExpiresIn > 0 {
		c.tokenExpiry = c.now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	return c.accessToken, nil
}
