package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Adda-Baaj/reddit-sentiment/pkg/httpclient"
)

// tokens are refreshed this long before Reddit says they expire.
const tokenExpiryMargin = time.Minute

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
	Error       string `json:"error"`
}

// accessToken returns a cached application token, fetching a new one with the
// client credentials grant when needed.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expiresAt) {
		return c.token, nil
	}

	resp, err := c.http.PostForm(ctx, c.authURL,
		map[string]string{"grant_type": "client_credentials"},
		map[string]string{"User-Agent": c.creds.UserAgent},
		&httpclient.BasicAuth{Username: c.creds.ClientID, Password: c.creds.ClientSecret},
	)
	if err != nil {
		return "", fmt.Errorf("request access token: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("access token endpoint returned status %d body: %s", resp.StatusCode(), responseSnippet(resp.Body()))
	}

	var tr tokenResponse
	if err := json.Unmarshal(resp.Body(), &tr); err != nil {
		return "", fmt.Errorf("decode access token: %w", err)
	}
	if tr.Error != "" {
		return "", fmt.Errorf("access token rejected: %s", tr.Error)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("access token response has no token")
	}

	c.token = tr.AccessToken
	c.expiresAt = c.now().Add(time.Duration(tr.ExpiresIn)*time.Second - tokenExpiryMargin)

	c.log.DebugObj("reddit access token acquired", "reddit_token", map[string]any{
		"expires_in": tr.ExpiresIn,
		"scope":      tr.Scope,
	})
	return c.token, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}
