// Package reddit is a read-only client for the Reddit search and comment listings.
package reddit

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/Adda-Baaj/reddit-sentiment/internal/domain"
	"github.com/Adda-Baaj/reddit-sentiment/internal/logger"
	"github.com/Adda-Baaj/reddit-sentiment/pkg/httpclient"
)

const (
	DefaultAuthURL = "https://www.reddit.com/api/v1/access_token"
	DefaultAPIURL  = "https://oauth.reddit.com"

	// Reddit allows 100 requests per minute for OAuth clients.
	defaultRequestsPerMinute = 100
	defaultTimeout           = 15 * time.Second
	maxPageSize              = 100
)

// Credentials identify a Reddit script or web application.
type Credentials struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
}

// Validate reports missing credential fields.
func (c Credentials) Validate() error {
	var missing []string
	if strings.TrimSpace(c.ClientID) == "" {
		missing = append(missing, "client_id")
	}
	if strings.TrimSpace(c.ClientSecret) == "" {
		missing = append(missing, "client_secret")
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		missing = append(missing, "user_agent")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// Options tune the client. Zero values fall back to the Reddit defaults.
type Options struct {
	AuthURL           string
	APIURL            string
	RequestsPerMinute int
	Timeout           time.Duration
}

// Client talks to the Reddit API with application-only OAuth.
type Client struct {
	http    httpclient.Client
	creds   Credentials
	authURL string
	apiURL  string
	limiter *rate.Limiter
	log     logger.Logger
	now     func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewClient builds a Client. A nil http client uses resty with the configured timeout.
func NewClient(creds Credentials, opts Options, client httpclient.Client, log logger.Logger) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if client == nil {
		client = httpclient.NewRestyClient(opts.Timeout)
	}
	if opts.AuthURL == "" {
		opts.AuthURL = DefaultAuthURL
	}
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = defaultRequestsPerMinute
	}

	perSecond := rate.Limit(float64(opts.RequestsPerMinute) / 60)
	return &Client{
		http:    client,
		creds:   creds,
		authURL: opts.AuthURL,
		apiURL:  strings.TrimRight(opts.APIURL, "/"),
		limiter: rate.NewLimiter(perSecond, opts.RequestsPerMinute),
		log:     logger.Ensure(log),
		now:     time.Now,
	}, nil
}

// get performs an authenticated, rate-limited GET against the API host.
func (c *Client) get(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	headers := map[string]string{
		"Authorization": "bearer " + token,
		"User-Agent":    c.creds.UserAgent,
	}

	url := c.apiURL + path
	resp, err := c.http.GetWithQuery(ctx, url, query, headers)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}

	body := resp.Body()
	switch resp.StatusCode() {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized:
		c.invalidateToken()
	}
	return nil, &StatusError{Path: path, Status: resp.StatusCode(), Body: responseSnippet(body)}
}

// StatusError is returned when Reddit answers with a non-200 status.
type StatusError struct {
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d body: %s", e.Path, e.Status, e.Body)
}

// responseSnippet returns a truncated snippet of the response body for errors.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
