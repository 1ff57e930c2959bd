package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Response is the subset of a resty response callers rely on.
type Response interface {
	StatusCode() int
	Body() []byte
}

// Client performs HTTP requests with per-call headers.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	GetWithQuery(ctx context.Context, url string, query, headers map[string]string) (Response, error)
	PostForm(ctx context.Context, url string, form, headers map[string]string, auth *BasicAuth) (Response, error)
	PostJSON(ctx context.Context, url string, body any, headers map[string]string) (Response, error)
	Do(ctx context.Context, method, url string, body any, headers map[string]string) (Response, error)
}

// BasicAuth holds HTTP basic credentials.
type BasicAuth struct {
	Username string
	Password string
}

type restyClient struct {
	rc *resty.Client
}

// NewRestyClient returns a Client backed by resty with the given timeout.
func NewRestyClient(timeout time.Duration) Client {
	rc := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
	return &restyClient{rc: rc}
}

func (c *restyClient) request(ctx context.Context, headers map[string]string) *resty.Request {
	if ctx == nil {
		ctx = context.Background()
	}
	return c.rc.R().SetContext(ctx).SetHeaders(headers)
}

func (c *restyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	return c.request(ctx, headers).Get(url)
}

func (c *restyClient) GetWithQuery(ctx context.Context, url string, query, headers map[string]string) (Response, error) {
	return c.request(ctx, headers).SetQueryParams(query).Get(url)
}

func (c *restyClient) PostForm(ctx context.Context, url string, form, headers map[string]string, auth *BasicAuth) (Response, error) {
	req := c.request(ctx, headers).SetFormData(form)
	if auth != nil {
		req.SetBasicAuth(auth.Username, auth.Password)
	}
	return req.Post(url)
}

func (c *restyClient) PostJSON(ctx context.Context, url string, body any, headers map[string]string) (Response, error) {
	return c.Do(ctx, "POST", url, body, headers)
}

func (c *restyClient) Do(ctx context.Context, method, url string, body any, headers map[string]string) (Response, error) {
	req := c.request(ctx, headers).SetHeader("Content-Type", "application/json")
	if body != nil {
		req.SetBody(body)
	}
	return req.Execute(method, url)
}
