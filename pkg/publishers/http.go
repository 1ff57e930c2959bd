package publishers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Adda-Baaj/reddit-sentiment/pkg/httpclient"
)

// httpPublisher posts events as JSON to a webhook.
type httpPublisher struct {
	id     string
	cfg    HTTPPublisherConfig
	client httpclient.Client
	log    Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	return &httpPublisher{
		id:     cfg.ID,
		cfg:    *cfg.HTTP,
		client: httpclient.NewRestyClient(timeout),
		log:    ensureLogger(log),
	}, nil
}

func (p *httpPublisher) ID() string   { return p.id }
func (p *httpPublisher) Type() string { return TypeHTTP }

// Publish sends the event and treats any non-2xx status as a failure.
func (p *httpPublisher) Publish(ctx context.Context, evt Event) error {
	resp, err := p.client.Do(ctx, p.cfg.Method, p.cfg.URL, evt, p.cfg.Headers)
	if err != nil {
		return fmt.Errorf("http publish: %w", err)
	}
	if code := resp.StatusCode(); code < http.StatusOK || code >= http.StatusMultipleChoices {
		return fmt.Errorf("http publish returned status %d", code)
	}
	return nil
}
