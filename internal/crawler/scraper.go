package crawler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/Adda-Baaj/reddit-sentiment/internal/domain"
	"github.com/Adda-Baaj/reddit-sentiment/internal/logger"
	"github.com/Adda-Baaj/reddit-sentiment/pkg/httpclient"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
	defaultWorkers   = 4

	maxErrorSnippetBytes = 1024
)

// Options configure link enrichment.
type Options struct {
	Workers      int
	RequestDelay time.Duration
	UserAgent    string
}

// Scraper fills in the body of link submissions from the linked page's
// description metadata.
type Scraper struct {
	client httpclient.Client
	log    logger.Logger
	opts   Options
}

// NewScraper creates a new Scraper with the given HTTP client and logger.
func NewScraper(client httpclient.Client, opts Options, log logger.Logger) *Scraper {
	if client == nil {
		client = httpclient.NewRestyClient(15 * time.Second)
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	return &Scraper{client: client, log: logger.Ensure(log), opts: opts}
}

// Enrich returns a copy of subs where link submissions without a body carry
// the linked page's description. Submissions that fail to scrape are
// returned unchanged.
func (s *Scraper) Enrich(ctx context.Context, subs []domain.Submission) []domain.Submission {
	out := make([]domain.Submission, len(subs))
	copy(out, subs) // default to originals so partial results are returned on cancel

	var jobs []int
	for i, sub := range subs {
		if needsEnrichment(sub) {
			jobs = append(jobs, i)
		}
	}
	if len(jobs) == 0 {
		return out
	}

	workerCount := min(len(jobs), s.opts.Workers)

	var limiter <-chan time.Time
	if s.opts.RequestDelay > 0 {
		ticker := time.NewTicker(s.opts.RequestDelay)
		defer ticker.Stop()
		limiter = ticker.C
	}

	jobCh := make(chan int)
	var wg sync.WaitGroup

	for workerID := range workerCount {
		wg.Add(1)
		go s.linkWorker(ctx, subs, limiter, jobCh, out, &wg, workerID)
	}

send:
	for _, idx := range jobs {
		select {
		case <-ctx.Done():
			break send
		case jobCh <- idx:
		}
	}
	close(jobCh)

	wg.Wait()

	return out
}

// needsEnrichment reports whether sub is an external link post with no text.
func needsEnrichment(sub domain.Submission) bool {
	if sub.IsSelf || strings.TrimSpace(sub.Body) != "" {
		return false
	}
	u, err := url.Parse(sub.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host != "" && host != "reddit.com" && !strings.HasSuffix(host, ".reddit.com") && host != "redd.it" && !strings.HasSuffix(host, ".redd.it")
}

// linkWorker processes submissions from the job channel, respecting the rate limiter.
func (s *Scraper) linkWorker(
	ctx context.Context,
	subs []domain.Submission,
	limiter <-chan time.Time,
	jobCh <-chan int,
	out []domain.Submission,
	wg *sync.WaitGroup,
	workerID int,
) {
	defer wg.Done()

	for idx := range jobCh {
		if ctx.Err() != nil {
			return
		}

		if limiter != nil {
			select {
			case <-ctx.Done():
				return
			case <-limiter:
			}
		}

		sub := subs[idx]
		desc, err := s.fetchDescription(ctx, sub.URL, workerID)
		if err != nil {
			s.log.WarnObj("link description scrape failed", "link_scrape_error", map[string]any{
				"worker_id":     workerID,
				"submission_id": sub.ID,
				"url":           sub.URL,
				"error":         err.Error(),
			})
			continue
		}
		if desc != "" {
			sub.Body = desc
			out[idx] = sub
		}
	}
}

// fetchDescription fetches the linked page and extracts its description.
func (s *Scraper) fetchDescription(ctx context.Context, link string, workerID int) (string, error) {
	s.log.DebugObj("scraping link description", "link_scrape_start", map[string]any{
		"worker_id": workerID,
		"url":       link,
	})

	headers := map[string]string{"Accept": "text/html"}
	if s.opts.UserAgent != "" {
		headers["User-Agent"] = s.opts.UserAgent
	}

	resp, err := s.client.Get(ctx, link, headers)
	if err != nil {
		return "", fmt.Errorf("http fetch: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet(resp.Body(), maxErrorSnippetBytes))
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		s.log.InfoObj("html body truncated", "truncation", map[string]any{
			"worker_id": workerID,
			"url":       link,
			"original":  len(body),
			"kept":      maxHTMLBodyBytes,
		})
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return "", err
	}
	return meta.Description, nil
}

// parseMeta extracts page metadata from the HTML body.
func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return pageMeta{
		Description: firstNonEmpty(
			extract(`meta[property="og:description"]`),
			extract(`meta[name="description"]`),
			extract(`meta[name="twitter:description"]`),
		),
	}, nil
}

// pageMeta holds metadata extracted from an HTML page.
type pageMeta struct {
	Description string
}

// snippet trims body to at most n bytes without splitting a rune.
func snippet(body []byte, n int) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// firstNonEmpty returns the first non-empty string from the given values.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
