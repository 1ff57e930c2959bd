// Package pipeline runs one sentiment analysis: fetch, preprocess, score,
// classify and aggregate.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adda-Baaj/reddit-sentiment/internal/aggregate"
	"github.com/Adda-Baaj/reddit-sentiment/internal/domain"
	"github.com/Adda-Baaj/reddit-sentiment/internal/logger"
	"github.com/Adda-Baaj/reddit-sentiment/internal/metrics"
)

// State tells the presentation layer what to show.
type State string

const (
	StateResults   State = "results"
	StateNoResults State = "no_results"
)

// Report is the outcome of a successful analysis.
type Report struct {
	Query     domain.Query      `json:"query"`
	Items     []domain.Item     `json:"items"`
	Summary   aggregate.Summary `json:"summary"`
	State     State             `json:"state"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// Searcher fetches submissions with their top-level comments.
type Searcher interface {
	Search(ctx context.Context, q domain.Query) ([]domain.Submission, error)
}

// Enricher fills in bodies for link submissions.
type Enricher interface {
	Enrich(ctx context.Context, subs []domain.Submission) []domain.Submission
}

// Analyzer turns records into classified items.
type Analyzer interface {
	Analyze(records []domain.Record) []domain.Item
}

// Sink receives every successful report. Failures are logged only.
type Sink interface {
	Name() string
	Consume(ctx context.Context, r *Report) error
}

// FetchError is returned when the platform could not be queried. Message is
// safe to show to the user.
type FetchError struct {
	Scope   domain.Scope
	Message string
	Err     error
}

func (e *FetchError) Error() string { return e.Message }

func (e *FetchError) Unwrap() error { return e.Err }

func newFetchError(q domain.Query, err error) *FetchError {
	msg := fmt.Sprintf("Error searching all of Reddit: %v", err)
	if q.Scope == domain.ScopeSubreddit {
		msg = fmt.Sprintf("Error accessing subreddit: %v. Please check the subreddit name.", err)
	}
	return &FetchError{Scope: q.Scope, Message: msg, Err: err}
}

// Options wire the optional collaborators of a Service.
type Options struct {
	Enricher Enricher
	Sinks    []Sink
	Metrics  *metrics.Metrics
	Logger   logger.Logger
	Now      func() time.Time
}

// Service runs analyses. It holds no per-request state.
type Service struct {
	searcher Searcher
	analyzer Analyzer
	enricher Enricher
	sinks    []Sink
	metrics  *metrics.Metrics
	log      logger.Logger
	now      func() time.Time
}

// NewService builds a Service.
func NewService(searcher Searcher, analyzer Analyzer, opts Options) (*Service, error) {
	if searcher == nil {
		return nil, errors.New("pipeline: searcher is required")
	}
	if analyzer == nil {
		return nil, errors.New("pipeline: analyzer is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		searcher: searcher,
		analyzer: analyzer,
		enricher: opts.Enricher,
		sinks:    opts.Sinks,
		metrics:  opts.Metrics,
		log:      logger.Ensure(opts.Logger),
		now:      now,
	}, nil
}

// Analyze validates q, fetches matching content and returns the classified
// report. An empty fetch yields a StateNoResults report and a nil error.
func (s *Service) Analyze(ctx context.Context, q domain.Query) (*Report, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	start := s.now()
	subs, err := s.searcher.Search(ctx, q)
	s.metrics.ObserveFetch(q.Scope, s.now().Sub(start))
	if err != nil {
		s.metrics.ObserveAnalysis(q.Scope, metrics.OutcomeError, nil)
		s.log.ErrorObj("fetch failed", "analysis_fetch_error", map[string]any{
			"query":     q.Text,
			"scope":     string(q.Scope),
			"subreddit": q.Community(),
			"error":     err.Error(),
		})
		return nil, newFetchError(q, err)
	}

	if s.enricher != nil && len(subs) > 0 {
		subs = s.enricher.Enrich(ctx, subs)
	}

	items := s.analyzer.Analyze(domain.Records(subs))
	if items == nil {
		items = []domain.Item{}
	}
	summary := aggregate.Summarize(items)

	report := &Report{
		Query:     q,
		Items:     items,
		Summary:   summary,
		State:     StateResults,
		FetchedAt: s.now().UTC(),
	}
	outcome := metrics.OutcomeResults
	if summary.Empty() {
		report.State = StateNoResults
		outcome = metrics.OutcomeNoResults
	}
	s.metrics.ObserveAnalysis(q.Scope, outcome, map[domain.Sentiment]int{
		domain.Positive: summary.Positive,
		domain.Negative: summary.Negative,
		domain.Neutral:  summary.Neutral,
	})

	s.log.InfoObj("analysis completed", "analysis_completed", map[string]any{
		"query":       q.Text,
		"scope":       string(q.Scope),
		"subreddit":   q.Community(),
		"submissions": len(subs),
		"items":       summary.Total,
		"positive":    summary.Positive,
		"negative":    summary.Negative,
		"neutral":     summary.Neutral,
	})

	s.deliver(ctx, report)
	return report, nil
}

func (s *Service) deliver(ctx context.Context, r *Report) {
	for _, sink := range s.sinks {
		if sink == nil {
			continue
		}
		if err := sink.Consume(ctx, r); err != nil {
			s.log.WarnObj("report sink failed", "report_sink_error", map[string]any{
				"sink":  sink.Name(),
				"error": err.Error(),
			})
		}
	}
}
