package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adda-Baaj/reddit-sentiment/internal/domain"
	"github.com/Adda-Baaj/reddit-sentiment/internal/history"
	"github.com/Adda-Baaj/reddit-sentiment/internal/metrics"
	"github.com/Adda-Baaj/reddit-sentiment/internal/sentiment"
)

type fakeSearcher struct {
	subs  []domain.Submission
	err   error
	calls int
}

func (f *fakeSearcher) Search(context.Context, domain.Query) ([]domain.Submission, error) {
	f.calls++
	return f.subs, f.err
}

type fakeSink struct {
	reports []*Report
	err     error
}

func (f *fakeSink) Name() string { return "fake" }

func (f *fakeSink) Consume(_ context.Context, r *Report) error {
	f.reports = append(f.reports, r)
	return f.err
}

type stubEnricher struct{ called bool }

func (u *stubEnricher) Enrich(_ context.Context, subs []domain.Submission) []domain.Submission {
	u.called = true
	for i := range subs {
		if subs[i].Body == "" {
			subs[i].Body = "great article"
		}
	}
	return subs
}

// wordScorer scores by keyword so tests do not depend on the VADER lexicon.
var wordScorer = sentiment.ScorerFunc(func(text string) float64 {
	switch {
	case text == "":
		return 0
	case strings.Contains(text, "great"), strings.Contains(text, "love"):
		return 0.6
	case strings.Contains(text, "awful"):
		return -0.7
	default:
		return 0
	}
})

func fixedNow() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

func subredditQuery() domain.Query {
	return domain.Query{Text: "AI", Limit: 50, Scope: domain.ScopeSubreddit, Subreddit: "technology"}
}

func newTestService(t *testing.T, s Searcher, opts Options) *Service {
	t.Helper()
	if opts.Now == nil {
		opts.Now = fixedNow
	}
	svc, err := NewService(s, sentiment.NewAnalyzer(wordScorer), opts)
	require.NoError(t, err)
	return svc
}

func TestAnalyzeClassifiesCommentsThenSubmission(t *testing.T) {
	searcher := &fakeSearcher{subs: []domain.Submission{{
		ID:     "abc",
		Title:  "AI news",
		Body:   "I love it",
		Score:  10,
		IsSelf: true,
		Comments: []domain.Comment{
			{Body: "awful take", Score: 2},
			{Body: "ok", Score: 1},
		},
	}}}
	sink := &fakeSink{}
	svc := newTestService(t, searcher, Options{Sinks: []Sink{sink}})

	report, err := svc.Analyze(context.Background(), subredditQuery())
	require.NoError(t, err)

	require.Len(t, report.Items, 3)
	assert.Equal(t, "awful take", report.Items[0].Text)
	assert.Equal(t, domain.Negative, report.Items[0].Sentiment)
	assert.Equal(t, domain.Neutral, report.Items[1].Sentiment)
	assert.Equal(t, "AI news I love it", report.Items[2].Text)
	assert.Equal(t, domain.Positive, report.Items[2].Sentiment)

	assert.Equal(t, StateResults, report.State)
	assert.Equal(t, 3, report.Summary.Total)
	assert.Equal(t, report.Summary.Total, report.Summary.Positive+report.Summary.Negative+report.Summary.Neutral)
	assert.Equal(t, fixedNow(), report.FetchedAt)

	require.Len(t, sink.reports, 1)
	assert.Same(t, report, sink.reports[0])
}

func TestAnalyzeEmptyFetchIsNoResults(t *testing.T) {
	m := metrics.New()
	sink := &fakeSink{}
	svc := newTestService(t, &fakeSearcher{}, Options{Metrics: m, Sinks: []Sink{sink}})

	report, err := svc.Analyze(context.Background(), subredditQuery())
	require.NoError(t, err)

	assert.Equal(t, StateNoResults, report.State)
	assert.Equal(t, 0, report.Summary.Total)
	assert.Equal(t, 0, report.Summary.Positive)
	assert.Equal(t, 0, report.Summary.Negative)
	assert.Equal(t, 0, report.Summary.Neutral)
	assert.NotNil(t, report.Items)
	assert.Empty(t, report.Items)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("subreddit", metrics.OutcomeNoResults)))
}

func TestAnalyzeFetchErrorBothScopes(t *testing.T) {
	cases := []struct {
		name    string
		query   domain.Query
		message string
	}{
		{
			name:    "subreddit",
			query:   subredditQuery(),
			message: "Error accessing subreddit: boom. Please check the subreddit name.",
		},
		{
			name:    "all",
			query:   domain.Query{Text: "AI", Limit: 10, Scope: domain.ScopeAll},
			message: "Error searching all of Reddit: boom",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cause := errors.New("boom")
			m := metrics.New()
			sink := &fakeSink{}
			svc := newTestService(t, &fakeSearcher{err: cause}, Options{Metrics: m, Sinks: []Sink{sink}})

			report, err := svc.Analyze(context.Background(), tc.query)
			require.Error(t, err)
			assert.Nil(t, report)

			var fe *FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tc.message, fe.Error())
			assert.Equal(t, tc.query.Scope, fe.Scope)
			assert.ErrorIs(t, err, cause)
			assert.Empty(t, sink.reports)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues(string(tc.query.Scope), metrics.OutcomeError)))
		})
	}
}

func TestAnalyzeRejectsInvalidQuery(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := newTestService(t, searcher, Options{})

	_, err := svc.Analyze(context.Background(), domain.Query{Text: "  ", Limit: 50, Scope: domain.ScopeAll})
	require.ErrorIs(t, err, domain.ErrInvalidQuery)
	assert.Zero(t, searcher.calls)
}

func TestAnalyzeRunsEnricher(t *testing.T) {
	searcher := &fakeSearcher{subs: []domain.Submission{{ID: "x", Title: "Link post", URL: "https://example.com"}}}
	enricher := &stubEnricher{}
	svc := newTestService(t, searcher, Options{Enricher: enricher})

	report, err := svc.Analyze(context.Background(), subredditQuery())
	require.NoError(t, err)

	assert.True(t, enricher.called)
	require.Len(t, report.Items, 1)
	assert.Equal(t, "Link post great article", report.Items[0].Text)
	assert.Equal(t, domain.Positive, report.Items[0].Sentiment)
}

func TestSinkFailureDoesNotFailAnalysis(t *testing.T) {
	searcher := &fakeSearcher{subs: []domain.Submission{{ID: "x", Title: "hello", IsSelf: true}}}
	bad := &fakeSink{err: errors.New("down")}
	good := &fakeSink{}
	svc := newTestService(t, searcher, Options{Sinks: []Sink{bad, nil, good}})

	report, err := svc.Analyze(context.Background(), subredditQuery())
	require.NoError(t, err)
	assert.NotNil(t, report)
	assert.Len(t, good.reports, 1)
}

func TestHistorySinkArchivesSummary(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	searcher := &fakeSearcher{subs: []domain.Submission{{ID: "x", Title: "love this", IsSelf: true}}}
	svc := newTestService(t, searcher, Options{Sinks: []Sink{HistorySink(store)}})

	_, err = svc.Analyze(context.Background(), subredditQuery())
	require.NoError(t, err)

	entries, err := store.Recent(5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "technology", entries[0].Query.Subreddit)
	assert.Equal(t, 1, entries[0].Summary.Positive)
}

func TestNewServiceRequiresCollaborators(t *testing.T) {
	_, err := NewService(nil, sentiment.NewAnalyzer(nil), Options{})
	assert.Error(t, err)
	_, err = NewService(&fakeSearcher{}, nil, Options{})
	assert.Error(t, err)
}
