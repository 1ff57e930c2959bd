package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adda-Baaj/reddit-sentiment/internal/domain"
)

func TestObserveAnalysis(t *testing.T) {
	m := New()

	m.ObserveAnalysis(domain.ScopeSubreddit, OutcomeResults, map[domain.Sentiment]int{
		domain.Positive: 3,
		domain.Negative: 0,
		domain.Neutral:  2,
	})
	m.ObserveAnalysis(domain.ScopeAll, OutcomeError, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("subreddit", OutcomeResults)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("all", OutcomeError)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ItemsTotal.WithLabelValues("Positive")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ItemsTotal.WithLabelValues("Neutral")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveFetch(domain.ScopeAll, 1500*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "reddit_sentiment_fetch_duration_seconds_count")
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveFetch(domain.ScopeAll, time.Second)
	m.ObserveAnalysis(domain.ScopeAll, OutcomeResults, nil)
}
