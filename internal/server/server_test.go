package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adda-Baaj/reddit-sentiment/internal/aggregate"
	"github.com/Adda-Baaj/reddit-sentiment/internal/domain"
	"github.com/Adda-Baaj/reddit-sentiment/internal/metrics"
	"github.com/Adda-Baaj/reddit-sentiment/internal/pipeline"
)

type analyzerFunc func(ctx context.Context, q domain.Query) (*pipeline.Report, error)

func (f analyzerFunc) Analyze(ctx context.Context, q domain.Query) (*pipeline.Report, error) {
	return f(ctx, q)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := New(":0", nil, nil, false, nil)
	rec := do(t, s, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsRoute(t *testing.T) {
	s := New(":0", nil, metrics.New(), false, nil)
	rec := do(t, s, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestAnalyzeReturnsReport(t *testing.T) {
	var got domain.Query
	a := analyzerFunc(func(_ context.Context, q domain.Query) (*pipeline.Report, error) {
		got = q
		items := []domain.Item{{Text: "nice", Compound: 0.42, Sentiment: domain.Positive}}
		return &pipeline.Report{Query: q, Items: items, Summary: aggregate.Summarize(items), State: pipeline.StateResults}, nil
	})
	s := New(":0", a, nil, false, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/analyze",
		`{"query":"AI","limit":50,"scope":"subreddit","subreddit":"technology"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "AI", got.Text)
	assert.Equal(t, domain.ScopeSubreddit, got.Scope)

	var body struct {
		State   string `json:"state"`
		Summary struct {
			Total    int `json:"total"`
			Positive int `json:"positive"`
		} `json:"summary"`
		Items []struct {
			Sentiment string `json:"sentiment"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "results", body.State)
	assert.Equal(t, 1, body.Summary.Total)
	assert.Equal(t, 1, body.Summary.Positive)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Positive", body.Items[0].Sentiment)
}

func TestAnalyzeNormalizesScope(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.Scope
	}{
		{raw: "All of Reddit", want: domain.ScopeAll},
		{raw: "global", want: domain.ScopeAll},
		{raw: " Subreddit ", want: domain.ScopeSubreddit},
		{raw: "", want: domain.ScopeSubreddit},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var got domain.Query
			a := analyzerFunc(func(_ context.Context, q domain.Query) (*pipeline.Report, error) {
				got = q
				return &pipeline.Report{Query: q, Items: []domain.Item{}, State: pipeline.StateNoResults}, nil
			})
			body := `{"query":"AI","limit":10,"scope":"` + tt.raw + `","subreddit":"technology"}`
			rec := do(t, New(":0", a, nil, false, nil), http.MethodPost, "/api/v1/analyze", body)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, got.Scope)
		})
	}
}

func TestAnalyzeNoResults(t *testing.T) {
	a := analyzerFunc(func(_ context.Context, q domain.Query) (*pipeline.Report, error) {
		return &pipeline.Report{Query: q, Items: []domain.Item{}, State: pipeline.StateNoResults}, nil
	})
	s := New(":0", a, nil, false, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/analyze", `{"query":"zzz","limit":10,"scope":"all"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"no_results"`)
}

func TestAnalyzeErrors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
		msg    string
	}{
		{name: "malformed body", body: `{`, status: http.StatusBadRequest, msg: "invalid request body"},
		{
			name:   "unknown scope",
			body:   `{"query":"AI","limit":10,"scope":"galaxy"}`,
			status: http.StatusBadRequest,
			msg:    "unknown scope",
		},
		{
			name:   "invalid query",
			body:   `{"query":"","limit":5}`,
			err:    domain.ErrInvalidQuery,
			status: http.StatusBadRequest,
			msg:    "invalid query",
		},
		{
			name: "fetch error",
			body: `{"query":"AI","limit":10,"scope":"all"}`,
			err: &pipeline.FetchError{
				Scope:   domain.ScopeAll,
				Message: "Error searching all of Reddit: 503",
				Err:     errors.New("503"),
			},
			status: http.StatusBadGateway,
			msg:    "Error searching all of Reddit: 503",
		},
		{
			name:   "unexpected",
			body:   `{"query":"AI","limit":10,"scope":"all"}`,
			err:    errors.New("kaboom"),
			status: http.StatusInternalServerError,
			msg:    "internal error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := analyzerFunc(func(context.Context, domain.Query) (*pipeline.Report, error) {
				return nil, tc.err
			})
			rec := do(t, New(":0", a, nil, false, nil), http.MethodPost, "/api/v1/analyze", tc.body)

			assert.Equal(t, tc.status, rec.Code)
			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body.Error, tc.msg)
		})
	}
}
