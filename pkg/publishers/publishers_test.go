package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adda-Baaj/reddit-sentiment/internal/aggregate"
	"github.com/Adda-Baaj/reddit-sentiment/internal/domain"
	"github.com/Adda-Baaj/reddit-sentiment/internal/logger"
)

func testEvent() Event {
	q := domain.Query{Text: "golang", Limit: 50, Scope: domain.ScopeSubreddit, Subreddit: "programming"}
	s := aggregate.Summary{Total: 6, Positive: 3, Negative: 1, Neutral: 2}
	return NewEvent(q, s, time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC))
}

func TestNewEvent(t *testing.T) {
	evt := testEvent()
	assert.Len(t, evt.ID, 40)
	assert.Equal(t, "golang", evt.Query)
	assert.Equal(t, "subreddit", evt.Scope)
	assert.Equal(t, "programming", evt.Subreddit)
	assert.Equal(t, 6, evt.Total)
	assert.Equal(t, testEvent().ID, evt.ID)

	all := NewEvent(domain.Query{Text: "x", Scope: domain.ScopeAll, Subreddit: "ignored"}, aggregate.Summary{}, time.Now())
	assert.Equal(t, "all", all.Subreddit)
}

func TestHTTPPublisher(t *testing.T) {
	var got Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "yes", r.Header.Get("X-Test"))
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	pub, err := DefaultRegistry().PublisherFor(context.Background(), PublisherConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{URL: srv.URL, Method: http.MethodPut, Headers: map[string]string{"X-Test": "yes"}, TimeoutSeconds: 2},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "hook", pub.ID())
	assert.Equal(t, TypeHTTP, pub.Type())

	evt := testEvent()
	require.NoError(t, pub.Publish(context.Background(), evt))
	assert.Equal(t, evt.ID, got.ID)
	assert.Equal(t, 3, got.Positive)
}

func TestHTTPPublisherRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	fan, err := BuildAll(context.Background(), nil, []PublisherConfig{{
		ID: "hook", Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{URL: srv.URL, Method: http.MethodPost, TimeoutSeconds: 2},
	}}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, fan.Len())

	err = fan.Publish(context.Background(), testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestBuildAllUnknownType(t *testing.T) {
	_, err := BuildAll(context.Background(), NewRegistry(nil), []PublisherConfig{{ID: "x", Type: "smoke"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"x"`)
}

type stubPublisher struct {
	id    string
	err   error
	calls int
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return "stub" }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}

func TestFanoutContinuesPastFailures(t *testing.T) {
	boom := errors.New("boom")
	a := &stubPublisher{id: "a", err: boom}
	b := &stubPublisher{id: "b"}

	err := NewFanout([]Publisher{a, b}, logger.NopLogger{}).Publish(context.Background(), testEvent())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)

	var nilFan *Fanout
	assert.NoError(t, nilFan.Publish(context.Background(), testEvent()))
	assert.Zero(t, nilFan.Len())
}

type fakeSQS struct {
	input *sqs.SendMessageInput
}

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = in
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

func TestSQSSender(t *testing.T) {
	fake := &fakeSQS{}
	sender := &awsSQSSender{queueURL: "https://sqs.local/q", client: fake, log: logger.NopLogger{}}

	evt := testEvent()
	require.NoError(t, sender.Send(context.Background(), evt))

	require.NotNil(t, fake.input)
	assert.Equal(t, "https://sqs.local/q", aws.ToString(fake.input.QueueUrl))
	assert.Equal(t, "programming", aws.ToString(fake.input.MessageAttributes["subreddit"].StringValue))

	var decoded Event
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(fake.input.MessageBody)), &decoded))
	assert.Equal(t, evt.ID, decoded.ID)
}

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("m-2")}, nil
}

func TestSNSSender(t *testing.T) {
	fake := &fakeSNS{}
	sender := &awsSNSSender{topicARN: "arn:aws:sns:us-east-1:1:t", client: fake, log: logger.NopLogger{}}

	require.NoError(t, sender.Send(context.Background(), testEvent()))
	assert.Equal(t, "arn:aws:sns:us-east-1:1:t", aws.ToString(fake.input.TopicArn))
	assert.Equal(t, "reddit sentiment: golang", aws.ToString(fake.input.Subject))

	fake.err = errors.New("throttled")
	err := sender.Send(context.Background(), testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héllo", truncate("héllo", 10))
	assert.Equal(t, "hé", truncate("héllo", 2))
}
