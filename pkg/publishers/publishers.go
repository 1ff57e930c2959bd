// Package publishers exports analysis summaries to webhooks and cloud queues.
package publishers

import (
	"context"
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Adda-Baaj/reddit-sentiment/internal/aggregate"
	"github.com/Adda-Baaj/reddit-sentiment/internal/domain"
	"github.com/Adda-Baaj/reddit-sentiment/internal/logger"
)

// Logger is the logger used by publishers.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger { return logger.Ensure(log) }

// Event is the payload sent to every sink after an analysis. It carries the
// aggregate only; individual posts and comments are never exported.
type Event struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Scope     string    `json:"scope"`
	Subreddit string    `json:"subreddit"`
	Total     int       `json:"total"`
	Positive  int       `json:"positive"`
	Negative  int       `json:"negative"`
	Neutral   int       `json:"neutral"`
	FetchedAt time.Time `json:"fetched_at"`
}

// NewEvent builds the event for one finished analysis.
func NewEvent(q domain.Query, s aggregate.Summary, fetchedAt time.Time) Event {
	fetchedAt = fetchedAt.UTC()
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|%s|%s|%d", q.Text, q.Scope, q.Community(), fetchedAt.UnixNano())))
	return Event{
		ID:        hex.EncodeToString(sum[:]),
		Query:     q.Text,
		Scope:     string(q.Scope),
		Subreddit: q.Community(),
		Total:     s.Total,
		Positive:  s.Positive,
		Negative:  s.Negative,
		Neutral:   s.Neutral,
		FetchedAt: fetchedAt,
	}
}

// Publisher delivers events to one sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Fanout publishes each event to every configured publisher.
type Fanout struct {
	pubs []Publisher
	log  Logger
}

// NewFanout wraps the given publishers.
func NewFanout(pubs []Publisher, log Logger) *Fanout {
	return &Fanout{pubs: pubs, log: ensureLogger(log)}
}

// Len reports how many publishers are attached.
func (f *Fanout) Len() int {
	if f == nil {
		return 0
	}
	return len(f.pubs)
}

// Publish sends evt to all publishers, continuing past failures, and returns
// the joined errors.
func (f *Fanout) Publish(ctx context.Context, evt Event) error {
	if f == nil {
		return nil
	}

	var errs []error
	for _, p := range f.pubs {
		if err := p.Publish(ctx, evt); err != nil {
			f.log.ErrorObj("publisher failed", "publisher_error", map[string]any{
				"publisher_id": p.ID(),
				"type":         p.Type(),
				"event_id":     evt.ID,
				"error":        err.Error(),
			})
			errs = append(errs, fmt.Errorf("publisher %s: %w", p.ID(), err))
			continue
		}
		f.log.DebugObj("event published", "publisher_delivery", map[string]any{
			"publisher_id": p.ID(),
			"event_id":     evt.ID,
		})
	}
	return errors.Join(errs...)
}
