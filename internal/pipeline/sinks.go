package pipeline

import (
	"context"

	"github.com/Adda-Baaj/reddit-sentiment/internal/history"
	"github.com/Adda-Baaj/reddit-sentiment/pkg/publishers"
)

type publisherSink struct {
	fanout *publishers.Fanout
}

// PublisherSink forwards each report as a publishers.Event.
func PublisherSink(f *publishers.Fanout) Sink {
	return publisherSink{fanout: f}
}

func (publisherSink) Name() string { return "publishers" }

func (p publisherSink) Consume(ctx context.Context, r *Report) error {
	if p.fanout.Len() == 0 {
		return nil
	}
	return p.fanout.Publish(ctx, publishers.NewEvent(r.Query, r.Summary, r.FetchedAt))
}

type historySink struct {
	store *history.Store
}

// HistorySink archives the summary of each report.
func HistorySink(s *history.Store) Sink {
	return historySink{store: s}
}

func (historySink) Name() string { return "history" }

func (h historySink) Consume(_ context.Context, r *Report) error {
	return h.store.Save(history.Entry{
		Query:     r.Query,
		Summary:   r.Summary,
		FetchedAt: r.FetchedAt,
	})
}
