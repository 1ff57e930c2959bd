// Package app assembles the analysis service from configuration.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Adda-Baaj/reddit-sentiment/internal/config"
	"github.com/Adda-Baaj/reddit-sentiment/internal/crawler"
	"github.com/Adda-Baaj/reddit-sentiment/internal/history"
	"github.com/Adda-Baaj/reddit-sentiment/internal/logger"
	"github.com/Adda-Baaj/reddit-sentiment/internal/metrics"
	"github.com/Adda-Baaj/reddit-sentiment/internal/pipeline"
	"github.com/Adda-Baaj/reddit-sentiment/internal/sentiment"
	"github.com/Adda-Baaj/reddit-sentiment/pkg/httpclient"
	"github.com/Adda-Baaj/reddit-sentiment/pkg/publishers"
	"github.com/Adda-Baaj/reddit-sentiment/pkg/reddit"
)

// App holds the long-lived collaborators of one process.
type App struct {
	Service *pipeline.Service
	Metrics *metrics.Metrics
	History *history.Store
	Log     logger.Logger
}

// Build validates cfg and wires the Reddit client, analyzer and optional
// enrichment, publishers and history archive.
func Build(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	log = logger.Ensure(log)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := httpclient.NewRestyClient(cfg.Reddit.Timeout)
	client, err := reddit.NewClient(cfg.Reddit.Credentials(), cfg.Reddit.Options(), httpClient, log)
	if err != nil {
		return nil, fmt.Errorf("reddit client: %w", err)
	}

	a := &App{Metrics: metrics.New(), Log: log}
	opts := pipeline.Options{Metrics: a.Metrics, Logger: log}

	if cfg.Enrich.Links {
		opts.Enricher = crawler.NewScraper(httpClient, crawler.Options{
			Workers:      cfg.Enrich.Workers,
			RequestDelay: cfg.Enrich.RequestDelay,
			UserAgent:    cfg.Reddit.UserAgent,
		}, log)
	}

	if cfg.Publishers.File != "" {
		pubCfgs, err := publishers.LoadConfigs(cfg.Publishers.File)
		if err != nil {
			return nil, fmt.Errorf("load publishers: %w", err)
		}
		fanout, err := publishers.BuildAll(ctx, nil, pubCfgs, log)
		if err != nil {
			return nil, err
		}
		log.InfoObj("publishers configured", "publishers_loaded", map[string]any{"count": fanout.Len()})
		opts.Sinks = append(opts.Sinks, pipeline.PublisherSink(fanout))
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		a.History = store
		opts.Sinks = append(opts.Sinks, pipeline.HistorySink(store))
	}

	svc, err := pipeline.NewService(client, sentiment.NewAnalyzer(nil), opts)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}
	a.Service = svc
	return a, nil
}

// Close releases the history archive, if open.
func (a *App) Close() error {
	if a == nil || a.History == nil {
		return nil
	}
	return a.History.Close()
}
