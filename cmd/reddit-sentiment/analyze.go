package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/reddit-sentiment/internal/domain"
	"github.com/Adda-Baaj/reddit-sentiment/internal/pipeline"
	"github.com/Adda-Baaj/reddit-sentiment/internal/render"
)

const (
	defaultQuery     = "AI"
	defaultLimit     = 50
	defaultSubreddit = "technology"
)

func newAnalyzeCommand() *cobra.Command {
	var (
		query     string
		limit     int
		scope     string
		subreddit string
		color     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze sentiment for a keyword",
		Example: `  reddit-sentiment analyze --query AI --limit 50 --scope subreddit --subreddit technology
  reddit-sentiment analyze -q "climate" -s all -l 100`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := domain.ParseScope(scope)
			if err != nil {
				return err
			}

			a, _, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
				_ = a.Log.Sync()
			}()

			out := render.New(cmd.OutOrStdout(), color)
			report, err := a.Service.Analyze(cmd.Context(), domain.Query{
				Text:      query,
				Limit:     limit,
				Scope:     parsed,
				Subreddit: subreddit,
			})
			var fe *pipeline.FetchError
			if errors.As(err, &fe) {
				out.Error(fe)
				return errReported
			}
			if err != nil {
				return err
			}
			out.Report(report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", defaultQuery, "keyword to search for")
	cmd.Flags().IntVarP(&limit, "limit", "l", defaultLimit, "number of submissions to fetch (10-200)")
	cmd.Flags().StringVarP(&scope, "scope", "s", string(domain.ScopeSubreddit), "search scope: subreddit or all")
	cmd.Flags().StringVarP(&subreddit, "subreddit", "r", defaultSubreddit, "subreddit to search when scope is subreddit")
	cmd.Flags().BoolVar(&color, "color", false, "colorize terminal output")
	return cmd
}
