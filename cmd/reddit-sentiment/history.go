package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/reddit-sentiment/internal/history"
	"github.com/Adda-Baaj/reddit-sentiment/internal/render"
)

const defaultHistoryCount = 10

func newHistoryCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent analyses from the history archive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(v)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if cfg.History.Path == "" {
				return errors.New("history is disabled: set history.path or --history")
			}
			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.Recent(count)
			if err != nil {
				return err
			}
			render.New(cmd.OutOrStdout(), false).History(entries)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", defaultHistoryCount, "number of entries to show")
	return cmd
}
