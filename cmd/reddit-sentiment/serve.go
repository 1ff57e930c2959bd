package main

import (
	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/reddit-sentiment/internal/server"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cfg, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
				_ = a.Log.Sync()
			}()

			srv := server.New(cfg.Server.Addr, a.Service, a.Metrics, cfg.Log.Debug, a.Log)
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	mustBindLocal(cmd, "server.addr", "addr")
	return cmd
}
