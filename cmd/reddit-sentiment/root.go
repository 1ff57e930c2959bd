package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Adda-Baaj/reddit-sentiment/internal/app"
	"github.com/Adda-Baaj/reddit-sentiment/internal/config"
	"github.com/Adda-Baaj/reddit-sentiment/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfgFile string
	debug   bool

	v = config.New()

	rootCmd = &cobra.Command{
		Use:           "reddit-sentiment",
		Short:         "Keyword sentiment analysis for Reddit",
		Long:          `Fetches Reddit submissions and their top-level comments for a keyword and classifies each one as Positive, Negative or Neutral with VADER.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("history", "", "path of the bbolt history archive (disabled when empty)")
	rootCmd.PersistentFlags().String("publishers", "", "path of the publishers file (disabled when empty)")
	rootCmd.PersistentFlags().Bool("enrich-links", false, "fetch linked pages to describe link posts")

	mustBind("log.debug", "debug")
	mustBind("log.level", "log-level")
	mustBind("history.path", "history")
	mustBind("publishers.file", "publishers")
	mustBind("enrich.links", "enrich-links")

	rootCmd.AddCommand(
		newAnalyzeCommand(),
		newServeCommand(),
		newHistoryCommand(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "reddit-sentiment version %s\n", version)
			},
		},
	)
}

// errReported marks failures already shown to the user.
var errReported = errors.New("reported")

func mustBind(key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag, err))
	}
}

func mustBindLocal(cmd *cobra.Command, key, flag string) {
	if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag, err))
	}
}

// loadConfig resolves configuration and builds the logger.
func loadConfig(vp *viper.Viper) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(vp, config.Options{File: cfgFile})
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, log, nil
}

// buildApp loads configuration and wires the application. Missing Reddit
// credentials fail here, before any request is made.
func buildApp(ctx context.Context) (*app.App, *config.Config, error) {
	cfg, log, err := loadConfig(v)
	if err != nil {
		return nil, nil, err
	}
	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, err
	}
	return a, cfg, nil
}
