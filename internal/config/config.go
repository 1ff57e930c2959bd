// Package config loads runtime settings from defaults, an optional YAML
// file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Adda-Baaj/reddit-sentiment/pkg/reddit"
)

// Config is the resolved application configuration.
type Config struct {
	Reddit     RedditConfig
	Log        LogConfig
	Server     ServerConfig
	Enrich     EnrichConfig
	History    HistoryConfig
	Publishers PublishersConfig
}

type RedditConfig struct {
	ClientID          string
	ClientSecret      string
	UserAgent         string
	AuthURL           string
	APIURL            string
	RequestsPerMinute int
	Timeout           time.Duration
}

// Credentials returns the OAuth application identity.
func (r RedditConfig) Credentials() reddit.Credentials {
	return reddit.Credentials{
		ClientID:     r.ClientID,
		ClientSecret: r.ClientSecret,
		UserAgent:    r.UserAgent,
	}
}

// Options returns the client tuning knobs.
func (r RedditConfig) Options() reddit.Options {
	return reddit.Options{
		AuthURL:           r.AuthURL,
		APIURL:            r.APIURL,
		RequestsPerMinute: r.RequestsPerMinute,
		Timeout:           r.Timeout,
	}
}

type LogConfig struct {
	Level string
	Debug bool
}

type ServerConfig struct {
	Addr string
}

// EnrichConfig controls fetching of linked pages for link submissions.
type EnrichConfig struct {
	Links        bool
	Workers      int
	RequestDelay time.Duration
}

type HistoryConfig struct {
	Path string
}

type PublishersConfig struct {
	File string
}

// Options control where Load looks.
type Options struct {
	// File is an explicit config file. When empty, config.yaml is searched in
	// the working directory and ./config.
	File string
	// EnvFiles are loaded with godotenv before the environment is read.
	// Missing files are ignored.
	EnvFiles []string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("reddit.user_agent", "reddit-sentiment/1.0")
	v.SetDefault("reddit.auth_url", reddit.DefaultAuthURL)
	v.SetDefault("reddit.api_url", reddit.DefaultAPIURL)
	v.SetDefault("reddit.requests_per_minute", 100)
	v.SetDefault("reddit.timeout", "15s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.debug", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("enrich.links", false)
	v.SetDefault("enrich.workers", 4)
	v.SetDefault("enrich.request_delay", "250ms")
	v.SetDefault("history.path", "")
	v.SetDefault("publishers.file", "")
}

// New returns a viper instance with defaults and environment binding.
// REDDIT_CLIENT_ID maps to reddit.client_id and so on.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads env files and the optional config file into v, then decodes.
func Load(v *viper.Viper, opts Options) (*Config, error) {
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv does not override variables that are already set.
		_ = godotenv.Load(f)
	}

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return Decode(v), nil
}

// Decode builds a Config from the current viper state.
func Decode(v *viper.Viper) *Config {
	return &Config{
		Reddit: RedditConfig{
			ClientID:          v.GetString("reddit.client_id"),
			ClientSecret:      v.GetString("reddit.client_secret"),
			UserAgent:         v.GetString("reddit.user_agent"),
			AuthURL:           v.GetString("reddit.auth_url"),
			APIURL:            v.GetString("reddit.api_url"),
			RequestsPerMinute: v.GetInt("reddit.requests_per_minute"),
			Timeout:           v.GetDuration("reddit.timeout"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
			Debug: v.GetBool("log.debug"),
		},
		Server: ServerConfig{Addr: v.GetString("server.addr")},
		Enrich: EnrichConfig{
			Links:        v.GetBool("enrich.links"),
			Workers:      v.GetInt("enrich.workers"),
			RequestDelay: v.GetDuration("enrich.request_delay"),
		},
		History:    HistoryConfig{Path: v.GetString("history.path")},
		Publishers: PublishersConfig{File: v.GetString("publishers.file")},
	}
}

// Validate fails when the Reddit credentials are incomplete. Every command
// that talks to Reddit calls it before doing any work.
func (c *Config) Validate() error {
	if err := c.Reddit.Credentials().Validate(); err != nil {
		return err
	}
	if c.Reddit.RequestsPerMinute <= 0 {
		return fmt.Errorf("reddit.requests_per_minute must be positive, got %d", c.Reddit.RequestsPerMinute)
	}
	if c.Enrich.Links && c.Enrich.Workers <= 0 {
		return fmt.Errorf("enrich.workers must be positive, got %d", c.Enrich.Workers)
	}
	return nil
}
