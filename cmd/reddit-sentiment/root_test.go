package main

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adda-Baaj/reddit-sentiment/internal/domain"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "reddit-sentiment version dev\n", out)
}

func TestAnalyzeRejectsUnknownScope(t *testing.T) {
	_, err := run(t, "analyze", "--scope", "galaxy")
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
}

func TestAnalyzeFailsWithoutCredentials(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"REDDIT_CLIENT_ID", "REDDIT_CLIENT_SECRET"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	_, err := run(t, "analyze", "--query", "golang", "--scope", "subreddit", "--subreddit", "golang")
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
}
