package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Domain contains core models shared by the fetch, analysis and presentation layers.

var (
	ErrMissingCredentials = errors.New("missing reddit credentials")
	ErrInvalidQuery       = errors.New("invalid query")
)

const (
	MinLimit = 10
	MaxLimit = 200

	// AllSubreddit is the pseudo-subreddit searched for ScopeAll.
	AllSubreddit = "all"
)

var subredditPattern = regexp.MustCompile(`^[A-Za-z0-9_]{2,21}$`)

// Scope selects where a search runs.
type Scope string

const (
	ScopeSubreddit Scope = "subreddit"
	ScopeAll       Scope = "all"
)

// ParseScope accepts the CLI/API spellings of a scope.
func ParseScope(raw string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "subreddit", "sub", "":
		return ScopeSubreddit, nil
	case "all", "all of reddit", "global":
		return ScopeAll, nil
	default:
		return "", fmt.Errorf("%w: unknown scope %q", ErrInvalidQuery, raw)
	}
}

// Query is the user input for one analysis request.
type Query struct {
	Text      string `json:"query"`
	Limit     int    `json:"limit"`
	Scope     Scope  `json:"scope"`
	Subreddit string `json:"subreddit,omitempty"`
}

// Validate normalizes q in place and reports the first problem found.
func (q *Query) Validate() error {
	q.Text = strings.TrimSpace(q.Text)
	q.Subreddit = strings.TrimPrefix(strings.TrimSpace(q.Subreddit), "r/")
	if q.Scope == "" {
		q.Scope = ScopeSubreddit
	}

	if q.Text == "" {
		return fmt.Errorf("%w: query text is empty", ErrInvalidQuery)
	}
	if q.Limit < MinLimit || q.Limit > MaxLimit {
		return fmt.Errorf("%w: limit %d outside [%d,%d]", ErrInvalidQuery, q.Limit, MinLimit, MaxLimit)
	}
	switch q.Scope {
	case ScopeSubreddit:
		if !subredditPattern.MatchString(q.Subreddit) {
			return fmt.Errorf("%w: subreddit name %q is not valid", ErrInvalidQuery, q.Subreddit)
		}
	case ScopeAll:
	default:
		return fmt.Errorf("%w: unknown scope %q", ErrInvalidQuery, q.Scope)
	}
	return nil
}

// Community returns the subreddit the search is restricted to.
func (q Query) Community() string {
	if q.Scope == ScopeAll {
		return AllSubreddit
	}
	return q.Subreddit
}

// Comment is a top-level reply to a submission.
type Comment struct {
	Body  string
	Score int
}

// Submission is a top-level post with its first level of comments.
type Submission struct {
	ID        string
	Title     string
	Body      string
	URL       string
	Permalink string
	Score     int
	IsSelf    bool
	Comments  []Comment
}

// Text is the string scored for the submission itself.
func (s Submission) Text() string {
	return s.Title + " " + s.Body
}

// Record is a fetched piece of text before analysis.
type Record struct {
	Text  string
	Score int
}

// Records flattens submissions into records: each submission's comments
// first, then the submission itself.
func Records(subs []Submission) []Record {
	var out []Record
	for _, s := range subs {
		for _, c := range s.Comments {
			out = append(out, Record{Text: c.Body, Score: c.Score})
		}
		out = append(out, Record{Text: s.Text(), Score: s.Score})
	}
	return out
}
