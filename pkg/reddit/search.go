package reddit

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Adda-Baaj/reddit-sentiment/internal/domain"
)

// Search returns up to q.Limit submissions matching q.Text, each with its
// top-level comments. Any failure aborts the whole search.
func (c *Client) Search(ctx context.Context, q domain.Query) ([]domain.Submission, error) {
	subs, err := c.searchSubmissions(ctx, q)
	if err != nil {
		return nil, err
	}

	for i := range subs {
		comments, err := c.Comments(ctx, subs[i].ID)
		if err != nil {
			return nil, fmt.Errorf("comments for %s: %w", subs[i].ID, err)
		}
		subs[i].Comments = comments
	}

	c.log.InfoObj("reddit search completed", "reddit_search", map[string]any{
		"query":       q.Text,
		"subreddit":   q.Community(),
		"submissions": len(subs),
	})
	return subs, nil
}

// searchSubmissions pages through the search listing until the limit is
// reached or Reddit runs out of results.
func (c *Client) searchSubmissions(ctx context.Context, q domain.Query) ([]domain.Submission, error) {
	path := "/r/" + url.PathEscape(q.Community()) + "/search"
	var (
		out   []domain.Submission
		after string
	)

	for len(out) < q.Limit {
		pageSize := min(q.Limit-len(out), maxPageSize)
		params := map[string]string{
			"q":           q.Text,
			"restrict_sr": "1",
			"sort":        "relevance",
			"t":           "all",
			"limit":       strconv.Itoa(pageSize),
			"raw_json":    "1",
		}
		if after != "" {
			params["after"] = after
		}

		raw, err := c.get(ctx, path, params)
		if err != nil {
			return nil, err
		}
		page, next, err := parseSearchListing(raw)
		if err != nil {
			return nil, err
		}

		c.log.DebugObj("reddit search page", "reddit_search_page", map[string]any{
			"subreddit": q.Community(),
			"page_size": len(page),
			"after":     next,
		})

		out = append(out, page...)
		if next == "" || len(page) == 0 {
			break
		}
		after = next
	}

	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Comments returns the top-level comments of a submission.
func (c *Client) Comments(ctx context.Context, submissionID string) ([]domain.Comment, error) {
	raw, err := c.get(ctx, "/comments/"+url.PathEscape(submissionID), map[string]string{
		"depth":    "1",
		"raw_json": "1",
	})
	if err != nil {
		return nil, err
	}
	return parseCommentListing(raw)
}
