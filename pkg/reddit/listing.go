package reddit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/reddit-sentiment/internal/domain"
)

const (
	kindComment = "t1"
	kindLink    = "t3"
)

type listing struct {
	Kind string `json:"kind"`
	Data struct {
		After    string  `json:"after"`
		Children []thing `json:"children"`
	} `json:"data"`
}

type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type linkData struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Selftext  string `json:"selftext"`
	URL       string `json:"url"`
	Permalink string `json:"permalink"`
	Score     int    `json:"score"`
	IsSelf    bool   `json:"is_self"`
}

type commentData struct {
	Body  string `json:"body"`
	Score int    `json:"score"`
}

// parseSearchListing decodes a search listing into submissions without comments.
func parseSearchListing(raw []byte) ([]domain.Submission, string, error) {
	var l listing
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, "", fmt.Errorf("decode search listing: %w", err)
	}

	subs := make([]domain.Submission, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		if child.Kind != kindLink {
			continue
		}
		var d linkData
		if err := json.Unmarshal(child.Data, &d); err != nil {
			return nil, "", fmt.Errorf("decode submission: %w", err)
		}
		subs = append(subs, domain.Submission{
			ID:        d.ID,
			Title:     d.Title,
			Body:      d.Selftext,
			URL:       strings.TrimSpace(d.URL),
			Permalink: d.Permalink,
			Score:     d.Score,
			IsSelf:    d.IsSelf,
		})
	}
	return subs, l.Data.After, nil
}

// parseCommentListing decodes the [submission, comments] pair returned by
// /comments/{id} and keeps the top-level comments. "more" stubs are dropped.
func parseCommentListing(raw []byte) ([]domain.Comment, error) {
	var pair []listing
	if err := json.Unmarshal(raw, &pair); err != nil {
		return nil, fmt.Errorf("decode comment listing: %w", err)
	}
	if len(pair) < 2 {
		return nil, nil
	}

	comments := make([]domain.Comment, 0, len(pair[1].Data.Children))
	for _, child := range pair[1].Data.Children {
		if child.Kind != kindComment {
			continue
		}
		var d commentData
		if err := json.Unmarshal(child.Data, &d); err != nil {
			return nil, fmt.Errorf("decode comment: %w", err)
		}
		comments = append(comments, domain.Comment{Body: d.Body, Score: d.Score})
	}
	return comments, nil
}
