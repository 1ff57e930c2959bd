// Package aggregate turns classified items into counts and a chart-ready distribution.
package aggregate

import (
	"sort"

	"github.com/Adda-Baaj/reddit-sentiment/internal/domain"
)

// Bucket is one row of the frequency table.
type Bucket struct {
	Sentiment domain.Sentiment `json:"sentiment"`
	Count     int              `json:"count"`
}

// Summary holds the totals for one analysis.
type Summary struct {
	Total        int      `json:"total"`
	Positive     int      `json:"positive"`
	Negative     int      `json:"negative"`
	Neutral      int      `json:"neutral"`
	Distribution []Bucket `json:"distribution"`
}

// Empty reports whether nothing was analyzed.
func (s Summary) Empty() bool { return s.Total == 0 }

// Count returns the count for one bucket.
func (s Summary) Count(sent domain.Sentiment) int {
	switch sent {
	case domain.Positive:
		return s.Positive
	case domain.Negative:
		return s.Negative
	default:
		return s.Neutral
	}
}

// Summarize counts items per sentiment. The distribution is sorted by count,
// highest first, ties in Positive/Negative/Neutral order, and leaves out
// empty buckets.
func Summarize(items []domain.Item) Summary {
	var s Summary
	for _, it := range items {
		switch it.Sentiment {
		case domain.Positive:
			s.Positive++
		case domain.Negative:
			s.Negative++
		default:
			s.Neutral++
		}
	}
	s.Total = s.Positive + s.Negative + s.Neutral

	s.Distribution = make([]Bucket, 0, len(domain.Sentiments))
	for _, sent := range domain.Sentiments {
		if n := s.Count(sent); n > 0 {
			s.Distribution = append(s.Distribution, Bucket{Sentiment: sent, Count: n})
		}
	}
	sort.SliceStable(s.Distribution, func(i, j int) bool {
		return s.Distribution[i].Count > s.Distribution[j].Count
	})
	return s
}
