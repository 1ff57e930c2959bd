package sentiment

import "github.com/Adda-Baaj/reddit-sentiment/internal/domain"

const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// Classify buckets a compound score. Both thresholds are inclusive.
func Classify(compound float64) domain.Sentiment {
	switch {
	case compound >= PositiveThreshold:
		return domain.Positive
	case compound <= NegativeThreshold:
		return domain.Negative
	default:
		return domain.Neutral
	}
}
