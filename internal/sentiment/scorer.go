package sentiment

import (
	"github.com/jonreiter/govader"
)

// Scorer returns a compound polarity score in [-1, 1] for text.
type Scorer interface {
	Score(text string) float64
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(text string) float64

func (f ScorerFunc) Score(text string) float64 { return f(text) }

// VaderScorer scores text with the VADER lexicon.
type VaderScorer struct {
	sia *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer loads the embedded VADER lexicon. The analyzer is read-only
// after construction and safe to share between requests.
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{sia: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderScorer) Score(text string) float64 {
	return v.sia.PolarityScores(text).Compound
}
