// Package sentiment scores and classifies fetched text.
package sentiment

import (
	"github.com/Adda-Baaj/reddit-sentiment/internal/domain"
	"github.com/Adda-Baaj/reddit-sentiment/internal/textproc"
)

// Analyzer runs preprocessing, scoring and classification over records.
type Analyzer struct {
	scorer Scorer
}

// NewAnalyzer builds an Analyzer. A nil scorer falls back to VADER.
func NewAnalyzer(scorer Scorer) *Analyzer {
	if scorer == nil {
		scorer = NewVaderScorer()
	}
	return &Analyzer{scorer: scorer}
}

// Analyze returns one item per record, in input order. Blank text is kept
// and scores as Neutral.
func (a *Analyzer) Analyze(records []domain.Record) []domain.Item {
	items := make([]domain.Item, 0, len(records))
	for _, r := range records {
		items = append(items, a.AnalyzeText(r.Text, r.Score))
	}
	return items
}

// AnalyzeText analyzes a single piece of text.
func (a *Analyzer) AnalyzeText(text string, score int) domain.Item {
	clean := textproc.Preprocess(text)
	compound := a.scorer.Score(clean)
	return domain.Item{
		Text:             text,
		Score:            score,
		PreprocessedText: clean,
		Compound:         compound,
		Sentiment:        Classify(compound),
	}
}
