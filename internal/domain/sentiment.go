package domain

// Sentiment is the bucket a compound score falls into.
type Sentiment int

const (
	Neutral Sentiment = iota
	Positive
	Negative
)

// Sentiments lists the buckets in display order.
var Sentiments = []Sentiment{Positive, Negative, Neutral}

func (s Sentiment) String() string {
	switch s {
	case Positive:
		return "Positive"
	case Negative:
		return "Negative"
	default:
		return "Neutral"
	}
}

func (s Sentiment) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Sentiment) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Positive":
		*s = Positive
	case "Negative":
		*s = Negative
	default:
		*s = Neutral
	}
	return nil
}

// Item is one analyzed piece of text.
type Item struct {
	Text             string    `json:"text"`
	Score            int       `json:"score"`
	PreprocessedText string    `json:"preprocessed_text"`
	Compound         float64   `json:"compound"`
	Sentiment        Sentiment `json:"sentiment"`
}
