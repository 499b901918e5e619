package models

// NamedEntity is a raw span reported by a named-entity recognizer.
type NamedEntity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

type Sentiment struct {
	Label SentimentLabel `json:"label"`
	Score float64        `json:"score"`
}

// NeutralSentiment is the result used whenever scoring is not possible.
var NeutralSentiment = Sentiment{Label: SentimentNeutral, Score: 0.0}

type Event struct {
	Type       string  `json:"type"`
	Keyword    string  `json:"keyword"`
	Confidence float64 `json:"confidence"`
}

type Article struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Content  string `json:"content"`
}

type ArticleAnalysis struct {
	Entities  *EntityBundle `json:"entities"`
	Sentiment Sentiment     `json:"sentiment"`
	Events    []Event       `json:"events"`
}
