package extraction

import (
	"context"

	"financial-graphrag/internal/common/logger"
	"financial-graphrag/internal/common/metrics"
	"financial-graphrag/internal/models"
)

// DefaultMaxSentimentChars bounds the text handed to the sentiment model.
const DefaultMaxSentimentChars = 512

type SentimentScorer interface {
	Score(ctx context.Context, text string) (models.Sentiment, error)
}

// SentimentAnalyzer never fails; an absent or failing scorer yields neutral/0.0.
type SentimentAnalyzer struct {
	scorer   SentimentScorer
	maxChars int
	log      logger.Logger
}

func NewSentimentAnalyzer(scorer SentimentScorer, maxChars int, log logger.Logger) *SentimentAnalyzer {
	if maxChars <= 0 {
		maxChars = DefaultMaxSentimentChars
	}
	return &SentimentAnalyzer{
		scorer:   scorer,
		maxChars: maxChars,
		log:      log.With(map[string]interface{}{"component": "extraction.sentiment"}),
	}
}

func (a *SentimentAnalyzer) Score(ctx context.Context, text string) models.Sentiment {
	if a.scorer == nil {
		return models.NeutralSentiment
	}
	s, err := a.scorer.Score(ctx, truncate(text, a.maxChars))
	if err != nil {
		metrics.Fallback("sentiment", "unavailable")
		logger.FromContext(ctx, a.log).Warn("Sentiment scoring failed, returning neutral", map[string]interface{}{"error": err.Error()})
		return models.NeutralSentiment
	}

	switch s.Label {
	case models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral:
	default:
		s.Label = models.SentimentNeutral
	}
	if s.Score < 0 {
		s.Score = 0
	} else if s.Score > 1 {
		s.Score = 1
	}
	return s
}

// truncate cuts text to at most n runes.
func truncate(text string, n int) string {
	if len(text) <= n {
		return text
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
