package extraction

import (
	"context"

	"financial-graphrag/internal/models"
)

// Analyzer enriches a news article with entities, sentiment and events.
type Analyzer struct {
	extractor Extractor
	sentiment *SentimentAnalyzer
}

func NewAnalyzer(extractor Extractor, sentiment *SentimentAnalyzer) *Analyzer {
	return &Analyzer{extractor: extractor, sentiment: sentiment}
}

func (a *Analyzer) AnalyzeArticle(ctx context.Context, article models.Article) models.ArticleAnalysis {
	text := article.Headline + " " + article.Summary + " " + article.Content
	return models.ArticleAnalysis{
		Entities:  a.extractor.Extract(ctx, text),
		Sentiment: a.sentiment.Score(ctx, text),
		Events:    DetectEvents(text),
	}
}
