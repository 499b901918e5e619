// Package intent maps a natural-language query onto the closed intent set.
package intent

import (
	"context"
	"strings"

	"financial-graphrag/internal/keywords"
	"financial-graphrag/internal/models"
)

// Classifier always returns exactly one valid intent.
type Classifier interface {
	Classify(ctx context.Context, query string, entities *models.EntityBundle) models.Intent
}

// Rule pairs a keyword group with the intent it selects.
type Rule struct {
	Intent   models.Intent
	Keywords *keywords.Set
}

// DefaultRules is the priority chain; the first matching group wins.
// Groups overlap ("market outlook", "hot in the market"), so the order is load-bearing.
var DefaultRules = []Rule{
	{models.IntentSentimentAnalysis, keywords.New(
		"sentiment", "mood", "feeling", "feel", "outlook", "tone", "perception", "attitude", "view",
		"positive", "negative", "bullish", "bearish",
	)},
	{models.IntentCompanyNews, keywords.New(
		"news", "article", "headline", "report", "press", "update", "story", "stories", "coverage",
	)},
	{models.IntentCompanyEvents, keywords.New(
		"event", "earnings", "merger", "acquisition", "ipo", "dividend", "announcement",
	)},
	{models.IntentSectorCompanies, keywords.New(
		"sector", "industry", "industries", "vertical", "category", "categories", "segment",
		"tech companies", "tech stocks",
	)},
	{models.IntentMarketOverview, keywords.New(
		"market", "overview", "summary", "summaries", "snapshot", "status", "breakdown", "overall",
		"performing", "performance",
	)},
	{models.IntentTrendingNews, keywords.New(
		"trending", "trend", "popular", "hot", "spotlight", "buzz", "attention", "viral", "most mentioned",
	)},
	{models.IntentCompanyRelationships, keywords.New(
		"relationship", "connection", "connected", "related", "similar", "peer", "competitor", "rival",
	)},
}

// RuleBased is the self-sufficient keyword classifier. It is pure and deterministic.
type RuleBased struct {
	rules []Rule
}

func NewRuleBased() *RuleBased {
	return &RuleBased{rules: DefaultRules}
}

func (r *RuleBased) Classify(_ context.Context, query string, _ *models.EntityBundle) models.Intent {
	lower := strings.ToLower(query)
	for _, rule := range r.rules {
		if rule.Keywords.Matches(lower) {
			return rule.Intent
		}
	}
	return models.DefaultIntent
}
