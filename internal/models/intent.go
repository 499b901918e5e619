// internal/models/intent.go
package models

import "strings"

type Intent string

const (
	IntentCompanyInfo          Intent = "company_info"
	IntentCompanyNews          Intent = "company_news"
	IntentCompanyEvents        Intent = "company_events"
	IntentSectorCompanies      Intent = "sector_companies"
	IntentCompanyRelationships Intent = "company_relationships"
	IntentSentimentAnalysis    Intent = "sentiment_analysis"
	IntentMarketOverview       Intent = "market_overview"
	IntentTrendingNews         Intent = "trending_news"
)

// DefaultIntent is returned whenever nothing more specific matches.
const DefaultIntent = IntentCompanyInfo

// AllIntents lists the closed intent set in declaration order.
var AllIntents = []Intent{
	IntentCompanyInfo,
	IntentCompanyNews,
	IntentCompanyEvents,
	IntentSectorCompanies,
	IntentCompanyRelationships,
	IntentSentimentAnalysis,
	IntentMarketOverview,
	IntentTrendingNews,
}

var intentDescriptions = map[Intent]string{
	IntentCompanyInfo:          "details about a specific company (price, sector, market cap, fundamentals)",
	IntentCompanyNews:          "news articles, headlines or press coverage about a company",
	IntentCompanyEvents:        "corporate events such as earnings, mergers, acquisitions or dividends",
	IntentSectorCompanies:      "companies that belong to a sector or industry",
	IntentCompanyRelationships: "companies related or similar to a company, peers and competitors",
	IntentSentimentAnalysis:    "market or investor sentiment, mood or outlook",
	IntentMarketOverview:       "an overview or summary of the whole market by sector",
	IntentTrendingNews:         "trending, popular or most mentioned companies and their news",
}

func (i Intent) String() string {
	return string(i)
}

func (i Intent) Description() string {
	return intentDescriptions[i]
}

func (i Intent) Valid() bool {
	_, ok := intentDescriptions[i]
	return ok
}

// ParseIntent matches s exactly (after trimming and lower-casing) against the intent set.
func ParseIntent(s string) (Intent, bool) {
	candidate := Intent(strings.ToLower(strings.TrimSpace(s)))
	if candidate.Valid() {
		return candidate, true
	}
	return "", false
}
