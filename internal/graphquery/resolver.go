// Package graphquery maps an intent and its extracted entities to one of a fixed
// set of parameterized Cypher templates.
package graphquery

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"financial-graphrag/internal/keywords"
	"financial-graphrag/internal/models"
)

// Sectors is the allow-list scanned in the raw query text, in priority order.
var Sectors = []string{"technology", "healthcare", "financial", "energy", "consumer", "industrial"}

// ResolveFunc builds the query for one intent. It must be pure.
type ResolveFunc func(entities *models.EntityBundle, rawQuery string) models.QuerySpec

// Resolver holds one ResolveFunc per intent.
type Resolver struct {
	resolvers map[models.Intent]ResolveFunc
	sectors   *keywords.Set
}

func NewResolver() *Resolver {
	r := &Resolver{
		sectors: keywords.New(Sectors...),
	}
	r.resolvers = map[models.Intent]ResolveFunc{
		models.IntentCompanyInfo:          resolveCompanyInfo,
		models.IntentCompanyNews:          resolveCompanyNews,
		models.IntentCompanyEvents:        resolveCompanyEvents,
		models.IntentSectorCompanies:      r.resolveSectorCompanies,
		models.IntentCompanyRelationships: resolveRelationships,
		models.IntentSentimentAnalysis:    resolveSentiment,
		models.IntentMarketOverview:       resolveMarketOverview,
		models.IntentTrendingNews:         resolveTrendingNews,
	}
	return r
}

// Resolve returns the query spec for intent. Unknown intents resolve as company_info.
func (r *Resolver) Resolve(intent models.Intent, entities *models.EntityBundle, rawQuery string) models.QuerySpec {
	if entities == nil {
		entities = models.NewEntityBundle()
	}
	fn, ok := r.resolvers[intent]
	if !ok {
		intent = models.DefaultIntent
		fn = r.resolvers[intent]
	}
	spec := fn(entities, rawQuery)
	spec.Intent = intent
	return spec
}

// Sector returns the title-cased allow-listed sector named in rawQuery.
func (r *Resolver) Sector(rawQuery string) (string, bool) {
	s, ok := r.sectors.First(strings.ToLower(rawQuery))
	if !ok {
		return "", false
	}
	return cases.Title(language.English).String(s), true
}

func build(id models.TemplateID, params map[string]string) models.QuerySpec {
	t := Templates[id]
	if params == nil {
		params = map[string]string{}
	}
	return models.QuerySpec{
		TemplateID: t.ID,
		Cypher:     strings.TrimSpace(t.Cypher),
		Params:     params,
		Limit:      t.Limit,
	}
}

func resolveCompanyInfo(e *models.EntityBundle, _ string) models.QuerySpec {
	if symbol, ok := e.FirstTicker(); ok {
		return build(TemplateCompanyBySymbol, map[string]string{"symbol": symbol})
	}
	if name, ok := e.FirstCompany(); ok {
		return build(TemplateCompanyByName, map[string]string{"company_name": name})
	}
	return build(TemplateTopCompanies, nil)
}

func resolveCompanyNews(e *models.EntityBundle, _ string) models.QuerySpec {
	if symbol, ok := e.FirstTicker(); ok {
		return build(TemplateCompanyNews, map[string]string{"symbol": symbol})
	}
	return build(TemplateRecentNews, nil)
}

func resolveCompanyEvents(e *models.EntityBundle, _ string) models.QuerySpec {
	if symbol, ok := e.FirstTicker(); ok {
		return build(TemplateCompanyEvents, map[string]string{"symbol": symbol})
	}
	return build(TemplateRecentEvents, nil)
}

func (r *Resolver) resolveSectorCompanies(_ *models.EntityBundle, rawQuery string) models.QuerySpec {
	if sector, ok := r.Sector(rawQuery); ok {
		return build(TemplateSectorCompanies, map[string]string{"sector": sector})
	}
	return build(TemplateSectorCounts, nil)
}

func resolveRelationships(e *models.EntityBundle, _ string) models.QuerySpec {
	if symbol, ok := e.FirstTicker(); ok {
		return build(TemplateCompanyPeers, map[string]string{"symbol": symbol})
	}
	return build(TemplateRelationships, nil)
}

func resolveSentiment(e *models.EntityBundle, _ string) models.QuerySpec {
	if symbol, ok := e.FirstTicker(); ok {
		return build(TemplateCompanySentiment, map[string]string{"symbol": symbol})
	}
	return build(TemplateSentimentByCompany, nil)
}

func resolveMarketOverview(_ *models.EntityBundle, _ string) models.QuerySpec {
	return build(TemplateMarketOverview, nil)
}

func resolveTrendingNews(_ *models.EntityBundle, _ string) models.QuerySpec {
	return build(TemplateTrendingNews, nil)
}
