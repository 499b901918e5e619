// Package extraction pulls financial entities, sentiment and events out of free text.
package extraction

import (
	"context"
	"sort"
	"strings"

	"financial-graphrag/internal/common/logger"
	"financial-graphrag/internal/common/metrics"
	"financial-graphrag/internal/models"
)

// Recognizer is the named-entity recognition capability.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]models.NamedEntity, error)
}

// Extractor never fails: unavailable collaborators degrade to fewer entities.
type Extractor interface {
	Extract(ctx context.Context, text string) *models.EntityBundle
}

var labelCategories = map[string]models.EntityCategory{
	"ORG":     models.CategoryCompanies,
	"PERSON":  models.CategoryPeople,
	"GPE":     models.CategoryLocations,
	"LOC":     models.CategoryLocations,
	"MONEY":   models.CategoryMoney,
	"PERCENT": models.CategoryPercentages,
	"DATE":    models.CategoryDates,
}

// RuleBased combines NER output, the ticker heuristic and the alias table.
type RuleBased struct {
	ner     Recognizer
	aliases *AliasTable
	log     logger.Logger
}

// NewRuleBased accepts a nil recognizer; NER-backed categories then stay empty.
func NewRuleBased(ner Recognizer, aliases *AliasTable, log logger.Logger) *RuleBased {
	if aliases == nil {
		aliases = NewAliasTable(DefaultAliases)
	}
	return &RuleBased{
		ner:     ner,
		aliases: aliases,
		log:     log.With(map[string]interface{}{"component": "extraction.rules"}),
	}
}

func (r *RuleBased) Aliases() *AliasTable {
	return r.aliases
}

type positioned struct {
	pos   int
	value string
}

func (r *RuleBased) Extract(ctx context.Context, text string) *models.EntityBundle {
	bundle := models.NewEntityBundle()
	var companies, tickers []positioned

	for _, ent := range r.recognize(ctx, text) {
		cat, ok := labelCategories[ent.Label]
		if !ok {
			continue
		}
		if cat == models.CategoryCompanies {
			companies = append(companies, positioned{ent.Start, ent.Text})
			continue
		}
		bundle.Add(cat, ent.Text)
	}

	for _, hit := range findTickers(text) {
		tickers = append(tickers, positioned{hit.pos, hit.ticker})
	}
	for _, hit := range r.aliases.find(strings.ToLower(text)) {
		tickers = append(tickers, positioned{hit.pos, hit.ticker})
		companies = append(companies, positioned{hit.pos, hit.title})
	}

	bundle.Add(models.CategoryTickers, byPosition(tickers)...)
	bundle.Add(models.CategoryCompanies, byPosition(companies)...)
	return bundle
}

// Organizations returns the distinct ORG spans reported by the recognizer.
func (r *RuleBased) Organizations(ctx context.Context, text string) []string {
	bundle := models.NewEntityBundle()
	for _, ent := range r.recognize(ctx, text) {
		if ent.Label == "ORG" {
			bundle.Add(models.CategoryCompanies, ent.Text)
		}
	}
	return bundle.Companies
}

func (r *RuleBased) recognize(ctx context.Context, text string) []models.NamedEntity {
	if r.ner == nil || strings.TrimSpace(text) == "" {
		return nil
	}
	ents, err := r.ner.Recognize(ctx, text)
	if err != nil {
		metrics.Fallback("ner", "unavailable")
		logger.FromContext(ctx, r.log).Warn("Entity recognizer unavailable, continuing with heuristics", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return ents
}

// byPosition orders values by where they first appear; ties keep insertion order.
func byPosition(items []positioned) []string {
	sort.SliceStable(items, func(i, j int) bool { return items[i].pos < items[j].pos })
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.value)
	}
	return out
}
