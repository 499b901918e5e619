package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"financial-graphrag/internal/common/logger"
	"financial-graphrag/internal/common/metrics"
	"financial-graphrag/internal/common/validation"
	"financial-graphrag/internal/llm"
	"financial-graphrag/internal/models"
)

var (
	ErrNoJSONObject   = errors.New("NO_JSON_OBJECT")
	ErrSchemaMismatch = errors.New("SCHEMA_MISMATCH")
)

const extractionTemperature = 0.1

var extractionSchema = validation.MustCompile(`{
  "type": "object",
  "properties": {
    "tickers":   {"type": ["array", "null"], "items": {"type": "string"}},
    "companies": {"type": ["array", "null"], "items": {"type": "string"}},
    "sectors":   {"type": ["array", "null"], "items": {"type": "string"}},
    "concepts":  {"type": ["array", "null"], "items": {"type": "string"}}
  }
}`)

// ModelResult is the part of a bundle the language model is trusted to produce.
type ModelResult struct {
	Tickers   []string `json:"tickers"`
	Companies []string `json:"companies"`
	Sectors   []string `json:"sectors"`
	Concepts  []string `json:"concepts"`
}

// ModelAssisted refines RuleBased output with a structured-extraction prompt.
// With a nil generator it behaves exactly like the wrapped RuleBased.
type ModelAssisted struct {
	rules *RuleBased
	gen   llm.Generator
	log   logger.Logger
}

func NewModelAssisted(rules *RuleBased, gen llm.Generator, log logger.Logger) *ModelAssisted {
	return &ModelAssisted{
		rules: rules,
		gen:   gen,
		log:   log.With(map[string]interface{}{"component": "extraction.model"}),
	}
}

func (m *ModelAssisted) Extract(ctx context.Context, text string) *models.EntityBundle {
	ruled := m.rules.Extract(ctx, text)
	if !llm.Available(m.gen) {
		return ruled
	}

	result, err := m.ask(ctx, text)
	if err != nil {
		metrics.Fallback("extraction", fallbackReason(err))
		logger.FromContext(ctx, m.log).Warn("Model-assisted extraction failed, using rule-based result", map[string]interface{}{
			"error": err.Error(),
		})
		return ruled
	}
	return merge(ruled, result)
}

func (m *ModelAssisted) ask(ctx context.Context, text string) (*ModelResult, error) {
	raw, err := m.gen.Complete(ctx, llm.Request{
		Prompt:      buildExtractionPrompt(text, m.rules.Aliases().Names()),
		Temperature: extractionTemperature,
	})
	if err != nil {
		return nil, err
	}
	return ParseModelResult(raw)
}

// ParseModelResult recovers the JSON object embedded in a free-text completion.
// Only the span from the first "{" to the last "}" is parsed; missing or null keys are empty.
func ParseModelResult(raw string) (*ModelResult, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, ErrNoJSONObject
	}
	body := raw[start : end+1]

	var doc interface{}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoJSONObject, err)
	}
	if res := extractionSchema.Validate(doc); !res.Valid {
		return nil, fmt.Errorf("%w: %s", ErrSchemaMismatch, res.Error())
	}

	var out ModelResult
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return &out, nil
}

// merge unions tickers and companies (rule values first), takes sectors and
// concepts from the model only, and keeps every other category from rules.
func merge(ruled *models.EntityBundle, result *ModelResult) *models.EntityBundle {
	out := ruled.Clone()
	for _, t := range result.Tickers {
		out.Add(models.CategoryTickers, normalizeTicker(t))
	}
	out.Add(models.CategoryCompanies, result.Companies...)
	out.Sectors = []string{}
	out.Concepts = []string{}
	out.Add(models.CategorySectors, result.Sectors...)
	out.Add(models.CategoryConcepts, result.Concepts...)
	return out
}

func normalizeTicker(t string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(t), "$"))
}

func buildExtractionPrompt(text string, known []string) string {
	return fmt.Sprintf(`Extract financial entities from this query. Respond with ONLY a JSON object.

Query: %q

Extract:
1. Company names and stock tickers (if mentioned)
2. Sector/industry names
3. Financial metrics or concepts mentioned

Return JSON format:
{
    "tickers": ["AAPL", "MSFT"],
    "companies": ["Apple", "Microsoft"],
    "sectors": ["Technology"],
    "concepts": ["sentiment", "market cap", "price"]
}

Known companies: %s

JSON:`, text, strings.Join(known, ", "))
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, ErrNoJSONObject):
		return "no_json"
	case errors.Is(err, ErrSchemaMismatch):
		return "schema_mismatch"
	case errors.Is(err, llm.ErrEmptyCompletion):
		return "empty"
	default:
		return "unavailable"
	}
}
