package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"financial-graphrag/internal/common/logger"
	"financial-graphrag/internal/common/metrics"
	"financial-graphrag/internal/llm"
	"financial-graphrag/internal/models"
)

const (
	classificationTemperature = 0.0
	classificationMaxTokens   = 20
)

// ModelAssisted asks the language model for an intent and validates the answer
// against the closed set. Any failure falls back to the wrapped RuleBased.
type ModelAssisted struct {
	rules *RuleBased
	gen   llm.Generator
	log   logger.Logger
}

func NewModelAssisted(rules *RuleBased, gen llm.Generator, log logger.Logger) *ModelAssisted {
	if rules == nil {
		rules = NewRuleBased()
	}
	return &ModelAssisted{
		rules: rules,
		gen:   gen,
		log:   log.With(map[string]interface{}{"component": "intent.model"}),
	}
}

func (m *ModelAssisted) Classify(ctx context.Context, query string, entities *models.EntityBundle) models.Intent {
	if !llm.Available(m.gen) {
		return m.rules.Classify(ctx, query, entities)
	}

	raw, err := m.gen.Complete(ctx, llm.Request{
		Prompt:      buildClassificationPrompt(query, entities),
		Temperature: classificationTemperature,
		MaxTokens:   classificationMaxTokens,
	})
	if err != nil {
		metrics.Fallback("intent", "unavailable")
		logger.FromContext(ctx, m.log).Warn("Model-assisted classification failed, using rules", map[string]interface{}{"error": err.Error()})
		return m.rules.Classify(ctx, query, entities)
	}

	if intent, ok := MatchIntent(raw); ok {
		return intent
	}

	metrics.Fallback("intent", "invalid_answer")
	logger.FromContext(ctx, m.log).Warn("Model returned no valid intent, using rules", map[string]interface{}{"answer": truncateAnswer(raw)})
	return m.rules.Classify(ctx, query, entities)
}

// MatchIntent validates a free-text answer: an exact intent name first, otherwise
// the intent name occurring earliest in the answer.
func MatchIntent(raw string) (models.Intent, bool) {
	if intent, ok := models.ParseIntent(strings.Trim(strings.TrimSpace(raw), "`\"'.")); ok {
		return intent, true
	}

	lower := strings.ToLower(raw)
	best, bestPos := models.Intent(""), -1
	for _, candidate := range models.AllIntents {
		pos := strings.Index(lower, string(candidate))
		if pos < 0 {
			continue
		}
		if bestPos < 0 || pos < bestPos {
			best, bestPos = candidate, pos
		}
	}
	return best, bestPos >= 0
}

func buildClassificationPrompt(query string, entities *models.EntityBundle) string {
	var sb strings.Builder
	sb.WriteString("Classify the financial query into exactly one of these intents:\n\n")
	for _, intent := range models.AllIntents {
		fmt.Fprintf(&sb, "- %s: %s\n", intent, intent.Description())
	}

	entityJSON, err := json.Marshal(entities)
	if err != nil || entities == nil {
		entityJSON = []byte("{}")
	}

	fmt.Fprintf(&sb, "\nQuery: %q\n", query)
	fmt.Fprintf(&sb, "Extracted entities: %s\n\n", entityJSON)
	sb.WriteString("Respond with ONLY the intent name, nothing else.\n\nIntent:")
	return sb.String()
}

func truncateAnswer(s string) string {
	if len(s) > 120 {
		return s[:120]
	}
	return s
}
