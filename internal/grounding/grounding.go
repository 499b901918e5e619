// Package grounding turns serialized graph context into an answer constrained to that context.
package grounding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"financial-graphrag/internal/common/logger"
	"financial-graphrag/internal/common/metrics"
	"financial-graphrag/internal/llm"
	"financial-graphrag/internal/models"
)

const (
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 1500

	// UnavailableNotice prefixes the raw context whenever no answer could be generated.
	UnavailableNotice = "**AI Assistant Unavailable - Showing Raw Graph Data**"
)

const systemPrompt = `You are a financial intelligence assistant powered by a knowledge graph.
Your responses must be grounded in the provided graph data. Follow these guidelines:

1. ONLY use information from the provided graph context
2. If the data is insufficient, acknowledge the limitation
3. Provide clear, concise, and actionable insights
4. Always cite specific data points (prices, percentages, dates)
5. Explain your reasoning transparently
6. Highlight important trends or patterns
7. Use professional financial terminology
8. Format numbers appropriately (e.g., $1.5B, 3.2%)

DO NOT hallucinate or make up information not present in the graph context.`

var errNotConfigured = fmt.Errorf("%w: no provider configured", llm.ErrGenerationUnavailable)

type Options struct {
	Temperature float64
	MaxTokens   int
}

// Responder asks the generator for an answer grounded in graph context.
type Responder struct {
	gen         llm.Generator
	temperature float64
	maxTokens   int
	log         logger.Logger
}

// New accepts a nil generator; every answer is then the raw context behind the notice.
func New(gen llm.Generator, opts Options, log logger.Logger) *Responder {
	if opts.Temperature <= 0 {
		opts.Temperature = DefaultTemperature
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	return &Responder{
		gen:         gen,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		log:         log.With(map[string]interface{}{"component": "grounding"}),
	}
}

// Ground never returns an empty ResponseText.
func (r *Responder) Ground(ctx context.Context, query, graphContext string) models.GroundedResponse {
	resp := models.GroundedResponse{
		Query:   query,
		Context: graphContext,
	}

	text, err := r.generate(ctx, query, graphContext)
	if err != nil {
		metrics.Fallback("grounding", fallbackReason(err))
		logger.FromContext(ctx, r.log).Warn("Generation unavailable, returning raw graph context", map[string]interface{}{"error": err.Error()})
		resp.ResponseText = Fallback(graphContext)
		return resp
	}

	resp.ResponseText = text
	resp.Generated = true
	return resp
}

func (r *Responder) generate(ctx context.Context, query, graphContext string) (string, error) {
	if !llm.Available(r.gen) {
		return "", errNotConfigured
	}
	text, err := r.gen.Complete(ctx, llm.Request{
		Prompt:       BuildPrompt(query, graphContext),
		SystemPrompt: systemPrompt,
		Temperature:  r.temperature,
		MaxTokens:    r.maxTokens,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", llm.ErrEmptyCompletion
	}
	if strings.HasPrefix(strings.TrimSpace(text), "Error:") {
		return "", fmt.Errorf("%w: %s", llm.ErrGenerationUnavailable, text)
	}
	return text, nil
}

// BuildPrompt is the user prompt sent alongside the fixed system instruction.
func BuildPrompt(query, graphContext string) string {
	return fmt.Sprintf(`User Query: %s

Graph Context (Retrieved from Knowledge Graph):
%s

Based ONLY on the above graph context, provide a comprehensive and accurate answer to the user's query.
If the graph context doesn't contain enough information, clearly state what's missing.`, query, graphContext)
}

// Fallback is the visible answer used when generation fails.
func Fallback(graphContext string) string {
	return UnavailableNotice + "\n\n" + graphContext
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, errNotConfigured):
		return "not_configured"
	case errors.Is(err, llm.ErrEmptyCompletion):
		return "empty"
	default:
		return "unavailable"
	}
}

// SystemPrompt returns the fixed grounding instruction.
func SystemPrompt() string {
	return systemPrompt
}
