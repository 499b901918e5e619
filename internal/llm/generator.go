// Package llm provides the text-generation capability used by the model-assisted
// extraction and classification strategies and by response grounding.
package llm

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrGenerationUnavailable is wrapped by every provider failure.
	ErrGenerationUnavailable = errors.New("GENERATION_UNAVAILABLE")
	ErrEmptyCompletion       = errors.New("EMPTY_COMPLETION")
)

// Request is a single prompt/completion exchange.
type Request struct {
	Prompt       string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
}

// Generator produces text for a prompt.
type Generator interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// GeneratorFunc adapts a function to Generator, mainly for tests.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

func (f GeneratorFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

func (f GeneratorFunc) Name() string {
	return "func"
}

// Available reports whether g can be called at all.
func Available(g Generator) bool {
	return g != nil
}

func finish(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
