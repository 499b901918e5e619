package grounding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-graphrag/internal/common/logger"
	"financial-graphrag/internal/llm"
)

const graphContext = "Query Intent: company_news\nRetrieved 1 results from the knowledge graph:\n\nHeadline: Apple beats estimates"

func TestGround_Generated(t *testing.T) {
	var got llm.Request
	gen := llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (string, error) {
		got = req
		return "Apple beat estimates according to the graph.", nil
	})

	resp := New(gen, Options{}, logger.NewTestLogger(t)).Ground(context.Background(), "News on Apple?", graphContext)

	assert.True(t, resp.Generated)
	assert.Equal(t, "Apple beat estimates according to the graph.", resp.ResponseText)
	assert.Equal(t, graphContext, resp.Context)
	assert.Equal(t, "News on Apple?", resp.Query)

	assert.Equal(t, DefaultTemperature, got.Temperature)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	assert.Equal(t, SystemPrompt(), got.SystemPrompt)
	assert.Contains(t, got.SystemPrompt, "DO NOT hallucinate")
	assert.Contains(t, got.Prompt, "User Query: News on Apple?")
	assert.Contains(t, got.Prompt, graphContext)
}

func TestGround_FallsBackToContext(t *testing.T) {
	tests := []struct {
		name string
		gen  llm.Generator
	}{
		{"no generator", nil},
		{"provider error", llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (string, error) {
			return "", errors.New("401 invalid x-api-key")
		})},
		{"error-prefixed answer", llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (string, error) {
			return "Error: rate limited", nil
		})},
		{"empty answer", llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (string, error) {
			return "", nil
		})},
		{"whitespace answer", llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (string, error) {
			return "  \n", nil
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := New(tt.gen, Options{}, logger.NewNoOpLogger()).Ground(context.Background(), "q", graphContext)

			require.NotEmpty(t, resp.ResponseText)
			assert.False(t, resp.Generated)
			assert.Equal(t, UnavailableNotice+"\n\n"+graphContext, resp.ResponseText)
		})
	}
}

func TestGround_CustomOptions(t *testing.T) {
	var got llm.Request
	gen := llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (string, error) {
		got = req
		return "ok", nil
	})

	New(gen, Options{Temperature: 0.7, MaxTokens: 300}, logger.NewNoOpLogger()).Ground(context.Background(), "q", "ctx")

	assert.Equal(t, 0.7, got.Temperature)
	assert.Equal(t, 300, got.MaxTokens)
}
