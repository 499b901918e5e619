package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// OpenAIGenerator talks to any OpenAI-compatible chat completions endpoint through eino.
type OpenAIGenerator struct {
	chat model.BaseChatModel
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

func NewOpenAIGenerator(ctx context.Context, cfg OpenAIConfig) (*OpenAIGenerator, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create openai chat model: %w", err)
	}
	return NewOpenAIGeneratorFromModel(cm), nil
}

// NewOpenAIGeneratorFromModel wraps an existing eino chat model.
func NewOpenAIGeneratorFromModel(cm model.BaseChatModel) *OpenAIGenerator {
	return &OpenAIGenerator{chat: cm}
}

func (g *OpenAIGenerator) Name() string {
	return "openai"
}

func (g *OpenAIGenerator) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]*schema.Message, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, &schema.Message{Role: schema.System, Content: req.SystemPrompt})
	}
	messages = append(messages, &schema.Message{Role: schema.User, Content: req.Prompt})

	opts := []model.Option{model.WithTemperature(float32(req.Temperature))}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}

	resp, err := g.chat.Generate(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: openai: %v", ErrGenerationUnavailable, err)
	}
	if resp == nil {
		return "", ErrEmptyCompletion
	}
	return finish(resp.Content)
}
