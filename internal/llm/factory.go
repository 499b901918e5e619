package llm

import (
	"context"
	"fmt"

	"financial-graphrag/internal/common/config"
	"financial-graphrag/internal/common/logger"
)

// New builds the configured generator wrapped in rate limiting and retries.
// It returns (nil, nil) when generation is not configured, which every caller
// treats as "capability unavailable".
func New(ctx context.Context, cfg config.LLMConfig, log logger.Logger) (Generator, error) {
	if !cfg.Configured() {
		log.Info("Text generation not configured", map[string]interface{}{"provider": cfg.Provider})
		return nil, nil
	}

	var (
		gen Generator
		err error
	)
	switch cfg.Provider {
	case config.ProviderOpenAI:
		gen, err = NewOpenAIGenerator(ctx, OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case config.ProviderAnthropic:
		gen = NewAnthropicGenerator(AnthropicConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case config.ProviderGemini:
		gen, err = NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	log.Info("Text generation configured", map[string]interface{}{
		"provider": cfg.Provider,
		"model":    cfg.Model,
	})
	return NewLimited(gen, LimitOptions{
		RequestsPerMinute: cfg.RequestsPerMinute,
		MaxRetries:        cfg.MaxRetries,
		Timeout:           config.GetDuration(cfg.Timeout),
	}, log), nil
}
