package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"financial-graphrag/internal/common/config"
	"financial-graphrag/internal/common/logger"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	reply    string
	err      error
	messages []*schema.Message
	options  *model.Options
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.messages = input
	f.options = model.GetCommonOptions(nil, opts...)
	if f.err != nil {
		return nil, f.err
	}
	return &schema.Message{Role: schema.Assistant, Content: f.reply}, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

func TestOpenAIGenerator_SendsSystemAndUserMessages(t *testing.T) {
	cm := &fakeChatModel{reply: "  company_news \n"}
	g := NewOpenAIGeneratorFromModel(cm)

	out, err := g.Complete(context.Background(), Request{
		Prompt:       "classify this",
		SystemPrompt: "you are a classifier",
		Temperature:  0.1,
		MaxTokens:    50,
	})

	require.NoError(t, err)
	assert.Equal(t, "company_news", out)
	require.Len(t, cm.messages, 2)
	assert.Equal(t, schema.System, cm.messages[0].Role)
	assert.Equal(t, "classify this", cm.messages[1].Content)
	require.NotNil(t, cm.options.Temperature)
	assert.InDelta(t, 0.1, *cm.options.Temperature, 0.0001)
	require.NotNil(t, cm.options.MaxTokens)
	assert.Equal(t, 50, *cm.options.MaxTokens)
}

func TestOpenAIGenerator_WrapsProviderError(t *testing.T) {
	g := NewOpenAIGeneratorFromModel(&fakeChatModel{err: errors.New("401 unauthorized")})

	_, err := g.Complete(context.Background(), Request{Prompt: "x"})

	assert.ErrorIs(t, err, ErrGenerationUnavailable)
}

func TestOpenAIGenerator_EmptyReply(t *testing.T) {
	g := NewOpenAIGeneratorFromModel(&fakeChatModel{reply: "   "})

	_, err := g.Complete(context.Background(), Request{Prompt: "x"})

	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestAnthropicGenerator_ReadsTextBlocks(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"content": [{"type": "text", "text": "Apple is in Technology."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	}))
	defer srv.Close()

	g := NewAnthropicGenerator(AnthropicConfig{APIKey: "test", BaseURL: srv.URL, Model: "claude-test"})
	out, err := g.Complete(context.Background(), Request{Prompt: "p", SystemPrompt: "s", Temperature: 0.3, MaxTokens: 100})

	require.NoError(t, err)
	assert.Equal(t, "Apple is in Technology.", out)
	assert.Equal(t, "claude-test", body["model"])
	assert.EqualValues(t, 100, body["max_tokens"])
}

func TestAnthropicGenerator_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
	}))
	defer srv.Close()

	g := NewAnthropicGenerator(AnthropicConfig{APIKey: "test", BaseURL: srv.URL, Model: "claude-test"})
	_, err := g.Complete(context.Background(), Request{Prompt: "p"})

	assert.ErrorIs(t, err, ErrGenerationUnavailable)
}

func TestLimited_RetriesThenSucceeds(t *testing.T) {
	var calls int32
	next := GeneratorFunc(func(ctx context.Context, req Request) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return "", ErrGenerationUnavailable
		}
		return "ok", nil
	})

	l := NewLimited(next, LimitOptions{MaxRetries: 2, Timeout: time.Second}, logger.NewTestLogger(t))
	out, err := l.Complete(context.Background(), Request{Prompt: "x"})

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestLimited_DoesNotRetryEmptyCompletion(t *testing.T) {
	var calls int32
	next := GeneratorFunc(func(ctx context.Context, req Request) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", ErrEmptyCompletion
	})

	l := NewLimited(next, LimitOptions{MaxRetries: 3, RequestsPerMinute: 600}, logger.NewNoOpLogger())
	_, err := l.Complete(context.Background(), Request{Prompt: "x"})

	assert.ErrorIs(t, err, ErrEmptyCompletion)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLimited_CancelledContext(t *testing.T) {
	next := GeneratorFunc(func(ctx context.Context, req Request) (string, error) {
		return "", ErrGenerationUnavailable
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := NewLimited(next, LimitOptions{MaxRetries: 5, RequestsPerMinute: 60}, logger.NewNoOpLogger())
	_, err := l.Complete(ctx, Request{Prompt: "x"})

	assert.ErrorIs(t, err, ErrGenerationUnavailable)
}

func TestNew_NotConfigured(t *testing.T) {
	g, err := New(context.Background(), config.LLMConfig{Provider: config.ProviderNone}, logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.Nil(t, g)
	assert.False(t, Available(g))

	g, err = New(context.Background(), config.LLMConfig{Provider: config.ProviderOpenAI}, logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.Nil(t, g)
}

func TestNew_Anthropic(t *testing.T) {
	g, err := New(context.Background(), config.LLMConfig{
		Provider: config.ProviderAnthropic,
		APIKey:   "k",
		Model:    "claude-test",
	}, logger.NewNoOpLogger())

	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, "anthropic", g.Name())
	assert.True(t, Available(g))
}
