package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapWrapper_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := NewZapAdapter(zap.New(core)).With(map[string]interface{}{"stage": "retrieval"})

	log.WithError(errors.New("boom")).Warn("fallback", map[string]interface{}{"intent": "company_news"})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "retrieval", ctx["stage"])
		assert.Equal(t, "company_news", ctx["intent"])
		assert.Equal(t, "boom", ctx["error"])
		assert.Equal(t, "fallback", entries[0].Message)
	}
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	base := NewZapAdapter(zap.New(core)).With(map[string]interface{}{"component": "graphstore"})

	assert.Same(t, base, FromContext(context.Background(), base))
	assert.NotNil(t, FromContext(context.Background(), nil))

	ctx := IntoContext(context.Background(), map[string]interface{}{"request_id": "req-1"})
	ctx = IntoContext(ctx, map[string]interface{}{"job_key": int64(42)})
	FromContext(ctx, base).Warn("cache unavailable", nil)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "graphstore", fields["component"])
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, int64(42), fields["job_key"])
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zap.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zap.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zap.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zap.InfoLevel, parseLevel("verbose"))
}
