package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNoop_RecordsWithoutPanicking(t *testing.T) {
	o := NewNoop()

	ctx, span := o.StartSpan(context.Background(), "retrieval", attribute.String("intent", "company_info"))
	o.RecordStage(ctx, "retrieval", "ok", 12*time.Millisecond)
	span.End()

	assert.NotNil(t, ctx)
	assert.NotPanics(t, o.Shutdown)
}
