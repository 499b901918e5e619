package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
)

// Observability bundles the OpenTelemetry meter and tracer used by the query engine.
type Observability struct {
	meterProvider *metric.MeterProvider
	tracer        trace.Tracer
	stageCounter  otelmetric.Int64Counter
	stageDuration otelmetric.Float64Histogram
}

// New registers a Prometheus-backed meter provider. On exporter failure it returns a no-op instance.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return NewNoop(), err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	o := &Observability{
		meterProvider: provider,
		tracer:        otel.Tracer(serviceName),
	}
	o.instrument(provider.Meter(serviceName))
	return o, nil
}

// NewNoop returns an instance that records nothing.
func NewNoop() *Observability {
	o := &Observability{tracer: otel.Tracer("noop")}
	o.instrument(noop.NewMeterProvider().Meter("noop"))
	return o
}

func (o *Observability) instrument(meter otelmetric.Meter) {
	o.stageCounter, _ = meter.Int64Counter(
		"graphrag.stage.executions",
		otelmetric.WithDescription("Number of pipeline stage executions"),
	)
	o.stageDuration, _ = meter.Float64Histogram(
		"graphrag.stage.duration",
		otelmetric.WithDescription("Pipeline stage duration"),
		otelmetric.WithUnit("ms"),
	)
}

// StartSpan opens a span for one pipeline stage.
func (o *Observability) StartSpan(ctx context.Context, stage string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, "graphrag."+stage, trace.WithAttributes(attrs...))
}

// RecordStage counts a stage execution and its duration, labeled by outcome.
func (o *Observability) RecordStage(ctx context.Context, stage, status string, duration time.Duration) {
	attrs := otelmetric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	)
	if o.stageCounter != nil {
		o.stageCounter.Add(ctx, 1, attrs)
	}
	if o.stageDuration != nil {
		o.stageDuration.Record(ctx, float64(duration.Microseconds())/1000.0, attrs)
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = o.meterProvider.Shutdown(ctx)
	}
}
