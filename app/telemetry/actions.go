package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// StartActionSpan starts a span around one runtime action.
func StartActionSpan(ctx context.Context, action string, height int64) (context.Context, trace.Span) {
	return otel.Tracer(serviceName).Start(ctx, "action."+action,
		trace.WithAttributes(
			attribute.String("action.name", action),
			attribute.Int64("block.height", height),
		),
	)
}

// StartBlockSpan starts a span for a block commit.
func StartBlockSpan(ctx context.Context, height int64) (context.Context, trace.Span) {
	return otel.Tracer(serviceName).Start(ctx, "block.commit",
		trace.WithAttributes(attribute.Int64("block.height", height)))
}

// SetActionOutcome marks span as applied, or records err as the reason the
// action was rejected.
func SetActionOutcome(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "applied")
}

// ActionMetrics counts and times runtime actions through the otel meter.
type ActionMetrics struct {
	actions  metric.Int64Counter
	duration metric.Float64Histogram
	height   metric.Int64Gauge
}

// NewActionMetrics registers the action instruments on meter.
func NewActionMetrics(meter metric.Meter) (*ActionMetrics, error) {
	actions, err := meter.Int64Counter("stakedlearn.action.total",
		metric.WithDescription("Executed actions by name and outcome"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("stakedlearn.action.duration",
		metric.WithDescription("Action execution time"), metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	height, err := meter.Int64Gauge("stakedlearn.block.height",
		metric.WithDescription("Last committed block height"))
	if err != nil {
		return nil, err
	}
	return &ActionMetrics{actions: actions, duration: duration, height: height}, nil
}

// RecordAction records one executed action and its outcome.
func (m *ActionMetrics) RecordAction(ctx context.Context, action string, took time.Duration, err error) {
	outcome := "applied"
	if err != nil {
		outcome = "rejected"
	}
	attrs := metric.WithAttributes(
		attribute.String("action.name", action),
		attribute.String("action.outcome", outcome),
	)
	m.actions.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(took.Microseconds())/1000, attrs)
}

// RecordHeight records the committed block height.
func (m *ActionMetrics) RecordHeight(ctx context.Context, height int64) {
	m.height.Record(ctx, height)
}
