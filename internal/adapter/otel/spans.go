package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "neuroflow"

// StartTurnSpan starts a span for one conversational turn.
func StartTurnSpan(ctx context.Context, sessionID, intent string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "turn",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.String("turn.intent", intent),
		),
	)
}

// StartStageSpan starts a span for a pipeline stage within a turn.
func StartStageSpan(ctx context.Context, stage string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "stage",
		trace.WithAttributes(
			attribute.String("stage.name", stage),
		),
	)
}

// StartGenerateSpan starts a span for a model completion call.
func StartGenerateSpan(ctx context.Context, purpose string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "generate",
		trace.WithAttributes(
			attribute.String("generate.purpose", purpose),
		),
	)
}
