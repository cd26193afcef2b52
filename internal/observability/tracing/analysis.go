package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

const analysisTracerName = "github.com/KasumiMercury/edf-hull-analysis/internal/service/analysis"

func AnalysisTracer() trace.Tracer {
	return otel.Tracer(analysisTracerName)
}

func StartAnalysisSpan(ctx context.Context, fingerprint string, numTasks int) (context.Context, trace.Span) {
	return AnalysisTracer().Start(ctx, "analysis.run",
		trace.WithAttributes(
			attribute.String("taskset.fingerprint", fingerprint),
			attribute.Int("taskset.num_tasks", numTasks),
		),
	)
}

// StartStageSpan opens a child span for one pipeline stage.
func StartStageSpan(ctx context.Context, stage domain.Stage) (context.Context, trace.Span) {
	return AnalysisTracer().Start(ctx, "analysis."+stage.String(),
		trace.WithAttributes(attribute.String("analysis.stage", stage.String())),
	)
}

func StartSweepSpan(ctx context.Context, runID string, runs int) (context.Context, trace.Span) {
	return AnalysisTracer().Start(ctx, "analysis.sweep",
		trace.WithAttributes(
			attribute.String("sweep.run_id", runID),
			attribute.Int("sweep.runs", runs),
		),
	)
}

func StartExternalAPISpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return AnalysisTracer().Start(ctx, "analysis.external_api."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordAnalysisResult(span trace.Span, result *domain.AnalysisResult, err error) {
	if result != nil {
		span.SetAttributes(
			attribute.Int("analysis.num_points", result.NumPoints),
			attribute.Int("analysis.num_sel", result.NumSel),
			attribute.Float64("analysis.hyperperiod", result.Hyperperiod.Value),
			attribute.Bool("analysis.hyperperiod_exact", result.Hyperperiod.Exact),
			attribute.Bool("analysis.cached", result.Cached),
		)
	}
	if err != nil {
		RecordError(span, err)
		return
	}
	span.SetStatus(codes.Ok, "")
}

// RecordError marks span failed, tagging the stage when err carries one.
func RecordError(span trace.Span, err error) {
	if stage, ok := domain.StageOf(err); ok {
		span.SetAttributes(attribute.String("analysis.failed_stage", stage.String()))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
