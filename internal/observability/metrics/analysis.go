package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

const (
	analysisMeterName = "analysis.service"
)

type AnalysisMetrics struct {
	runs          metric.Int64Counter
	failures      metric.Int64Counter
	cacheHits     metric.Int64Counter
	pointsCount   metric.Int64Histogram
	selectedCount metric.Int64Histogram
	stageDuration metric.Float64Histogram
}

func NewAnalysisMetrics() (*AnalysisMetrics, error) {
	meter := otel.Meter(analysisMeterName)

	runs, err := meter.Int64Counter(
		"analysis_runs_total",
		metric.WithDescription("Total number of completed analysis runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		"analysis_failures_total",
		metric.WithDescription("Total number of failed analysis runs by stage"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter(
		"analysis_cache_hits_total",
		metric.WithDescription("Total number of analyses served from the result cache"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	pointsCount, err := meter.Int64Histogram(
		"analysis_points",
		metric.WithDescription("Number of demand points generated per run"),
		metric.WithUnit("{point}"),
		metric.WithExplicitBucketBoundaries(
			1, 10, 100, 1_000, 10_000, 100_000, 1_000_000, 5_000_000,
		),
	)
	if err != nil {
		return nil, err
	}

	selectedCount, err := meter.Int64Histogram(
		"analysis_selected_points",
		metric.WithDescription("Number of points kept by the hull reduction per run"),
		metric.WithUnit("{point}"),
		metric.WithExplicitBucketBoundaries(
			1, 2, 5, 10, 25, 50, 100, 250, 1_000,
		),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"analysis_stage_duration_seconds",
		metric.WithDescription("Time spent in each analysis stage"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30,
		),
	)
	if err != nil {
		return nil, err
	}

	return &AnalysisMetrics{
		runs:          runs,
		failures:      failures,
		cacheHits:     cacheHits,
		pointsCount:   pointsCount,
		selectedCount: selectedCount,
		stageDuration: stageDuration,
	}, nil
}

func (m *AnalysisMetrics) RecordRun(ctx context.Context, numPoints, numSel int) {
	attrs := appendLoadtestLabels(ctx, nil)
	m.runs.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.pointsCount.Record(ctx, int64(numPoints), metric.WithAttributes(attrs...))
	m.selectedCount.Record(ctx, int64(numSel), metric.WithAttributes(attrs...))
}

func (m *AnalysisMetrics) RecordFailure(ctx context.Context, stage domain.Stage) {
	attrs := appendLoadtestLabels(ctx, []attribute.KeyValue{
		attribute.String("stage", stage.String()),
	})
	m.failures.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *AnalysisMetrics) RecordCacheHit(ctx context.Context) {
	m.cacheHits.Add(ctx, 1, metric.WithAttributes(appendLoadtestLabels(ctx, nil)...))
}

func (m *AnalysisMetrics) RecordStageDuration(ctx context.Context, stage domain.Stage, duration time.Duration) {
	attrs := appendLoadtestLabels(ctx, []attribute.KeyValue{
		attribute.String("stage", stage.String()),
	})
	m.stageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
