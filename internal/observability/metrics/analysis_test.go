package metrics

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

func newReader(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	prev := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	t.Cleanup(func() {
		otel.SetMeterProvider(prev)
		_ = provider.Shutdown(context.Background())
	})
	return reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestAnalysisMetrics(t *testing.T) {
	reader := newReader(t)

	m, err := NewAnalysisMetrics()
	if err != nil {
		t.Fatalf("NewAnalysisMetrics() error = %v", err)
	}

	ctx := context.Background()
	m.RecordRun(ctx, 120, 4)
	m.RecordRun(ctx, 30, 2)
	m.RecordFailure(ctx, domain.StagePoints)
	m.RecordCacheHit(ctx)
	m.RecordStageDuration(ctx, domain.StageReduce, 5*time.Millisecond)

	got := collect(t, reader)

	runs, ok := got["analysis_runs_total"].Data.(metricdata.Sum[int64])
	if !ok || len(runs.DataPoints) != 1 || runs.DataPoints[0].Value != 2 {
		t.Errorf("analysis_runs_total = %+v", got["analysis_runs_total"].Data)
	}

	points, ok := got["analysis_points"].Data.(metricdata.Histogram[int64])
	if !ok || len(points.DataPoints) != 1 || points.DataPoints[0].Sum != 150 {
		t.Errorf("analysis_points = %+v", got["analysis_points"].Data)
	}

	failures, ok := got["analysis_failures_total"].Data.(metricdata.Sum[int64])
	if !ok || len(failures.DataPoints) != 1 {
		t.Fatalf("analysis_failures_total = %+v", got["analysis_failures_total"].Data)
	}
	if v, _ := failures.DataPoints[0].Attributes.Value("stage"); v.AsString() != "points" {
		t.Errorf("failure stage = %q, want points", v.AsString())
	}

	if _, ok := got["analysis_stage_duration_seconds"]; !ok {
		t.Error("stage duration not recorded")
	}
	if _, ok := got["analysis_cache_hits_total"]; !ok {
		t.Error("cache hit not recorded")
	}
}

func TestHTTPMetrics(t *testing.T) {
	reader := newReader(t)

	m, err := NewHTTPMetrics()
	if err != nil {
		t.Fatalf("NewHTTPMetrics() error = %v", err)
	}

	m.RecordRequest(context.Background(), "POST", "/api/v1/analyze", 200, 20*time.Millisecond)
	m.RecordRequest(context.Background(), "POST", "/api/v1/analyze", 400, time.Millisecond)

	got := collect(t, reader)

	requests, ok := got["http_server_requests_total"].Data.(metricdata.Sum[int64])
	if !ok || len(requests.DataPoints) != 2 {
		t.Errorf("http_server_requests_total = %+v", got["http_server_requests_total"].Data)
	}
}
