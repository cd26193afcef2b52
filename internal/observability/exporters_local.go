//go:build !gcloud

package observability

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
)

// newExporters exports over OTLP/HTTP when a collector endpoint is configured.
// Without one, spans and metrics stay in-process.
func newExporters(ctx context.Context, _ Config) (exporterSet, error) {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return exporterSet{}, nil
	}

	spanExporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return exporterSet{}, fmt.Errorf("failed to create otlp trace exporter: %w", err)
	}

	metricExporter, err := otlpmetrichttp.New(ctx)
	if err != nil {
		return exporterSet{}, fmt.Errorf("failed to create otlp metric exporter: %w", err)
	}

	return exporterSet{span: spanExporter, metric: metricExporter}, nil
}
