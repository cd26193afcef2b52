//go:build gcloud

package observability

import (
	"context"
	"fmt"

	mexporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/metric"
	texporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
)

func newExporters(_ context.Context, cfg Config) (exporterSet, error) {
	if cfg.GCPProjectID == "" {
		return exporterSet{}, fmt.Errorf("GCP project ID is required for cloud trace and monitoring export")
	}

	spanExporter, err := texporter.New(texporter.WithProjectID(cfg.GCPProjectID))
	if err != nil {
		return exporterSet{}, fmt.Errorf("failed to create cloud trace exporter: %w", err)
	}

	metricExporter, err := mexporter.New(mexporter.WithProjectID(cfg.GCPProjectID))
	if err != nil {
		return exporterSet{}, fmt.Errorf("failed to create cloud monitoring exporter: %w", err)
	}

	return exporterSet{span: spanExporter, metric: metricExporter}, nil
}
