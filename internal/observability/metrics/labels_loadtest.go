//go:build loadtest

package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/KasumiMercury/edf-hull-analysis/internal/observability/logging"
)

// appendLoadtestLabels marks series produced by load-test builds so they can be
// filtered out of production dashboards.
func appendLoadtestLabels(ctx context.Context, attrs []attribute.KeyValue) []attribute.KeyValue {
	attrs = append(attrs, attribute.Bool("loadtest", true))
	if id := logging.RequestIDFromContext(ctx); id != "" {
		attrs = append(attrs, attribute.String("loadtest.request_id", id))
	}
	return attrs
}
