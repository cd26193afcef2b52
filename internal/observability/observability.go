package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/KasumiMercury/edf-hull-analysis/internal/observability/logging"
)

type Config struct {
	ServiceInfo   logging.ServiceInfo
	Environment   logging.Environment
	GCPProjectID  string
	SamplingRate  float64
	DefaultModule logging.Module
	LogLevel      slog.Level

	// LogWriter defaults to stdout. The CLI points it at stderr so results
	// stay clean on stdout.
	LogWriter io.Writer
}

// Resources owns the providers installed as OpenTelemetry globals.
type Resources struct {
	logger         *slog.Logger
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// Init installs the tracer and meter providers and builds the service logger.
// Exporters depend on the platform build tag.
func Init(ctx context.Context, cfg Config) (*Resources, error) {
	writer := cfg.LogWriter
	if writer == nil {
		writer = os.Stdout
	}

	logger := slog.New(logging.NewHandler(writer, logging.HandlerConfig{
		Service:       cfg.ServiceInfo,
		Environment:   cfg.Environment,
		GCPProjectID:  cfg.GCPProjectID,
		DefaultModule: cfg.DefaultModule,
		Level:         cfg.LogLevel,
	}))

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceInfo.Name),
		attribute.String("service.version", cfg.ServiceInfo.Version),
		attribute.String("deployment.environment", string(cfg.Environment)),
	)
	if cfg.ServiceInfo.Revision != "" {
		res, _ = resource.Merge(res, resource.NewSchemaless(
			attribute.String("service.instance.revision", cfg.ServiceInfo.Revision),
		))
	}

	exporters, err := newExporters(ctx, cfg)
	if err != nil {
		return nil, err
	}

	rate := cfg.SamplingRate
	if rate <= 0 || rate > 1 {
		rate = 1
	}

	traceOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))),
	}
	if exporters.span != nil {
		traceOpts = append(traceOpts, sdktrace.WithBatcher(exporters.span))
	}
	tracerProvider := sdktrace.NewTracerProvider(traceOpts...)

	metricOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if exporters.metric != nil {
		metricOpts = append(metricOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporters.metric)))
	}
	meterProvider := sdkmetric.NewMeterProvider(metricOpts...)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.InfoContext(ctx, "observability initialized",
		slog.Bool("trace_export", exporters.span != nil),
		slog.Bool("metric_export", exporters.metric != nil),
		slog.Float64("sampling_rate", rate),
	)

	return &Resources{
		logger:         logger,
		tracerProvider: tracerProvider,
		meterProvider:  meterProvider,
	}, nil
}

func (r *Resources) Logger() *slog.Logger {
	return r.logger
}

// Shutdown flushes pending spans and metrics.
func (r *Resources) Shutdown(ctx context.Context) error {
	return errors.Join(
		r.tracerProvider.Shutdown(ctx),
		r.meterProvider.Shutdown(ctx),
	)
}

type exporterSet struct {
	span   sdktrace.SpanExporter
	metric sdkmetric.Exporter
}
