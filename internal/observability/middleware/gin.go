package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KasumiMercury/edf-hull-analysis/internal/observability/logging"
	"github.com/KasumiMercury/edf-hull-analysis/internal/observability/metrics"
	"github.com/KasumiMercury/edf-hull-analysis/internal/observability/tracing"
)

type GinConfig struct {
	SkipPaths  []string
	Module     logging.Module
	TracerName string

	// Worker marks routes invoked by the task queue; their log records carry
	// the resolved job name.
	Worker          bool
	JobNameResolver func(c *gin.Context) string

	HTTPMetrics *metrics.HTTPMetrics
}

// Gin traces each request, propagates the request ID, logs completion and
// records HTTP metrics. Paths in SkipPaths are served untouched.
func Gin(cfg GinConfig) gin.HandlerFunc {
	tracer := otel.Tracer(cfg.TracerName)

	return func(c *gin.Context) {
		if slices.Contains(cfg.SkipPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()

		ctx := tracing.ExtractFromHTTPRequest(c.Request.Context(), c.Request)

		requestID := logging.ValidateAndExtractRequestID(c.GetHeader(logging.RequestIDHeader))
		ctx = logging.WithRequestID(ctx, requestID)
		if cfg.Module != "" {
			ctx = logging.WithModule(ctx, cfg.Module)
		}
		c.Header(logging.RequestIDHeader, requestID)

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		ctx, span := tracer.Start(ctx, c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route),
				attribute.String("request.id", requestID),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		duration := time.Since(start)

		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Duration("duration", duration),
		}
		if cfg.Worker && cfg.JobNameResolver != nil {
			attrs = append(attrs, slog.String("job", cfg.JobNameResolver(c)))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("error", c.Errors.String()))
		}

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		} else if status >= http.StatusBadRequest {
			level = slog.LevelWarn
		}
		slog.Log(ctx, level, "request completed", attrs...)

		if cfg.HTTPMetrics != nil {
			cfg.HTTPMetrics.RecordRequest(ctx, c.Request.Method, route, status, duration)
		}
	}
}

// PanicRecoveryGin turns a handler panic into a logged 500 response.
func PanicRecoveryGin() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				ctx := c.Request.Context()

				span := trace.SpanFromContext(ctx)
				span.RecordError(fmt.Errorf("panic: %v", r))
				span.SetStatus(codes.Error, "panic")

				slog.ErrorContext(ctx, "panic recovered",
					slog.String("panic", fmt.Sprint(r)),
					slog.String("path", c.Request.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "internal_error",
					"message": "internal server error",
				})
			}
		}()

		c.Next()
	}
}
