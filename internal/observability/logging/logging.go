package logging

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// RequestIDHeader carries the request ID between services.
const RequestIDHeader = "x-request-id"

type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

// Module tags log records with the component that emitted them.
type Module string

type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

type HandlerConfig struct {
	Service       ServiceInfo
	Environment   Environment
	GCPProjectID  string
	DefaultModule Module
	Level         slog.Leveler
}

type contextKey int

const (
	requestIDKey contextKey = iota
	moduleKey
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func WithModule(ctx context.Context, module Module) context.Context {
	return context.WithValue(ctx, moduleKey, module)
}

func ModuleFromContext(ctx context.Context) (Module, bool) {
	m, ok := ctx.Value(moduleKey).(Module)
	return m, ok
}

// ValidateAndExtractRequestID returns id when it is a UUID, or a fresh UUIDv7.
func ValidateAndExtractRequestID(id string) string {
	if id != "" {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	return NewRequestID()
}

func NewRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NewHandler returns a JSON handler that stamps every record with the service,
// module, request ID and trace correlation taken from the record's context.
func NewHandler(w io.Writer, cfg HandlerConfig) slog.Handler {
	level := cfg.Level
	if level == nil {
		level = slog.LevelInfo
	}

	base := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}).WithAttrs([]slog.Attr{
		slog.Group("service",
			slog.String("name", cfg.Service.Name),
			slog.String("version", cfg.Service.Version),
			slog.String("revision", cfg.Service.Revision),
		),
		slog.String("env", string(cfg.Environment)),
	})

	return &contextHandler{
		next:          base,
		projectID:     cfg.GCPProjectID,
		defaultModule: cfg.DefaultModule,
	}
}

type contextHandler struct {
	next          slog.Handler
	projectID     string
	defaultModule Module
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	module := h.defaultModule
	if m, ok := ModuleFromContext(ctx); ok {
		module = m
	}
	if module != "" {
		r.AddAttrs(slog.String("module", string(module)))
	}

	if id := RequestIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
		r.AddAttrs(gcpTraceAttrs(ctx, h.projectID)...)
	}

	return h.next.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{
		next:          h.next.WithAttrs(attrs),
		projectID:     h.projectID,
		defaultModule: h.defaultModule,
	}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{
		next:          h.next.WithGroup(name),
		projectID:     h.projectID,
		defaultModule: h.defaultModule,
	}
}
