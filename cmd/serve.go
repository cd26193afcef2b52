package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/KasumiMercury/edf-hull-analysis/internal/config"
	"github.com/KasumiMercury/edf-hull-analysis/internal/handler"
	"github.com/KasumiMercury/edf-hull-analysis/internal/health"
	"github.com/KasumiMercury/edf-hull-analysis/internal/infra/repository"
	"github.com/KasumiMercury/edf-hull-analysis/internal/infra/resultrecorder"
	"github.com/KasumiMercury/edf-hull-analysis/internal/observability/logging"
	"github.com/KasumiMercury/edf-hull-analysis/internal/observability/metrics"
	"github.com/KasumiMercury/edf-hull-analysis/internal/observability/middleware"
)

const serverModule = logging.Module("edf-analysis")

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if code := serve(cmd.Context()); code != 0 {
				return errors.New("server exited with errors")
			}
			return nil
		},
	}
}

func serve(parent context.Context) int {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	obs, err := initObservability(ctx, cfg.LogLevel)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	analysisMetrics, err := metrics.NewAnalysisMetrics()
	if err != nil {
		slog.Error("failed to initialize analysis metrics", slog.String("error", err.Error()))
		return 1
	}

	// InfluxDB locally, BigQuery on gcloud
	resultRecorder, err := resultrecorder.NewRecorder(ctx, resultrecorder.LoadConfig())
	if err != nil {
		slog.Error("failed to initialize analysis result recorder", slog.String("error", err.Error()))
		return 1
	}
	defer closeWithLog("analysis result recorder", resultRecorder.Close)

	taskQueue, cleanup, err := initTaskQueue(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize task queue", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("task queue cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	redisClient := redis.NewClient(cfg.Redis.Options())

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}
	defer closeWithLog("redis client", redisClient.Close)

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
		slog.Int("db", cfg.Redis.DB),
	)

	analysisRepo := repository.NewAnalysisRepository(redisClient, cfg.Analysis.CacheTTL)
	analysisService := newAnalysisService(cfg.Analysis, analysisRepo, resultRecorder, taskQueue, analysisMetrics)
	analysisHandler := handler.NewAnalysisHandler(analysisService, cfg.Analysis.HyperperiodPolicy())

	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:  []string{"/health", "/health/live", "/health/ready"},
		Module:     serverModule,
		Worker:     true,
		TracerName: "github.com/KasumiMercury/edf-hull-analysis/internal/observability/middleware",
		JobNameResolver: func(c *gin.Context) string {
			if taskName := c.Request.Header.Get("X-CloudTasks-TaskName"); taskName != "" {
				return "analysis_seed"
			}
			return c.FullPath()
		},
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	healthChecker := health.NewChecker(redisClient, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	v1 := r.Group("/api/v1")
	{
		v1.POST("/analyze", analysisHandler.HandleAnalyze)
		v1.POST("/analyze/seed", analysisHandler.HandleAnalyzeSeed)
		v1.GET("/analyze/:fingerprint", analysisHandler.HandleGetAnalysis)
		v1.DELETE("/analyze/:fingerprint", analysisHandler.HandleDeleteAnalysis)
		v1.POST("/sweep", analysisHandler.HandleSweep)
	}

	mux := http.NewServeMux()
	grpcHealthPath, grpcHealthHandler := healthChecker.GRPCHandler()
	mux.Handle(grpcHealthPath, grpcHealthHandler)
	mux.Handle("/", r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Int("max_points", cfg.Analysis.MaxPoints),
			slog.Float64("max_hyperperiod", cfg.Analysis.MaxHyperperiod),
			slog.Bool("task_queue", taskQueue != nil),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		healthChecker.SetServing(false)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
