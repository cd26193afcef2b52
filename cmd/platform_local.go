//go:build !gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KasumiMercury/edf-hull-analysis/internal/config"
	"github.com/KasumiMercury/edf-hull-analysis/internal/infra/taskqueue"
	"github.com/KasumiMercury/edf-hull-analysis/internal/observability"
	"github.com/KasumiMercury/edf-hull-analysis/internal/observability/logging"
)

func initTaskQueue(_ context.Context, cfg *config.Config) (taskqueue.TaskQueue, func() error, error) {
	if !cfg.TaskQueue.Enabled() {
		slog.Warn("TASK_QUEUE_URL not set, sweep dispatch disabled")

		return nil, nil, nil
	}

	tq := taskqueue.NewHTTPTasksClient(
		cfg.TaskQueue.TasksURL,
		cfg.TaskQueue.QueueName,
		cfg.TaskQueue.TargetURL,
		cfg.TaskQueue.MaxRetries,
	)

	slog.Info("task queue initialized",
		slog.String("type", "http_tasks"),
		slog.String("url", cfg.TaskQueue.TasksURL),
		slog.String("queue", cfg.TaskQueue.QueueName),
		slog.String("target", cfg.TaskQueue.TargetURL),
	)

	return tq, nil, nil
}

func initObservability(ctx context.Context, level slog.Level) (*observability.Resources, error) {
	name := os.Getenv("SERVICE_NAME")
	if name == "" {
		name = serviceName
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	return observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:    name,
			Version: Version,
		},
		Environment:   env,
		SamplingRate:  1.0,
		DefaultModule: serverModule,
		LogLevel:      level,
	})
}
