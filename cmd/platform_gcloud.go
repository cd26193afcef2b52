//go:build gcloud

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

func initTaskQueue(ctx context.Context, cfg *config.Config) (taskqueue.TaskQueue, func() error, error) {
	cloudTasksClient, err := taskqueue.NewCloudTasksClient(ctx, taskqueue.CloudTasksConfig{
		ProjectID:           cfg.TaskQueue.GCloudProjectID,
		LocationID:          cfg.TaskQueue.GCloudLocationID,
		QueueID:             cfg.TaskQueue.GCloudQueueID,
		TargetURL:           cfg.TaskQueue.TargetURL,
		ServiceAccountEmail: cfg.TaskQueue.GCloudServiceAccount,
		MaxRetries:          cfg.TaskQueue.MaxRetries,
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("task queue initialized",
		slog.String("type", "cloud_tasks"),
		slog.String("project", cfg.TaskQueue.GCloudProjectID),
		slog.String("location", cfg.TaskQueue.GCloudLocationID),
		slog.String("queue", cfg.TaskQueue.GCloudQueueID),
	)

	cleanup := func() error {
		if err := cloudTasksClient.Close(); err != nil {
			slog.Warn("failed to close cloud tasks client", slog.String("error", err.Error()))

			return err
		}

		return nil
	}

	return cloudTasksClient, cleanup, nil
}

func initObservability(ctx context.Context, level slog.Level) (*observability.Resources, error) {
	name := os.Getenv("K_SERVICE")
	if name == "" {
		name = serviceName
	}

	env := logging.EnvProd
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = os.Getenv("GCLOUD_PROJECT_ID")
	}

	return observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     name,
			Version:  Version,
			Revision: os.Getenv("K_REVISION"),
		},
		Environment:   env,
		GCPProjectID:  projectID,
		SamplingRate:  1.0,
		DefaultModule: serverModule,
		LogLevel:      level,
	})
}
