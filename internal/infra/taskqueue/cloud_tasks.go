//go:build gcloud

package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type CloudTasksClient struct {
	client              *cloudtasks.Client
	projectID           string
	locationID          string
	queueID             string
	targetURL           string
	serviceAccountEmail string
	maxRetries          int
}

var _ TaskQueue = (*CloudTasksClient)(nil)

type CloudTasksConfig struct {
	ProjectID           string
	LocationID          string
	QueueID             string
	TargetURL           string
	ServiceAccountEmail string
	MaxRetries          int
}

func NewCloudTasksClient(ctx context.Context, cfg CloudTasksConfig) (*CloudTasksClient, error) {
	client, err := cloudtasks.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud tasks client: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &CloudTasksClient{
		client:              client,
		projectID:           cfg.ProjectID,
		locationID:          cfg.LocationID,
		queueID:             cfg.QueueID,
		targetURL:           cfg.TargetURL,
		serviceAccountEmail: cfg.ServiceAccountEmail,
		maxRetries:          maxRetries,
	}, nil
}

func (c *CloudTasksClient) queuePath() string {
	return fmt.Sprintf("projects/%s/locations/%s/queues/%s", c.projectID, c.locationID, c.queueID)
}

func (c *CloudTasksClient) EnqueueAnalysis(ctx context.Context, job *AnalysisJob) (*TaskResponse, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis job: %w", err)
	}

	httpReq := &taskspb.HttpRequest{
		HttpMethod: taskspb.HttpMethod_POST,
		Url:        c.targetURL,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"X-Run-ID":     job.RunID,
		},
		Body: payload,
	}
	if c.serviceAccountEmail != "" {
		httpReq.AuthorizationHeader = &taskspb.HttpRequest_OidcToken{
			OidcToken: &taskspb.OidcToken{
				ServiceAccountEmail: c.serviceAccountEmail,
				Audience:            c.targetURL,
			},
		}
	}

	cloudTask := &taskspb.Task{
		MessageType: &taskspb.Task_HttpRequest{HttpRequest: httpReq},
	}
	if job.TaskID != "" {
		cloudTask.Name = fmt.Sprintf("%s/tasks/%s", c.queuePath(), job.TaskID)
	}
	if !job.ScheduleAt.IsZero() {
		cloudTask.ScheduleTime = timestamppb.New(job.ScheduleAt)
	}

	req := &taskspb.CreateTaskRequest{
		Parent: c.queuePath(),
		Task:   cloudTask,
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			slog.DebugContext(ctx, "retrying analysis job registration",
				slog.String("run_id", job.RunID),
				slog.Uint64("seed", job.Setup.Seed),
				slog.Int("attempt", attempt+1),
			)
			if err := waitBackoff(ctx, attempt); err != nil {
				return nil, err
			}
		}

		resp, err := c.createTask(ctx, req, job)
		if err == nil {
			return resp, nil
		}
		if status.Code(err) == codes.AlreadyExists {
			return nil, fmt.Errorf("analysis job %s already queued: %w", job.TaskID, err)
		}
		lastErr = err
	}

	slog.ErrorContext(ctx, "all retries exhausted for analysis job registration",
		slog.String("run_id", job.RunID),
		slog.Uint64("seed", job.Setup.Seed),
		slog.Int("max_retries", c.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return nil, fmt.Errorf("failed to register analysis job after %d retries: %w", c.maxRetries, lastErr)
}

func (c *CloudTasksClient) createTask(ctx context.Context, req *taskspb.CreateTaskRequest, job *AnalysisJob) (*TaskResponse, error) {
	createdTask, err := c.client.CreateTask(ctx, req)
	if err != nil {
		slog.WarnContext(ctx, "failed to create cloud task",
			slog.String("run_id", job.RunID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to create cloud task: %w", err)
	}

	slog.InfoContext(ctx, "analysis job registered to Cloud Tasks",
		slog.String("task_name", createdTask.Name),
		slog.String("run_id", job.RunID),
		slog.Uint64("seed", job.Setup.Seed),
	)

	var scheduleTime, createTime time.Time
	if createdTask.ScheduleTime != nil {
		scheduleTime = createdTask.ScheduleTime.AsTime()
	}
	if createdTask.CreateTime != nil {
		createTime = createdTask.CreateTime.AsTime()
	}

	return &TaskResponse{
		Name:         createdTask.Name,
		ScheduleTime: scheduleTime,
		CreateTime:   createTime,
	}, nil
}

func (c *CloudTasksClient) Close() error {
	return c.client.Close()
}

func (c *CloudTasksClient) DeleteTask(ctx context.Context, taskID string) error {
	taskPath := fmt.Sprintf("%s/tasks/%s", c.queuePath(), taskID)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := waitBackoff(ctx, attempt); err != nil {
				return err
			}
		}

		err := c.client.DeleteTask(ctx, &taskspb.DeleteTaskRequest{Name: taskPath})
		if err == nil {
			slog.InfoContext(ctx, "task deleted from Cloud Tasks", slog.String("task_id", taskID))
			return nil
		}
		if status.Code(err) == codes.NotFound {
			slog.InfoContext(ctx, "task not found in Cloud Tasks (may have been processed)",
				slog.String("task_id", taskID),
			)
			return nil
		}

		slog.WarnContext(ctx, "failed to delete cloud task",
			slog.String("task_id", taskID),
			slog.String("error", err.Error()),
		)
		lastErr = err
	}

	return fmt.Errorf("failed to delete task after %d retries: %w", c.maxRetries, lastErr)
}
