//go:build !gcloud

package taskqueue

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// HTTPTasksClient registers jobs on a Cloud Tasks compatible HTTP emulator.
type HTTPTasksClient struct {
	baseURL    string
	queueName  string
	targetURL  string
	httpClient *http.Client
	maxRetries int
}

var _ TaskQueue = (*HTTPTasksClient)(nil)

func NewHTTPTasksClient(baseURL, queueName, targetURL string, maxRetries int) *HTTPTasksClient {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &HTTPTasksClient{
		baseURL:   baseURL,
		queueName: queueName,
		targetURL: targetURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: maxRetries,
	}
}

func (c *HTTPTasksClient) tasksURL() string {
	if c.queueName != "" && c.queueName != "default" {
		return fmt.Sprintf("%s/tasks/%s", c.baseURL, url.PathEscape(c.queueName))
	}
	return fmt.Sprintf("%s/tasks", c.baseURL)
}

func (c *HTTPTasksClient) EnqueueAnalysis(ctx context.Context, job *AnalysisJob) (*TaskResponse, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis job: %w", err)
	}

	queueReq := queueTaskRequest{
		Task: queueTask{
			Name: job.TaskID,
			HTTPRequest: queueHTTPRequest{
				URL:  c.targetURL,
				Body: base64.StdEncoding.EncodeToString(payload),
				Headers: map[string]string{
					"Content-Type": "application/json",
					"X-Run-ID":     job.RunID,
				},
			},
		},
	}
	if !job.ScheduleAt.IsZero() {
		queueReq.Task.ScheduleTime = job.ScheduleAt.Format(time.RFC3339)
	}

	reqBody, err := json.Marshal(queueReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal queue request: %w", err)
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

		resp, err := c.doEnqueue(ctx, reqBody, job)
		if err == nil {
			return resp, nil
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

func (c *HTTPTasksClient) doEnqueue(ctx context.Context, reqBody []byte, job *AnalysisJob) (*TaskResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tasksURL(), bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "failed to send request to task queue",
			slog.String("run_id", job.RunID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		slog.WarnContext(ctx, "unexpected status code from task queue",
			slog.String("run_id", job.RunID),
			slog.Int("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var queueResp queueTaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&queueResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	scheduleTime, _ := time.Parse(time.RFC3339, queueResp.ScheduleTime)
	createTime, _ := time.Parse(time.RFC3339, queueResp.CreateTime)

	slog.InfoContext(ctx, "analysis job registered",
		slog.String("task_name", queueResp.Name),
		slog.String("run_id", job.RunID),
		slog.Uint64("seed", job.Setup.Seed),
	)

	return &TaskResponse{
		Name:         queueResp.Name,
		ScheduleTime: scheduleTime,
		CreateTime:   createTime,
	}, nil
}

func (c *HTTPTasksClient) DeleteTask(ctx context.Context, taskID string) error {
	taskURL := fmt.Sprintf("%s/%s", c.tasksURL(), url.PathEscape(taskID))

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := waitBackoff(ctx, attempt); err != nil {
				return err
			}
		}

		err := c.doDelete(ctx, taskURL, taskID)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	return fmt.Errorf("failed to delete task after %d retries: %w", c.maxRetries, lastErr)
}

func (c *HTTPTasksClient) doDelete(ctx context.Context, taskURL, taskID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, taskURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		slog.InfoContext(ctx, "task deleted", slog.String("task_id", taskID))
		return nil
	case http.StatusNotFound:
		slog.InfoContext(ctx, "task not found (may have been processed)", slog.String("task_id", taskID))
		return nil
	default:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}
