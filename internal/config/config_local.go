//go:build !gcloud

package config

import (
	"errors"
	"fmt"
)

// Validate accepts an empty TASK_QUEUE_URL, which disables sweep dispatch.
func (c *TaskQueueConfig) Validate() error {
	if c.TasksURL == "" {
		return nil
	}

	var errs []error
	if c.TargetURL == "" {
		errs = append(errs, errors.New("TASK_QUEUE_TARGET_URL is required when TASK_QUEUE_URL is set"))
	}
	if c.MaxRetries <= 0 {
		errs = append(errs, errors.New("TASK_QUEUE_MAX_RETRIES must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("task queue configuration errors: %w", errors.Join(errs...))
	}

	return nil
}

func (c *TaskQueueConfig) Enabled() bool {
	return c.TasksURL != ""
}
