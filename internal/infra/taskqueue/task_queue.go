package taskqueue

import "context"

//go:generate mockgen -source=task_queue.go -destination=mock.go -package=taskqueue

// TaskQueue dispatches seed analyses to workers serving POST /api/v1/analyze/seed.
type TaskQueue interface {
	EnqueueAnalysis(ctx context.Context, job *AnalysisJob) (*TaskResponse, error)
	DeleteTask(ctx context.Context, taskID string) error
}
