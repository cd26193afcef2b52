package taskqueue

import (
	"time"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

// AnalysisJob is the body delivered to the seed analysis endpoint.
type AnalysisJob struct {
	TaskID     string    `json:"-"`
	ScheduleAt time.Time `json:"-"`

	RunID string           `json:"run_id"`
	Setup domain.RandSetup `json:"setup"`
}

type TaskResponse struct {
	Name         string    `json:"name"`
	ScheduleTime time.Time `json:"schedule_time"`
	CreateTime   time.Time `json:"create_time"`
}

// queueTaskRequest mirrors the Cloud Tasks REST shape accepted by the local
// task emulator.
type queueTaskRequest struct {
	Task queueTask `json:"task"`
}

type queueTask struct {
	Name         string           `json:"name,omitempty"`
	HTTPRequest  queueHTTPRequest `json:"httpRequest"`
	ScheduleTime string           `json:"scheduleTime,omitempty"`
}

type queueHTTPRequest struct {
	URL     string            `json:"url,omitempty"`
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type queueTaskResponse struct {
	Name         string `json:"name"`
	ScheduleTime string `json:"scheduleTime"`
	CreateTime   string `json:"createTime"`
}
