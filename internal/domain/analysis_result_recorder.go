package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=analysis_result_recorder.go -destination=analysis_result_recorder_mock.go -package=domain

// AnalysisRecord is one row of an experiment sweep.
type AnalysisRecord struct {
	RunID            string
	Seed             uint64
	NumTasks         int
	PeriodMin        float64
	PeriodMax        float64
	Phasing          bool
	DeadlineAvg      float64
	DeadlineVar      float64
	Hyperperiod      float64
	HyperperiodExact bool
	NumPoints        int
	NumSel           int
	PointsDuration   time.Duration
	ReduceDuration   time.Duration
}

type AnalysisResultRecorder interface {
	RecordAnalyses(ctx context.Context, records []AnalysisRecord) error
	Flush(ctx context.Context) error
	Close() error
}
