package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
	"github.com/KasumiMercury/edf-hull-analysis/internal/infra/taskqueue"
	"github.com/KasumiMercury/edf-hull-analysis/internal/observability/tracing"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/taskgen"
)

var ErrDispatchDisabled = errors.New("task queue not configured")

// SweepSummary reports a finished sweep. Records holds one row per analyzed
// run in plan order; runs that failed are counted but have no row.
type SweepSummary struct {
	RunID   string
	Runs    int
	Failed  int
	Records []domain.AnalysisRecord
}

type sample struct {
	setup domain.RandSetup
	ts    *domain.TaskSet
}

// draw picks an accepted seed for every cell of the plan. Seeds come from one
// stream so the same plan always draws the same task sets.
func (s *Service) draw(plan taskgen.SweepPlan) ([]sample, error) {
	if err := plan.Check(s.taskGenerator.Limits()); err != nil {
		return nil, err
	}

	sampler := taskgen.NewSampler(s.taskGenerator, plan.Filter, plan.Seed, s.maxAttempts)

	setups := plan.Setups()
	samples := make([]sample, 0, len(setups))
	for _, setup := range setups {
		accepted, ts, err := sampler.Sample(setup)
		if err != nil {
			return nil, fmt.Errorf("sample %d tasks, dl_avg %v, dl_var %v: %w",
				setup.NumTasks, setup.DeadlineAvg, setup.DeadlineVar, err)
		}
		samples = append(samples, sample{setup: accepted, ts: ts})
	}
	return samples, nil
}

// Sweep analyzes every run of plan on a bounded worker pool and writes the
// rows to the result recorder. A failed run is logged and skipped; cancelling
// ctx aborts the sweep.
func (s *Service) Sweep(ctx context.Context, plan taskgen.SweepPlan) (*SweepSummary, error) {
	samples, err := s.draw(plan)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	ctx, span := tracing.StartSweepSpan(ctx, runID, len(samples))
	defer span.End()

	slog.InfoContext(ctx, "starting sweep",
		slog.String("run_id", runID),
		slog.Int("runs", len(samples)),
		slog.Int("workers", s.workers),
	)

	records := make([]*domain.AnalysisRecord, len(samples))
	var failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, smp := range samples {
		g.Go(func() error {
			outcome, err := s.Run(gctx, smp.ts)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failed.Add(1)
				slog.WarnContext(gctx, "sweep run failed",
					slog.String("run_id", runID),
					slog.Uint64("seed", smp.setup.Seed),
					slog.Int("num_tasks", smp.setup.NumTasks),
					slog.String("error", err.Error()),
				)
				return nil
			}

			record := NewRecord(runID, smp.setup, outcome.Result)
			records[i] = &record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("sweep %s aborted: %w", runID, err)
	}

	summary := &SweepSummary{
		RunID:   runID,
		Runs:    len(samples),
		Failed:  int(failed.Load()),
		Records: make([]domain.AnalysisRecord, 0, len(samples)),
	}
	for _, r := range records {
		if r != nil {
			summary.Records = append(summary.Records, *r)
		}
	}

	if s.resultRecorder != nil && len(summary.Records) > 0 {
		if err := s.resultRecorder.RecordAnalyses(ctx, summary.Records); err != nil {
			tracing.RecordError(span, err)
			return summary, fmt.Errorf("record sweep %s: %w", runID, err)
		}
		if err := s.resultRecorder.Flush(ctx); err != nil {
			return summary, fmt.Errorf("flush sweep %s: %w", runID, err)
		}
	}

	slog.InfoContext(ctx, "sweep completed",
		slog.String("run_id", runID),
		slog.Int("runs", summary.Runs),
		slog.Int("failed", summary.Failed),
	)

	return summary, nil
}

// Dispatch draws the plan's seeds and enqueues one seed analysis per run
// instead of analyzing in-process.
func (s *Service) Dispatch(ctx context.Context, plan taskgen.SweepPlan) (*domain.SweepReceipt, error) {
	if s.taskQueue == nil {
		return nil, ErrDispatchDisabled
	}

	samples, err := s.draw(plan)
	if err != nil {
		return nil, err
	}

	receipt := &domain.SweepReceipt{
		RunID:     uuid.NewString(),
		TaskNames: make([]string, 0, len(samples)),
	}

	for i, smp := range samples {
		job := &taskqueue.AnalysisJob{
			TaskID: fmt.Sprintf("%s-%d", receipt.RunID, i),
			RunID:  receipt.RunID,
			Setup:  smp.setup,
		}

		resp, err := s.taskQueue.EnqueueAnalysis(ctx, job)
		if err != nil {
			slog.ErrorContext(ctx, "failed to enqueue sweep run",
				slog.String("run_id", receipt.RunID),
				slog.Int("enqueued", receipt.Enqueued),
				slog.String("error", err.Error()),
			)
			return receipt, fmt.Errorf("enqueue run %d of sweep %s: %w", i, receipt.RunID, err)
		}

		receipt.Enqueued++
		receipt.TaskNames = append(receipt.TaskNames, resp.Name)
	}

	slog.InfoContext(ctx, "sweep dispatched",
		slog.String("run_id", receipt.RunID),
		slog.Int("enqueued", receipt.Enqueued),
	)

	return receipt, nil
}
