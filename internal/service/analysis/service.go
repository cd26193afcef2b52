package analysis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
	"github.com/KasumiMercury/edf-hull-analysis/internal/infra/taskqueue"
	"github.com/KasumiMercury/edf-hull-analysis/internal/observability/metrics"
	"github.com/KasumiMercury/edf-hull-analysis/internal/observability/tracing"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/demand"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/export"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/reduce"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/taskgen"
)

// Outcome is one analysis together with the point set it was derived from.
// Points is nil when the result came from the cache.
type Outcome struct {
	TaskSet *domain.TaskSet
	Points  *domain.PointSet
	Result  *domain.AnalysisResult
}

// Service runs the generate, reduce and export pipeline. Repository, recorder,
// task queue and metrics are optional.
type Service struct {
	generator       *demand.Generator
	reducer         *reduce.Reducer
	taskGenerator   *taskgen.Generator
	analysisRepo    domain.AnalysisRepository
	resultRecorder  domain.AnalysisResultRecorder
	taskQueue       taskqueue.TaskQueue
	analysisMetrics *metrics.AnalysisMetrics
	workers         int
	maxAttempts     int
	now             func() time.Time
}

func NewService(
	generator *demand.Generator,
	reducer *reduce.Reducer,
	taskGenerator *taskgen.Generator,
	analysisRepo domain.AnalysisRepository,
	resultRecorder domain.AnalysisResultRecorder,
	taskQueue taskqueue.TaskQueue,
	analysisMetrics *metrics.AnalysisMetrics,
	workers int,
	maxAttempts int,
) *Service {
	return &Service{
		generator:       generator,
		reducer:         reducer,
		taskGenerator:   taskGenerator,
		analysisRepo:    analysisRepo,
		resultRecorder:  resultRecorder,
		taskQueue:       taskQueue,
		analysisMetrics: analysisMetrics,
		workers:         max(1, workers),
		maxAttempts:     maxAttempts,
		now:             time.Now,
	}
}

// Analyze returns the cached result for ts when one exists, and runs the
// pipeline otherwise. Fresh results are written back to the cache.
func (s *Service) Analyze(ctx context.Context, ts *domain.TaskSet) (*Outcome, error) {
	if !ts.Validated() {
		return nil, domain.NewAnalysisError(domain.StageTaskSet, "task set built by NewTaskSet", domain.ErrInvalidTask)
	}

	fingerprint := ts.Fingerprint()

	if cached, ok := s.lookup(ctx, fingerprint); ok {
		cached.Cached = true
		if s.analysisMetrics != nil {
			s.analysisMetrics.RecordCacheHit(ctx)
		}
		return &Outcome{TaskSet: ts, Result: cached}, nil
	}

	outcome, err := s.Run(ctx, ts)
	if err != nil {
		return nil, err
	}

	if s.analysisRepo != nil {
		if err := s.analysisRepo.SaveAnalysis(ctx, outcome.Result); err != nil {
			slog.WarnContext(ctx, "failed to cache analysis result",
				slog.String("fingerprint", fingerprint),
				slog.String("error", err.Error()),
			)
		}
	}

	return outcome, nil
}

// Run executes the pipeline on ts without consulting the cache.
func (s *Service) Run(ctx context.Context, ts *domain.TaskSet) (*Outcome, error) {
	if !ts.Validated() {
		return nil, domain.NewAnalysisError(domain.StageTaskSet, "task set built by NewTaskSet", domain.ErrInvalidTask)
	}

	fingerprint := ts.Fingerprint()
	ctx, span := tracing.StartAnalysisSpan(ctx, fingerprint, ts.Len())
	defer span.End()

	result := &domain.AnalysisResult{
		RunID:       uuid.NewString(),
		Fingerprint: fingerprint,
		NumTasks:    ts.Len(),
		Eps:         ts.Eps(),
		Hyperperiod: ts.HyperperiodInfo(),
	}

	var ps *domain.PointSet
	pointsDuration, err := s.stage(ctx, domain.StagePoints, func(ctx context.Context) error {
		var err error
		ps, err = s.generator.Generate(ctx, ts)
		return err
	})
	if err != nil {
		tracing.RecordAnalysisResult(span, nil, err)
		return nil, err
	}

	reduceDuration, err := s.stage(ctx, domain.StageReduce, func(ctx context.Context) error {
		return s.reducer.Reduce(ctx, ps)
	})
	if err != nil {
		tracing.RecordAnalysisResult(span, nil, err)
		return nil, err
	}

	result.NumPoints = ps.NumPoints
	result.NumSel = ps.NumSel
	result.CForm = export.CoefficientForm(ps)
	result.UForm = export.UtilizationForm(ts, ps)
	result.UtilizationBound = reduce.UtilizationBound(ps.SelectedPoints())
	result.PointsDuration = pointsDuration
	result.ReduceDuration = reduceDuration
	result.AnalyzedAt = s.now()

	if s.analysisMetrics != nil {
		s.analysisMetrics.RecordRun(ctx, result.NumPoints, result.NumSel)
	}
	tracing.RecordAnalysisResult(span, result, nil)

	slog.DebugContext(ctx, "analysis completed",
		slog.String("fingerprint", fingerprint),
		slog.Int("num_points", result.NumPoints),
		slog.Int("num_sel", result.NumSel),
		slog.Duration("points_duration", pointsDuration),
		slog.Duration("reduce_duration", reduceDuration),
	)

	return &Outcome{TaskSet: ts, Points: ps, Result: result}, nil
}

// stage runs fn inside a span and reports its duration. Failures are counted
// against the stage the error carries, falling back to the running stage.
func (s *Service) stage(ctx context.Context, stage domain.Stage, fn func(context.Context) error) (time.Duration, error) {
	ctx, span := tracing.StartStageSpan(ctx, stage)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	if s.analysisMetrics != nil {
		s.analysisMetrics.RecordStageDuration(ctx, stage, duration)
	}

	if err != nil {
		failed := stage
		if st, ok := domain.StageOf(err); ok {
			failed = st
		}
		if s.analysisMetrics != nil {
			s.analysisMetrics.RecordFailure(ctx, failed)
		}
		tracing.RecordError(span, err)
		return duration, err
	}

	return duration, nil
}

// AnalyzeSeed generates the task set described by setup, analyzes it and hands
// the row to the result recorder.
func (s *Service) AnalyzeSeed(ctx context.Context, runID string, setup domain.RandSetup) (*Outcome, error) {
	ts, err := s.taskGenerator.Generate(setup)
	if err != nil {
		return nil, err
	}

	outcome, err := s.Run(ctx, ts)
	if err != nil {
		return nil, err
	}
	if runID != "" {
		outcome.Result.RunID = runID
	}

	if s.resultRecorder != nil {
		record := NewRecord(outcome.Result.RunID, setup, outcome.Result)
		if err := s.resultRecorder.RecordAnalyses(ctx, []domain.AnalysisRecord{record}); err != nil {
			slog.WarnContext(ctx, "failed to record analysis result",
				slog.String("run_id", outcome.Result.RunID),
				slog.Uint64("seed", setup.Seed),
				slog.String("error", err.Error()),
			)
		}
	}

	return outcome, nil
}

// Lookup returns a cached result without running the pipeline.
func (s *Service) Lookup(ctx context.Context, fingerprint string) (*domain.AnalysisResult, error) {
	if s.analysisRepo == nil {
		return nil, domain.ErrAnalysisNotFound
	}
	return s.analysisRepo.GetAnalysis(ctx, fingerprint)
}

// Forget drops a cached result.
func (s *Service) Forget(ctx context.Context, fingerprint string) error {
	if s.analysisRepo == nil {
		return nil
	}
	return s.analysisRepo.DeleteAnalysis(ctx, fingerprint)
}

func (s *Service) lookup(ctx context.Context, fingerprint string) (*domain.AnalysisResult, bool) {
	if s.analysisRepo == nil {
		return nil, false
	}

	cached, err := s.analysisRepo.GetAnalysis(ctx, fingerprint)
	if err != nil {
		if !errors.Is(err, domain.ErrAnalysisNotFound) {
			slog.WarnContext(ctx, "analysis cache lookup failed",
				slog.String("fingerprint", fingerprint),
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}
	return cached, true
}

// NewRecord flattens a result into a sweep row.
func NewRecord(runID string, setup domain.RandSetup, result *domain.AnalysisResult) domain.AnalysisRecord {
	return domain.AnalysisRecord{
		RunID:            runID,
		Seed:             setup.Seed,
		NumTasks:         setup.NumTasks,
		PeriodMin:        setup.PeriodMin,
		PeriodMax:        setup.PeriodMax,
		Phasing:          setup.Phasing,
		DeadlineAvg:      setup.DeadlineAvg,
		DeadlineVar:      setup.DeadlineVar,
		Hyperperiod:      result.Hyperperiod.Value,
		HyperperiodExact: result.Hyperperiod.Exact,
		NumPoints:        result.NumPoints,
		NumSel:           result.NumSel,
		PointsDuration:   result.PointsDuration,
		ReduceDuration:   result.ReduceDuration,
	}
}
