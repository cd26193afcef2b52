package analysis

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
	"github.com/KasumiMercury/edf-hull-analysis/internal/infra/geometry"
	"github.com/KasumiMercury/edf-hull-analysis/internal/infra/taskqueue"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/demand"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/reduce"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/taskgen"
)

type deps struct {
	repo     domain.AnalysisRepository
	recorder domain.AnalysisResultRecorder
	queue    taskqueue.TaskQueue
	workers  int
}

func newTestService(d deps) *Service {
	svc := NewService(
		demand.NewGenerator(demand.DefaultMaxPoints),
		reduce.NewReducer(geometry.NewMonotoneChain()),
		taskgen.NewGenerator(domain.DefaultHyperperiodPolicy(), taskgen.DefaultLimits()),
		d.repo,
		d.recorder,
		d.queue,
		nil,
		d.workers,
		taskgen.DefaultMaxAttempts,
	)
	svc.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func scenarioB(t *testing.T) *domain.TaskSet {
	t.Helper()

	ts, err := domain.NewTaskSet([]domain.Task{
		domain.NewTask(4, 4, 0),
		domain.NewTask(6, 6, 0),
	}, 1e-6, domain.DefaultHyperperiodPolicy())
	if err != nil {
		t.Fatalf("NewTaskSet() error = %v", err)
	}
	return ts
}

func TestService_Run(t *testing.T) {
	svc := newTestService(deps{})

	outcome, err := svc.Run(context.Background(), scenarioB(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	result := outcome.Result
	if result.NumPoints != 5 || result.NumSel != 3 {
		t.Errorf("num_points = %d, num_sel = %d, want 5 and 3", result.NumPoints, result.NumSel)
	}
	if len(result.CForm) != 3 || len(result.UForm) != 3 {
		t.Fatalf("constraint counts = %d/%d, want 3/3", len(result.CForm), len(result.UForm))
	}
	if math.Abs(result.UtilizationBound-0.5) > 1e-12 {
		t.Errorf("UtilizationBound = %v, want 0.5", result.UtilizationBound)
	}
	if !result.Hyperperiod.Exact || result.Hyperperiod.Value != 12 {
		t.Errorf("Hyperperiod = %+v, want exact 12", result.Hyperperiod)
	}
	if result.RunID == "" || result.Fingerprint != outcome.TaskSet.Fingerprint() {
		t.Errorf("identity not set: run %q fingerprint %q", result.RunID, result.Fingerprint)
	}
	if result.Cached {
		t.Error("fresh result marked cached")
	}
	if outcome.Points == nil || outcome.Points.NumSel != result.NumSel {
		t.Error("outcome does not carry the reduced point set")
	}
}

func TestService_RunRejectsUnvalidatedTaskSet(t *testing.T) {
	svc := newTestService(deps{})

	_, err := svc.Run(context.Background(), &domain.TaskSet{})
	if !errors.Is(err, domain.ErrInvalidTask) {
		t.Fatalf("error = %v, want ErrInvalidTask", err)
	}
	if stage, _ := domain.StageOf(err); stage != domain.StageTaskSet {
		t.Errorf("stage = %q, want taskset", stage)
	}
}

func TestService_RunAllocationLimit(t *testing.T) {
	svc := NewService(
		demand.NewGenerator(2),
		reduce.NewReducer(geometry.NewMonotoneChain()),
		nil, nil, nil, nil, nil, 1, 0,
	)

	_, err := svc.Run(context.Background(), scenarioB(t))
	if !errors.Is(err, domain.ErrAllocation) {
		t.Fatalf("error = %v, want ErrAllocation", err)
	}
}

func TestService_Analyze(t *testing.T) {
	cachedResult := &domain.AnalysisResult{Fingerprint: "x", NumPoints: 5, NumSel: 3}

	tests := []struct {
		name       string
		setupMock  func(m *domain.MockAnalysisRepository)
		wantCached bool
	}{
		{
			name: "cache hit",
			setupMock: func(m *domain.MockAnalysisRepository) {
				m.EXPECT().GetAnalysis(gomock.Any(), gomock.Any()).Return(cachedResult, nil)
			},
			wantCached: true,
		},
		{
			name: "cache miss stores result",
			setupMock: func(m *domain.MockAnalysisRepository) {
				m.EXPECT().GetAnalysis(gomock.Any(), gomock.Any()).Return(nil, domain.ErrAnalysisNotFound)
				m.EXPECT().SaveAnalysis(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, r *domain.AnalysisResult) error {
						if r.NumSel != 3 {
							t.Errorf("saved num_sel = %d, want 3", r.NumSel)
						}
						return nil
					})
			},
		},
		{
			name: "cache errors do not fail the analysis",
			setupMock: func(m *domain.MockAnalysisRepository) {
				m.EXPECT().GetAnalysis(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))
				m.EXPECT().SaveAnalysis(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := domain.NewMockAnalysisRepository(ctrl)
			tt.setupMock(repo)

			svc := newTestService(deps{repo: repo})
			ts := scenarioB(t)

			outcome, err := svc.Analyze(context.Background(), ts)
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}

			if outcome.Result.Cached != tt.wantCached {
				t.Errorf("Cached = %v, want %v", outcome.Result.Cached, tt.wantCached)
			}
			if tt.wantCached && outcome.Points != nil {
				t.Error("cached outcome should not carry points")
			}
			if outcome.Result.NumSel != 3 {
				t.Errorf("NumSel = %d, want 3", outcome.Result.NumSel)
			}
		})
	}
}

func TestService_AnalyzeSeed(t *testing.T) {
	ctrl := gomock.NewController(t)
	recorder := domain.NewMockAnalysisResultRecorder(ctrl)

	setup := domain.RandSetup{
		Seed:        11,
		NumTasks:    3,
		PeriodMin:   2,
		PeriodMax:   6,
		DeadlineAvg: 0.9,
		DeadlineVar: 0.1,
		Eps:         1e-6,
	}

	recorder.EXPECT().RecordAnalyses(gomock.Any(), gomock.Len(1)).
		DoAndReturn(func(_ context.Context, records []domain.AnalysisRecord) error {
			r := records[0]
			if r.RunID != "run-1" || r.Seed != 11 || r.NumTasks != 3 {
				t.Errorf("record = %+v", r)
			}
			if r.NumSel < 1 || r.NumSel > r.NumPoints {
				t.Errorf("num_sel %d outside [1, %d]", r.NumSel, r.NumPoints)
			}
			return nil
		})

	svc := newTestService(deps{recorder: recorder})

	outcome, err := svc.AnalyzeSeed(context.Background(), "run-1", setup)
	if err != nil {
		t.Fatalf("AnalyzeSeed() error = %v", err)
	}
	if outcome.Result.RunID != "run-1" {
		t.Errorf("RunID = %q, want run-1", outcome.Result.RunID)
	}
}

func TestService_AnalyzeSeedInvalidSetup(t *testing.T) {
	svc := newTestService(deps{})

	_, err := svc.AnalyzeSeed(context.Background(), "", domain.RandSetup{})
	if !errors.Is(err, domain.ErrInvalidRandSetup) {
		t.Fatalf("error = %v, want ErrInvalidRandSetup", err)
	}
}

func TestService_LookupAndForget(t *testing.T) {
	t.Run("without repository", func(t *testing.T) {
		svc := newTestService(deps{})

		if _, err := svc.Lookup(context.Background(), "fp"); !errors.Is(err, domain.ErrAnalysisNotFound) {
			t.Errorf("Lookup() error = %v, want ErrAnalysisNotFound", err)
		}
		if err := svc.Forget(context.Background(), "fp"); err != nil {
			t.Errorf("Forget() error = %v", err)
		}
	})

	t.Run("with repository", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := domain.NewMockAnalysisRepository(ctrl)
		repo.EXPECT().GetAnalysis(gomock.Any(), "fp").Return(&domain.AnalysisResult{Fingerprint: "fp"}, nil)
		repo.EXPECT().DeleteAnalysis(gomock.Any(), "fp").Return(nil)

		svc := newTestService(deps{repo: repo})

		got, err := svc.Lookup(context.Background(), "fp")
		if err != nil || got.Fingerprint != "fp" {
			t.Errorf("Lookup() = %+v, %v", got, err)
		}
		if err := svc.Forget(context.Background(), "fp"); err != nil {
			t.Errorf("Forget() error = %v", err)
		}
	})
}
