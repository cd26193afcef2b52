package analysis

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
	"github.com/KasumiMercury/edf-hull-analysis/internal/infra/taskqueue"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/taskgen"
)

func smallPlan() taskgen.SweepPlan {
	return taskgen.SweepPlan{
		Base: domain.RandSetup{
			NumTasks:    2,
			PeriodMin:   2,
			PeriodMax:   8,
			DeadlineAvg: 0.9,
			DeadlineVar: 0.1,
			Eps:         1e-6,
		},
		NumTasks: []int{2, 3},
		Runs:     3,
		Seed:     5,
		Filter:   taskgen.Filter{ExactHyperperiod: true},
	}
}

func TestService_Sweep(t *testing.T) {
	ctrl := gomock.NewController(t)
	recorder := domain.NewMockAnalysisResultRecorder(ctrl)

	var recorded []domain.AnalysisRecord
	recorder.EXPECT().RecordAnalyses(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, records []domain.AnalysisRecord) error {
			recorded = records
			return nil
		})
	recorder.EXPECT().Flush(gomock.Any()).Return(nil)

	svc := newTestService(deps{recorder: recorder, workers: 4})

	summary, err := svc.Sweep(context.Background(), smallPlan())
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if summary.Runs != 6 || summary.Failed != 0 || len(summary.Records) != 6 {
		t.Fatalf("summary = runs %d failed %d records %d, want 6/0/6", summary.Runs, summary.Failed, len(summary.Records))
	}
	if len(recorded) != 6 {
		t.Errorf("recorded %d rows, want 6", len(recorded))
	}

	for i, r := range summary.Records {
		wantTasks := 2
		if i >= 3 {
			wantTasks = 3
		}
		if r.NumTasks != wantTasks {
			t.Errorf("record %d num_tasks = %d, want %d", i, r.NumTasks, wantTasks)
		}
		if r.RunID != summary.RunID {
			t.Errorf("record %d run_id = %q, want %q", i, r.RunID, summary.RunID)
		}
		if !r.HyperperiodExact {
			t.Errorf("record %d passed the exact-hyperperiod filter with an inexact hyperperiod", i)
		}
		if r.NumSel < 1 || r.NumSel > r.NumPoints {
			t.Errorf("record %d num_sel %d outside [1, %d]", i, r.NumSel, r.NumPoints)
		}
	}
}

func TestService_SweepDeterministic(t *testing.T) {
	svc := newTestService(deps{workers: 3})

	first, err := svc.Sweep(context.Background(), smallPlan())
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	second, err := svc.Sweep(context.Background(), smallPlan())
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	for i := range first.Records {
		a, b := first.Records[i], second.Records[i]
		if a.Seed != b.Seed || a.NumPoints != b.NumPoints || a.NumSel != b.NumSel {
			t.Errorf("run %d differs: %+v vs %+v", i, a, b)
		}
	}
}

func TestService_SweepCancelled(t *testing.T) {
	svc := newTestService(deps{workers: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Sweep(ctx, smallPlan()); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestService_SweepNoAcceptedSample(t *testing.T) {
	svc := NewService(nil, nil, taskgen.NewGenerator(domain.HyperperiodPolicy{MaxHyperperiod: 1}, taskgen.DefaultLimits()), nil, nil, nil, nil, 1, 3)

	plan := smallPlan()
	plan.Base.PeriodMin = 7
	plan.Base.PeriodMax = 50

	if _, err := svc.Sweep(context.Background(), plan); !errors.Is(err, taskgen.ErrNoAcceptedSample) {
		t.Fatalf("error = %v, want ErrNoAcceptedSample", err)
	}
}

func TestService_SweepLimits(t *testing.T) {
	ctrl := gomock.NewController(t)
	queue := taskqueue.NewMockTaskQueue(ctrl)
	queue.EXPECT().EnqueueAnalysis(gomock.Any(), gomock.Any()).Times(0)

	svc := NewService(nil, nil,
		taskgen.NewGenerator(domain.DefaultHyperperiodPolicy(), taskgen.Limits{MaxTasks: 4, MaxRuns: 5}),
		nil, nil, queue, nil, 1, 3)

	tooManyRuns := smallPlan()
	tooManyRuns.Runs = 1 << 62
	tooManyTasks := smallPlan()
	tooManyTasks.NumTasks = []int{5}

	tests := []struct {
		name    string
		plan    taskgen.SweepPlan
		wantErr error
	}{
		{name: "runs", plan: tooManyRuns, wantErr: domain.ErrAllocation},
		{name: "tasks", plan: tooManyTasks, wantErr: domain.ErrInvalidRandSetup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Sweep(context.Background(), tt.plan); !errors.Is(err, tt.wantErr) {
				t.Errorf("Sweep() error = %v, want %v", err, tt.wantErr)
			}
			if _, err := svc.Dispatch(context.Background(), tt.plan); !errors.Is(err, tt.wantErr) {
				t.Errorf("Dispatch() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_Dispatch(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		svc := newTestService(deps{})
		if _, err := svc.Dispatch(context.Background(), smallPlan()); !errors.Is(err, ErrDispatchDisabled) {
			t.Fatalf("error = %v, want ErrDispatchDisabled", err)
		}
	})

	t.Run("enqueues every run", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		queue := taskqueue.NewMockTaskQueue(ctrl)

		var jobs []*taskqueue.AnalysisJob
		queue.EXPECT().EnqueueAnalysis(gomock.Any(), gomock.Any()).Times(6).
			DoAndReturn(func(_ context.Context, job *taskqueue.AnalysisJob) (*taskqueue.TaskResponse, error) {
				jobs = append(jobs, job)
				return &taskqueue.TaskResponse{Name: fmt.Sprintf("tasks/%d", len(jobs))}, nil
			})

		svc := newTestService(deps{queue: queue})

		receipt, err := svc.Dispatch(context.Background(), smallPlan())
		if err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}

		if receipt.Enqueued != 6 || len(receipt.TaskNames) != 6 {
			t.Errorf("receipt = %+v", receipt)
		}
		for i, job := range jobs {
			if job.RunID != receipt.RunID {
				t.Errorf("job %d run_id = %q, want %q", i, job.RunID, receipt.RunID)
			}
			if job.TaskID != fmt.Sprintf("%s-%d", receipt.RunID, i) {
				t.Errorf("job %d task id = %q", i, job.TaskID)
			}
		}
	})

	t.Run("stops at first enqueue failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		queue := taskqueue.NewMockTaskQueue(ctrl)

		gomock.InOrder(
			queue.EXPECT().EnqueueAnalysis(gomock.Any(), gomock.Any()).Return(&taskqueue.TaskResponse{Name: "tasks/1"}, nil),
			queue.EXPECT().EnqueueAnalysis(gomock.Any(), gomock.Any()).Return(nil, errors.New("queue unavailable")),
		)

		svc := newTestService(deps{queue: queue})

		receipt, err := svc.Dispatch(context.Background(), smallPlan())
		if err == nil {
			t.Fatal("expected error")
		}
		if receipt == nil || receipt.Enqueued != 1 {
			t.Errorf("receipt = %+v, want 1 enqueued", receipt)
		}
	})
}
