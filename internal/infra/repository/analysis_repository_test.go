package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
	"github.com/KasumiMercury/edf-hull-analysis/internal/testutil"
)

func sampleResult(fingerprint string) *domain.AnalysisResult {
	return &domain.AnalysisResult{
		RunID:            "run-1",
		Fingerprint:      fingerprint,
		NumTasks:         2,
		Eps:              1e-6,
		Hyperperiod:      domain.Hyperperiod{Value: 12, Exact: true},
		NumPoints:        5,
		NumSel:           3,
		UtilizationBound: 0.5,
		CForm: []domain.CConstraint{
			{PointIndex: 0, T0: 0, T1: 4, Coeffs: []float64{1, 0}, Bound: 4, Demand: 4},
		},
		UForm: []domain.UConstraint{
			{PointIndex: 0, T0: 0, T1: 4, Coeffs: []float64{1, 0}, Demand: 1},
		},
		PointsDuration: 1500 * time.Microsecond,
		ReduceDuration: 300 * time.Microsecond,
		AnalyzedAt:     time.Date(2026, 1, 15, 14, 30, 0, 0, time.UTC),
	}
}

func TestSaveAndGetAnalysisSuccess(t *testing.T) {
	ctx := context.Background()
	client := testutil.StartRedisCache(ctx, t)

	repo := NewAnalysisRepository(client, time.Hour)

	want := sampleResult("fp-save")
	if err := repo.SaveAnalysis(ctx, want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.GetAnalysis(ctx, "fp-save")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.RunID != want.RunID || got.NumPoints != want.NumPoints || got.NumSel != want.NumSel {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if got.Hyperperiod != want.Hyperperiod {
		t.Errorf("expected hyperperiod %+v, got %+v", want.Hyperperiod, got.Hyperperiod)
	}
	if got.PointsDuration != want.PointsDuration || got.ReduceDuration != want.ReduceDuration {
		t.Errorf("expected durations %v/%v, got %v/%v", want.PointsDuration, want.ReduceDuration, got.PointsDuration, got.ReduceDuration)
	}
	if !got.AnalyzedAt.Equal(want.AnalyzedAt) {
		t.Errorf("expected analyzed_at %v, got %v", want.AnalyzedAt, got.AnalyzedAt)
	}
	if len(got.CForm) != 1 || got.CForm[0].Bound != 4 {
		t.Errorf("expected C-form to round trip, got %+v", got.CForm)
	}

	ttl, err := client.TTL(ctx, analysisKeyPrefix+"fp-save").Result()
	if err != nil {
		t.Fatalf("failed to read ttl: %v", err)
	}
	if ttl <= 0 || ttl > time.Hour {
		t.Errorf("expected ttl within (0, 1h], got %v", ttl)
	}

	score, err := client.ZScore(ctx, recentAnalysesKey, "fp-save").Result()
	if err != nil {
		t.Fatalf("expected fingerprint in recent index: %v", err)
	}
	if int64(score) != want.AnalyzedAt.Unix() {
		t.Errorf("expected recent score %d, got %v", want.AnalyzedAt.Unix(), score)
	}
}

func TestGetAnalysisErrors(t *testing.T) {
	ctx := context.Background()
	client := testutil.StartRedisCache(ctx, t)

	repo := NewAnalysisRepository(client, 0)

	tests := []struct {
		name        string
		fingerprint string
		setup       func(t *testing.T)
		wantErr     error
	}{
		{
			name:        "missing key returns not found",
			fingerprint: "fp-missing",
			setup:       func(t *testing.T) {},
			wantErr:     domain.ErrAnalysisNotFound,
		},
		{
			name:        "corrupt record returns invalid data",
			fingerprint: "fp-corrupt",
			setup: func(t *testing.T) {
				if err := client.Set(ctx, analysisKeyPrefix+"fp-corrupt", "{not json", 0).Err(); err != nil {
					t.Fatalf("failed to set up test data: %v", err)
				}
			},
			wantErr: ErrInvalidAnalysisData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup(t)

			_, err := repo.GetAnalysis(ctx, tt.fingerprint)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDeleteAnalysisSuccess(t *testing.T) {
	ctx := context.Background()
	client := testutil.StartRedisCache(ctx, t)

	repo := NewAnalysisRepository(client, time.Hour)

	if err := repo.SaveAnalysis(ctx, sampleResult("fp-delete")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.DeleteAnalysis(ctx, "fp-delete"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := repo.GetAnalysis(ctx, "fp-delete"); !errors.Is(err, domain.ErrAnalysisNotFound) {
		t.Errorf("expected ErrAnalysisNotFound after delete, got %v", err)
	}

	// deleting again is not an error
	if err := repo.DeleteAnalysis(ctx, "fp-delete"); err != nil {
		t.Errorf("unexpected error on second delete: %v", err)
	}
}

func TestSaveAnalysisInvalid(t *testing.T) {
	repo := NewAnalysisRepository(nil, time.Hour)

	if err := repo.SaveAnalysis(context.Background(), nil); !errors.Is(err, ErrInvalidAnalysisData) {
		t.Errorf("expected ErrInvalidAnalysisData for nil result, got %v", err)
	}
	if err := repo.SaveAnalysis(context.Background(), &domain.AnalysisResult{}); !errors.Is(err, ErrInvalidAnalysisData) {
		t.Errorf("expected ErrInvalidAnalysisData for missing fingerprint, got %v", err)
	}
}
