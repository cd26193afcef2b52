package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

const (
	analysisKeyPrefix = "analysis:result:"
	recentAnalysesKey = "analysis:recent"

	DefaultAnalysisTTL = 24 * time.Hour
)

type analysisRecord struct {
	RunID            string               `json:"run_id"`
	Fingerprint      string               `json:"fingerprint"`
	NumTasks         int                  `json:"num_tasks"`
	Eps              float64              `json:"eps"`
	Hyperperiod      float64              `json:"hyperperiod"`
	HyperperiodExact bool                 `json:"hyperperiod_exact"`
	HyperperiodTol   float64              `json:"hyperperiod_tol"`
	NumPoints        int                  `json:"num_points"`
	NumSel           int                  `json:"num_sel"`
	UtilizationBound float64              `json:"utilization_bound"`
	CForm            []domain.CConstraint `json:"c_form"`
	UForm            []domain.UConstraint `json:"u_form"`
	PointsNanos      int64                `json:"points_ns"`
	ReduceNanos      int64                `json:"reduce_ns"`
	AnalyzedAt       time.Time            `json:"analyzed_at"`
}

type analysisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAnalysisRepository(client *redis.Client, ttl time.Duration) domain.AnalysisRepository {
	if ttl <= 0 {
		ttl = DefaultAnalysisTTL
	}

	return &analysisRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *analysisRepository) GetAnalysis(ctx context.Context, fingerprint string) (*domain.AnalysisResult, error) {
	key := analysisKeyPrefix + fingerprint

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrAnalysisNotFound
		}
		return nil, err
	}

	var record analysisRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrInvalidAnalysisData
	}

	return &domain.AnalysisResult{
		RunID:       record.RunID,
		Fingerprint: record.Fingerprint,
		NumTasks:    record.NumTasks,
		Eps:         record.Eps,
		Hyperperiod: domain.Hyperperiod{
			Value: record.Hyperperiod,
			Exact: record.HyperperiodExact,
			Tol:   record.HyperperiodTol,
		},
		NumPoints:        record.NumPoints,
		NumSel:           record.NumSel,
		UtilizationBound: record.UtilizationBound,
		CForm:            record.CForm,
		UForm:            record.UForm,
		PointsDuration:   time.Duration(record.PointsNanos),
		ReduceDuration:   time.Duration(record.ReduceNanos),
		AnalyzedAt:       record.AnalyzedAt,
	}, nil
}

func (r *analysisRepository) SaveAnalysis(ctx context.Context, result *domain.AnalysisResult) error {
	if result == nil || result.Fingerprint == "" {
		return ErrInvalidAnalysisData
	}

	record := analysisRecord{
		RunID:            result.RunID,
		Fingerprint:      result.Fingerprint,
		NumTasks:         result.NumTasks,
		Eps:              result.Eps,
		Hyperperiod:      result.Hyperperiod.Value,
		HyperperiodExact: result.Hyperperiod.Exact,
		HyperperiodTol:   result.Hyperperiod.Tol,
		NumPoints:        result.NumPoints,
		NumSel:           result.NumSel,
		UtilizationBound: result.UtilizationBound,
		CForm:            result.CForm,
		UForm:            result.UForm,
		PointsNanos:      result.PointsDuration.Nanoseconds(),
		ReduceNanos:      result.ReduceDuration.Nanoseconds(),
		AnalyzedAt:       result.AnalyzedAt,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return ErrInvalidAnalysisData
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, analysisKeyPrefix+result.Fingerprint, data, r.ttl)
	pipe.ZAdd(ctx, recentAnalysesKey, redis.Z{
		Score:  float64(result.AnalyzedAt.Unix()),
		Member: result.Fingerprint,
	})
	pipe.Expire(ctx, recentAnalysesKey, r.ttl)

	_, err = pipe.Exec(ctx)
	return err
}

func (r *analysisRepository) DeleteAnalysis(ctx context.Context, fingerprint string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, analysisKeyPrefix+fingerprint)
	pipe.ZRem(ctx, recentAnalysesKey, fingerprint)

	_, err := pipe.Exec(ctx)
	return err
}
