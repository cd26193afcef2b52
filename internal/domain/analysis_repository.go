package domain

import "context"

//go:generate mockgen -source=analysis_repository.go -destination=analysis_repository_mock.go -package=domain

// AnalysisRepository caches analysis results by task-set fingerprint.
type AnalysisRepository interface {
	GetAnalysis(ctx context.Context, fingerprint string) (*AnalysisResult, error)
	SaveAnalysis(ctx context.Context, result *AnalysisResult) error
	DeleteAnalysis(ctx context.Context, fingerprint string) error
}
