package resultrecorder

import (
	"context"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.AnalysisResultRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordAnalyses(_ context.Context, _ []domain.AnalysisRecord) error {
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
