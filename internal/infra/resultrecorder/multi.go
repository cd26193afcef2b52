package resultrecorder

import (
	"context"
	"errors"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

type multiRecorder struct {
	recorders []domain.AnalysisResultRecorder
}

// NewMultiRecorder fans records out to every recorder. Errors are joined; one
// failing sink does not stop the others.
func NewMultiRecorder(recorders ...domain.AnalysisResultRecorder) domain.AnalysisResultRecorder {
	if len(recorders) == 1 {
		return recorders[0]
	}
	return &multiRecorder{recorders: recorders}
}

func (m *multiRecorder) RecordAnalyses(ctx context.Context, records []domain.AnalysisRecord) error {
	var errs []error
	for _, r := range m.recorders {
		if err := r.RecordAnalyses(ctx, records); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *multiRecorder) Flush(ctx context.Context) error {
	var errs []error
	for _, r := range m.recorders {
		if err := r.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *multiRecorder) Close() error {
	var errs []error
	for _, r := range m.recorders {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
