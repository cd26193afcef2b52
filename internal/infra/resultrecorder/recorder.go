package resultrecorder

import (
	"context"
	"log/slog"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

// NewRecorder builds the configured sinks: the platform sink (InfluxDB locally,
// BigQuery on gcloud) plus the CSV file when CSVPath is set.
func NewRecorder(ctx context.Context, cfg *Config) (domain.AnalysisResultRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "analysis result recording disabled")
		return NewNoopRecorder(), nil
	}

	platform, err := newPlatformRecorder(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.CSVPath == "" {
		return platform, nil
	}

	csvRec, err := NewCSVRecorder(cfg.CSVPath)
	if err != nil {
		_ = platform.Close()
		return nil, err
	}

	slog.InfoContext(ctx, "analysis result recorder initialized",
		slog.String("type", "csv"),
		slog.String("path", cfg.CSVPath),
	)

	return NewMultiRecorder(platform, csvRec), nil
}
