//go:build gcloud

package resultrecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/option"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt       time.Time `bigquery:"recorded_at"`
	RunID            string    `bigquery:"run_id"`
	Seed             int64     `bigquery:"seed"`
	NumTasks         int64     `bigquery:"num_tasks"`
	PeriodMin        float64   `bigquery:"per_min"`
	PeriodMax        float64   `bigquery:"per_max"`
	Phasing          bool      `bigquery:"phasing"`
	DeadlineAvg      float64   `bigquery:"dl_avg"`
	DeadlineVar      float64   `bigquery:"dl_var"`
	Hyperperiod      float64   `bigquery:"hyperperiod"`
	HyperperiodExact bool      `bigquery:"hyperperiod_exact"`
	NumPoints        int64     `bigquery:"num_points"`
	NumSel           int64     `bigquery:"num_sel"`
	PointsSeconds    float64   `bigquery:"points_seconds"`
	ReduceSeconds    float64   `bigquery:"reduce_seconds"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	dataset  string
	table    string
}

func newPlatformRecorder(ctx context.Context, cfg *Config) (domain.AnalysisResultRecorder, error) {
	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, BigQuery result recording disabled")
		return NewNoopRecorder(), nil
	}

	var opts []option.ClientOption
	if cfg.BigQueryCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.BigQueryCredentialsFile))
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID, opts...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, BigQuery result recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	table := client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable)
	inserter := table.Inserter()

	slog.InfoContext(ctx, "analysis result recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: inserter,
		dataset:  cfg.BigQueryDataset,
		table:    cfg.BigQueryTable,
	}, nil
}

func (r *bigQueryRecorder) RecordAnalyses(ctx context.Context, records []domain.AnalysisRecord) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now()
	bqRecords := make([]*bigQueryRecord, 0, len(records))
	for _, record := range records {
		bqRecords = append(bqRecords, &bigQueryRecord{
			RecordedAt:       now,
			RunID:            record.RunID,
			Seed:             int64(record.Seed),
			NumTasks:         int64(record.NumTasks),
			PeriodMin:        record.PeriodMin,
			PeriodMax:        record.PeriodMax,
			Phasing:          record.Phasing,
			DeadlineAvg:      record.DeadlineAvg,
			DeadlineVar:      record.DeadlineVar,
			Hyperperiod:      record.Hyperperiod,
			HyperperiodExact: record.HyperperiodExact,
			NumPoints:        int64(record.NumPoints),
			NumSel:           int64(record.NumSel),
			PointsSeconds:    record.PointsDuration.Seconds(),
			ReduceSeconds:    record.ReduceDuration.Seconds(),
		})
	}

	if err := r.inserter.Put(ctx, bqRecords); err != nil {
		slog.WarnContext(ctx, "failed to insert analysis results to BigQuery",
			slog.String("error", err.Error()),
			slog.Int("record_count", len(records)),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Flush(_ context.Context) error {
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
