//go:build !gcloud

package resultrecorder

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func newPlatformRecorder(ctx context.Context, cfg *Config) (domain.AnalysisResultRecorder, error) {
	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, InfluxDB result recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "analysis result recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func (r *influxDBRecorder) RecordAnalyses(ctx context.Context, records []domain.AnalysisRecord) error {
	if len(records) == 0 {
		return nil
	}

	for _, record := range records {
		runID := record.RunID
		if runID == "" {
			runID = "default"
		}

		// wall clock timestamp so runs of the same seed do not overwrite each other
		pointTime := time.Now()

		point := influxdb2.NewPoint(
			"edf_analysis",
			map[string]string{
				"run_id":    runID,
				"num_tasks": strconv.Itoa(record.NumTasks),
				"phasing":   strconv.FormatBool(record.Phasing),
				"exact":     strconv.FormatBool(record.HyperperiodExact),
			},
			map[string]any{
				"seed":           int64(record.Seed),
				"per_min":        record.PeriodMin,
				"per_max":        record.PeriodMax,
				"dl_avg":         record.DeadlineAvg,
				"dl_var":         record.DeadlineVar,
				"hyperperiod":    record.Hyperperiod,
				"num_points":     record.NumPoints,
				"num_sel":        record.NumSel,
				"points_seconds": record.PointsDuration.Seconds(),
				"reduce_seconds": record.ReduceDuration.Seconds(),
			},
			pointTime,
		)

		if err := r.writeAPI.WritePoint(ctx, point); err != nil {
			slog.WarnContext(ctx, "failed to write analysis result to InfluxDB",
				slog.String("error", err.Error()),
				slog.String("run_id", runID),
				slog.Uint64("seed", record.Seed),
			)
		}
	}

	return nil
}

func (r *influxDBRecorder) Flush(_ context.Context) error {
	return nil
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
