package resultrecorder

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

var csvHeader = []string{
	"seed", "num_tasks", "per_min", "per_max", "phasing", "dl_avg", "dl_var",
	"hyperperiod", "hyperperiod_exact", "num_points", "num_sel", "time_points", "time_hull",
}

type csvRecorder struct {
	mu     sync.Mutex
	w      *csv.Writer
	closer io.Closer
}

// NewCSVRecorder appends records to the file at path, writing the header when the
// file is new or empty.
func NewCSVRecorder(path string) (domain.AnalysisResultRecorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open result file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat result file: %w", err)
	}

	r := newCSVWriterRecorder(f, f)
	if info.Size() == 0 {
		if err := r.writeHeader(); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return r, nil
}

// NewCSVWriterRecorder writes records, header first, to w. Close does not close w.
func NewCSVWriterRecorder(w io.Writer) (domain.AnalysisResultRecorder, error) {
	r := newCSVWriterRecorder(w, nil)
	if err := r.writeHeader(); err != nil {
		return nil, err
	}
	return r, nil
}

func newCSVWriterRecorder(w io.Writer, closer io.Closer) *csvRecorder {
	return &csvRecorder{
		w:      csv.NewWriter(w),
		closer: closer,
	}
}

func (r *csvRecorder) writeHeader() error {
	if err := r.w.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	r.w.Flush()
	return r.w.Error()
}

func (r *csvRecorder) RecordAnalyses(_ context.Context, records []domain.AnalysisRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range records {
		row := []string{
			strconv.FormatUint(rec.Seed, 10),
			strconv.Itoa(rec.NumTasks),
			formatFloat(rec.PeriodMin),
			formatFloat(rec.PeriodMax),
			formatBool(rec.Phasing),
			formatFloat(rec.DeadlineAvg),
			formatFloat(rec.DeadlineVar),
			formatFloat(rec.Hyperperiod),
			formatBool(rec.HyperperiodExact),
			strconv.Itoa(rec.NumPoints),
			strconv.Itoa(rec.NumSel),
			formatFloat(rec.PointsDuration.Seconds()),
			formatFloat(rec.ReduceDuration.Seconds()),
		}
		if err := r.w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	r.w.Flush()
	return r.w.Error()
}

func (r *csvRecorder) Flush(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.w.Flush()
	return r.w.Error()
}

func (r *csvRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.w.Flush()
	if err := r.w.Error(); err != nil {
		return err
	}
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
