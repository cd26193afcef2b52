package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// AnalysisResult is the outcome of one analysis run, ready for a result sink.
type AnalysisResult struct {
	RunID            string        `json:"run_id"`
	Fingerprint      string        `json:"fingerprint"`
	NumTasks         int           `json:"num_tasks"`
	Eps              float64       `json:"eps"`
	Hyperperiod      Hyperperiod   `json:"hyperperiod"`
	NumPoints        int           `json:"num_points"`
	NumSel           int           `json:"num_sel"`
	UtilizationBound float64       `json:"utilization_bound"`
	CForm            []CConstraint `json:"c_form"`
	UForm            []UConstraint `json:"u_form"`
	PointsDuration   time.Duration `json:"points_duration"`
	ReduceDuration   time.Duration `json:"reduce_duration"`
	AnalyzedAt       time.Time     `json:"analyzed_at"`
	Cached           bool          `json:"cached"`
}

// Fingerprint identifies a task set by its parameters, tolerance and hyperperiod
// policy. Two sets with the same tasks in the same order, the same eps and the
// same policy share a fingerprint. The point limit is left out: it only decides
// whether a run fails, and failed runs are never cached.
func (ts *TaskSet) Fingerprint() string {
	h := sha256.New()
	buf := make([]byte, 0, 64)
	for _, t := range ts.tasks {
		buf = buf[:0]
		buf = strconv.AppendFloat(buf, t.Period, 'g', -1, 64)
		buf = append(buf, ',')
		buf = strconv.AppendFloat(buf, t.RelativeDeadline, 'g', -1, 64)
		buf = append(buf, ',')
		buf = strconv.AppendFloat(buf, t.Phase, 'g', -1, 64)
		buf = append(buf, ';')
		h.Write(buf)
	}
	buf = strconv.AppendFloat(buf[:0], ts.eps, 'g', -1, 64)
	buf = append(buf, '|')
	buf = strconv.AppendFloat(buf, ts.policy.MaxHyperperiod, 'g', -1, 64)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, ts.policy.MaxDenominator, 10)
	h.Write(buf)
	return hex.EncodeToString(h.Sum(nil))
}
