package demand

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

const (
	DefaultMaxPoints = 5_000_000

	// slack applied to job-count quotients so that instants sitting on a period
	// boundary are not lost to rounding
	jobTolerance = 1e-9
)

// Generator produces the demand points of the processor-demand test over one
// hyperperiod.
type Generator struct {
	maxPoints int
}

func NewGenerator(maxPoints int) *Generator {
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}

	return &Generator{
		maxPoints: maxPoints,
	}
}

// Generate walks the task set and registers one point per interval (t0, t1).
//
// The start instants are the common phase when the set is synchronous, and every
// release instant within the hyperperiod otherwise. For each start t0 and each
// task i, the ends are the absolute deadlines of the first floor(H/T_i) jobs of
// task i released at or after t0. Intervals shorter than eps are discarded;
// duplicate pairs are kept.
func (g *Generator) Generate(ctx context.Context, ts *domain.TaskSet) (*domain.PointSet, error) {
	if !ts.Validated() {
		return nil, domain.NewAnalysisError(domain.StagePoints, "task set validated before generation",
			fmt.Errorf("%w: task set was not built by NewTaskSet", domain.ErrInvalidTask))
	}

	tasks := ts.Tasks()
	hyperperiod := ts.Hyperperiod()
	eps := ts.Eps()

	jobsPerTask := make([]int, len(tasks))
	endsPerStart := 0
	for i, t := range tasks {
		jobsPerTask[i] = jobsWithin(hyperperiod, t.Period)
		endsPerStart += jobsPerTask[i]
	}

	starts := startInstants(ts, jobsPerTask)

	projected := float64(len(starts)) * float64(endsPerStart)
	if projected > float64(g.maxPoints) {
		return nil, domain.NewAnalysisError(domain.StagePoints, "point count within limit",
			fmt.Errorf("%w: %.0f points projected, limit %d", domain.ErrAllocation, projected, g.maxPoints))
	}

	slog.DebugContext(ctx, "generating demand points",
		slog.Int("tasks", len(tasks)),
		slog.Float64("hyperperiod", hyperperiod),
		slog.Int("starts", len(starts)),
		slog.Int("projected_points", int(projected)),
	)

	ps := domain.NewPointSet(int(projected), eps)
	for _, t0 := range starts {
		if err := ctx.Err(); err != nil {
			return nil, domain.NewAnalysisError(domain.StagePoints, "generation not cancelled", err)
		}

		for i, task := range tasks {
			release := firstReleaseAtOrAfter(task, t0)
			for k := range jobsPerTask[i] {
				t1 := release + float64(k)*task.Period + task.RelativeDeadline
				if t1-t0 < eps {
					continue
				}
				ps.Add(newPoint(tasks, t0, t1))
			}
		}
	}

	return ps, nil
}

// startInstants returns the interval starts in task order.
func startInstants(ts *domain.TaskSet, jobsPerTask []int) []float64 {
	if ts.Synchronous() {
		return []float64{ts.Task(0).Phase}
	}

	total := 0
	for _, n := range jobsPerTask {
		total += n
	}

	starts := make([]float64, 0, total)
	for i := range ts.Len() {
		t := ts.Task(i)
		for m := range jobsPerTask[i] {
			starts = append(starts, t.Phase+float64(m)*t.Period)
		}
	}
	return starts
}

func newPoint(tasks []domain.Task, t0, t1 float64) domain.Point {
	jobs := make([]int, len(tasks))
	demand := 0.0
	for i, t := range tasks {
		jobs[i] = JobCount(t, t0, t1)
		demand += float64(jobs[i]) * t.Period
	}

	return domain.Point{
		T0:     t0,
		T1:     t1,
		Jobs:   jobs,
		Demand: demand,
	}
}

// JobCount returns the number of jobs of t released at or after t0 whose absolute
// deadline is at or before t1.
func JobCount(t domain.Task, t0, t1 float64) int {
	last := math.Floor((t1-t.RelativeDeadline-t.Phase)/t.Period + jobTolerance)
	first := math.Max(0, math.Ceil((t0-t.Phase)/t.Period-jobTolerance))
	return max(0, int(last-first)+1)
}

func jobsWithin(hyperperiod, period float64) int {
	return max(1, int(math.Floor(hyperperiod/period+jobTolerance)))
}

func firstReleaseAtOrAfter(t domain.Task, instant float64) float64 {
	if instant <= t.Phase {
		return t.Phase
	}
	m := math.Ceil((instant-t.Phase)/t.Period - jobTolerance)
	return t.Phase + m*t.Period
}
