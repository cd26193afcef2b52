package domain

import (
	"fmt"
	"math"
)

// Task is a periodic real-time task. Execution requirements are not part of the
// model: constraints are exported with per-task coefficients instead.
type Task struct {
	Period           float64 `json:"period" yaml:"period"`
	RelativeDeadline float64 `json:"deadline" yaml:"deadline"`
	Phase            float64 `json:"phase" yaml:"phase"`
}

func NewTask(period, deadline, phase float64) Task {
	return Task{
		Period:           period,
		RelativeDeadline: deadline,
		Phase:            phase,
	}
}

// NormalizedDeadline returns D/T.
func (t Task) NormalizedDeadline() float64 {
	return t.RelativeDeadline / t.Period
}

func (t Task) validate(index int) error {
	if !isFinite(t.Period) || t.Period <= 0 {
		return NewAnalysisError(StageTaskSet, fmt.Sprintf("task %d: period > 0", index),
			fmt.Errorf("%w: period %v", ErrInvalidTask, t.Period))
	}
	if !isFinite(t.RelativeDeadline) || t.RelativeDeadline <= 0 {
		return NewAnalysisError(StageTaskSet, fmt.Sprintf("task %d: deadline > 0", index),
			fmt.Errorf("%w: deadline %v", ErrInvalidTask, t.RelativeDeadline))
	}
	if !isFinite(t.Phase) || t.Phase < 0 {
		return NewAnalysisError(StageTaskSet, fmt.Sprintf("task %d: phase >= 0", index),
			fmt.Errorf("%w: phase %v", ErrInvalidTask, t.Phase))
	}
	return nil
}

// TaskSet is an ordered, validated set of tasks. It is immutable once built by
// NewTaskSet; the zero value is an unvalidated, unusable set.
type TaskSet struct {
	tasks       []Task
	eps         float64
	hyperperiod Hyperperiod
	policy      HyperperiodPolicy
	validated   bool
}

// NewTaskSet validates the tasks and caches the hyperperiod.
func NewTaskSet(tasks []Task, eps float64, policy HyperperiodPolicy) (*TaskSet, error) {
	if len(tasks) == 0 {
		return nil, NewAnalysisError(StageTaskSet, "at least one task",
			fmt.Errorf("%w: empty task set", ErrInvalidTask))
	}
	if !isFinite(eps) || eps < 0 {
		return nil, NewAnalysisError(StageTaskSet, "eps >= 0",
			fmt.Errorf("%w: eps %v", ErrInvalidTask, eps))
	}
	for i, t := range tasks {
		if err := t.validate(i); err != nil {
			return nil, err
		}
	}

	owned := make([]Task, len(tasks))
	copy(owned, tasks)
	policy = policy.withDefaults()

	return &TaskSet{
		tasks:       owned,
		eps:         eps,
		hyperperiod: ComputeHyperperiod(owned, policy),
		policy:      policy,
		validated:   true,
	}, nil
}

func (ts *TaskSet) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.tasks)
}

func (ts *TaskSet) Task(i int) Task {
	return ts.tasks[i]
}

// Tasks returns a copy of the tasks in set order.
func (ts *TaskSet) Tasks() []Task {
	out := make([]Task, len(ts.tasks))
	copy(out, ts.tasks)
	return out
}

func (ts *TaskSet) Eps() float64 {
	return ts.eps
}

func (ts *TaskSet) Hyperperiod() float64 {
	return ts.hyperperiod.Value
}

func (ts *TaskSet) HyperperiodInfo() Hyperperiod {
	return ts.hyperperiod
}

// Policy returns the hyperperiod limits the set was built with, defaults applied.
func (ts *TaskSet) Policy() HyperperiodPolicy {
	return ts.policy
}

// Validated reports whether the set was built by NewTaskSet.
func (ts *TaskSet) Validated() bool {
	return ts != nil && ts.validated
}

// Synchronous reports whether all tasks share the same phase within eps.
func (ts *TaskSet) Synchronous() bool {
	for _, t := range ts.tasks[1:] {
		if math.Abs(t.Phase-ts.tasks[0].Phase) > ts.eps {
			return false
		}
	}
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
