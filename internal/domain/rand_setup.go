package domain

import (
	"fmt"
	"math"
)

type PeriodDistribution string

const (
	PeriodUniform PeriodDistribution = "uniform"
)

// RandSetup configures the random task-set generator.
type RandSetup struct {
	Seed               uint64             `json:"seed"`
	NumTasks           int                `json:"num_tasks"`
	PeriodDistribution PeriodDistribution `json:"period_distribution"`
	PeriodMin          float64            `json:"period_min"`
	PeriodMax          float64            `json:"period_max"`
	Phasing            bool               `json:"phasing"`
	DeadlineAvg        float64            `json:"deadline_avg"`
	DeadlineVar        float64            `json:"deadline_var"`
	Eps                float64            `json:"eps"`
}

func (r RandSetup) Validate() error {
	if r.NumTasks <= 0 {
		return fmt.Errorf("%w: num_tasks must be positive, got %d", ErrInvalidRandSetup, r.NumTasks)
	}
	if r.PeriodDistribution != "" && r.PeriodDistribution != PeriodUniform {
		return fmt.Errorf("%w: unsupported period distribution %q", ErrInvalidRandSetup, r.PeriodDistribution)
	}
	if !isFinite(r.PeriodMin) || !isFinite(r.PeriodMax) || r.PeriodMin <= 0 || r.PeriodMax < r.PeriodMin {
		return fmt.Errorf("%w: period bounds [%v, %v]", ErrInvalidRandSetup, r.PeriodMin, r.PeriodMax)
	}
	if !isFinite(r.DeadlineAvg) || r.DeadlineAvg <= 0 {
		return fmt.Errorf("%w: deadline_avg must be positive, got %v", ErrInvalidRandSetup, r.DeadlineAvg)
	}
	if !isFinite(r.DeadlineVar) || r.DeadlineVar < 0 {
		return fmt.Errorf("%w: deadline_var must be >= 0, got %v", ErrInvalidRandSetup, r.DeadlineVar)
	}
	if math.IsNaN(r.Eps) || r.Eps < 0 {
		return fmt.Errorf("%w: eps must be >= 0, got %v", ErrInvalidRandSetup, r.Eps)
	}
	return nil
}
