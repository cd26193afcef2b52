package taskgen

import (
	"fmt"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

// SweepPlan is a grid of random setups, each analyzed Runs times.
type SweepPlan struct {
	Base         domain.RandSetup `json:"base"`
	NumTasks     []int            `json:"num_tasks"`
	DeadlineAvgs []float64        `json:"deadline_avgs"`
	DeadlineVars []float64        `json:"deadline_vars"`
	Runs         int              `json:"runs"`
	Seed         uint64           `json:"seed"`
	Filter       Filter           `json:"filter"`
}

// Check rejects plans whose grid holds a cell with more than limits.MaxTasks
// tasks, or that expand to more than limits.MaxRuns runs. It does not allocate
// the grid.
func (p SweepPlan) Check(limits Limits) error {
	numTasks := p.NumTasks
	if len(numTasks) == 0 {
		numTasks = []int{p.Base.NumTasks}
	}
	for _, n := range numTasks {
		setup := p.Base
		setup.NumTasks = n
		if err := limits.CheckSetup(setup); err != nil {
			return err
		}
	}

	// upper bound on the expanded runs; the MixedDeadlines filter only removes cells
	total := 1
	for _, factor := range []int{
		len(numTasks),
		max(1, len(p.DeadlineAvgs)),
		max(1, len(p.DeadlineVars)),
		max(1, p.Runs),
	} {
		if factor > limits.MaxRuns || total > limits.MaxRuns/factor {
			return fmt.Errorf("%w: sweep exceeds %d runs", domain.ErrAllocation, limits.MaxRuns)
		}
		total *= factor
	}
	return nil
}

// Setups expands the grid. Empty axes fall back to the base setup's value. With
// the MixedDeadlines filter, cells that can only draw D >= T are skipped. Bound
// the plan with Check before expanding it.
func (p SweepPlan) Setups() []domain.RandSetup {
	numTasks := p.NumTasks
	if len(numTasks) == 0 {
		numTasks = []int{p.Base.NumTasks}
	}
	avgs := p.DeadlineAvgs
	if len(avgs) == 0 {
		avgs = []float64{p.Base.DeadlineAvg}
	}
	vars := p.DeadlineVars
	if len(vars) == 0 {
		vars = []float64{p.Base.DeadlineVar}
	}

	runs := max(1, p.Runs)

	setups := make([]domain.RandSetup, 0, len(numTasks)*len(avgs)*len(vars)*runs)
	for _, n := range numTasks {
		for _, avg := range avgs {
			for _, v := range vars {
				if p.Filter.MixedDeadlines && avg-v >= 1-1e-8 {
					continue
				}
				for range runs {
					setup := p.Base
					setup.NumTasks = n
					setup.DeadlineAvg = avg
					setup.DeadlineVar = v
					setups = append(setups, setup)
				}
			}
		}
	}
	return setups
}
