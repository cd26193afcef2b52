package taskgen

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

// smallest normalized deadline a draw is clamped to
const minNormalizedDeadline = 0.01

const (
	DefaultMaxTasks = 1000
	DefaultMaxRuns  = 100000
)

// Limits bounds what a single request may ask the generator for.
type Limits struct {
	// MaxTasks caps RandSetup.NumTasks.
	MaxTasks int
	// MaxRuns caps the number of runs a SweepPlan expands to.
	MaxRuns int
}

func DefaultLimits() Limits {
	return Limits{
		MaxTasks: DefaultMaxTasks,
		MaxRuns:  DefaultMaxRuns,
	}
}

func (l Limits) withDefaults() Limits {
	if l.MaxTasks <= 0 {
		l.MaxTasks = DefaultMaxTasks
	}
	if l.MaxRuns <= 0 {
		l.MaxRuns = DefaultMaxRuns
	}
	return l
}

// CheckSetup rejects setups that exceed MaxTasks.
func (l Limits) CheckSetup(setup domain.RandSetup) error {
	if setup.NumTasks > l.MaxTasks {
		return fmt.Errorf("%w: num_tasks %d exceeds limit %d", domain.ErrInvalidRandSetup, setup.NumTasks, l.MaxTasks)
	}
	return nil
}

// Generator draws random task sets from a RandSetup. The same setup always
// yields the same task set.
type Generator struct {
	policy domain.HyperperiodPolicy
	limits Limits
}

// NewGenerator returns a generator bounded by limits. Zero fields take the
// defaults.
func NewGenerator(policy domain.HyperperiodPolicy, limits Limits) *Generator {
	return &Generator{
		policy: policy,
		limits: limits.withDefaults(),
	}
}

func (g *Generator) Limits() Limits {
	return g.limits
}

// Generate draws setup.NumTasks tasks:
//   - periods uniform in [PeriodMin, PeriodMax], rounded to integers so that
//     hyperperiods stay exact,
//   - normalized deadlines D/T uniform in [DeadlineAvg-DeadlineVar,
//     DeadlineAvg+DeadlineVar], clamped to at least 0.01,
//   - integer phases uniform in [0, T) when Phasing is set, zero otherwise.
func (g *Generator) Generate(setup domain.RandSetup) (*domain.TaskSet, error) {
	if err := setup.Validate(); err != nil {
		return nil, err
	}
	if err := g.limits.CheckSetup(setup); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(setup.Seed, setup.Seed^0x9e3779b97f4a7c15))

	minPeriod := math.Max(1, math.Ceil(setup.PeriodMin))
	maxPeriod := math.Max(minPeriod, math.Floor(setup.PeriodMax))

	tasks := make([]domain.Task, 0, setup.NumTasks)
	for range setup.NumTasks {
		period := math.Round(minPeriod + rng.Float64()*(maxPeriod-minPeriod))

		norm := setup.DeadlineAvg + (2*rng.Float64()-1)*setup.DeadlineVar
		norm = math.Max(minNormalizedDeadline, norm)

		phase := 0.0
		if setup.Phasing {
			phase = math.Floor(rng.Float64() * period)
		}

		tasks = append(tasks, domain.NewTask(period, norm*period, phase))
	}

	ts, err := domain.NewTaskSet(tasks, setup.Eps, g.policy)
	if err != nil {
		return nil, fmt.Errorf("generate task set for seed %d: %w", setup.Seed, err)
	}
	return ts, nil
}
