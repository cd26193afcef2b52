package taskgen

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

var ErrNoAcceptedSample = errors.New("no task set accepted within attempt limit")

const DefaultMaxAttempts = 1000

// Filter rejects task sets a sweep is not interested in.
type Filter struct {
	// ExactHyperperiod keeps only task sets whose hyperperiod is an exact LCM.
	ExactHyperperiod bool `json:"exact_hyperperiod"`

	// MixedDeadlines keeps only task sets that mix constrained and arbitrary
	// deadlines: some D/T below 1 and some at or above 0.9.
	MixedDeadlines bool `json:"mixed_deadlines"`
}

func (f Filter) Accept(ts *domain.TaskSet) bool {
	if f.ExactHyperperiod && !ts.HyperperiodInfo().Exact {
		return false
	}

	if f.MixedDeadlines {
		minNorm, maxNorm := ts.Task(0).NormalizedDeadline(), ts.Task(0).NormalizedDeadline()
		for _, t := range ts.Tasks()[1:] {
			minNorm = min(minNorm, t.NormalizedDeadline())
			maxNorm = max(maxNorm, t.NormalizedDeadline())
		}
		if maxNorm < 0.9 || minNorm >= 1 {
			return false
		}
	}

	return true
}

// Sampler redraws seeds until a generated task set passes its filter.
type Sampler struct {
	generator   *Generator
	filter      Filter
	seeds       *rand.Rand
	maxAttempts int
}

func NewSampler(generator *Generator, filter Filter, seed uint64, maxAttempts int) *Sampler {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	return &Sampler{
		generator:   generator,
		filter:      filter,
		seeds:       rand.New(rand.NewPCG(seed, ^seed)),
		maxAttempts: maxAttempts,
	}
}

// Sample returns the accepted task set together with the setup, seed included,
// that reproduces it. A Sampler is not safe for concurrent use.
func (s *Sampler) Sample(setup domain.RandSetup) (domain.RandSetup, *domain.TaskSet, error) {
	for range s.maxAttempts {
		setup.Seed = s.seeds.Uint64()

		ts, err := s.generator.Generate(setup)
		if err != nil {
			return setup, nil, err
		}
		if s.filter.Accept(ts) {
			return setup, ts, nil
		}
	}

	return setup, nil, fmt.Errorf("%w: %d attempts", ErrNoAcceptedSample, s.maxAttempts)
}
