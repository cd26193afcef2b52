package taskgen

import (
	"errors"
	"math"
	"testing"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

func baseSetup() domain.RandSetup {
	return domain.RandSetup{
		Seed:               12345,
		NumTasks:           6,
		PeriodDistribution: domain.PeriodUniform,
		PeriodMin:          2,
		PeriodMax:          20,
		DeadlineAvg:        0.8,
		DeadlineVar:        0.2,
		Eps:                1e-6,
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	g := NewGenerator(domain.DefaultHyperperiodPolicy(), DefaultLimits())

	a, err := g.Generate(baseSetup())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := g.Generate(baseSetup())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("expected the same seed to produce the same task set")
	}

	other := baseSetup()
	other.Seed = 54321
	c, err := g.Generate(other)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("expected different seeds to produce different task sets")
	}
}

func TestGenerator_Ranges(t *testing.T) {
	tests := []struct {
		name  string
		setup func() domain.RandSetup
	}{
		{
			name:  "synchronous",
			setup: baseSetup,
		},
		{
			name: "phased",
			setup: func() domain.RandSetup {
				s := baseSetup()
				s.Phasing = true
				return s
			},
		},
		{
			name: "variance reaching below zero is clamped",
			setup: func() domain.RandSetup {
				s := baseSetup()
				s.DeadlineAvg = 0.1
				s.DeadlineVar = 0.5
				return s
			},
		},
	}

	g := NewGenerator(domain.DefaultHyperperiodPolicy(), DefaultLimits())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup := tt.setup()

			for seed := range uint64(20) {
				setup.Seed = seed
				ts, err := g.Generate(setup)
				if err != nil {
					t.Fatalf("seed %d: unexpected error: %v", seed, err)
				}
				if ts.Len() != setup.NumTasks {
					t.Fatalf("seed %d: expected %d tasks, got %d", seed, setup.NumTasks, ts.Len())
				}

				for i, task := range ts.Tasks() {
					if task.Period < setup.PeriodMin || task.Period > setup.PeriodMax || task.Period != math.Round(task.Period) {
						t.Errorf("seed %d task %d: period %v outside integer range [%v, %v]", seed, i, task.Period, setup.PeriodMin, setup.PeriodMax)
					}
					norm := task.NormalizedDeadline()
					lo := math.Max(minNormalizedDeadline, setup.DeadlineAvg-setup.DeadlineVar)
					hi := setup.DeadlineAvg + setup.DeadlineVar
					if norm < lo-1e-12 || norm > hi+1e-12 {
						t.Errorf("seed %d task %d: normalized deadline %v outside [%v, %v]", seed, i, norm, lo, hi)
					}
					if !setup.Phasing && task.Phase != 0 {
						t.Errorf("seed %d task %d: expected zero phase, got %v", seed, i, task.Phase)
					}
					if setup.Phasing && (task.Phase < 0 || task.Phase >= task.Period) {
						t.Errorf("seed %d task %d: phase %v outside [0, %v)", seed, i, task.Phase, task.Period)
					}
				}
			}
		})
	}
}

func TestGenerator_InvalidSetup(t *testing.T) {
	setup := baseSetup()
	setup.NumTasks = 0

	_, err := NewGenerator(domain.DefaultHyperperiodPolicy(), DefaultLimits()).Generate(setup)
	if !errors.Is(err, domain.ErrInvalidRandSetup) {
		t.Errorf("expected ErrInvalidRandSetup, got %v", err)
	}
}

func TestGenerator_TaskLimit(t *testing.T) {
	tests := []struct {
		name     string
		limits   Limits
		numTasks int
		wantErr  bool
	}{
		{name: "at the limit", limits: Limits{MaxTasks: 6}, numTasks: 6},
		{name: "over the limit", limits: Limits{MaxTasks: 6}, numTasks: 7, wantErr: true},
		{name: "huge request with default limit", numTasks: 1 << 60, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup := baseSetup()
			setup.NumTasks = tt.numTasks

			ts, err := NewGenerator(domain.DefaultHyperperiodPolicy(), tt.limits).Generate(setup)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidRandSetup) {
					t.Errorf("expected ErrInvalidRandSetup, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ts.Len() != tt.numTasks {
				t.Errorf("expected %d tasks, got %d", tt.numTasks, ts.Len())
			}
		})
	}
}

func TestNewGenerator_DefaultLimits(t *testing.T) {
	got := NewGenerator(domain.DefaultHyperperiodPolicy(), Limits{}).Limits()
	if got != DefaultLimits() {
		t.Errorf("expected zero limits to take defaults, got %+v", got)
	}
}
