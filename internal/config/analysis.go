package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/demand"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/taskgen"
)

const (
	analysisMaxPointsEnv      = "ANALYSIS_MAX_POINTS"
	analysisMaxHyperperiodEnv = "ANALYSIS_MAX_HYPERPERIOD"
	analysisMaxDenominatorEnv = "ANALYSIS_MAX_DENOMINATOR"
	analysisMaxTasksEnv       = "ANALYSIS_MAX_TASKS"
	analysisCacheTTLEnv       = "ANALYSIS_CACHE_TTL"
	sweepWorkersEnv           = "SWEEP_WORKERS"
	sweepMaxAttemptsEnv       = "SWEEP_MAX_ATTEMPTS"
	sweepMaxRunsEnv           = "SWEEP_MAX_RUNS"

	defaultAnalysisCacheTTL = 24 * time.Hour
)

type AnalysisConfig struct {
	MaxPoints      int
	MaxHyperperiod float64
	MaxDenominator int64
	MaxTasks       int
	CacheTTL       time.Duration
	SweepWorkers   int
	MaxAttempts    int
	MaxRuns        int
}

// LoadAnalysisConfig reads the analysis limits. Unset variables take their
// defaults; set but malformed ones are an error.
func LoadAnalysisConfig() (*AnalysisConfig, error) {
	cfg := &AnalysisConfig{
		MaxPoints:      demand.DefaultMaxPoints,
		MaxHyperperiod: domain.DefaultMaxHyperperiod,
		MaxDenominator: domain.DefaultMaxDenominator,
		MaxTasks:       taskgen.DefaultMaxTasks,
		CacheTTL:       defaultAnalysisCacheTTL,
		SweepWorkers:   runtime.GOMAXPROCS(0),
		MaxAttempts:    taskgen.DefaultMaxAttempts,
		MaxRuns:        taskgen.DefaultMaxRuns,
	}

	var errs []error
	if v := os.Getenv(analysisMaxPointsEnv); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", analysisMaxPointsEnv, err))
		}
		cfg.MaxPoints = parsed
	}
	if v := os.Getenv(analysisMaxHyperperiodEnv); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", analysisMaxHyperperiodEnv, err))
		}
		cfg.MaxHyperperiod = parsed
	}
	if v := os.Getenv(analysisMaxDenominatorEnv); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", analysisMaxDenominatorEnv, err))
		}
		cfg.MaxDenominator = parsed
	}
	if v := os.Getenv(analysisMaxTasksEnv); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", analysisMaxTasksEnv, err))
		}
		cfg.MaxTasks = parsed
	}
	if v := os.Getenv(analysisCacheTTLEnv); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", analysisCacheTTLEnv, err))
		}
		cfg.CacheTTL = parsed
	}
	if v := os.Getenv(sweepWorkersEnv); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sweepWorkersEnv, err))
		}
		cfg.SweepWorkers = parsed
	}
	if v := os.Getenv(sweepMaxAttemptsEnv); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sweepMaxAttemptsEnv, err))
		}
		cfg.MaxAttempts = parsed
	}
	if v := os.Getenv(sweepMaxRunsEnv); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sweepMaxRunsEnv, err))
		}
		cfg.MaxRuns = parsed
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAnalysisConfig, errors.Join(errs...))
	}
	return cfg, nil
}

func (c *AnalysisConfig) Validate() error {
	var errs []error

	if c.MaxPoints <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", analysisMaxPointsEnv, c.MaxPoints))
	}
	if c.MaxHyperperiod <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", analysisMaxHyperperiodEnv, c.MaxHyperperiod))
	}
	if c.MaxDenominator <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", analysisMaxDenominatorEnv, c.MaxDenominator))
	}
	if c.MaxTasks <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", analysisMaxTasksEnv, c.MaxTasks))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, got %s", analysisCacheTTLEnv, c.CacheTTL))
	}
	if c.SweepWorkers <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", sweepWorkersEnv, c.SweepWorkers))
	}
	if c.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", sweepMaxAttemptsEnv, c.MaxAttempts))
	}
	if c.MaxRuns <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", sweepMaxRunsEnv, c.MaxRuns))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidAnalysisConfig, errors.Join(errs...))
	}
	return nil
}

func (c *AnalysisConfig) HyperperiodPolicy() domain.HyperperiodPolicy {
	return domain.HyperperiodPolicy{
		MaxHyperperiod: c.MaxHyperperiod,
		MaxDenominator: c.MaxDenominator,
	}
}

func (c *AnalysisConfig) Limits() taskgen.Limits {
	return taskgen.Limits{
		MaxTasks: c.MaxTasks,
		MaxRuns:  c.MaxRuns,
	}
}
