package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KasumiMercury/edf-hull-analysis/internal/config"
	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
	"github.com/KasumiMercury/edf-hull-analysis/internal/infra/geometry"
	"github.com/KasumiMercury/edf-hull-analysis/internal/infra/taskqueue"
	"github.com/KasumiMercury/edf-hull-analysis/internal/observability/logging"
	"github.com/KasumiMercury/edf-hull-analysis/internal/observability/metrics"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/analysis"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/demand"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/reduce"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/taskgen"
)

// Version is set via ldflags at build time
var Version = "dev"

const (
	serviceName = "edf-hull-analysis"
	cliModule   = logging.Module("edf-cli")
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:          serviceName,
		Short:        "EDF feasibility constraints from demand points and their convex hull",
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			slog.SetDefault(slog.New(logging.NewHandler(os.Stderr, logging.HandlerConfig{
				Service:       logging.ServiceInfo{Name: serviceName, Version: Version},
				Environment:   logging.EnvDev,
				DefaultModule: cliModule,
				Level:         config.ParseLogLevel(logLevel),
			})))
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", os.Getenv("LOG_LEVEL"), "log level: debug|info|warn|error")

	cmd.AddCommand(
		inputCmd(),
		seedCmd(),
		sweepCmd(),
		serveCmd(),
	)
	return cmd
}

// loadAnalysisConfig reads and validates the analysis limits shared by every
// subcommand.
func loadAnalysisConfig() (*config.AnalysisConfig, error) {
	cfg, err := config.LoadAnalysisConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newAnalysisService(
	cfg *config.AnalysisConfig,
	repo domain.AnalysisRepository,
	recorder domain.AnalysisResultRecorder,
	queue taskqueue.TaskQueue,
	analysisMetrics *metrics.AnalysisMetrics,
) *analysis.Service {
	return analysis.NewService(
		demand.NewGenerator(cfg.MaxPoints),
		reduce.NewReducer(geometry.NewMonotoneChain()),
		taskgen.NewGenerator(cfg.HyperperiodPolicy(), cfg.Limits()),
		repo,
		recorder,
		queue,
		analysisMetrics,
		cfg.SweepWorkers,
		cfg.MaxAttempts,
	)
}

func closeWithLog(name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		slog.Warn(fmt.Sprintf("failed to close %s", name), slog.String("error", err.Error()))
	}
}
