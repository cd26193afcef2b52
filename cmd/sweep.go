package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
	"github.com/KasumiMercury/edf-hull-analysis/internal/infra/resultrecorder"
	"github.com/KasumiMercury/edf-hull-analysis/internal/infra/sweepclient"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/taskgen"
)

func sweepCmd() *cobra.Command {
	var (
		out     string
		remote  string
		workers int
		plan    = taskgen.SweepPlan{
			Base: domain.RandSetup{
				PeriodDistribution: domain.PeriodUniform,
				PeriodMin:          2,
				PeriodMax:          20,
				Eps:                1e-6,
			},
		}
	)

	c := &cobra.Command{
		Use:   "sweep",
		Short: "Analyze a grid of random task sets and write one CSV row per run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if remote != "" {
				client, err := sweepclient.NewClient(ctx, remote)
				if err != nil {
					return err
				}

				receipt, err := client.SubmitSweep(ctx, plan)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Run %s: %d runs enqueued\n", receipt.RunID, receipt.Enqueued)
				return nil
			}

			analysisCfg, err := loadAnalysisConfig()
			if err != nil {
				return err
			}
			if workers > 0 {
				analysisCfg.SweepWorkers = workers
			}

			var recorder domain.AnalysisResultRecorder
			if out == "-" {
				recorder, err = resultrecorder.NewCSVWriterRecorder(cmd.OutOrStdout())
			} else {
				recorder, err = resultrecorder.NewCSVRecorder(out)
			}
			if err != nil {
				return err
			}
			defer closeWithLog("result recorder", recorder.Close)

			svc := newAnalysisService(analysisCfg, nil, recorder, nil, nil)
			summary, err := svc.Sweep(ctx, plan)
			if err != nil {
				return err
			}

			slog.InfoContext(ctx, "sweep written",
				slog.String("out", out),
				slog.Int("rows", len(summary.Records)),
			)
			fmt.Fprintf(cmd.ErrOrStderr(), "Runs: %d, failed: %d\n", summary.Runs, summary.Failed)
			return nil
		},
	}

	f := c.Flags()
	f.StringVarP(&out, "out", "o", "sweep.csv", "CSV file to append rows to, - for stdout")
	f.StringVar(&remote, "remote", "", "analysis server URL; enqueue the sweep there instead of running it locally")
	f.IntVar(&workers, "workers", 0, "concurrent analyses (defaults to SWEEP_WORKERS)")

	f.IntVar(&plan.Runs, "runs", 1, "runs per grid cell")
	f.Uint64Var(&plan.Seed, "seed", 1, "seed of the sampler stream")
	f.IntSliceVar(&plan.NumTasks, "num-tasks", []int{5}, "task counts to sweep")
	f.Float64SliceVar(&plan.DeadlineAvgs, "dl-avg", []float64{0.5, 0.6, 0.7, 0.8, 0.9, 1, 1.1, 1.2, 1.3, 1.4, 1.5}, "average normalized deadlines to sweep")
	f.Float64SliceVar(&plan.DeadlineVars, "dl-var", []float64{0.4, 0.3, 0.2, 0.1, 0}, "normalized deadline spreads to sweep")
	f.Float64Var(&plan.Base.PeriodMin, "per-min", plan.Base.PeriodMin, "smallest period")
	f.Float64Var(&plan.Base.PeriodMax, "per-max", plan.Base.PeriodMax, "largest period")
	f.BoolVar(&plan.Base.Phasing, "phasing", false, "draw random phases")
	f.Float64Var(&plan.Base.Eps, "eps", plan.Base.Eps, "time tolerance")
	f.BoolVar(&plan.Filter.ExactHyperperiod, "exact-hyperperiod", true, "keep only task sets with an exact hyperperiod")
	f.BoolVar(&plan.Filter.MixedDeadlines, "mixed-deadlines", false, "keep only task sets mixing constrained and arbitrary deadlines")

	return c
}
