package main

import (
	"github.com/spf13/cobra"

	"github.com/KasumiMercury/edf-hull-analysis/internal/infra/tsreader"
)

func seedCmd() *cobra.Command {
	var verbose bool

	c := &cobra.Command{
		Use:   "seed",
		Short: "Generate and analyze a random task set from a setup record on stdin",
		Long: "Reads one comma-separated setup record from stdin:\n" +
			"  seed,num_tasks,per_min,per_max,phasing,dl_avg,dl_var,eps\n" +
			"and prints the point counts and stage timings.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			analysisCfg, err := loadAnalysisConfig()
			if err != nil {
				return err
			}

			setup, err := tsreader.ReadRandSetup(cmd.InOrStdin())
			if err != nil {
				return err
			}

			svc := newAnalysisService(analysisCfg, nil, nil, nil, nil)
			outcome, err := svc.AnalyzeSeed(cmd.Context(), "", setup)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if verbose {
				printTaskSet(out, outcome.TaskSet)
				printPoints(out, outcome.Points)
			}
			printSeedSummary(out, outcome.Result)
			return nil
		},
	}

	c.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the generated task set and its points")
	return c
}
