package main

import (
	"github.com/spf13/cobra"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
	"github.com/KasumiMercury/edf-hull-analysis/internal/infra/tsreader"
)

func inputCmd() *cobra.Command {
	var file string
	var verbose bool

	c := &cobra.Command{
		Use:   "input",
		Short: "Analyze a task set read from stdin, or from a YAML file with --file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			analysisCfg, err := loadAnalysisConfig()
			if err != nil {
				return err
			}
			policy := analysisCfg.HyperperiodPolicy()

			var ts *domain.TaskSet
			if file != "" {
				ts, err = tsreader.LoadYAMLFile(file, policy)
			} else {
				ts, err = tsreader.ReadText(cmd.InOrStdin(), policy)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if verbose {
				printTaskSet(out, ts)
			}

			svc := newAnalysisService(analysisCfg, nil, nil, nil, nil)
			outcome, err := svc.Run(cmd.Context(), ts)
			if err != nil {
				return err
			}

			if verbose {
				printPoints(out, outcome.Points)
			}
			printConstraints(out, outcome.Result)
			return nil
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "", "YAML task set file (reads the text format from stdin when omitted)")
	c.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the task set and every generated point")
	return c
}
