package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

var (
	heading  = color.New(color.Bold, color.FgCyan).SprintFunc()
	dim      = color.New(color.Faint).SprintFunc()
	selected = color.New(color.FgGreen).SprintFunc()
	warn     = color.New(color.FgYellow).SprintFunc()
)

func printTaskSet(w io.Writer, ts *domain.TaskSet) {
	fmt.Fprintf(w, "%s %d tasks, eps %g\n", heading("Task set:"), ts.Len(), ts.Eps())
	for i, t := range ts.Tasks() {
		fmt.Fprintf(w, "  %3d  T=%-10g D=%-10g phi=%-10g %s\n",
			i, t.Period, t.RelativeDeadline, t.Phase, dim(fmt.Sprintf("D/T=%.3f", t.NormalizedDeadline())))
	}

	h := ts.HyperperiodInfo()
	if h.Exact {
		fmt.Fprintf(w, "%s %g\n", heading("Hyperperiod:"), h.Value)
		return
	}
	fmt.Fprintf(w, "%s %g %s\n", heading("Hyperperiod:"), h.Value, warn(fmt.Sprintf("(surrogate, tol %g)", h.Tol)))
}

// printPoints lists every generated point; points kept by the reducer are
// highlighted and starred.
func printPoints(w io.Writer, ps *domain.PointSet) {
	kept := make(map[int]bool, len(ps.Selected))
	for _, idx := range ps.Selected {
		kept[idx] = true
	}

	fmt.Fprintf(w, "%s %d\n", heading("Points:"), ps.NumPoints)
	for i, p := range ps.Points {
		line := fmt.Sprintf("  %5d  [%g, %g)  jobs=%v  demand=%g", i, p.T0, p.T1, p.Jobs, p.Demand)
		if kept[i] {
			fmt.Fprintln(w, selected(line+"  *"))
			continue
		}
		fmt.Fprintln(w, line)
	}
}

func printConstraints(w io.Writer, result *domain.AnalysisResult) {
	fmt.Fprintln(w, heading("C constraints:"))
	for _, c := range result.CForm {
		fmt.Fprintf(w, "  %s <= %g\n", formatSum(c.Coeffs, "C"), c.Bound)
	}

	fmt.Fprintln(w, heading("U constraints:"))
	for _, u := range result.UForm {
		fmt.Fprintf(w, "  %s <= 1\n", formatSum(u.Coeffs, "U"))
	}

	fmt.Fprintf(w, "%s %g\n", heading("Utilization bound:"), result.UtilizationBound)
}

func printSeedSummary(w io.Writer, result *domain.AnalysisResult) {
	fmt.Fprintf(w, "All points: %d\n", result.NumPoints)
	fmt.Fprintf(w, "Iff points: %d\n", result.NumSel)
	fmt.Fprintf(w, "Time points: %f, Time reduce: %f\n", result.PointsDuration.Seconds(), result.ReduceDuration.Seconds())
}

func formatSum(coeffs []float64, symbol string) string {
	var b strings.Builder
	for i, c := range coeffs {
		if i > 0 {
			b.WriteString(" + ")
		}
		fmt.Fprintf(&b, "%g*%s%d", c, symbol, i)
	}
	return b.String()
}
