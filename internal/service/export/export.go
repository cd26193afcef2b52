package export

import (
	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

// CoefficientForm returns one constraint Σ Jobs[i]·C_i <= T1-T0 per selected point,
// in selection order.
func CoefficientForm(ps *domain.PointSet) []domain.CConstraint {
	out := make([]domain.CConstraint, 0, ps.NumSel)
	for _, idx := range ps.Selected {
		p := ps.Points[idx]

		coeffs := make([]float64, len(p.Jobs))
		for i, n := range p.Jobs {
			coeffs[i] = float64(n)
		}

		out = append(out, domain.CConstraint{
			PointIndex: idx,
			T0:         p.T0,
			T1:         p.T1,
			Coeffs:     coeffs,
			Bound:      p.Length(),
			Demand:     p.Demand,
		})
	}
	return out
}

// UtilizationForm returns one constraint Σ (Jobs[i]·T_i/L)·U_i <= 1 per selected
// point, in selection order. ps must have been generated from ts.
func UtilizationForm(ts *domain.TaskSet, ps *domain.PointSet) []domain.UConstraint {
	out := make([]domain.UConstraint, 0, ps.NumSel)
	for _, c := range CoefficientForm(ps) {
		out = append(out, Normalize(ts, c))
	}
	return out
}

// Normalize converts a coefficient-form constraint to utilization form: with
// C_i = U_i·T_i, dividing through by the interval length gives the U-form.
func Normalize(ts *domain.TaskSet, c domain.CConstraint) domain.UConstraint {
	coeffs := make([]float64, len(c.Coeffs))
	for i, k := range c.Coeffs {
		coeffs[i] = k * ts.Task(i).Period / c.Bound
	}

	return domain.UConstraint{
		PointIndex: c.PointIndex,
		T0:         c.T0,
		T1:         c.T1,
		Coeffs:     coeffs,
		Demand:     c.Demand / c.Bound,
	}
}
