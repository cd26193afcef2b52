package domain

// CConstraint is the coefficient form Σ Coeffs[i]·C_i <= Bound, where C_i is the
// execution requirement of task i.
type CConstraint struct {
	PointIndex int       `json:"point_index"`
	T0         float64   `json:"t0"`
	T1         float64   `json:"t1"`
	Coeffs     []float64 `json:"coeffs"`
	Bound      float64   `json:"bound"`
	Demand     float64   `json:"demand"`
}

// UConstraint is the utilization form Σ Coeffs[i]·U_i <= 1, where U_i is the
// utilization of task i. Demand is the utilization-normalized demand of the
// interval, i.e. the left-hand side when every task has unit utilization.
type UConstraint struct {
	PointIndex int       `json:"point_index"`
	T0         float64   `json:"t0"`
	T1         float64   `json:"t1"`
	Coeffs     []float64 `json:"coeffs"`
	Demand     float64   `json:"demand"`
}

// UtilizationBound is the largest uniform per-task utilization the constraint admits.
func (u UConstraint) UtilizationBound() float64 {
	return 1 / u.Demand
}
