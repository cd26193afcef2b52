package domain

import "fmt"

// Point is one candidate constraint of the processor-demand test: the jobs
// released in [T0, T1) with deadline at or before T1 must fit in T1-T0.
type Point struct {
	T0 float64 `json:"t0"`
	T1 float64 `json:"t1"`

	// Jobs[i] is the number of jobs of task i counted in the interval.
	Jobs []int `json:"jobs"`

	// Demand is Σ Jobs[i]·Period[i], the interval demand at unit utilization.
	Demand float64 `json:"demand"`
}

func (p Point) Length() float64 {
	return p.T1 - p.T0
}

// Ratio returns Length/Demand, the uniform utilization at which the point binds.
func (p Point) Ratio() float64 {
	return p.Length() / p.Demand
}

// PointSet owns the generated points and the selection made by the reducer.
// Points are never reordered once generated: Selected holds indices into Points.
type PointSet struct {
	Points    []Point `json:"points"`
	Selected  []int   `json:"selected"`
	NumPoints int     `json:"num_points"`
	NumSel    int     `json:"num_sel"`
	Eps       float64 `json:"eps"`
}

func NewPointSet(capacity int, eps float64) *PointSet {
	return &PointSet{
		Points:   make([]Point, 0, capacity),
		Selected: make([]int, 0),
		Eps:      eps,
	}
}

func (ps *PointSet) Add(p Point) {
	ps.Points = append(ps.Points, p)
	ps.NumPoints = len(ps.Points)
}

// Select replaces the selection with indices.
func (ps *PointSet) Select(indices []int) error {
	for _, idx := range indices {
		if idx < 0 || idx >= len(ps.Points) {
			return NewAnalysisError(StageReduce, "selected index within points",
				fmt.Errorf("index %d out of range [0,%d)", idx, len(ps.Points)))
		}
	}

	ps.Selected = make([]int, len(indices))
	copy(ps.Selected, indices)
	ps.NumSel = len(ps.Selected)
	return nil
}

// ResetSelection clears the selection so the set can be reduced again.
func (ps *PointSet) ResetSelection() {
	ps.Selected = ps.Selected[:0]
	ps.NumSel = 0
}

// SelectedPoints returns the selected points in selection order.
func (ps *PointSet) SelectedPoints() []Point {
	out := make([]Point, 0, len(ps.Selected))
	for _, idx := range ps.Selected {
		out = append(out, ps.Points[idx])
	}
	return out
}
