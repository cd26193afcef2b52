package reduce

import (
	"math"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

// MinSlack returns min(Length - u·Demand) over points, the largest supply delay a
// uniform utilization u leaves room for. It is +Inf for no points.
func MinSlack(points []domain.Point, u float64) float64 {
	slack := math.Inf(1)
	for _, p := range points {
		slack = math.Min(slack, p.Length()-u*p.Demand)
	}
	return slack
}

// UtilizationBound returns min(Length/Demand) over points with positive demand,
// the largest uniform per-task utilization under which every constraint holds.
func UtilizationBound(points []domain.Point) float64 {
	bound := math.Inf(1)
	for _, p := range points {
		if p.Demand <= 0 {
			continue
		}
		bound = math.Min(bound, p.Ratio())
	}
	return bound
}
