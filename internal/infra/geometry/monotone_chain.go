package geometry

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

var _ domain.HullComputer = (*MonotoneChain)(nil)

// MonotoneChain computes planar convex hulls with Andrew's monotone chain
// algorithm in O(n log n).
type MonotoneChain struct{}

func NewMonotoneChain() *MonotoneChain {
	return &MonotoneChain{}
}

func (m *MonotoneChain) Compute(points []domain.Vec2, side domain.Side) ([]int, error) {
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			return nil, fmt.Errorf("%w: point %d has non-finite coordinates (%v, %v)",
				domain.ErrHullComputation, i, p.X, p.Y)
		}
	}

	order := sortedUnique(points)
	if len(order) <= 1 {
		return order, nil
	}

	switch side {
	case domain.SideLower:
		return chain(points, order), nil
	case domain.SideUpper:
		upper := chain(points, reversed(order))
		slices.Reverse(upper)
		return upper, nil
	case domain.SideFull:
		lower := chain(points, order)
		upper := chain(points, reversed(order))
		if len(lower) == 2 && len(upper) == 2 {
			// all points collinear
			return lower, nil
		}
		hull := make([]int, 0, len(lower)+len(upper)-2)
		hull = append(hull, lower[:len(lower)-1]...)
		hull = append(hull, upper[:len(upper)-1]...)
		return hull, nil
	default:
		return nil, fmt.Errorf("%w: unknown side %s", domain.ErrHullComputation, side)
	}
}

// chain walks order and keeps only strict counterclockwise turns.
func chain(points []domain.Vec2, order []int) []int {
	out := make([]int, 0, len(order))
	for _, idx := range order {
		for len(out) >= 2 && cross(points[out[len(out)-2]], points[out[len(out)-1]], points[idx]) <= 0 {
			out = out[:len(out)-1]
		}
		out = append(out, idx)
	}
	return out
}

// sortedUnique returns point indices sorted by (X, Y), keeping the lowest index
// among exact duplicates.
func sortedUnique(points []domain.Vec2) []int {
	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		if c := cmp.Compare(points[a].X, points[b].X); c != 0 {
			return c
		}
		if c := cmp.Compare(points[a].Y, points[b].Y); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	return slices.CompactFunc(order, func(a, b int) bool {
		return points[a] == points[b]
	})
}

func reversed(order []int) []int {
	out := slices.Clone(order)
	slices.Reverse(out)
	return out
}

func cross(o, a, b domain.Vec2) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
