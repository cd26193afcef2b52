package reduce

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

// Reducer narrows a point set to the constraints that bind.
//
// It first keeps the vertices of the lower hull in the (Demand, Length) plane: a
// uniform constraint u·Demand + Δ <= Length with u >= 0 and Δ >= 0 holds for every
// point exactly when it holds for every lower hull vertex. Per-task constraints
// Σ Jobs[i]·C_i <= Length can still bind off that hull, so every other point is
// then kept unless the hull vertices and the remaining points imply it over
// C >= 0. The selection induces the same feasibility region as the full set for
// any per-task utilizations.
type Reducer struct {
	hull domain.HullComputer
}

func NewReducer(hull domain.HullComputer) *Reducer {
	return &Reducer{
		hull: hull,
	}
}

// Reduce replaces ps.Selected with the lower hull vertices, in hull order,
// followed by the other binding points in generation order. Points whose hull
// coordinates agree within ps.Eps collapse to the one generated first.
// ps.Points is never reordered.
func (r *Reducer) Reduce(ctx context.Context, ps *domain.PointSet) error {
	if ps == nil || ps.NumPoints == 0 {
		return domain.NewAnalysisError(domain.StageReduce, "num_points > 0",
			fmt.Errorf("%w: empty point set", domain.ErrDegenerateInput))
	}
	if err := ctx.Err(); err != nil {
		return domain.NewAnalysisError(domain.StageReduce, "reduction not cancelled", err)
	}

	projected, representatives := collapse(ps.Points, ps.Eps)

	slog.DebugContext(ctx, "computing lower hull",
		slog.Int("points", ps.NumPoints),
		slog.Int("distinct", len(projected)),
	)

	vertices, err := r.hull.Compute(projected, domain.SideLower)
	if err != nil {
		if !errors.Is(err, domain.ErrHullComputation) {
			err = fmt.Errorf("%w: %w", domain.ErrHullComputation, err)
		}
		return domain.NewAnalysisError(domain.StageReduce, "hull primitive succeeded", err)
	}
	if len(vertices) == 0 {
		return domain.NewAnalysisError(domain.StageReduce, "non-empty hull",
			fmt.Errorf("%w: no vertices returned for %d points", domain.ErrHullComputation, len(projected)))
	}

	selected := make([]int, 0, len(vertices))
	for _, v := range vertices {
		if v < 0 || v >= len(representatives) {
			return domain.NewAnalysisError(domain.StageReduce, "hull index within input",
				fmt.Errorf("%w: index %d out of range [0,%d)", domain.ErrHullComputation, v, len(representatives)))
		}
		selected = append(selected, representatives[v])
	}

	binding, err := keepBinding(ctx, ps.Points, selected, ps.Eps)
	if err != nil {
		return domain.NewAnalysisError(domain.StageReduce, "reduction not cancelled", err)
	}

	slog.DebugContext(ctx, "selected binding points",
		slog.Int("hull_vertices", len(selected)),
		slog.Int("off_hull", len(binding)),
	)

	return ps.Select(append(selected, binding...))
}

func Project(p domain.Point) domain.Vec2 {
	return domain.Vec2{X: p.Demand, Y: p.Length()}
}

type cell struct {
	x, y float64
}

// collapse projects the points and drops every point that lies within eps of an
// earlier one. It returns the distinct coordinates and, for each, the index of the
// point that produced it.
func collapse(points []domain.Point, eps float64) ([]domain.Vec2, []int) {
	projected := make([]domain.Vec2, 0, len(points))
	representatives := make([]int, 0, len(points))

	if eps == 0 {
		seen := make(map[domain.Vec2]struct{}, len(points))
		for i, p := range points {
			v := Project(p)
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			projected = append(projected, v)
			representatives = append(representatives, i)
		}
		return projected, representatives
	}

	// grid of eps-sized cells; a near duplicate sits in the same or an adjacent cell
	grid := make(map[cell][]int, len(points))
	for i, p := range points {
		v := Project(p)
		c := cell{x: math.Floor(v.X / eps), y: math.Floor(v.Y / eps)}

		if nearDuplicate(grid, projected, c, v, eps) {
			continue
		}

		grid[c] = append(grid[c], len(projected))
		projected = append(projected, v)
		representatives = append(representatives, i)
	}
	return projected, representatives
}

func nearDuplicate(grid map[cell][]int, projected []domain.Vec2, c cell, v domain.Vec2, eps float64) bool {
	for dx := -1.0; dx <= 1; dx++ {
		for dy := -1.0; dy <= 1; dy++ {
			for _, k := range grid[cell{x: c.x + dx, y: c.y + dy}] {
				q := projected[k]
				if math.Abs(q.X-v.X) <= eps && math.Abs(q.Y-v.Y) <= eps {
					return true
				}
			}
		}
	}
	return false
}
