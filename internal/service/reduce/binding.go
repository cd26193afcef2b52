package reduce

import (
	"cmp"
	"context"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

const (
	// slack on the LP optimum when deciding that a constraint is implied
	impliedTolerance = 1e-9
	simplexTolerance = 1e-10
)

// scaled is a point's constraint Σ Jobs[i]·C_i <= Length divided through by
// Length, so that it reads Σ w[i]·C_i <= 1.
type scaled struct {
	index int
	w     []float64
	sum   float64
	// relax shrinks w to the constraint loosened by eps
	relax float64
}

func newScaled(index int, p domain.Point, eps float64) scaled {
	length := p.Length()

	s := scaled{
		index: index,
		w:     make([]float64, len(p.Jobs)),
		relax: length / (length + eps),
	}
	for i, n := range p.Jobs {
		s.w[i] = float64(n) / length
		s.sum += s.w[i]
	}
	return s
}

// dominates reports whether p's constraint alone implies q's loosened by eps.
func (p scaled) dominates(q scaled) bool {
	for i, v := range q.w {
		if p.w[i] < v*q.relax {
			return false
		}
	}
	return true
}

// keepBinding returns, in generation order, the points outside fixed whose
// constraint Σ Jobs[i]·C_i <= Length over C >= 0 is not implied by the fixed
// points together with the other returned points.
//
// Points sharing a job vector reduce to the shortest interval. A point dominated
// componentwise by a kept point is dropped; the rest are dropped when an LP shows
// that a combination of the remaining constraints with total weight at most one
// covers them. Scaling C_i by T_i leaves implication unchanged, so the result
// holds for the utilization form as well.
func keepBinding(ctx context.Context, points []domain.Point, fixed []int, eps float64) ([]int, error) {
	isFixed := make(map[int]struct{}, len(fixed))
	kept := make([]scaled, 0, len(fixed))
	for _, idx := range fixed {
		isFixed[idx] = struct{}{}
		kept = append(kept, newScaled(idx, points[idx], eps))
	}

	shortest := make(map[string]int)
	buf := make([]byte, 0, 32)
	for i, p := range points {
		if _, ok := isFixed[i]; ok {
			continue
		}
		buf = jobsKey(buf[:0], p.Jobs)
		if j, ok := shortest[string(buf)]; !ok || p.Length() < points[j].Length() {
			shortest[string(buf)] = i
		}
	}

	candidates := make([]scaled, 0, len(shortest))
	for _, i := range shortest {
		s := newScaled(i, points[i], eps)
		if s.sum == 0 {
			continue
		}
		candidates = append(candidates, s)
	}

	// a dominating point has the larger total weight, up to eps, so visiting by
	// decreasing weight lets each candidate be compared with kept points only
	slices.SortFunc(candidates, func(a, b scaled) int {
		if c := cmp.Compare(b.sum, a.sum); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})

	var survivors []scaled
	for _, q := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if anyDominates(kept, q) || anyDominates(survivors, q) {
			continue
		}
		survivors = append(survivors, q)
	}

	slices.SortFunc(survivors, func(a, b scaled) int {
		return cmp.Compare(a.index, b.index)
	})

	removed := make([]bool, len(survivors))
	others := make([]scaled, 0, len(kept)+len(survivors))
	for k, q := range survivors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		others = append(others[:0], kept...)
		for j, p := range survivors {
			if j != k && !removed[j] {
				others = append(others, p)
			}
		}

		if implied(q, others) {
			removed[k] = true
		}
	}

	out := make([]int, 0, len(survivors))
	for k, q := range survivors {
		if !removed[k] {
			out = append(out, q.index)
		}
	}
	return out, nil
}

func anyDominates(ps []scaled, q scaled) bool {
	for _, p := range ps {
		if p.dominates(q) {
			return true
		}
	}
	return false
}

// implied reports whether some λ >= 0 with Σλ <= 1 gives Σ λ_p·w_p >= w_q on
// every task q counts a job of, which is exactly when q is implied by others
// over C >= 0. It solves min Σλ subject to those covering rows; a failed solve
// keeps q.
func implied(q scaled, others []scaled) bool {
	rows := make([]int, 0, len(q.w))
	for i, v := range q.w {
		if v > 0 {
			rows = append(rows, i)
		}
	}
	if len(rows) == 0 {
		return true
	}

	var cols []scaled
	for _, p := range others {
		for _, i := range rows {
			if p.w[i] > 0 {
				cols = append(cols, p)
				break
			}
		}
	}
	for _, i := range rows {
		if !slices.ContainsFunc(cols, func(p scaled) bool { return p.w[i] > 0 }) {
			return false
		}
	}

	// columns: one λ per other point, then one surplus per row
	m, n := len(rows), len(cols)+len(rows)
	a := mat.NewDense(m, n, nil)
	b := make([]float64, m)
	c := make([]float64, n)
	for r, i := range rows {
		for j, p := range cols {
			a.Set(r, j, p.w[i])
		}
		a.Set(r, len(cols)+r, -1)
		b[r] = q.w[i] * q.relax
	}
	for j := range cols {
		c[j] = 1
	}

	opt, _, err := lp.Simplex(c, a, b, simplexTolerance, nil)
	if err != nil {
		return false
	}
	return opt <= 1+impliedTolerance
}

func jobsKey(buf []byte, jobs []int) []byte {
	for i, n := range jobs {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendInt(buf, int64(n), 10)
	}
	return buf
}
