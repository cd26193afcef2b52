package domain

import "fmt"

//go:generate mockgen -source=hull.go -destination=hull_mock.go -package=domain

// Vec2 is a point in the plane handed to a HullComputer.
type Vec2 struct {
	X float64
	Y float64
}

// Side selects which part of the convex hull boundary is requested.
type Side int

const (
	SideLower Side = iota
	SideUpper
	SideFull
)

func (s Side) String() string {
	switch s {
	case SideLower:
		return "lower"
	case SideUpper:
		return "upper"
	case SideFull:
		return "full"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// HullComputer computes the convex hull of a planar point set and returns the
// indices of the hull vertices on the requested side. Lower and upper chains are
// ordered by increasing X; the full hull is counterclockwise from the leftmost
// lowest vertex. Collinear boundary points are not vertices.
type HullComputer interface {
	Compute(points []Vec2, side Side) ([]int, error)
}
