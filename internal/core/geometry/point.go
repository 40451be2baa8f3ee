package geometry

import "slices"

// Epsilon is the tolerance used by every boundary test in this package.
const Epsilon = 1e-4

// Point is a 2D position or direction vector.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(o Point) Point { return Point{X: p.X + o.X, Y: p.Y + o.Y} }

func (p Point) Sub(o Point) Point { return Point{X: p.X - o.X, Y: p.Y - o.Y} }

func (p Point) Scale(s float64) Point { return Point{X: p.X * s, Y: p.Y * s} }

func (p Point) Dot(o Point) float64 { return p.X*o.X + p.Y*o.Y }

// Cross returns the z component of p × o.
func (p Point) Cross(o Point) float64 { return p.X*o.Y - p.Y*o.X }

func (p Point) LengthSquared() float64 { return p.X*p.X + p.Y*p.Y }

func (p Point) IsZero() bool { return p.X == 0 && p.Y == 0 }

// RayBetween reports whether p lies in the wedge swept counterclockwise from
// lower to upper. Only valid when that wedge is narrower than pi.
func (p Point) RayBetween(lower, upper Point) bool {
	// upper rotated ccw by pi/2
	if p.Y*upper.X-p.X*upper.Y > Epsilon {
		return false
	}
	// lower rotated cw by pi/2
	if p.X*lower.Y-p.Y*lower.X > Epsilon {
		return false
	}
	return true
}

// SortFromAngle orders rays by increasing angle from the direction from.
// All rays must lie within [from, from+pi). Equal angles keep their order.
//
// Ordering by angle is the reverse of ordering by the normalized projection
// onto from; squaring both sides keeps the comparison free of square roots:
// a·f/|a| > b·f/|b|  iff  (a·f)|a·f||b|² > (b·f)|b·f||a|².
func SortFromAngle(rays []Point, from Point) {
	slices.SortStableFunc(rays, func(a, b Point) int {
		af := from.Dot(a)
		lhs := af * abs(af) * b.LengthSquared()
		bf := from.Dot(b)
		rhs := bf * abs(bf) * a.LengthSquared()
		switch {
		case lhs > rhs:
			return -1
		case lhs < rhs:
			return 1
		default:
			return 0
		}
	})
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
