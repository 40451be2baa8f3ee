package geometry

import (
	"fmt"
	"math"
)

// Segment is a directed line segment with distinct endpoints.
type Segment struct {
	start, end Point
}

func NewSegment(start, end Point) (Segment, error) {
	if start == end {
		return Segment{}, fmt.Errorf("%w: %v", ErrDegenerateSegment, start)
	}
	return Segment{start: start, end: end}, nil
}

func (s Segment) Start() Point { return s.start }
func (s Segment) End() Point   { return s.end }

func (s Segment) String() string {
	return fmt.Sprintf("(%g,%g)->(%g,%g)", s.start.X, s.start.Y, s.end.X, s.end.Y)
}

// Raycast intersects the ray origin + t*ray (t >= 0) with the segment and
// returns t. The second result is false when the ray is parallel to the
// segment, misses it, or only its backward extension would hit. ray must not
// be zero; Raycast panics otherwise.
func (s Segment) Raycast(origin, ray Point) (float64, bool) {
	if ray.IsZero() {
		panic("geometry: raycast with zero direction")
	}
	rise := s.end.Y - s.start.Y
	run := s.end.X - s.start.X

	denominator := rise*ray.X - run*ray.Y
	if math.Abs(denominator) < Epsilon {
		return 0, false
	}

	param := (origin.Y*ray.X + s.start.X*ray.Y - origin.X*ray.Y - s.start.Y*ray.X) / denominator
	if param < -Epsilon || param > 1+Epsilon {
		return 0, false
	}

	var t float64
	if ray.X == 0 {
		t = (s.start.Y - origin.Y + rise*param) / ray.Y
	} else {
		t = (s.start.X - origin.X + run*param) / ray.X
	}
	if t < -Epsilon || math.IsNaN(t) {
		return 0, false
	}
	return t, true
}
