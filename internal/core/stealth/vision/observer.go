// Package vision computes what each observer can see: a fan of triangles
// inside the observer's wedge, cut short by wall segments.
package vision

import (
	"errors"
	"fmt"
	"math"

	"github.com/zeusync/lookout/internal/core/codes"
	"github.com/zeusync/lookout/internal/core/geometry"
)

var (
	ErrZeroDirection = errors.New("wedge direction must not be the zero vector")
	ErrWedgeTooWide  = errors.New("wedge from lower to upper must be narrower than pi")
)

// Observer casts a wedge-shaped field of view and raises its alarm code when
// a suspicious body enters it.
type Observer struct {
	name     string
	location geometry.Point
	offset   geometry.Point
	lower    geometry.Point
	upper    geometry.Point
	code     codes.Code

	degenerate bool
}

// NewObserver validates the wedge. The wedge runs counterclockwise from lower
// to upper; coincident bounds are allowed and see nothing.
func NewObserver(name string, anchor, offset, lower, upper geometry.Point, code codes.Code) (*Observer, error) {
	if lower.IsZero() || upper.IsZero() {
		return nil, fmt.Errorf("observer %q: %w", name, ErrZeroDirection)
	}

	// sine of the wedge angle, so the bounds may have any length
	sin := lower.Cross(upper) / math.Sqrt(lower.LengthSquared()*upper.LengthSquared())

	var degenerate bool
	switch {
	case sin > geometry.Epsilon:
	case sin >= -geometry.Epsilon && lower.Dot(upper) > 0:
		degenerate = true
	default:
		return nil, fmt.Errorf("observer %q: %w", name, ErrWedgeTooWide)
	}

	return &Observer{
		name:       name,
		location:   anchor.Add(offset),
		offset:     offset,
		lower:      lower,
		upper:      upper,
		code:       code,
		degenerate: degenerate,
	}, nil
}

// Shift moves the observer along with its anchor.
func (o *Observer) Shift(anchor geometry.Point) {
	o.location = anchor.Add(o.offset)
}

func (o *Observer) Name() string             { return o.name }
func (o *Observer) Location() geometry.Point { return o.location }
func (o *Observer) Lower() geometry.Point    { return o.lower }
func (o *Observer) Upper() geometry.Point    { return o.upper }
func (o *Observer) Code() codes.Code         { return o.code }
func (o *Observer) Degenerate() bool         { return o.degenerate }
func (o *Observer) Anchor() geometry.Point   { return o.location.Sub(o.offset) }
func (o *Observer) Offset() geometry.Point   { return o.offset }
