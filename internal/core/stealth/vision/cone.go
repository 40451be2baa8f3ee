package vision

import (
	"math"

	"github.com/zeusync/lookout/internal/core/geometry"
)

// DefaultHorizon is how far, in world units, a sector with no blocking wall
// is drawn.
const DefaultHorizon = 2048.0

// Reach is how far a sector extends along its two rays, in multiples of each
// ray. Limited is false when no wall bounds the sector; Current and Next are
// then meaningless. A limited reach of zero is a wall touching the observer.
type Reach struct {
	Current float64
	Next    float64
	Limited bool
}

// Unlimited marks a sector that no wall bounds.
var Unlimited = Reach{}

// Sector is one slice of the fan, between two adjacent sorted rays.
type Sector struct {
	Current  geometry.Point
	Next     geometry.Point
	Reach    Reach
	Triangle geometry.Triangle
}

// Cone is the visible area of one observer for the current tick.
type Cone struct {
	Sectors []Sector
}

func (c Cone) Empty() bool { return len(c.Sectors) == 0 }

// Triangles returns the fan without reach bookkeeping.
func (c Cone) Triangles() []geometry.Triangle {
	out := make([]geometry.Triangle, len(c.Sectors))
	for i, s := range c.Sectors {
		out[i] = s.Triangle
	}
	return out
}

// Compute builds the observer's cone against walls. Sectors that no wall
// bounds are drawn out to horizon world units; a non-positive horizon falls
// back to DefaultHorizon.
func Compute(o *Observer, walls []geometry.Segment, horizon float64) Cone {
	if o.degenerate {
		return Cone{}
	}
	if !(horizon > 0) {
		horizon = DefaultHorizon
	}

	rays := make([]geometry.Point, 0, len(walls)+2)
	rays = append(rays, o.lower, o.upper)

	// every rectangle corner starts exactly one wall segment
	for _, seg := range walls {
		ray := seg.Start().Sub(o.location)
		if ray.IsZero() {
			continue
		}
		if ray.RayBetween(o.lower, o.upper) {
			rays = append(rays, ray)
		}
	}

	geometry.SortFromAngle(rays, o.lower)

	cone := Cone{Sectors: make([]Sector, 0, len(rays)-1)}
	for i := 0; i < len(rays)-1; i++ {
		current, next := rays[i], rays[i+1]
		reach := castPair(o.location, current, next, walls)
		cone.Sectors = append(cone.Sectors, Sector{
			Current:  current,
			Next:     next,
			Reach:    reach,
			Triangle: o.triangle(current, next, reach, horizon),
		})
	}
	return cone
}

// castPair finds the nearest wall along current that both rays hit.
func castPair(origin, current, next geometry.Point, walls []geometry.Segment) Reach {
	reach := Unlimited
	for _, seg := range walls {
		dc, ok := seg.Raycast(origin, current)
		if !ok {
			continue
		}
		dn, ok := seg.Raycast(origin, next)
		if !ok {
			continue
		}
		if !reach.Limited || dc < reach.Current {
			reach = Reach{Current: dc, Next: dn, Limited: true}
		}
	}
	return reach
}

func (o *Observer) triangle(current, next geometry.Point, reach Reach, horizon float64) geometry.Triangle {
	if !reach.Limited {
		return geometry.Triangle{
			o.location,
			o.location.Add(current.Scale(horizon / math.Sqrt(current.LengthSquared()))),
			o.location.Add(next.Scale(horizon / math.Sqrt(next.LengthSquared()))),
		}
	}
	return geometry.Triangle{
		o.location,
		o.location.Add(current.Scale(reach.Current)),
		o.location.Add(next.Scale(reach.Next)),
	}
}
