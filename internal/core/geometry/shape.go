package geometry

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

func (r Rect) Translate(v Point) Rect {
	r.X += v.X
	r.Y += v.Y
	return r
}

// Intersects is the strict AABB overlap test; touching edges do not count.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && r.Right() > o.X && r.Y < o.Bottom() && r.Bottom() > o.Y
}

// Top returns the top edge, left to right. r must have a positive width.
func (r Rect) Top() Segment {
	return Segment{start: Point{X: r.X, Y: r.Y}, end: Point{X: r.Right(), Y: r.Y}}
}

// Edges returns top (left to right), right (top to bottom), bottom (right to
// left) and left (bottom to top). Every corner is the start of exactly one
// edge. r must have a positive size, as walls.NewObstacle guarantees, or the
// edges break the Segment invariant.
func (r Rect) Edges() [4]Segment {
	tl := Point{X: r.X, Y: r.Y}
	tr := Point{X: r.Right(), Y: r.Y}
	br := Point{X: r.Right(), Y: r.Bottom()}
	bl := Point{X: r.X, Y: r.Bottom()}
	return [4]Segment{
		{start: tl, end: tr},
		{start: tr, end: br},
		{start: br, end: bl},
		{start: bl, end: tl},
	}
}

func (r Rect) Polygon() Polygon {
	return Polygon{Vertices: []Point{
		{X: r.X, Y: r.Y},
		{X: r.Width, Y: 0},
		{X: 0, Y: r.Height},
		{X: -r.Width, Y: 0},
		{X: 0, Y: -r.Height},
	}}
}

// Triangle is an ephemeral three-vertex shape.
type Triangle [3]Point

func (t Triangle) Polygon() Polygon {
	return Polygon{Vertices: []Point{
		t[0],
		t[1].Sub(t[0]),
		t[2].Sub(t[1]),
		t[0].Sub(t[2]),
	}}
}

// Bounds returns the axis-aligned box around the triangle.
func (t Triangle) Bounds() Rect {
	lo, hi := t[0], t[0]
	for _, p := range t[1:] {
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	return Rect{X: lo.X, Y: lo.Y, Width: hi.X - lo.X, Height: hi.Y - lo.Y}
}

func (t Triangle) IntersectsRect(r Rect) bool {
	return SAT(t.Polygon(), r.Polygon())
}

// Polygon stores its first vertex in world coordinates followed by the edge
// vectors leading to each next vertex, so an n-gon has n+1 entries and the
// edges sum to zero. Convexity is not checked.
type Polygon struct {
	Vertices []Point
}

func NewPolygon(vertices ...Point) (Polygon, error) {
	p := Polygon{Vertices: vertices}
	if !p.Closed() {
		return Polygon{}, fmt.Errorf("%w: %d vertices", ErrOpenPolygon, len(vertices))
	}
	return p, nil
}

// Closed reports whether the polygon has at least one edge and its edge
// vectors return to the starting vertex.
func (p Polygon) Closed() bool {
	if len(p.Vertices) < 2 {
		return false
	}
	var sum Point
	for _, v := range p.Vertices[1:] {
		sum = sum.Add(v)
	}
	return math.Abs(sum.X) <= Epsilon && math.Abs(sum.Y) <= Epsilon
}

// Project returns the (min, max) extent of the polygon along axis.
func (p Polygon) Project(axis Point) (float64, float64) {
	vertex := p.Vertices[0]
	lo := axis.Dot(vertex)
	hi := lo
	// the last edge leads back to the first vertex
	for _, edge := range p.Vertices[1 : len(p.Vertices)-1] {
		vertex = vertex.Add(edge)
		d := axis.Dot(vertex)
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	return lo, hi
}

// SAT reports whether two convex polygons overlap. Shapes that only touch
// along an axis are treated as separate.
func SAT(p1, p2 Polygon) bool {
	separated := func(edge Point) bool {
		normal := Point{X: -edge.Y, Y: edge.X}
		min1, max1 := p1.Project(normal)
		min2, max2 := p2.Project(normal)
		return min1 >= max2 || min2 >= max1
	}
	for _, edge := range p1.Vertices[1:] {
		if separated(edge) {
			return false
		}
	}
	for _, edge := range p2.Vertices[1:] {
		if separated(edge) {
			return false
		}
	}
	return true
}
