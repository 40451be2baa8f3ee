// Package walls turns the obstacle layout into the line segments that block
// line of sight.
package walls

import (
	"errors"
	"fmt"

	"github.com/zeusync/lookout/internal/core/geometry"
)

var (
	ErrEmptyObstacle = errors.New("obstacle must have positive width and height")
	ErrUnknownKind   = errors.New("unknown obstacle kind")
)

// Kind selects how an obstacle blocks sight.
type Kind uint8

const (
	// Static obstacles block from every side.
	Static Kind = iota
	// OneWay platforms are solid from above only and contribute their top edge.
	OneWay
)

func (k Kind) String() string {
	switch k {
	case Static:
		return "static"
	case OneWay:
		return "oneway"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind maps the scenario spelling of a kind to its value.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "static", "":
		return Static, nil
	case "oneway", "one_way", "one-way":
		return OneWay, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Obstacle is a rectangle tagged with its kind. Its size is fixed once
// constructed; the physics side may move it.
type Obstacle struct {
	kind Kind
	rect geometry.Rect
}

func NewObstacle(kind Kind, rect geometry.Rect) (Obstacle, error) {
	if kind != Static && kind != OneWay {
		return Obstacle{}, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
	if !(rect.Width > 0) || !(rect.Height > 0) {
		return Obstacle{}, fmt.Errorf("%w: %+v", ErrEmptyObstacle, rect)
	}
	return Obstacle{kind: kind, rect: rect}, nil
}

func (o Obstacle) Kind() Kind          { return o.kind }
func (o Obstacle) Rect() geometry.Rect { return o.rect }

// MoveTo returns the obstacle with its top-left corner at p.
func (o Obstacle) MoveTo(p geometry.Point) Obstacle {
	o.rect.X, o.rect.Y = p.X, p.Y
	return o
}

// Walls is the tick-local list of blocking segments.
type Walls struct {
	segments []geometry.Segment
}

func New() *Walls { return &Walls{} }

// Rebuild replaces the segment list with the edges of obstacles. The backing
// array is reused between ticks.
func (w *Walls) Rebuild(obstacles []Obstacle) {
	w.segments = w.segments[:0]
	for _, o := range obstacles {
		switch o.kind {
		case Static:
			edges := o.rect.Edges()
			w.segments = append(w.segments, edges[:]...)
		case OneWay:
			w.segments = append(w.segments, o.rect.Top())
		}
	}
}

// Segments returns the current segments. Callers must not modify the slice;
// it is shared by every observer for the rest of the tick.
func (w *Walls) Segments() []geometry.Segment { return w.segments }

func (w *Walls) Len() int { return len(w.segments) }
