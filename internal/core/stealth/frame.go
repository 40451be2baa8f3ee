package stealth

import (
	"github.com/zeusync/lookout/internal/core/codes"
	"github.com/zeusync/lookout/internal/core/geometry"
	"github.com/zeusync/lookout/internal/core/stealth/vision"
)

// ConeFrame is one observer's cone as drawn by a debug overlay.
type ConeFrame struct {
	Observer  string              `json:"observer"`
	Location  geometry.Point      `json:"location"`
	Code      codes.Code          `json:"code"`
	Triangles []geometry.Triangle `json:"triangles"`
}

// Frame is the payload of EventTickCompleted.
type Frame struct {
	Session string       `json:"session"`
	Tick    uint64       `json:"tick"`
	Cones   []ConeFrame  `json:"cones"`
	Active  []codes.Code `json:"active"`
	Latched []Latch      `json:"latched,omitempty"`
	Fired   []string     `json:"fired,omitempty"`
}

func (e *Engine) frame(report Report, cones []vision.Cone) Frame {
	f := Frame{
		Session: e.state.Session().String(),
		Tick:    report.Tick,
		Cones:   make([]ConeFrame, len(cones)),
		Active:  e.state.Active(),
		Latched: report.Latched,
		Fired:   report.Fired,
	}
	for i, c := range cones {
		o := e.observers[i]
		f.Cones[i] = ConeFrame{
			Observer:  o.Name(),
			Location:  o.Location(),
			Code:      o.Code(),
			Triangles: c.Triangles(),
		}
	}
	return f
}
