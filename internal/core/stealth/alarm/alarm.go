// Package alarm latches an observer's code when a suspicious body shows up
// inside its cone.
package alarm

import (
	"github.com/zeusync/lookout/internal/core/codes"
	"github.com/zeusync/lookout/internal/core/geometry"
	"github.com/zeusync/lookout/internal/core/stealth/vision"
)

// Suspicious marks a body rectangle as eligible for detection.
type Suspicious struct {
	Code codes.Code
	Body geometry.Rect
}

// State is the slice of the alarm registry the detector needs.
type State interface {
	Contains(codes.Code) bool
	Insert(codes.Code) bool
	Interact(passive, active codes.Code) bool
}

// Detect latches the observer's code on the first suspicious body that
// overlaps any triangle of cone and reports whether it did. Observers whose
// code is already latched are not evaluated.
func Detect(o *vision.Observer, cone vision.Cone, bodies []Suspicious, state State) bool {
	code := o.Code()
	if state.Contains(code) {
		return false
	}
	for _, body := range bodies {
		if !state.Interact(body.Code, code) {
			continue
		}
		if Spotted(cone, body.Body) {
			return state.Insert(code)
		}
	}
	return false
}

// Spotted reports whether any triangle of cone overlaps rect. Triangles whose
// bounds miss rect are skipped before the SAT test.
func Spotted(cone vision.Cone, rect geometry.Rect) bool {
	target := rect.Polygon()
	for _, s := range cone.Sectors {
		if !s.Triangle.Bounds().Intersects(rect) {
			continue
		}
		if geometry.SAT(s.Triangle.Polygon(), target) {
			return true
		}
	}
	return false
}
