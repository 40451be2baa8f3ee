package geometry

import "errors"

var (
	ErrDegenerateSegment = errors.New("segment start and end coincide")
	ErrOpenPolygon       = errors.New("polygon edges do not return to the start")
)
