package csg

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// HalfSpace is the closed region dot(p - Point, Normal) <= 0.
type HalfSpace struct {
	normal r3.Vec
	point  r3.Vec
}

// NewHalfSpace returns the half-space bounded by the plane through point with
// the given outward normal. The normal is normalized.
func NewHalfSpace(normal, point r3.Vec) (*HalfSpace, error) {
	if err := checkVecs("half-space", normal, point); err != nil {
		return nil, err
	}
	n, ok := unit(normal)
	if !ok {
		return nil, fmt.Errorf("half-space normal %+v: %w", normal, ErrZeroNormal)
	}
	return &HalfSpace{normal: n, point: point}, nil
}

// Normal returns the unit outward normal.
func (h *HalfSpace) Normal() r3.Vec { return h.normal }

// Point returns the point the bounding plane passes through.
func (h *HalfSpace) Point() r3.Vec { return h.point }

func (h *HalfSpace) Contains(p r3.Vec) bool {
	return r3.Dot(r3.Sub(p, h.point), h.normal) <= 0
}

func (h *HalfSpace) ContainsAlong(p0, p1 r3.Vec) bool {
	return h.classify(p0, p1, FlatTangentInside)
}

func (h *HalfSpace) FirstCrossing(p0, p1 r3.Vec) (Crossing, bool) {
	return h.cross(p0, p1, FlatTangentInside)
}

func (h *HalfSpace) classify(p0, p1 r3.Vec, flat tieBreak) bool {
	num := r3.Dot(r3.Sub(p0, h.point), h.normal)
	den := r3.Dot(r3.Sub(p1, p0), h.normal)
	return planeSide(num, den, h.normal, flat)
}

func (h *HalfSpace) cross(p0, p1 r3.Vec, _ tieBreak) (Crossing, bool) {
	den := r3.Dot(r3.Sub(p1, p0), h.normal)
	if den == 0 {
		return Crossing{}, false
	}
	u := -r3.Dot(r3.Sub(p0, h.point), h.normal) / den
	if !inStep(u) {
		return Crossing{}, false
	}
	return Crossing{U: u, Normal: h.normal}, true
}
