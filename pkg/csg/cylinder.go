package csg

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Cylinder is a closed right circular cylinder with flat end caps.
type Cylinder struct {
	frame  axialFrame
	radius float64
}

// NewCylinder returns the cylinder of the given radius whose axis runs from
// end0 to end1.
func NewCylinder(end0, end1 r3.Vec, radius float64) (*Cylinder, error) {
	f, err := newAxialFrame("cylinder", end0, end1)
	if err != nil {
		return nil, err
	}
	if !(radius > 0) || !isFinite(radius) {
		return nil, fmt.Errorf("cylinder radius %g: %w", radius, ErrInvalidRadius)
	}
	return &Cylinder{frame: f, radius: radius}, nil
}

func (c *Cylinder) End0() r3.Vec    { return c.frame.origin }
func (c *Cylinder) End1() r3.Vec    { return at(c.frame.origin, c.frame.axis, c.frame.length) }
func (c *Cylinder) Radius() float64 { return c.radius }

func (c *Cylinder) Contains(p r3.Vec) bool {
	t, q := c.frame.split(r3.Sub(p, c.frame.origin))
	return c.frame.withinLength(t) && r3.Norm2(q) <= c.radius*c.radius
}

func (c *Cylinder) ContainsAlong(p0, p1 r3.Vec) bool {
	return c.classify(p0, p1, FlatTangentInside)
}

func (c *Cylinder) FirstCrossing(p0, p1 r3.Vec) (Crossing, bool) {
	return c.cross(p0, p1, FlatTangentInside)
}

// lateral returns the coefficients of |q0 + u*dq|^2 - r^2.
func (c *Cylinder) lateral(s axialSegment) (a, b, cc float64) {
	return r3.Norm2(s.dq), 2 * r3.Dot(s.q0, s.dq), r3.Norm2(s.q0) - c.radius*c.radius
}

func (c *Cylinder) classify(p0, p1 r3.Vec, flat tieBreak) bool {
	s := c.frame.segment(p0, p1)
	if !c.frame.capsInside(s, flat) {
		return false
	}
	return quadricInside(c.lateral(s))
}

func (c *Cylinder) cross(p0, p1 r3.Vec, _ tieBreak) (Crossing, bool) {
	s := c.frame.segment(p0, p1)
	var best Crossing
	found := false

	a, b, cc := c.lateral(s)
	roots, n := solveQuadratic(a, b, cc)
	for _, u := range roots[:n] {
		if !inStep(u) || !c.frame.withinLength(s.t0+u*s.dt) {
			continue
		}
		normal, ok := unit(at(s.q0, s.dq, u))
		if !ok {
			continue
		}
		best, found = Crossing{U: u, Normal: normal}, true
		break
	}

	capc, capok := c.frame.caps(s, c.radius, c.radius, [3]float64{a, b, cc})
	return nearest(best, found, capc, capok)
}
