package csg

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Cone is a closed right circular frustum whose radius varies linearly from
// r0 at end0 to r1 at end1. Either radius may be zero, giving a pointed cone.
type Cone struct {
	frame  axialFrame
	r0, r1 float64
	slope  float64 // dr/dt
}

// NewCone returns the frustum with axis end0 -> end1 and end radii r0, r1.
func NewCone(end0 r3.Vec, r0 float64, end1 r3.Vec, r1 float64) (*Cone, error) {
	f, err := newAxialFrame("cone", end0, end1)
	if err != nil {
		return nil, err
	}
	if r0 < 0 || r1 < 0 || !isFinite(r0) || !isFinite(r1) || (r0 == 0 && r1 == 0) {
		return nil, fmt.Errorf("cone radii %g, %g: %w", r0, r1, ErrInvalidRadius)
	}
	return &Cone{frame: f, r0: r0, r1: r1, slope: (r1 - r0) / f.length}, nil
}

func (c *Cone) End0() r3.Vec { return c.frame.origin }
func (c *Cone) End1() r3.Vec { return at(c.frame.origin, c.frame.axis, c.frame.length) }

// Radii returns the radius at end0 and at end1.
func (c *Cone) Radii() (r0, r1 float64) { return c.r0, c.r1 }

func (c *Cone) radiusAt(t float64) float64 { return c.r0 + c.slope*t }

func (c *Cone) Contains(p r3.Vec) bool {
	t, q := c.frame.split(r3.Sub(p, c.frame.origin))
	if !c.frame.withinLength(t) {
		return false
	}
	r := c.radiusAt(t)
	return r3.Norm2(q) <= r*r
}

func (c *Cone) ContainsAlong(p0, p1 r3.Vec) bool {
	return c.classify(p0, p1, FlatTangentInside)
}

func (c *Cone) FirstCrossing(p0, p1 r3.Vec) (Crossing, bool) {
	return c.cross(p0, p1, FlatTangentInside)
}

// lateral returns the coefficients of |q(u)|^2 - R(u)^2 where the local
// radius R(u) = R0 + u*dR follows the segment's axial position.
func (c *Cone) lateral(s axialSegment) (a, b, cc float64) {
	rad0 := c.radiusAt(s.t0)
	drad := c.slope * s.dt
	a = r3.Norm2(s.dq) - drad*drad
	b = 2 * (r3.Dot(s.q0, s.dq) - rad0*drad)
	cc = r3.Norm2(s.q0) - rad0*rad0
	return a, b, cc
}

func (c *Cone) classify(p0, p1 r3.Vec, flat tieBreak) bool {
	s := c.frame.segment(p0, p1)
	if !c.frame.capsInside(s, flat) {
		return false
	}
	return quadricInside(c.lateral(s))
}

func (c *Cone) cross(p0, p1 r3.Vec, _ tieBreak) (Crossing, bool) {
	s := c.frame.segment(p0, p1)
	var best Crossing
	found := false

	a, b, cc := c.lateral(s)
	roots, n := solveQuadratic(a, b, cc)
	for _, u := range roots[:n] {
		// The quadric is a double cone; only the nappe between the caps
		// bounds the solid.
		if !inStep(u) || !c.frame.withinLength(s.t0+u*s.dt) {
			continue
		}
		radial, ok := unit(at(s.q0, s.dq, u))
		if !ok {
			continue // apex
		}
		normal, ok := unit(r3.Sub(radial, r3.Scale(c.slope, c.frame.axis)))
		if !ok {
			continue
		}
		best, found = Crossing{U: u, Normal: normal}, true
		break
	}

	capc, capok := c.frame.caps(s, c.r0, c.r1, [3]float64{a, b, cc})
	return nearest(best, found, capc, capok)
}
