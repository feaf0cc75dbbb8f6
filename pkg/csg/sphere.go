package csg

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Sphere is the closed ball |p - Center| <= Radius.
type Sphere struct {
	center r3.Vec
	radius float64
}

// NewSphere returns a sphere. The radius must be positive and finite.
func NewSphere(center r3.Vec, radius float64) (*Sphere, error) {
	if err := checkVecs("sphere center", center); err != nil {
		return nil, err
	}
	if !(radius > 0) || !isFinite(radius) {
		return nil, fmt.Errorf("sphere radius %g: %w", radius, ErrInvalidRadius)
	}
	return &Sphere{center: center, radius: radius}, nil
}

func (s *Sphere) Center() r3.Vec   { return s.center }
func (s *Sphere) Radius() float64 { return s.radius }

func (s *Sphere) Contains(p r3.Vec) bool {
	return r3.Norm2(r3.Sub(p, s.center)) <= s.radius*s.radius
}

func (s *Sphere) ContainsAlong(p0, p1 r3.Vec) bool {
	return s.classify(p0, p1, FlatTangentInside)
}

func (s *Sphere) FirstCrossing(p0, p1 r3.Vec) (Crossing, bool) {
	return s.cross(p0, p1, FlatTangentInside)
}

// coefficients returns F(u) = |w + u*d|^2 - r^2 as a*u^2 + b*u + c, with w
// the segment start relative to the center.
func (s *Sphere) coefficients(p0, p1 r3.Vec) (a, b, c float64, w, d r3.Vec) {
	w = r3.Sub(p0, s.center)
	d = r3.Sub(p1, p0)
	a = r3.Norm2(d)
	b = 2 * r3.Dot(w, d)
	c = r3.Norm2(w) - s.radius*s.radius
	return a, b, c, w, d
}

func (s *Sphere) classify(p0, p1 r3.Vec, _ tieBreak) bool {
	a, b, c, _, _ := s.coefficients(p0, p1)
	return quadricInside(a, b, c)
}

func (s *Sphere) cross(p0, p1 r3.Vec, _ tieBreak) (Crossing, bool) {
	a, b, c, w, d := s.coefficients(p0, p1)
	if a == 0 {
		return Crossing{}, false
	}
	roots, n := solveQuadratic(a, b, c)
	for _, u := range roots[:n] {
		if !inStep(u) {
			continue
		}
		normal, ok := unit(at(w, d, u))
		if !ok {
			continue
		}
		return Crossing{U: u, Normal: normal}, true
	}
	return Crossing{}, false
}
