package csg

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Affine is a shape mapped through a Transform. Queries are answered by
// mapping the segment into the operand's frame; the crossing parameter u is
// unchanged by the mapping and normals return through the inverse
// transpose of the linear part.
type Affine struct {
	s        Shape
	fwd, inv Transform
}

// NewAffine returns s mapped by t. Wrapping an Affine composes the two
// transforms instead of nesting.
func NewAffine(s Shape, t Transform) (*Affine, error) {
	if err := checkOperands("affine", s); err != nil {
		return nil, err
	}
	if inner, ok := s.(*Affine); ok {
		s, t = inner.s, inner.fwd.Then(t)
	}
	inv, err := t.Inverse()
	if err != nil {
		return nil, err
	}
	return &Affine{s: s, fwd: t, inv: inv}, nil
}

// Translate returns s moved by d.
func Translate(s Shape, d r3.Vec) (*Affine, error) {
	return NewAffine(s, Translation(d))
}

// Rotate returns s rotated by angle radians about the axis through the
// origin.
func Rotate(s Shape, axis r3.Vec, angle float64) (*Affine, error) {
	t, err := RotationAbout(axis, angle)
	if err != nil {
		return nil, err
	}
	return NewAffine(s, t)
}

// Scale returns s scaled about the origin. Every factor must be non-zero.
func Scale(s Shape, v r3.Vec) (*Affine, error) {
	if v.X == 0 || v.Y == 0 || v.Z == 0 {
		return nil, fmt.Errorf("scale %+v: %w", v, ErrSingularTransform)
	}
	return NewAffine(s, Scaling(v))
}

// Operand returns the untransformed shape.
func (a *Affine) Operand() Shape { return a.s }

// Transform returns the forward transform.
func (a *Affine) Transform() Transform { return a.fwd }

func (a *Affine) Contains(p r3.Vec) bool { return a.s.Contains(a.inv.Apply(p)) }

func (a *Affine) ContainsAlong(p0, p1 r3.Vec) bool {
	return a.classify(p0, p1, FlatTangentInside)
}

func (a *Affine) FirstCrossing(p0, p1 r3.Vec) (Crossing, bool) {
	return a.cross(p0, p1, FlatTangentInside)
}

// normal maps an operand-frame normal into this frame.
func (a *Affine) normal(n r3.Vec) (r3.Vec, bool) {
	return unit(a.inv.applyTranspose(n))
}

// local wraps the caller's tie-break so the operand's flat faces are judged
// by their normals in the caller's frame. Shared faces then resolve the
// same way whichever side of a transform they were built on.
func (a *Affine) local(flat tieBreak) tieBreak {
	return func(n r3.Vec) bool {
		m, ok := a.normal(n)
		if !ok {
			return flat(n)
		}
		return flat(m)
	}
}

func (a *Affine) classify(p0, p1 r3.Vec, flat tieBreak) bool {
	return a.s.classify(a.inv.Apply(p0), a.inv.Apply(p1), a.local(flat))
}

func (a *Affine) cross(p0, p1 r3.Vec, flat tieBreak) (Crossing, bool) {
	c, ok := a.s.cross(a.inv.Apply(p0), a.inv.Apply(p1), a.local(flat))
	if !ok {
		return Crossing{}, false
	}
	n, ok := a.normal(c.Normal)
	if !ok {
		return Crossing{}, false
	}
	c.Normal = n
	return c, true
}
