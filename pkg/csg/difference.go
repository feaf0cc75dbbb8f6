package csg

import "gonum.org/v1/gonum/spatial/r3"

// Difference is the set of points in a but not in b. It behaves exactly as
// the intersection of a with the complement of b.
type Difference struct {
	a, b  Shape
	inner *Intersection
}

func NewDifference(a, b Shape) (*Difference, error) {
	if err := checkOperands("difference", a, b); err != nil {
		return nil, err
	}
	return &Difference{a: a, b: b, inner: &Intersection{a: a, b: &Complement{s: b}}}, nil
}

// Operands returns the minuend and the subtrahend.
func (d *Difference) Operands() (Shape, Shape) { return d.a, d.b }

func (d *Difference) Contains(p r3.Vec) bool { return d.inner.Contains(p) }

func (d *Difference) ContainsAlong(p0, p1 r3.Vec) bool {
	return d.inner.classify(p0, p1, FlatTangentInside)
}

func (d *Difference) FirstCrossing(p0, p1 r3.Vec) (Crossing, bool) {
	return d.inner.cross(p0, p1, FlatTangentInside)
}

func (d *Difference) classify(p0, p1 r3.Vec, flat tieBreak) bool {
	return d.inner.classify(p0, p1, flat)
}

func (d *Difference) cross(p0, p1 r3.Vec, flat tieBreak) (Crossing, bool) {
	return d.inner.cross(p0, p1, flat)
}
