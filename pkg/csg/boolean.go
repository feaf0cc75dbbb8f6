package csg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// membership combines the operand memberships of a binary combinator.
type membership func(inA, inB bool) bool

func either(inA, inB bool) bool { return inA || inB }
func both(inA, inB bool) bool   { return inA && inB }

// walk returns the first crossing of the segment p0->p1 with the boundary of
// the combination of a and b under in.
//
// Each operand's crossings are consumed in order of u, toggling that
// operand's membership; the first crossing that flips the combined
// membership is a boundary of the combination. Crossings of the two
// operands within Nudge of each other are one event, and when that event
// flips the combination its normal is the normalized sum of both.
func walk(a, b Shape, p0, p1 r3.Vec, in membership, flat tieBreak) (Crossing, bool) {
	inA := a.classify(p0, p1, flat)
	inB := b.classify(p0, p1, flat)
	inside := in(inA, inB)

	ca, okA := a.cross(p0, p1, flat)
	cb, okB := b.cross(p0, p1, flat)
	for okA || okB {
		switch {
		case okA && okB && math.Abs(ca.U-cb.U) <= Nudge:
			inA, inB = !inA, !inB
			if in(inA, inB) != inside {
				return Crossing{U: math.Min(ca.U, cb.U), Normal: eventNormal(ca.Normal, cb.Normal)}, true
			}
			ca, okA = resume(a, p0, p1, ca.U, flat)
			cb, okB = resume(b, p0, p1, cb.U, flat)
		case okA && (!okB || ca.U < cb.U):
			inA = !inA
			if in(inA, inB) != inside {
				return ca, true
			}
			ca, okA = resume(a, p0, p1, ca.U, flat)
		default:
			inB = !inB
			if in(inA, inB) != inside {
				return cb, true
			}
			cb, okB = resume(b, p0, p1, cb.U, flat)
		}
	}
	return Crossing{}, false
}

// eventNormal is the normal of two simultaneous crossings: the normalized
// sum, or na when the two cancel.
func eventNormal(na, nb r3.Vec) r3.Vec {
	if n, ok := unit(r3.Add(na, nb)); ok {
		return n
	}
	return na
}

// resume asks s for its next crossing after the one it reported at u,
// restarting Nudge further along and mapping the answer back onto the
// original segment's parameter.
func resume(s Shape, p0, p1 r3.Vec, u float64, flat tieBreak) (Crossing, bool) {
	start := u + Nudge
	if start >= 1 {
		return Crossing{}, false
	}
	c, ok := s.cross(at(p0, r3.Sub(p1, p0), start), p1, flat)
	if !ok {
		return Crossing{}, false
	}
	c.U = start + c.U*(1-start)
	return c, true
}

func checkOperands(op string, shapes ...Shape) error {
	for i, s := range shapes {
		if s == nil {
			return fmt.Errorf("%s operand %d: %w", op, i, ErrNilShape)
		}
	}
	return nil
}

// Union is the set of points in either operand.
type Union struct {
	a, b Shape
}

func NewUnion(a, b Shape) (*Union, error) {
	if err := checkOperands("union", a, b); err != nil {
		return nil, err
	}
	return &Union{a: a, b: b}, nil
}

// UnionOf folds shapes left to right into nested unions. A single shape is
// returned unchanged.
func UnionOf(shapes ...Shape) (Shape, error) {
	return fold("union", shapes, func(a, b Shape) (Shape, error) { return NewUnion(a, b) })
}

// Operands returns the two combined shapes.
func (u *Union) Operands() (Shape, Shape) { return u.a, u.b }

func (u *Union) Contains(p r3.Vec) bool { return u.a.Contains(p) || u.b.Contains(p) }

func (u *Union) ContainsAlong(p0, p1 r3.Vec) bool {
	return u.classify(p0, p1, FlatTangentInside)
}

func (u *Union) FirstCrossing(p0, p1 r3.Vec) (Crossing, bool) {
	return u.cross(p0, p1, FlatTangentInside)
}

func (u *Union) classify(p0, p1 r3.Vec, flat tieBreak) bool {
	return u.a.classify(p0, p1, flat) || u.b.classify(p0, p1, flat)
}

func (u *Union) cross(p0, p1 r3.Vec, flat tieBreak) (Crossing, bool) {
	return walk(u.a, u.b, p0, p1, either, flat)
}

// Intersection is the set of points in both operands.
type Intersection struct {
	a, b Shape
}

func NewIntersection(a, b Shape) (*Intersection, error) {
	if err := checkOperands("intersection", a, b); err != nil {
		return nil, err
	}
	return &Intersection{a: a, b: b}, nil
}

// IntersectionOf folds shapes left to right into nested intersections. A
// single shape is returned unchanged.
func IntersectionOf(shapes ...Shape) (Shape, error) {
	return fold("intersection", shapes, func(a, b Shape) (Shape, error) { return NewIntersection(a, b) })
}

func (x *Intersection) Operands() (Shape, Shape) { return x.a, x.b }

func (x *Intersection) Contains(p r3.Vec) bool { return x.a.Contains(p) && x.b.Contains(p) }

func (x *Intersection) ContainsAlong(p0, p1 r3.Vec) bool {
	return x.classify(p0, p1, FlatTangentInside)
}

func (x *Intersection) FirstCrossing(p0, p1 r3.Vec) (Crossing, bool) {
	return x.cross(p0, p1, FlatTangentInside)
}

func (x *Intersection) classify(p0, p1 r3.Vec, flat tieBreak) bool {
	return x.a.classify(p0, p1, flat) && x.b.classify(p0, p1, flat)
}

func (x *Intersection) cross(p0, p1 r3.Vec, flat tieBreak) (Crossing, bool) {
	return walk(x.a, x.b, p0, p1, both, flat)
}

func fold(op string, shapes []Shape, join func(a, b Shape) (Shape, error)) (Shape, error) {
	if len(shapes) == 0 {
		return nil, fmt.Errorf("%s of no shapes: %w", op, ErrNilShape)
	}
	if err := checkOperands(op, shapes...); err != nil {
		return nil, err
	}
	acc := shapes[0]
	for _, s := range shapes[1:] {
		var err error
		if acc, err = join(acc, s); err != nil {
			return nil, err
		}
	}
	return acc, nil
}
