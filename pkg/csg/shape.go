package csg

import "gonum.org/v1/gonum/spatial/r3"

// Nudge is the parametric distance a boolean walk skips past a crossing it
// has just consumed before asking the same operand for its next one. It must
// stay well below the smallest feature of any sample geometry (relative to
// the step length) and well above floating point round-off.
const Nudge = 1e-10

// Crossing is the first boundary crossing along a segment p0->p1.
type Crossing struct {
	// U is the parametric position of the crossing, in (0, 1].
	U float64
	// Normal is the unit outward normal of the shape at the crossing. The
	// step is entering the shape when dot(p1-p0, Normal) < 0 and leaving it
	// when the dot product is positive.
	Normal r3.Vec
}

// Point returns the position of the crossing on the segment p0->p1.
func (c Crossing) Point(p0, p1 r3.Vec) r3.Vec {
	return at(p0, r3.Sub(p1, p0), c.U)
}

// Entering reports whether the segment p0->p1 enters the shape at c.
func (c Crossing) Entering(p0, p1 r3.Vec) bool {
	return r3.Dot(r3.Sub(p1, p0), c.Normal) < 0
}

// Shape is a solid region of space.
//
// The set of implementations is closed: every shape in a sample is built from
// the primitives, combinators and Affine in this package, so the boolean walk
// can rely on their boundary conventions.
type Shape interface {
	// Contains reports whether p is inside the shape. It is exact only off
	// the boundary: primitives count boundary points as inside, while a
	// Complement, and so a Difference, counts its operand's boundary as
	// outside. ContainsAlong resolves boundary points consistently.
	Contains(p r3.Vec) bool

	// ContainsAlong reports whether p0 is inside the shape, resolving points
	// exactly on the boundary by the direction toward p1: entering counts as
	// inside, leaving as outside. A segment tangent to a curved convex
	// boundary is outside; one lying in a flat boundary is inside iff the
	// first nonzero component of the outward normal is negative.
	ContainsAlong(p0, p1 r3.Vec) bool

	// FirstCrossing returns the nearest boundary crossing of the segment
	// p0->p1 with parameter u in (0, 1]. Tangential contacts are not
	// crossings.
	FirstCrossing(p0, p1 r3.Vec) (Crossing, bool)

	// classify and cross are the frame-aware forms of ContainsAlong and
	// FirstCrossing: flat decides segments lying in a flat face, given that
	// face's outward normal in the shape's local frame.
	classify(p0, p1 r3.Vec, flat tieBreak) bool
	cross(p0, p1 r3.Vec, flat tieBreak) (Crossing, bool)
}

// tieBreak decides containment for a segment lying in a flat boundary with
// outward normal n.
type tieBreak func(n r3.Vec) bool

// FlatTangentInside is the fixed convention for a segment lying exactly in a
// flat boundary with outward normal n: inside iff the first nonzero
// component of n (x, then y, then z) is negative. Two shapes sharing a face
// see opposite normals there, so exactly one of them claims the segment.
func FlatTangentInside(n r3.Vec) bool {
	switch {
	case n.X != 0:
		return n.X < 0
	case n.Y != 0:
		return n.Y < 0
	default:
		return n.Z < 0
	}
}
