package csg

import "math"

// solveQuadratic returns the real roots of a*u^2 + b*u + c = 0 in ascending
// order. Double and complex roots are reported as none: a double root is a
// tangential contact, which is not a crossing. With a == 0 the equation is
// solved as linear and at most one root is returned.
//
// The larger-magnitude root comes from q = -(b + sign(b)*sqrt(disc))/2 and
// the other from c/q, which avoids the cancellation the textbook formula
// suffers when b*b >> 4*a*c.
func solveQuadratic(a, b, c float64) (roots [2]float64, n int) {
	if a == 0 {
		if b == 0 {
			return roots, 0
		}
		roots[0] = -c / b
		return roots, 1
	}
	disc := b*b - 4*a*c
	if !(disc > 0) {
		return roots, 0
	}
	q := -0.5 * (b + math.Copysign(math.Sqrt(disc), b))
	r1, r2 := q/a, c/q
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	roots[0], roots[1] = r1, r2
	return roots, 2
}

// quadricInside classifies the start of a segment against a quadric surface
// whose implicit function along the segment is F(u) = a*u^2 + b*u + c, with
// F < 0 inside. It reads the same coefficients solveQuadratic sees, so a
// segment starting on the surface is classified consistently with the roots
// reported for it: the sign of F(0), then of F'(0), then of the curvature.
// A tangent segment on a convex surface (a > 0) is outside.
func quadricInside(a, b, c float64) bool {
	switch {
	case c != 0:
		return c < 0
	case b != 0:
		return b < 0
	default:
		return a < 0
	}
}

// quadricInsideAt classifies the segment from parameter u onward, re-basing
// F so that u becomes its origin.
func quadricInsideAt(a, b, c, u float64) bool {
	return quadricInside(a, 2*a*u+b, (a*u+b)*u+c)
}

// inStep reports whether u lies in the half-open step interval (0, 1].
func inStep(u float64) bool { return u > 0 && u <= 1 }
