package csg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// at returns p0 + u*d.
func at(p0, d r3.Vec, u float64) r3.Vec {
	return r3.Add(p0, r3.Scale(u, d))
}

// unit normalizes v. ok is false when v has zero or non-finite length.
func unit(v r3.Vec) (r3.Vec, bool) {
	l := r3.Norm(v)
	if l == 0 || !isFinite(l) {
		return r3.Vec{}, false
	}
	return r3.Scale(1/l, v), true
}

func isFinite(x float64) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

func finiteVec(v r3.Vec) bool { return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z) }

// checkVecs fails with ErrNonFinite if any of vs has a NaN or infinite
// component.
func checkVecs(what string, vs ...r3.Vec) error {
	for _, v := range vs {
		if !finiteVec(v) {
			return fmt.Errorf("%s %+v: %w", what, v, ErrNonFinite)
		}
	}
	return nil
}

// planeSide classifies the start of a segment against the plane
// num + u*den = 0, where num is the signed distance of p0 along the outward
// normal n and den the step's component along n.
func planeSide(num, den float64, n r3.Vec, flat tieBreak) bool {
	if num != 0 {
		return num < 0
	}
	if den != 0 {
		return den < 0
	}
	return flat(n)
}
