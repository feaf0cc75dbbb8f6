package csg

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// axialFrame locates a capped solid of revolution: the axis runs from origin
// (t = 0) along the unit vector axis to t = length.
type axialFrame struct {
	origin r3.Vec
	axis   r3.Vec
	length float64
}

func newAxialFrame(what string, end0, end1 r3.Vec) (axialFrame, error) {
	if err := checkVecs(what, end0, end1); err != nil {
		return axialFrame{}, err
	}
	d := r3.Sub(end1, end0)
	l := r3.Norm(d)
	if l == 0 || !isFinite(l) {
		return axialFrame{}, fmt.Errorf("%s axis %+v -> %+v: %w", what, end0, end1, ErrDegenerateAxis)
	}
	return axialFrame{origin: end0, axis: r3.Scale(1/l, d), length: l}, nil
}

// split decomposes v into its component along the axis and the remainder
// perpendicular to it.
func (f axialFrame) split(v r3.Vec) (t float64, perp r3.Vec) {
	t = r3.Dot(v, f.axis)
	return t, r3.Sub(v, r3.Scale(t, f.axis))
}

// axialSegment is a segment p0->p1 expressed in an axial frame.
type axialSegment struct {
	t0, dt float64 // axial position of p0 and its rate along the segment
	q0, dq r3.Vec  // perpendicular offset of p0 and its rate
}

func (f axialFrame) segment(p0, p1 r3.Vec) axialSegment {
	var s axialSegment
	s.t0, s.q0 = f.split(r3.Sub(p0, f.origin))
	s.dt, s.dq = f.split(r3.Sub(p1, p0))
	return s
}

// capsInside classifies the segment start against both end caps, each the
// flat half-space beyond one end of the axis.
func (f axialFrame) capsInside(s axialSegment, flat tieBreak) bool {
	return planeSide(-s.t0, -s.dt, r3.Scale(-1, f.axis), flat) &&
		planeSide(s.t0-f.length, s.dt, f.axis, flat)
}

// capCrossing returns the crossing with the cap at axial position t, a disc
// of the given radius with outward normal n. A zero-radius cap is the apex
// point. The hit only counts where the lateral surface, with coefficients
// lat along the segment, classifies the segment as inside from there on; a
// segment sliding along the wall is outside and so never enters at the rim.
func (f axialFrame) capCrossing(s axialSegment, t, radius float64, n r3.Vec, lat [3]float64) (Crossing, bool) {
	if s.dt == 0 {
		return Crossing{}, false
	}
	u := (t - s.t0) / s.dt
	if !inStep(u) || r3.Norm2(at(s.q0, s.dq, u)) > radius*radius {
		return Crossing{}, false
	}
	if !quadricInsideAt(lat[0], lat[1], lat[2], u) {
		return Crossing{}, false
	}
	return Crossing{U: u, Normal: n}, true
}

// nearest keeps the smaller-u of two optional crossings.
func nearest(best Crossing, found bool, c Crossing, ok bool) (Crossing, bool) {
	if !ok {
		return best, found
	}
	if !found || c.U < best.U {
		return c, true
	}
	return best, found
}

// caps returns the nearer of the two end cap crossings.
func (f axialFrame) caps(s axialSegment, r0, r1 float64, lat [3]float64) (Crossing, bool) {
	c0, ok0 := f.capCrossing(s, 0, r0, r3.Scale(-1, f.axis), lat)
	c1, ok1 := f.capCrossing(s, f.length, r1, f.axis, lat)
	return nearest(c0, ok0, c1, ok1)
}

// withinLength reports whether axial position t lies on the finite solid.
func (f axialFrame) withinLength(t float64) bool {
	return t >= 0 && t <= f.length
}
