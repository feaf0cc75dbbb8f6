package csg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Plane is an oriented plane through Point with outward Normal.
type Plane struct {
	Normal r3.Vec
	Point  r3.Vec
}

// ConvexPolyhedron is the intersection of the half-spaces behind a set of
// planes. With fewer than four suitably oriented planes it is unbounded.
type ConvexPolyhedron struct {
	planes []Plane // normals are unit length
}

// NewConvexPolyhedron returns the convex region behind every plane. Plane
// normals are normalized.
func NewConvexPolyhedron(planes ...Plane) (*ConvexPolyhedron, error) {
	if len(planes) == 0 {
		return nil, ErrEmptyPolyhedron
	}
	ps := make([]Plane, len(planes))
	for i, pl := range planes {
		if err := checkVecs("polyhedron plane", pl.Normal, pl.Point); err != nil {
			return nil, err
		}
		n, ok := unit(pl.Normal)
		if !ok {
			return nil, fmt.Errorf("polyhedron plane %d normal %+v: %w", i, pl.Normal, ErrZeroNormal)
		}
		ps[i] = Plane{Normal: n, Point: pl.Point}
	}
	return &ConvexPolyhedron{planes: ps}, nil
}

// NewBox returns the axis-aligned box spanning min to max.
func NewBox(min, max r3.Vec) (*ConvexPolyhedron, error) {
	if err := checkVecs("box corner", min, max); err != nil {
		return nil, err
	}
	if !(min.X < max.X && min.Y < max.Y && min.Z < max.Z) {
		return nil, fmt.Errorf("box %+v -> %+v: %w", min, max, ErrInvalidBox)
	}
	return NewConvexPolyhedron(
		Plane{Normal: r3.Vec{X: -1}, Point: min},
		Plane{Normal: r3.Vec{Y: -1}, Point: min},
		Plane{Normal: r3.Vec{Z: -1}, Point: min},
		Plane{Normal: r3.Vec{X: 1}, Point: max},
		Plane{Normal: r3.Vec{Y: 1}, Point: max},
		Plane{Normal: r3.Vec{Z: 1}, Point: max},
	)
}

// Planes returns a copy of the bounding planes with unit normals.
func (ph *ConvexPolyhedron) Planes() []Plane {
	return append([]Plane(nil), ph.planes...)
}

func (ph *ConvexPolyhedron) Contains(p r3.Vec) bool {
	for _, pl := range ph.planes {
		if r3.Dot(r3.Sub(p, pl.Point), pl.Normal) > 0 {
			return false
		}
	}
	return true
}

func (ph *ConvexPolyhedron) ContainsAlong(p0, p1 r3.Vec) bool {
	return ph.classify(p0, p1, FlatTangentInside)
}

func (ph *ConvexPolyhedron) FirstCrossing(p0, p1 r3.Vec) (Crossing, bool) {
	return ph.cross(p0, p1, FlatTangentInside)
}

func (ph *ConvexPolyhedron) classify(p0, p1 r3.Vec, flat tieBreak) bool {
	d := r3.Sub(p1, p0)
	for _, pl := range ph.planes {
		num := r3.Dot(r3.Sub(p0, pl.Point), pl.Normal)
		if !planeSide(num, r3.Dot(d, pl.Normal), pl.Normal, flat) {
			return false
		}
	}
	return true
}

// cross clips the segment's line against every plane, keeping the latest
// entry umin and the earliest exit umax. The segment meets the interior
// where umin < u < umax.
func (ph *ConvexPolyhedron) cross(p0, p1 r3.Vec, flat tieBreak) (Crossing, bool) {
	d := r3.Sub(p1, p0)
	umin, umax := math.Inf(-1), math.Inf(1)
	imin, imax := -1, -1
	for i, pl := range ph.planes {
		num := r3.Dot(r3.Sub(p0, pl.Point), pl.Normal)
		den := r3.Dot(d, pl.Normal)
		if den == 0 {
			// Parallel: the whole line is on one side of this plane.
			if num > 0 || (num == 0 && !flat(pl.Normal)) {
				return Crossing{}, false
			}
			continue
		}
		u := -num / den
		if den < 0 {
			if u > umin {
				umin, imin = u, i
			}
		} else if u < umax {
			umax, imax = u, i
		}
	}
	// umax == umin is an edge or vertex graze, which is not a crossing.
	if umax <= umin || umin > 1 || umax <= 0 {
		return Crossing{}, false
	}
	if umin > 0 {
		return Crossing{U: umin, Normal: ph.planes[imin].Normal}, true
	}
	if umax <= 1 {
		return Crossing{U: umax, Normal: ph.planes[imax].Normal}, true
	}
	return Crossing{}, false
}
