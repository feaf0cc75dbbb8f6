package region

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var ErrInvalidBeam = errors.New("region: invalid beam")

// Beam is a square bundle of parallel rays. Count rays per side are spread
// evenly over a Spread-wide square centred on Origin and perpendicular to
// Direction; each ray is Length long.
type Beam struct {
	Origin    r3.Vec
	Direction r3.Vec
	Spread    float64
	Count     int
	Length    float64
}

// Rays returns the Count*Count rays of the beam, row by row.
func (b Beam) Rays() ([]Ray, error) {
	n := r3.Norm(b.Direction)
	if n == 0 || b.Count < 1 || !(b.Length > 0) || b.Spread < 0 {
		return nil, fmt.Errorf("%+v: %w", b, ErrInvalidBeam)
	}
	dir := r3.Scale(1/n, b.Direction)
	e1, e2 := basis(dir)
	step := r3.Scale(b.Length, dir)

	rays := make([]Ray, 0, b.Count*b.Count)
	for i := range b.Count {
		for j := range b.Count {
			p := r3.Add(b.Origin, r3.Add(
				r3.Scale(offset(i, b.Count, b.Spread), e1),
				r3.Scale(offset(j, b.Count, b.Spread), e2)))
			rays = append(rays, Ray{P0: p, P1: r3.Add(p, step)})
		}
	}
	return rays, nil
}

// offset places index i of n evenly on [-spread/2, spread/2]; a single
// ray sits on the axis.
func offset(i, n int, spread float64) float64 {
	if n == 1 {
		return 0
	}
	return spread * (float64(i)/float64(n-1) - 0.5)
}

// basis returns two unit vectors perpendicular to the unit vector d and to
// each other.
func basis(d r3.Vec) (r3.Vec, r3.Vec) {
	helper := r3.Vec{X: 1}
	if math.Abs(d.X) > 0.9 {
		helper = r3.Vec{Y: 1}
	}
	e1 := r3.Unit(r3.Cross(d, helper))
	return e1, r3.Cross(d, e1)
}
