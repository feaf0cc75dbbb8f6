package csg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is an affine map p -> L*p + Offset with a 3x3 linear part L.
// The zero value is not useful; start from Identity.
type Transform struct {
	lin    [3][3]float64 // row major
	offset r3.Vec
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{lin: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// NewTransform returns the transform with the given row-major linear part
// and offset.
func NewTransform(lin [3][3]float64, offset r3.Vec) Transform {
	return Transform{lin: lin, offset: offset}
}

// Translation moves points by d.
func Translation(d r3.Vec) Transform {
	t := Identity()
	t.offset = d
	return t
}

// Scaling scales each axis independently about the origin.
func Scaling(s r3.Vec) Transform {
	return Transform{lin: [3][3]float64{{s.X, 0, 0}, {0, s.Y, 0}, {0, 0, s.Z}}}
}

// RotationAbout rotates by angle radians about axis through the origin,
// counter-clockwise looking down the axis.
func RotationAbout(axis r3.Vec, angle float64) (Transform, error) {
	if _, ok := unit(axis); !ok {
		return Transform{}, fmt.Errorf("rotation axis %+v: %w", axis, ErrDegenerateAxis)
	}
	var t Transform
	cols := [3]r3.Vec{{X: 1}, {Y: 1}, {Z: 1}}
	for j, e := range cols {
		c := r3.Rotate(e, angle, axis)
		t.lin[0][j], t.lin[1][j], t.lin[2][j] = c.X, c.Y, c.Z
	}
	return t, nil
}

// RotationEuler rotates about X, then Y, then Z by the components of deg,
// given in degrees. This is the M = Rz*Ry*Rx convention of the kernel
// backends.
func RotationEuler(deg r3.Vec) Transform {
	rx, _ := RotationAbout(r3.Vec{X: 1}, deg.X*math.Pi/180)
	ry, _ := RotationAbout(r3.Vec{Y: 1}, deg.Y*math.Pi/180)
	rz, _ := RotationAbout(r3.Vec{Z: 1}, deg.Z*math.Pi/180)
	return rx.Then(ry).Then(rz)
}

// Apply maps a point.
func (t Transform) Apply(p r3.Vec) r3.Vec {
	return r3.Add(t.ApplyLinear(p), t.offset)
}

// ApplyLinear maps a direction, ignoring the offset.
func (t Transform) ApplyLinear(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: t.lin[0][0]*v.X + t.lin[0][1]*v.Y + t.lin[0][2]*v.Z,
		Y: t.lin[1][0]*v.X + t.lin[1][1]*v.Y + t.lin[1][2]*v.Z,
		Z: t.lin[2][0]*v.X + t.lin[2][1]*v.Y + t.lin[2][2]*v.Z,
	}
}

// applyTranspose maps v by the transpose of the linear part.
func (t Transform) applyTranspose(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: t.lin[0][0]*v.X + t.lin[1][0]*v.Y + t.lin[2][0]*v.Z,
		Y: t.lin[0][1]*v.X + t.lin[1][1]*v.Y + t.lin[2][1]*v.Z,
		Z: t.lin[0][2]*v.X + t.lin[1][2]*v.Y + t.lin[2][2]*v.Z,
	}
}

// Then returns the transform that applies t first and next second.
func (t Transform) Then(next Transform) Transform {
	var out Transform
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out.lin[i][j] += next.lin[i][k] * t.lin[k][j]
			}
		}
	}
	out.offset = next.Apply(t.offset)
	return out
}

// Linear returns the row-major linear part.
func (t Transform) Linear() [3][3]float64 { return t.lin }

// Offset returns the translation part.
func (t Transform) Offset() r3.Vec { return t.offset }

// Inverse returns the inverse map. Singular and numerically singular linear
// parts fail with ErrSingularTransform.
func (t Transform) Inverse() (Transform, error) {
	for _, row := range t.lin {
		for _, x := range row {
			if !isFinite(x) {
				return Transform{}, fmt.Errorf("transform %v: %w", t.lin, ErrNonFinite)
			}
		}
	}
	m := mat.NewDense(3, 3, []float64{
		t.lin[0][0], t.lin[0][1], t.lin[0][2],
		t.lin[1][0], t.lin[1][1], t.lin[1][2],
		t.lin[2][0], t.lin[2][1], t.lin[2][2],
	})
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return Transform{}, fmt.Errorf("transform %v: %v: %w", t.lin, err, ErrSingularTransform)
	}
	var out Transform
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.lin[i][j] = inv.At(i, j)
		}
	}
	out.offset = r3.Scale(-1, out.ApplyLinear(t.offset))
	return out, nil
}
