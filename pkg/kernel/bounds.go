package kernel

import "math"

// Bounds is an axis-aligned box. Components may be infinite.
type Bounds struct {
	Min Vec3 `json:"min" yaml:"min"`
	Max Vec3 `json:"max" yaml:"max"`
}

// Infinite returns bounds covering all of space.
func Infinite() Bounds {
	inf := math.Inf(1)
	return Bounds{Min: Vec3{-inf, -inf, -inf}, Max: Vec3{inf, inf, inf}}
}

// Empty returns bounds that contain nothing and act as the identity for
// Union.
func Empty() Bounds {
	inf := math.Inf(1)
	return Bounds{Min: Vec3{inf, inf, inf}, Max: Vec3{-inf, -inf, -inf}}
}

// IsZero reports whether b is the zero value.
func (b Bounds) IsZero() bool { return b == Bounds{} }

// IsEmpty reports whether b contains no points.
func (b Bounds) IsEmpty() bool {
	for i := 0; i < 3; i++ {
		if b.Min[i] > b.Max[i] {
			return true
		}
	}
	return false
}

// IsFinite reports whether every extent of b is finite.
func (b Bounds) IsFinite() bool {
	for i := 0; i < 3; i++ {
		if math.IsInf(b.Min[i], 0) || math.IsInf(b.Max[i], 0) {
			return false
		}
	}
	return true
}

// Size returns the extent along each axis.
func (b Bounds) Size() Vec3 {
	return Vec3{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// Center returns the midpoint of b.
func (b Bounds) Center() Vec3 {
	return Vec3{(b.Min[0] + b.Max[0]) / 2, (b.Min[1] + b.Max[1]) / 2, (b.Min[2] + b.Max[2]) / 2}
}

// Contains reports whether p lies within b, boundary included.
func (b Bounds) Contains(p Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Union returns the smallest bounds enclosing both.
func (b Bounds) Union(o Bounds) Bounds {
	var r Bounds
	for i := 0; i < 3; i++ {
		r.Min[i] = math.Min(b.Min[i], o.Min[i])
		r.Max[i] = math.Max(b.Max[i], o.Max[i])
	}
	return r
}

// Intersect returns the overlap of both bounds, which may be empty.
func (b Bounds) Intersect(o Bounds) Bounds {
	var r Bounds
	for i := 0; i < 3; i++ {
		r.Min[i] = math.Max(b.Min[i], o.Min[i])
		r.Max[i] = math.Min(b.Max[i], o.Max[i])
	}
	return r
}

// Expand grows b by margin on every side.
func (b Bounds) Expand(margin float64) Bounds {
	for i := 0; i < 3; i++ {
		b.Min[i] -= margin
		b.Max[i] += margin
	}
	return b
}

// Corners returns the eight corners of b.
func (b Bounds) Corners() [8]Vec3 {
	var c [8]Vec3
	for i := range c {
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) == 0 {
				c[i][axis] = b.Min[axis]
			} else {
				c[i][axis] = b.Max[axis]
			}
		}
	}
	return c
}

// Fit returns the bounds enclosing pts.
func Fit(pts ...Vec3) Bounds {
	b := Empty()
	for _, p := range pts {
		b = b.Union(Bounds{Min: p, Max: p})
	}
	return b
}
