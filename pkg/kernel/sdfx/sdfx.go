// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
//
// Signed distance fields cannot represent unbounded solids, so half-spaces,
// polyhedra and complements are clipped to a world box fixed when the
// kernel is created. The backend is for preview meshes only; tracing uses
// the exact kernel.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/semtrace/pkg/csg"
	"github.com/chazu/semtrace/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution when the
// caller does not choose one.
const DefaultMeshCells = 200

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// Bounds returns the axis-aligned bounding box.
func (s *sdfxSolid) Bounds() kernel.Bounds {
	bb := s.s.BoundingBox()
	return kernel.Bounds{
		Min: kernel.Vec3{bb.Min.X, bb.Min.Y, bb.Min.Z},
		Max: kernel.Vec3{bb.Max.X, bb.Max.Y, bb.Max.Z},
	}
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	world sdf.SDF3
}

// New returns a kernel that clips unbounded solids to world.
func New(world kernel.Bounds) (*SdfxKernel, error) {
	if !world.IsFinite() || world.IsEmpty() || world.IsZero() {
		return nil, fmt.Errorf("sdfx world bounds %+v: %w", world, kernel.ErrUnbounded)
	}
	box, err := boxSDF(world)
	if err != nil {
		return nil, err
	}
	return &SdfxKernel{world: box}, nil
}

func (k *SdfxKernel) Name() string { return "sdfx" }

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

func toV3(v kernel.Vec3) v3.Vec { return v3.Vec{X: v[0], Y: v[1], Z: v[2]} }

func length(v kernel.Vec3) float64 { return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]) }

func sub(a, b kernel.Vec3) kernel.Vec3 { return kernel.Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

func boxSDF(b kernel.Bounds) (sdf.SDF3, error) {
	s, err := sdf.Box3D(toV3(b.Size()), 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Box3D: %w", err)
	}
	// sdf.Box3D is centered on the origin.
	return sdf.Transform3D(s, sdf.Translate3d(toV3(b.Center()))), nil
}

// alongAxis places a solid of revolution built by sdfx (centered on the
// origin, axis along Z) so that its axis runs from end0 to end1.
func alongAxis(s sdf.SDF3, end0, end1 kernel.Vec3) sdf.SDF3 {
	d := sub(end1, end0)
	l := length(d)
	theta := math.Acos(math.Max(-1, math.Min(1, d[2]/l)))
	phi := math.Atan2(d[1], d[0])
	mid := kernel.Vec3{end0[0] + d[0]/2, end0[1] + d[1]/2, end0[2] + d[2]/2}
	m := sdf.Translate3d(toV3(mid)).Mul(sdf.RotateZ(phi)).Mul(sdf.RotateY(theta))
	return sdf.Transform3D(s, m)
}

func axisLength(what string, end0, end1 kernel.Vec3) (float64, error) {
	l := length(sub(end1, end0))
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return 0, fmt.Errorf("%s axis %v -> %v: %w", what, end0, end1, csg.ErrDegenerateAxis)
	}
	return l, nil
}

// Sphere creates a sphere.
func (k *SdfxKernel) Sphere(center kernel.Vec3, radius float64) (kernel.Solid, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("sphere radius %g: %w", radius, csg.ErrInvalidRadius)
	}
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Sphere3D: %w", err)
	}
	return wrap(sdf.Transform3D(s, sdf.Translate3d(toV3(center)))), nil
}

// Cylinder creates a capped cylinder whose axis runs end0 -> end1.
func (k *SdfxKernel) Cylinder(end0, end1 kernel.Vec3, radius float64) (kernel.Solid, error) {
	l, err := axisLength("cylinder", end0, end1)
	if err != nil {
		return nil, err
	}
	if !(radius > 0) {
		return nil, fmt.Errorf("cylinder radius %g: %w", radius, csg.ErrInvalidRadius)
	}
	s, err := sdf.Cylinder3D(l, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Cylinder3D: %w", err)
	}
	return wrap(alongAxis(s, end0, end1)), nil
}

// Cone creates a capped frustum with radius r0 at end0 and r1 at end1.
func (k *SdfxKernel) Cone(end0 kernel.Vec3, r0 float64, end1 kernel.Vec3, r1 float64) (kernel.Solid, error) {
	l, err := axisLength("cone", end0, end1)
	if err != nil {
		return nil, err
	}
	if r0 < 0 || r1 < 0 || (r0 == 0 && r1 == 0) {
		return nil, fmt.Errorf("cone radii %g, %g: %w", r0, r1, csg.ErrInvalidRadius)
	}
	s, err := sdf.Cone3D(l, r0, r1, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Cone3D: %w", err)
	}
	return wrap(alongAxis(s, end0, end1)), nil
}

// HalfSpace creates the world box cut by the plane through point, keeping
// the side opposite the outward normal.
func (k *SdfxKernel) HalfSpace(normal, point kernel.Vec3) (kernel.Solid, error) {
	return k.Polyhedron([]kernel.Plane{{Normal: normal, Point: point}})
}

// Box creates an axis-aligned box spanning min to max.
func (k *SdfxKernel) Box(min, max kernel.Vec3) (kernel.Solid, error) {
	b := kernel.Bounds{Min: min, Max: max}
	sz := b.Size()
	if !(sz[0] > 0 && sz[1] > 0 && sz[2] > 0) {
		return nil, fmt.Errorf("box %v -> %v: %w", min, max, csg.ErrInvalidBox)
	}
	s, err := boxSDF(b)
	if err != nil {
		return nil, err
	}
	return wrap(s), nil
}

// Polyhedron cuts the world box by every plane.
func (k *SdfxKernel) Polyhedron(planes []kernel.Plane) (kernel.Solid, error) {
	if len(planes) == 0 {
		return nil, csg.ErrEmptyPolyhedron
	}
	s := k.world
	for i, p := range planes {
		l := length(p.Normal)
		if l == 0 || math.IsNaN(l) {
			return nil, fmt.Errorf("plane %d normal %v: %w", i, p.Normal, csg.ErrZeroNormal)
		}
		// Cut3D keeps the side the normal points to.
		inward := kernel.Vec3{-p.Normal[0] / l, -p.Normal[1] / l, -p.Normal[2] / l}
		s = sdf.Cut3D(s, toV3(p.Point), toV3(inward))
	}
	return wrap(s), nil
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Complement returns the world box minus a.
func (k *SdfxKernel) Complement(a kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(k.world, unwrap(a)))
}

// Translate moves a solid by v.
func (k *SdfxKernel) Translate(s kernel.Solid, v kernel.Vec3) kernel.Solid {
	return wrap(sdf.Transform3D(unwrap(s), sdf.Translate3d(toV3(v))))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, euler kernel.Vec3) kernel.Solid {
	xRad := euler[0] * math.Pi / 180.0
	yRad := euler[1] * math.Pi / 180.0
	zRad := euler[2] * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Scale scales a solid about the origin.
func (k *SdfxKernel) Scale(s kernel.Solid, v kernel.Vec3) (kernel.Solid, error) {
	if v[0] == 0 || v[1] == 0 || v[2] == 0 {
		return nil, fmt.Errorf("scale %v: %w", v, csg.ErrSingularTransform)
	}
	return wrap(sdf.Transform3D(unwrap(s), sdf.Scale3d(toV3(v)))), nil
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid, bounds kernel.Bounds, cells int) (*kernel.Mesh, error) {
	b, err := kernel.MeshBounds(s, bounds)
	if err != nil {
		return nil, err
	}
	if b.IsEmpty() {
		return &kernel.Mesh{}, nil
	}
	return Triangulate(Within(unwrap(s), b), cells), nil
}
