// Package exact implements the kernel.Kernel interface on top of the csg
// package. Its solids answer exact containment and boundary crossing
// queries, which is what the region tracer needs; meshing is a preview that
// samples csg containment on a marching cubes grid.
package exact

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/semtrace/pkg/csg"
	"github.com/chazu/semtrace/pkg/kernel"
	ksdfx "github.com/chazu/semtrace/pkg/kernel/sdfx"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// ErrForeignSolid is returned by ShapeOf for solids built by another
// backend.
var ErrForeignSolid = errors.New("exact: solid was not built by the exact kernel")

// solid pairs a csg shape with conservative bounds.
type solid struct {
	shape  csg.Shape
	bounds kernel.Bounds
}

func (s *solid) Bounds() kernel.Bounds { return s.bounds }

// ShapeOf returns the csg shape behind a solid built by this package.
func ShapeOf(s kernel.Solid) (csg.Shape, error) {
	es, ok := s.(*solid)
	if !ok {
		return nil, fmt.Errorf("%T: %w", s, ErrForeignSolid)
	}
	return es.shape, nil
}

// Kernel builds csg shapes.
type Kernel struct{}

// New returns an exact kernel.
func New() *Kernel { return &Kernel{} }

func (k *Kernel) Name() string { return "exact" }

func unwrap(s kernel.Solid) *solid { return s.(*solid) }

func vec(v kernel.Vec3) r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

func (k *Kernel) Sphere(center kernel.Vec3, radius float64) (kernel.Solid, error) {
	s, err := csg.NewSphere(vec(center), radius)
	if err != nil {
		return nil, err
	}
	return &solid{shape: s, bounds: kernel.Bounds{Min: center, Max: center}.Expand(radius)}, nil
}

func (k *Kernel) Cylinder(end0, end1 kernel.Vec3, radius float64) (kernel.Solid, error) {
	s, err := csg.NewCylinder(vec(end0), vec(end1), radius)
	if err != nil {
		return nil, err
	}
	return &solid{shape: s, bounds: kernel.Fit(end0, end1).Expand(radius)}, nil
}

func (k *Kernel) Cone(end0 kernel.Vec3, r0 float64, end1 kernel.Vec3, r1 float64) (kernel.Solid, error) {
	s, err := csg.NewCone(vec(end0), r0, vec(end1), r1)
	if err != nil {
		return nil, err
	}
	return &solid{shape: s, bounds: kernel.Fit(end0, end1).Expand(math.Max(r0, r1))}, nil
}

func (k *Kernel) HalfSpace(normal, point kernel.Vec3) (kernel.Solid, error) {
	s, err := csg.NewHalfSpace(vec(normal), vec(point))
	if err != nil {
		return nil, err
	}
	return &solid{shape: s, bounds: planeBounds(normal, point)}, nil
}

func (k *Kernel) Box(min, max kernel.Vec3) (kernel.Solid, error) {
	s, err := csg.NewBox(vec(min), vec(max))
	if err != nil {
		return nil, err
	}
	return &solid{shape: s, bounds: kernel.Bounds{Min: min, Max: max}}, nil
}

func (k *Kernel) Polyhedron(planes []kernel.Plane) (kernel.Solid, error) {
	ps := make([]csg.Plane, len(planes))
	b := kernel.Infinite()
	for i, p := range planes {
		ps[i] = csg.Plane{Normal: vec(p.Normal), Point: vec(p.Point)}
		b = b.Intersect(planeBounds(p.Normal, p.Point))
	}
	s, err := csg.NewConvexPolyhedron(ps...)
	if err != nil {
		return nil, err
	}
	return &solid{shape: s, bounds: b}, nil
}

// planeBounds bounds the half-space behind a plane. Only planes facing
// along a coordinate axis bound anything.
func planeBounds(normal, point kernel.Vec3) kernel.Bounds {
	b := kernel.Infinite()
	axis, sign := -1, 0.0
	for i, c := range normal {
		if c == 0 {
			continue
		}
		if axis >= 0 {
			return b
		}
		axis, sign = i, c
	}
	switch {
	case axis < 0:
	case sign > 0:
		b.Max[axis] = point[axis]
	default:
		b.Min[axis] = point[axis]
	}
	return b
}

// The csg constructors only fail on nil operands, which unwrap rules out.

func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	sa, sb := unwrap(a), unwrap(b)
	s, _ := csg.NewUnion(sa.shape, sb.shape)
	return &solid{shape: s, bounds: sa.bounds.Union(sb.bounds)}
}

func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	sa, sb := unwrap(a), unwrap(b)
	s, _ := csg.NewIntersection(sa.shape, sb.shape)
	return &solid{shape: s, bounds: sa.bounds.Intersect(sb.bounds)}
}

func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	sa, sb := unwrap(a), unwrap(b)
	s, _ := csg.NewDifference(sa.shape, sb.shape)
	return &solid{shape: s, bounds: sa.bounds}
}

func (k *Kernel) Complement(a kernel.Solid) kernel.Solid {
	s, _ := csg.NewComplement(unwrap(a).shape)
	return &solid{shape: s, bounds: kernel.Infinite()}
}

// Translate and Rotate have no error result, so a transform that fails to
// build, such as a rotation by a NaN angle, panics.
func (k *Kernel) Translate(s kernel.Solid, v kernel.Vec3) kernel.Solid {
	return k.mustTransform(s, csg.Translation(vec(v)))
}

func (k *Kernel) Rotate(s kernel.Solid, euler kernel.Vec3) kernel.Solid {
	return k.mustTransform(s, csg.RotationEuler(vec(euler)))
}

func (k *Kernel) mustTransform(s kernel.Solid, t csg.Transform) kernel.Solid {
	out, err := k.transform(s, t)
	if err != nil {
		panic(fmt.Sprintf("exact: %v", err))
	}
	return out
}

func (k *Kernel) Scale(s kernel.Solid, v kernel.Vec3) (kernel.Solid, error) {
	if v[0] == 0 || v[1] == 0 || v[2] == 0 {
		return nil, fmt.Errorf("scale %v: %w", v, csg.ErrSingularTransform)
	}
	return k.transform(s, csg.Scaling(vec(v)))
}

func (k *Kernel) transform(s kernel.Solid, t csg.Transform) (kernel.Solid, error) {
	es := unwrap(s)
	a, err := csg.NewAffine(es.shape, t)
	if err != nil {
		return nil, err
	}
	return &solid{shape: a, bounds: transformBounds(es.bounds, t)}, nil
}

// transformBounds maps the corners of b. Infinite bounds survive only pure
// translations.
func transformBounds(b kernel.Bounds, t csg.Transform) kernel.Bounds {
	if !b.IsFinite() {
		if t.Linear() != csg.Identity().Linear() {
			return kernel.Infinite()
		}
		o := t.Offset()
		off := kernel.Vec3{o.X, o.Y, o.Z}
		for i := 0; i < 3; i++ {
			b.Min[i] += off[i]
			b.Max[i] += off[i]
		}
		return b
	}
	var pts [8]kernel.Vec3
	for i, c := range b.Corners() {
		p := t.Apply(vec(c))
		pts[i] = kernel.Vec3{p.X, p.Y, p.Z}
	}
	return kernel.Fit(pts[:]...)
}

// indicator presents csg containment as an sdf.SDF3 for marching cubes.
// The field is -1 inside and +1 outside, so the extracted surface lies
// within one cell of the true boundary.
type indicator struct {
	shape csg.Shape
}

func (f indicator) Evaluate(p v3.Vec) float64 {
	if f.shape.Contains(r3.Vec{X: p.X, Y: p.Y, Z: p.Z}) {
		return -1
	}
	return 1
}

func (f indicator) BoundingBox() sdf.Box3 {
	return sdf.Box3{}
}

// ToMesh samples the solid's containment over bounds (or its own bounds)
// and extracts the surface with marching cubes.
func (k *Kernel) ToMesh(s kernel.Solid, bounds kernel.Bounds, cells int) (*kernel.Mesh, error) {
	b, err := kernel.MeshBounds(s, bounds)
	if err != nil {
		return nil, err
	}
	if b.IsEmpty() {
		return &kernel.Mesh{}, nil
	}
	// Pad so surfaces on the bounds are closed.
	pad := 0.0
	for _, sz := range b.Size() {
		pad = math.Max(pad, sz)
	}
	return ksdfx.Triangulate(ksdfx.Within(indicator{shape: unwrap(s).shape}, b.Expand(pad*0.01)), cells), nil
}
