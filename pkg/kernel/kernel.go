// Package kernel defines the abstract geometry kernel interface.
// Backends (exact, sdfx) build solids from the sample graph's primitives
// and boolean operations behind this interface, so the assembler and the
// tessellator never depend on a particular geometry representation.
package kernel

import "errors"

// Vec3 is a point or direction in sample coordinates.
type Vec3 [3]float64

// Plane is an oriented plane through Point with outward Normal.
type Plane struct {
	Normal Vec3
	Point  Vec3
}

// Solid is an opaque handle to a kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// Bounds returns an axis-aligned box enclosing the solid. Unbounded
	// solids report infinite extents.
	Bounds() Bounds
}

// ErrUnbounded is returned when meshing an unbounded solid without explicit
// bounds.
var ErrUnbounded = errors.New("kernel: solid is unbounded")

// Kernel is the abstract geometry kernel interface.
// Primitive constructors validate their parameters; boolean operations and
// rigid transforms cannot fail once their operands exist.
type Kernel interface {
	// Name identifies the backend in logs and configuration.
	Name() string

	// Primitives
	Sphere(center Vec3, radius float64) (Solid, error)
	Cylinder(end0, end1 Vec3, radius float64) (Solid, error)
	Cone(end0 Vec3, r0 float64, end1 Vec3, r1 float64) (Solid, error)
	HalfSpace(normal, point Vec3) (Solid, error)
	Box(min, max Vec3) (Solid, error)
	Polyhedron(planes []Plane) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Intersection(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Complement(a Solid) Solid

	// Transforms
	Translate(s Solid, v Vec3) Solid
	Rotate(s Solid, euler Vec3) Solid // Euler angles in degrees, applied X then Y then Z
	Scale(s Solid, v Vec3) (Solid, error)

	// Mesh output. A zero bounds meshes the solid's own bounds.
	ToMesh(s Solid, bounds Bounds, cells int) (*Mesh, error)
}
