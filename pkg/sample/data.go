package sample

import "fmt"

// Vec3 is a point, direction or per-axis factor in sample coordinates.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Array returns v as a fixed-size array.
func (v Vec3) Array() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func (v Vec3) IsZero() bool { return v == Vec3{} }

func (v Vec3) String() string { return fmt.Sprintf("(%g %g %g)", v.X, v.Y, v.Z) }

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// SphereData is a solid ball.
type SphereData struct {
	Center Vec3    `json:"center"`
	Radius float64 `json:"radius"`
}

func (SphereData) nodeData() {}

// CylinderData is a capped cylinder whose axis runs End0 -> End1.
type CylinderData struct {
	End0   Vec3    `json:"end0"`
	End1   Vec3    `json:"end1"`
	Radius float64 `json:"radius"`
}

func (CylinderData) nodeData() {}

// ConeData is a capped frustum with radius R0 at End0 and R1 at End1.
type ConeData struct {
	End0 Vec3    `json:"end0"`
	R0   float64 `json:"r0"`
	End1 Vec3    `json:"end1"`
	R1   float64 `json:"r1"`
}

func (ConeData) nodeData() {}

// HalfSpaceData is everything behind a plane.
type HalfSpaceData struct {
	Normal Vec3 `json:"normal"` // outward
	Point  Vec3 `json:"point"`
}

func (HalfSpaceData) nodeData() {}

// BoxData is an axis-aligned box.
type BoxData struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

func (BoxData) nodeData() {}

// Plane is one bounding plane of a polyhedron.
type Plane struct {
	Normal Vec3 `json:"normal"` // outward
	Point  Vec3 `json:"point"`
}

// PolyhedronData is the convex intersection of the half-spaces behind its
// planes.
type PolyhedronData struct {
	Planes []Plane `json:"planes"`
}

func (PolyhedronData) nodeData() {}

// ---------------------------------------------------------------------------
// Boolean
// ---------------------------------------------------------------------------

// BooleanOp enumerates CSG combinators.
type BooleanOp int

const (
	OpUnion BooleanOp = iota
	OpIntersection
	OpDifference
	OpComplement
)

func (op BooleanOp) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpIntersection:
		return "intersection"
	case OpDifference:
		return "difference"
	case OpComplement:
		return "complement"
	default:
		return "unknown"
	}
}

// Arity returns the number of children the operation takes.
func (op BooleanOp) Arity() int {
	if op == OpComplement {
		return 1
	}
	return 2
}

// BooleanData combines its children. Difference subtracts the second child
// from the first.
type BooleanData struct {
	Op BooleanOp `json:"op"`
}

func (BooleanData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData places its single child. Components apply in the order
// scale, rotation, translation; nil components are skipped.
type TransformData struct {
	Scale       *Vec3 `json:"scale,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"` // Euler angles in degrees
	Translation *Vec3 `json:"translation,omitempty"`
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Region
// ---------------------------------------------------------------------------

// RegionData assigns a material to the volume of its single shape child.
// Parent names the enclosing region; empty means the chamber.
type RegionData struct {
	Material string `json:"material,omitempty"`
	Parent   string `json:"parent,omitempty"`
}

func (RegionData) nodeData() {}
