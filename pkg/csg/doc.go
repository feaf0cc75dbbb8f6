// Package csg is the constructive solid geometry kernel used by electron
// transport. Shapes answer two questions about a candidate step from p0 to
// p1: which side of the shape p0 is on, and where (and with which outward
// normal) the step first crosses the shape's boundary.
//
// Primitives (HalfSpace, Sphere, Cylinder, Cone, ConvexPolyhedron) solve
// their crossings in closed form. Union, Intersection, Difference and
// Complement derive theirs from their operands by walking the operands'
// crossings in order, and Affine maps any shape through a linear transform
// plus offset.
//
// Shapes are immutable once built and may be shared between composites and
// queried concurrently. Transforms produce new shapes rather than mutating
// existing ones.
package csg
