package exact

import (
	"math"
	"testing"

	"github.com/chazu/semtrace/pkg/csg"
	"github.com/chazu/semtrace/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// solids returns a helper that unwraps a kernel constructor's result,
// failing t on error.
func solids(t *testing.T) func(kernel.Solid, error) kernel.Solid {
	return func(s kernel.Solid, err error) kernel.Solid {
		t.Helper()
		require.NoError(t, err)
		return s
	}
}

func shapeOf(t *testing.T, s kernel.Solid) csg.Shape {
	t.Helper()
	sh, err := ShapeOf(s)
	require.NoError(t, err)
	return sh
}

func TestPrimitivesAreExact(t *testing.T) {
	k := New()
	must := solids(t)
	sphere := must(k.Sphere(kernel.Vec3{0, 0, 0}, 1))

	c, ok := shapeOf(t, sphere).FirstCrossing(r3.Vec{X: -2}, r3.Vec{X: 2})
	require.True(t, ok)
	assert.InDelta(t, 0.25, c.U, 1e-12)
	assert.InDelta(t, -1, c.Normal.X, 1e-12)

	assert.Equal(t, kernel.Vec3{-1, -1, -1}, sphere.Bounds().Min)
	assert.Equal(t, kernel.Vec3{1, 1, 1}, sphere.Bounds().Max)
}

func TestBooleanBounds(t *testing.T) {
	k := New()
	must := solids(t)
	a := must(k.Box(kernel.Vec3{0, 0, 0}, kernel.Vec3{2, 2, 2}))
	b := must(k.Box(kernel.Vec3{1, 1, 1}, kernel.Vec3{3, 3, 3}))

	assert.Equal(t, kernel.Bounds{Min: kernel.Vec3{0, 0, 0}, Max: kernel.Vec3{3, 3, 3}}, k.Union(a, b).Bounds())
	assert.Equal(t, kernel.Bounds{Min: kernel.Vec3{1, 1, 1}, Max: kernel.Vec3{2, 2, 2}}, k.Intersection(a, b).Bounds())
	assert.Equal(t, a.Bounds(), k.Difference(a, b).Bounds())
	assert.False(t, k.Complement(a).Bounds().IsFinite())

	diff := shapeOf(t, k.Difference(a, b))
	assert.True(t, diff.Contains(r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}))
	assert.False(t, diff.Contains(r3.Vec{X: 1.5, Y: 1.5, Z: 1.5}))
}

func TestHalfSpaceBounds(t *testing.T) {
	k := New()
	must := solids(t)
	up := must(k.HalfSpace(kernel.Vec3{0, 0, 2}, kernel.Vec3{0, 0, 5}))
	b := up.Bounds()
	assert.Equal(t, 5.0, b.Max[2])
	assert.True(t, math.IsInf(b.Min[2], -1))
	assert.True(t, math.IsInf(b.Max[0], 1))

	slanted := must(k.HalfSpace(kernel.Vec3{1, 0, 1}, kernel.Vec3{}))
	assert.Equal(t, kernel.Infinite(), slanted.Bounds())

	// Six axis-aligned planes bound a box.
	cube := must(k.Polyhedron([]kernel.Plane{
		{Normal: kernel.Vec3{1, 0, 0}, Point: kernel.Vec3{1, 0, 0}},
		{Normal: kernel.Vec3{-1, 0, 0}, Point: kernel.Vec3{-1, 0, 0}},
		{Normal: kernel.Vec3{0, 1, 0}, Point: kernel.Vec3{0, 1, 0}},
		{Normal: kernel.Vec3{0, -1, 0}, Point: kernel.Vec3{0, -1, 0}},
		{Normal: kernel.Vec3{0, 0, 1}, Point: kernel.Vec3{0, 0, 1}},
		{Normal: kernel.Vec3{0, 0, -1}, Point: kernel.Vec3{0, 0, -1}},
	}))
	assert.Equal(t, kernel.Bounds{Min: kernel.Vec3{-1, -1, -1}, Max: kernel.Vec3{1, 1, 1}}, cube.Bounds())
}

func TestTransforms(t *testing.T) {
	k := New()
	must := solids(t)
	bar := must(k.Box(kernel.Vec3{-50, -5, -5}, kernel.Vec3{50, 5, 5}))

	rotated := k.Rotate(bar, kernel.Vec3{0, 0, 90})
	b := rotated.Bounds()
	assert.InDelta(t, 10, b.Max[0]-b.Min[0], 1e-9)
	assert.InDelta(t, 100, b.Max[1]-b.Min[1], 1e-9)
	assert.True(t, shapeOf(t, rotated).Contains(r3.Vec{Y: 40}))

	moved := k.Translate(bar, kernel.Vec3{0, 0, 100})
	assert.True(t, shapeOf(t, moved).Contains(r3.Vec{Z: 100}))
	assert.InDelta(t, 105, moved.Bounds().Max[2], 1e-12)

	scaled, err := k.Scale(bar, kernel.Vec3{1, 2, 1})
	require.NoError(t, err)
	assert.True(t, shapeOf(t, scaled).Contains(r3.Vec{Y: 9}))

	_, err = k.Scale(bar, kernel.Vec3{1, 0, 1})
	assert.ErrorIs(t, err, csg.ErrSingularTransform)

	// Translating an unbounded solid keeps its finite side.
	h := must(k.HalfSpace(kernel.Vec3{0, 0, 1}, kernel.Vec3{}))
	assert.Equal(t, 3.0, k.Translate(h, kernel.Vec3{0, 0, 3}).Bounds().Max[2])
	assert.Equal(t, kernel.Infinite(), k.Rotate(h, kernel.Vec3{10, 0, 0}).Bounds())
}

func TestRotateNonFinite(t *testing.T) {
	k := New()
	must := solids(t)
	s := must(k.Sphere(kernel.Vec3{}, 1))
	assert.Panics(t, func() { k.Rotate(s, kernel.Vec3{math.NaN(), 0, 0}) })
	assert.NotNil(t, k.Rotate(s, kernel.Vec3{30, 0, 0}))
}

func TestToMesh(t *testing.T) {
	k := New()
	must := solids(t)
	sphere := must(k.Sphere(kernel.Vec3{0, 0, 0}, 1))
	mesh, err := k.ToMesh(sphere, kernel.Bounds{}, 24)
	require.NoError(t, err)
	assert.False(t, mesh.IsEmpty())
	assert.Equal(t, len(mesh.Vertices), len(mesh.Normals))

	h := must(k.HalfSpace(kernel.Vec3{0, 0, 1}, kernel.Vec3{}))
	_, err = k.ToMesh(h, kernel.Bounds{}, 24)
	assert.ErrorIs(t, err, kernel.ErrUnbounded)

	mesh, err = k.ToMesh(h, kernel.Bounds{Min: kernel.Vec3{-1, -1, -1}, Max: kernel.Vec3{1, 1, 1}}, 16)
	require.NoError(t, err)
	assert.False(t, mesh.IsEmpty())
}

func TestToMeshSmallSolidInLargeWorld(t *testing.T) {
	k := New()
	must := solids(t)
	world := kernel.Bounds{Min: kernel.Vec3{-600, -600, -500}, Max: kernel.Vec3{600, 600, 200}}

	// The cells span the sphere, not the world.
	sphere := must(k.Sphere(kernel.Vec3{0, 0, -10}, 25))
	mesh, err := k.ToMesh(sphere, world, 24)
	require.NoError(t, err)
	assert.False(t, mesh.IsEmpty())
	for i := 2; i < len(mesh.Vertices); i += 3 {
		assert.InDelta(t, -10, mesh.Vertices[i], 27)
	}

	away := kernel.Bounds{Min: kernel.Vec3{100, 100, 100}, Max: kernel.Vec3{200, 200, 200}}
	mesh, err = k.ToMesh(sphere, away, 24)
	require.NoError(t, err)
	assert.True(t, mesh.IsEmpty())
}

type foreign struct{}

func (foreign) Bounds() kernel.Bounds { return kernel.Bounds{} }

func TestShapeOfForeignSolid(t *testing.T) {
	_, err := ShapeOf(foreign{})
	assert.ErrorIs(t, err, ErrForeignSolid)
}

func TestConstructionErrorsPassThrough(t *testing.T) {
	k := New()
	_, err := k.Sphere(kernel.Vec3{}, -1)
	assert.ErrorIs(t, err, csg.ErrInvalidRadius)
	_, err = k.Polyhedron(nil)
	assert.ErrorIs(t, err, csg.ErrEmptyPolyhedron)
	_, err = k.Cylinder(kernel.Vec3{}, kernel.Vec3{}, 1)
	assert.ErrorIs(t, err, csg.ErrDegenerateAxis)
}
