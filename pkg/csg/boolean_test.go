package csg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func mustSphere(t *testing.T, c r3.Vec, r float64) *Sphere {
	t.Helper()
	s, err := NewSphere(c, r)
	require.NoError(t, err)
	return s
}

func mustBox(t *testing.T, min, max r3.Vec) *ConvexPolyhedron {
	t.Helper()
	b, err := NewBox(min, max)
	require.NoError(t, err)
	return b
}

func mustHalfSpace(t *testing.T, n, p r3.Vec) *HalfSpace {
	t.Helper()
	h, err := NewHalfSpace(n, p)
	require.NoError(t, err)
	return h
}

// ---------------------------------------------------------------------------
// Intersection
// ---------------------------------------------------------------------------

func TestSlab(t *testing.T) {
	top := mustHalfSpace(t, vec(0, 0, 1), vec(0, 0, 1))
	bottom := mustHalfSpace(t, vec(0, 0, -1), vec(0, 0, -1))
	slab, err := NewIntersection(top, bottom)
	require.NoError(t, err)

	c, ok := slab.FirstCrossing(vec(0, 0, -5), vec(0, 0, 5))
	require.True(t, ok)
	assert.InDelta(t, 0.4, c.U, 1e-12)
	assertVec(t, vec(0, 0, -1), c.Normal)
	assertVec(t, vec(0, 0, -1), c.Point(vec(0, 0, -5), vec(0, 0, 5)))

	assertCrossing(t, slab, vec(0, 0, 0), vec(0, 0, 5), 0.2, vec(0, 0, 1))
	assertNoCrossing(t, slab, vec(0, 0, 2), vec(0, 0, 5))
	assert.True(t, slab.Contains(vec(7, -3, 0.5)))
	assert.False(t, slab.Contains(vec(0, 0, 1.5)))
}

func TestIntersectionOfSpheres(t *testing.T) {
	// Lens between two overlapping spheres, spanning x in [0.5, 1].
	lens, err := IntersectionOf(mustSphere(t, vec(0, 0, 0), 1), mustSphere(t, vec(1.5, 0, 0), 1))
	require.NoError(t, err)

	assertCrossing(t, lens, vec(-2, 0, 0), vec(2, 0, 0), 0.625, vec(-1, 0, 0))
	assertCrossing(t, lens, vec(0.75, 0, 0), vec(2.75, 0, 0), 0.125, vec(1, 0, 0))
	assertNoCrossing(t, lens, vec(-2, 0, 0), vec(0, 0, 0))
}

// ---------------------------------------------------------------------------
// Union
// ---------------------------------------------------------------------------

func TestUnionOfSpheres(t *testing.T) {
	u, err := NewUnion(mustSphere(t, vec(0, 0, 0), 1), mustSphere(t, vec(1.5, 0, 0), 1))
	require.NoError(t, err)

	assertCrossing(t, u, vec(-2, 0, 0), vec(4, 0, 0), 1.0/6, vec(-1, 0, 0))
	// The overlap hides A's exit and B's entry.
	assertCrossing(t, u, vec(0, 0, 0), vec(4, 0, 0), 0.625, vec(1, 0, 0))
	assert.True(t, u.Contains(vec(2, 0, 0)))
	assert.False(t, u.Contains(vec(0.75, 0.9, 0)))
}

func TestUnionSharedFace(t *testing.T) {
	left := mustBox(t, vec(-1, -1, -1), vec(0, 1, 1))
	right := mustBox(t, vec(0, -1, -1), vec(1, 1, 1))
	u, err := NewUnion(left, right)
	require.NoError(t, err)

	// The shared face at x=0 is interior to the union.
	assertCrossing(t, u, vec(-0.5, 0, 0), vec(2, 0, 0), 0.6, vec(1, 0, 0))
	assertCrossing(t, u, vec(0.5, 0, 0), vec(-2, 0, 0), 0.6, vec(-1, 0, 0))

	// Sliding along the shared face: exactly one box claims the segment.
	p0, p1 := vec(0, 0, 0), vec(0, 0.5, 0)
	assert.NotEqual(t, left.ContainsAlong(p0, p1), right.ContainsAlong(p0, p1))
	assert.True(t, u.ContainsAlong(p0, p1))
}

func TestUnionSimultaneousExit(t *testing.T) {
	// Overlapping boxes with a common top face: leaving through it exits
	// both at the same u.
	a := mustBox(t, vec(-1, -1, -1), vec(0.5, 1, 1))
	b := mustBox(t, vec(-0.5, -1, -1), vec(1, 1, 1))
	u, err := NewUnion(a, b)
	require.NoError(t, err)
	assertCrossing(t, u, vec(0, 0, 0), vec(0, 0, 2), 0.5, vec(0, 0, 1))
}

func TestIntersectionEdgeExit(t *testing.T) {
	// The quarter-space x<=1, z<=1 is left through its edge: both faces are
	// crossed at the same u and the normal bisects them.
	x := mustHalfSpace(t, vec(1, 0, 0), vec(1, 0, 0))
	z := mustHalfSpace(t, vec(0, 0, 1), vec(0, 0, 1))
	q, err := NewIntersection(x, z)
	require.NoError(t, err)

	p0, p1 := vec(0, 0, 0), vec(2, 0, 2)
	assert.True(t, q.ContainsAlong(p0, p1))
	h := 1 / math.Sqrt2
	assertCrossing(t, q, p0, p1, 0.5, vec(h, 0, h))
	c, _ := q.FirstCrossing(p0, p1)
	assert.False(t, c.Entering(p0, p1))
}

func TestUnionEdgeEntry(t *testing.T) {
	// Entering x>=1 and z>=1 at once from the region outside both.
	x := mustHalfSpace(t, vec(-1, 0, 0), vec(1, 0, 0))
	z := mustHalfSpace(t, vec(0, 0, -1), vec(0, 0, 1))
	u, err := NewUnion(x, z)
	require.NoError(t, err)

	h := 1 / math.Sqrt2
	assertCrossing(t, u, vec(0, 0, 0), vec(2, 0, 2), 0.5, vec(-h, 0, -h))
}

func TestEventNormal(t *testing.T) {
	h := 1 / math.Sqrt2
	assertVec(t, vec(h, 0, h), eventNormal(vec(1, 0, 0), vec(0, 0, 1)))
	assertVec(t, vec(0, 1, 0), eventNormal(vec(0, 1, 0), vec(0, 1, 0)))
	// Opposed normals have no bisector; the first one is kept.
	assertVec(t, vec(1, 0, 0), eventNormal(vec(1, 0, 0), vec(-1, 0, 0)))
}

func TestUnionOfSingle(t *testing.T) {
	s := mustSphere(t, vec(0, 0, 0), 1)
	got, err := UnionOf(s)
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = UnionOf()
	assert.ErrorIs(t, err, ErrNilShape)
	_, err = IntersectionOf(s, nil)
	assert.ErrorIs(t, err, ErrNilShape)
}

// ---------------------------------------------------------------------------
// Difference and Complement
// ---------------------------------------------------------------------------

func TestSphericalShell(t *testing.T) {
	shell, err := NewDifference(mustSphere(t, vec(0, 0, 0), 2), mustSphere(t, vec(0, 0, 0), 1))
	require.NoError(t, err)

	assert.True(t, shell.Contains(vec(1.5, 0, 0)))
	assert.False(t, shell.Contains(vec(0.5, 0, 0)))
	assert.False(t, shell.Contains(vec(2.5, 0, 0)))

	p0, p1 := vec(-3, 0, 0), vec(3, 0, 0)
	assertCrossing(t, shell, p0, p1, 1.0/6, vec(-1, 0, 0))

	// From inside the wall, the next boundary is the cavity, whose normal
	// points into the cavity (out of the shell).
	p0 = vec(-1.5, 0, 0)
	assert.True(t, shell.ContainsAlong(p0, p1))
	c, ok := shell.FirstCrossing(p0, p1)
	require.True(t, ok)
	assert.InDelta(t, 0.5/4.5, c.U, 1e-9)
	assertVec(t, vec(1, 0, 0), c.Normal)
	assert.False(t, c.Entering(p0, p1))

	// From inside the cavity the shell is entered at x=1.
	assertCrossing(t, shell, vec(0, 0, 0), vec(3, 0, 0), 1.0/3, vec(-1, 0, 0))
}

func TestBoxWithHole(t *testing.T) {
	box := mustBox(t, vec(-2, -2, -2), vec(2, 2, 2))
	hole, err := NewCylinder(vec(0, 0, -3), vec(0, 0, 3), 1)
	require.NoError(t, err)
	d, err := NewDifference(box, hole)
	require.NoError(t, err)

	assert.False(t, d.Contains(vec(0, 0, 0)))
	assert.True(t, d.Contains(vec(1.5, 0, 0)))
	// Down the hole: nothing to cross.
	assertNoCrossing(t, d, vec(0, 0, 5), vec(0, 0, -5))
	// Across: enter at x=-2, leave into the hole at x=-1.
	assertCrossing(t, d, vec(-3, 0, 0), vec(3, 0, 0), 1.0/6, vec(-1, 0, 0))
	assertCrossing(t, d, vec(-1.5, 0, 0), vec(3, 0, 0), 0.5/4.5, vec(1, 0, 0))
}

func TestBoxWithConicalPit(t *testing.T) {
	box := mustBox(t, vec(-2, -2, -1), vec(2, 2, 4))
	cone, err := NewCone(vec(0, 0, 0), 1, vec(0, 0, 2), 0)
	require.NoError(t, err)
	d, err := NewDifference(box, cone)
	require.NoError(t, err)

	// Down the axis: leave the difference at the apex, come back at the base.
	p0, p1 := vec(0, 0, 3), vec(0, 0, -1)
	assert.True(t, d.ContainsAlong(p0, p1))
	assertCrossing(t, d, p0, p1, 0.25, vec(0, 0, -1))
	c, _ := d.FirstCrossing(p0, p1)
	assert.False(t, c.Entering(p0, p1))

	assert.False(t, d.ContainsAlong(vec(0, 0, 1), p1))
	assertCrossing(t, d, vec(0, 0, 1), vec(0, 0, -2), 1.0/3, vec(0, 0, 1))

	// Same along a slanted line through the apex.
	assertCrossing(t, d, vec(0.25, 0, 3), vec(-0.75, 0, -1), 0.25, vec(0, 0, -1))
}

func TestComplement(t *testing.T) {
	s := mustSphere(t, vec(0, 0, 0), 1)
	c, err := NewComplement(s)
	require.NoError(t, err)

	assert.False(t, c.Contains(vec(0, 0, 0)))
	assert.True(t, c.Contains(vec(2, 0, 0)))
	assert.False(t, c.Contains(vec(1, 0, 0)), "the operand's boundary is outside")
	assert.True(t, c.ContainsAlong(vec(1, 0, 0), vec(2, 0, 0)))
	// Entering the sphere leaves the complement.
	assertCrossing(t, c, vec(-2, 0, 0), vec(2, 0, 0), 0.25, vec(1, 0, 0))
	assert.True(t, c.ContainsAlong(vec(-1, 0, 0), vec(-2, 0, 0)))
	assert.False(t, c.ContainsAlong(vec(-1, 0, 0), vec(0, 0, 0)))

	_, err = NewComplement(nil)
	assert.ErrorIs(t, err, ErrNilShape)
}

func TestDeMorgan(t *testing.T) {
	a := mustSphere(t, vec(0, 0, 0), 1)
	b := mustBox(t, vec(0, -0.5, -0.5), vec(2, 0.5, 0.5))
	direct, err := NewIntersection(a, b)
	require.NoError(t, err)

	ca, _ := NewComplement(a)
	cb, _ := NewComplement(b)
	un, _ := NewUnion(ca, cb)
	viaUnion, err := NewComplement(un)
	require.NoError(t, err)

	for _, p := range gridPoints(-2.05, 2.05, 9) {
		assert.Equal(t, a.Contains(p) && b.Contains(p), direct.Contains(p), "%+v", p)
		assert.Equal(t, direct.Contains(p), viaUnion.Contains(p), "%+v", p)
	}

	for _, seg := range randomSegments(200, 3) {
		c1, ok1 := direct.FirstCrossing(seg[0], seg[1])
		c2, ok2 := viaUnion.FirstCrossing(seg[0], seg[1])
		require.Equal(t, ok1, ok2, "%+v", seg)
		if ok1 {
			assert.InDelta(t, c1.U, c2.U, 1e-12)
			assertVec(t, c1.Normal, c2.Normal)
		}
	}
}
