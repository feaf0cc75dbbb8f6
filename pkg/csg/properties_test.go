package csg

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func gridPoints(lo, hi float64, n int) []r3.Vec {
	step := (hi - lo) / float64(n-1)
	var pts []r3.Vec
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				pts = append(pts, vec(lo+float64(i)*step, lo+float64(j)*step, lo+float64(k)*step))
			}
		}
	}
	return pts
}

func randomSegments(n int, scale float64) [][2]r3.Vec {
	rng := rand.New(rand.NewSource(7))
	pt := func() r3.Vec {
		return vec(scale*(2*rng.Float64()-1), scale*(2*rng.Float64()-1), scale*(2*rng.Float64()-1))
	}
	segs := make([][2]r3.Vec, n)
	for i := range segs {
		segs[i] = [2]r3.Vec{pt(), pt()}
	}
	return segs
}

// allCrossings walks every boundary crossing of s along p0->p1.
func allCrossings(s Shape, p0, p1 r3.Vec) []Crossing {
	var out []Crossing
	c, ok := s.FirstCrossing(p0, p1)
	for ok {
		out = append(out, c)
		c, ok = resume(s, p0, p1, c.U, FlatTangentInside)
	}
	return out
}

type namedShape struct {
	name  string
	shape Shape
}

func testShapes(t *testing.T) []namedShape {
	t.Helper()
	sphere := mustSphere(t, vec(0, 0, 0), 1)
	box := mustBox(t, vec(-1, -1, -1), vec(1, 1, 1))
	cyl, err := NewCylinder(vec(0, 0, -1), vec(0, 0, 1), 1)
	require.NoError(t, err)
	cone, err := NewCone(vec(0, 0, -1), 1, vec(0, 0, 1), 0.2)
	require.NoError(t, err)
	tilted, err := NewAffine(box, RotationEuler(vec(30, 45, 10)))
	require.NoError(t, err)
	stretched, err := Scale(cyl, vec(1.5, 0.5, 1))
	require.NoError(t, err)

	hole, err := NewCylinder(vec(-2, 0, 0), vec(2, 0, 0), 0.4)
	require.NoError(t, err)
	drilled, err := NewDifference(box, hole)
	require.NoError(t, err)
	dome, err := Translate(sphere, vec(0, 0, 1))
	require.NoError(t, err)
	scene, err := UnionOf(drilled, dome, cone)
	require.NoError(t, err)
	comp, err := NewComplement(scene)
	require.NoError(t, err)

	return []namedShape{
		{"sphere", sphere},
		{"box", box},
		{"cylinder", cyl},
		{"cone", cone},
		{"tilted box", tilted},
		{"elliptic cylinder", stretched},
		{"drilled box", drilled},
		{"scene", scene},
		{"complement of scene", comp},
	}
}

func TestNormalsAreUnitLength(t *testing.T) {
	segs := randomSegments(500, 2.5)
	for _, ns := range testShapes(t) {
		t.Run(ns.name, func(t *testing.T) {
			for _, seg := range segs {
				for _, c := range allCrossings(ns.shape, seg[0], seg[1]) {
					assert.InDelta(t, 1, r3.Norm(c.Normal), 1e-9)
				}
			}
		})
	}
}

func TestCrossingDirectionMatchesStartSide(t *testing.T) {
	segs := randomSegments(500, 2.5)
	for _, ns := range testShapes(t) {
		t.Run(ns.name, func(t *testing.T) {
			for _, seg := range segs {
				p0, p1 := seg[0], seg[1]
				assert.Equal(t, ns.shape.Contains(p0), ns.shape.ContainsAlong(p0, p1))
				c, ok := ns.shape.FirstCrossing(p0, p1)
				if !ok {
					continue
				}
				assert.Equal(t, !ns.shape.ContainsAlong(p0, p1), c.Entering(p0, p1), "%+v u=%g", seg, c.U)
			}
		})
	}
}

func TestConvexityBound(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	shapes := testShapes(t)[:6]
	for _, ns := range shapes {
		t.Run(ns.name, func(t *testing.T) {
			for i := 0; i < 100; i++ {
				dir, _ := unit(vec(rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()))
				p0 := r3.Scale(-3, dir)
				p1 := r3.Scale(3, dir)

				cs := allCrossings(ns.shape, p0, p1)
				require.Len(t, cs, 2, "line through the interior along %+v", dir)
				u1, u2 := cs[0].U, cs[1].U
				assert.True(t, cs[0].Entering(p0, p1))
				assert.False(t, cs[1].Entering(p0, p1))

				for u := 0.005; u < 1; u += 0.01 {
					if math.Abs(u-u1) < 1e-6 || math.Abs(u-u2) < 1e-6 {
						continue
					}
					p := at(p0, r3.Sub(p1, p0), u)
					assert.Equal(t, u > u1 && u < u2, ns.shape.Contains(p), "u=%g in [%g, %g]", u, u1, u2)
				}
			}
		})
	}
}

func TestComplementAndDifferenceIdentities(t *testing.T) {
	a := mustSphere(t, vec(0, 0, 0), 1.3)
	b, err := NewCone(vec(0, 0, -2), 0.5, vec(0, 0, 2), 1)
	require.NoError(t, err)
	ca, err := NewComplement(a)
	require.NoError(t, err)
	diff, err := NewDifference(a, b)
	require.NoError(t, err)

	for _, p := range gridPoints(-2.1, 2.1, 11) {
		assert.Equal(t, !a.Contains(p), ca.Contains(p), "%+v", p)
		assert.Equal(t, a.Contains(p) && !b.Contains(p), diff.Contains(p), "%+v", p)
	}
}
