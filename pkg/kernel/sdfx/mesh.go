package sdfx

import (
	"github.com/chazu/semtrace/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// bounded overrides the sampling volume of an SDF.
type bounded struct {
	sdf.SDF3
	box sdf.Box3
}

func (b bounded) BoundingBox() sdf.Box3 { return b.box }

// Within returns s sampled only inside b.
func Within(s sdf.SDF3, b kernel.Bounds) sdf.SDF3 {
	return bounded{SDF3: s, box: sdf.Box3{
		Min: v3.Vec{X: b.Min[0], Y: b.Min[1], Z: b.Min[2]},
		Max: v3.Vec{X: b.Max[0], Y: b.Max[1], Z: b.Max[2]},
	}}
}

// Triangulate meshes s over its bounding box with uniform marching cubes.
// cells <= 0 selects DefaultMeshCells.
func Triangulate(s sdf.SDF3, cells int) *kernel.Mesh {
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}
}
