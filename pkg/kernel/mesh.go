package kernel

// Mesh is a triangle mesh suitable for preview rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which sample region this came from
	Material string    `json:"material,omitempty"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// MeshBounds returns the meshing volume for a solid: its own bounds,
// clipped to the requested ones when any are given. An unbounded solid
// needs requested bounds to close it; a solid that misses them resolves to
// empty bounds.
func MeshBounds(s Solid, requested Bounds) (Bounds, error) {
	b := s.Bounds()
	if !requested.IsZero() {
		b = b.Intersect(requested)
	}
	if b.IsEmpty() {
		return b, nil
	}
	if !b.IsFinite() {
		return Bounds{}, ErrUnbounded
	}
	return b, nil
}
