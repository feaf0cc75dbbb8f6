// Package tessellate produces preview triangle meshes for an assembled
// sample using a geometry kernel. One mesh is produced per region.
package tessellate

import (
	"fmt"

	"github.com/chazu/semtrace/pkg/assemble"
	"github.com/chazu/semtrace/pkg/kernel"
)

// Tessellate meshes every region of a with k, which must be the kernel that
// built the assembly. Each region is meshed within its own bounds, clipped
// to bounds when they are non-zero; with zero bounds an unbounded region
// fails with kernel.ErrUnbounded. The assembly is never mutated.
func Tessellate(a *assemble.Assembly, k kernel.Kernel, bounds kernel.Bounds, cells int) ([]*kernel.Mesh, error) {
	if a == nil {
		return nil, nil
	}

	meshes := make([]*kernel.Mesh, 0, len(a.Regions))
	for _, p := range a.Regions {
		mesh, err := k.ToMesh(p.Solid, bounds, cells)
		if err != nil {
			return nil, fmt.Errorf("tessellate: region %q: %w", p.Name, err)
		}
		mesh.PartName = p.Name
		mesh.Material = p.Material
		meshes = append(meshes, mesh)
	}

	return meshes, nil
}
