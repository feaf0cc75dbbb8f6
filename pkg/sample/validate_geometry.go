package sample

import (
	"fmt"
	"math"
)

// ---------------------------------------------------------------------------
// Tier 2: geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// validateGeometry runs all Tier 2 geometric checks.
// Returns errors (blocking) and warnings (advisory) separately.
func validateGeometry(g *Graph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	errs = append(errs, validatePrimitives(g)...)
	errs = append(errs, validateTransforms(g)...)

	warnings = append(warnings, validateRegionExtent(g)...)
	warnings = append(warnings, validateMaterials(g)...)

	return errs, warnings
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func finiteVec(vs ...Vec3) bool {
	for _, v := range vs {
		if !finite(v.X, v.Y, v.Z) {
			return false
		}
	}
	return true
}

func geomError(id NodeID, format string, args ...any) ValidationError {
	return structural(id, SeverityError, format, args...)
}

// validatePrimitives checks radii, axes, normals and box extents.
func validatePrimitives(g *Graph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		switch d := node.Data.(type) {
		case SphereData:
			if !finiteVec(d.Center) || !finite(d.Radius) {
				errs = append(errs, geomError(node.ID, "sphere has non-finite parameters"))
			} else if d.Radius <= 0 {
				errs = append(errs, geomError(node.ID, "sphere radius is %.4g, must be positive", d.Radius))
			}

		case CylinderData:
			if !finiteVec(d.End0, d.End1) || !finite(d.Radius) {
				errs = append(errs, geomError(node.ID, "cylinder has non-finite parameters"))
				continue
			}
			if d.Radius <= 0 {
				errs = append(errs, geomError(node.ID, "cylinder radius is %.4g, must be positive", d.Radius))
			}
			if d.End0 == d.End1 {
				errs = append(errs, geomError(node.ID, "cylinder axis has zero length"))
			}

		case ConeData:
			if !finiteVec(d.End0, d.End1) || !finite(d.R0, d.R1) {
				errs = append(errs, geomError(node.ID, "cone has non-finite parameters"))
				continue
			}
			if d.R0 < 0 || d.R1 < 0 || (d.R0 == 0 && d.R1 == 0) {
				errs = append(errs, geomError(node.ID, "cone radii %.4g and %.4g must be non-negative and not both zero", d.R0, d.R1))
			}
			if d.End0 == d.End1 {
				errs = append(errs, geomError(node.ID, "cone axis has zero length"))
			}

		case HalfSpaceData:
			if !finiteVec(d.Normal, d.Point) {
				errs = append(errs, geomError(node.ID, "plane has non-finite parameters"))
			} else if d.Normal.IsZero() {
				errs = append(errs, geomError(node.ID, "plane normal is zero"))
			}

		case BoxData:
			if !finiteVec(d.Min, d.Max) {
				errs = append(errs, geomError(node.ID, "box has non-finite corners"))
			} else if d.Min.X >= d.Max.X || d.Min.Y >= d.Max.Y || d.Min.Z >= d.Max.Z {
				errs = append(errs, geomError(node.ID, "box min %s must be below max %s on every axis", d.Min, d.Max))
			}

		case PolyhedronData:
			if len(d.Planes) == 0 {
				errs = append(errs, geomError(node.ID, "polyhedron has no planes"))
			}
			for i, p := range d.Planes {
				if !finiteVec(p.Normal, p.Point) {
					errs = append(errs, geomError(node.ID, "polyhedron plane %d has non-finite parameters", i))
				} else if p.Normal.IsZero() {
					errs = append(errs, geomError(node.ID, "polyhedron plane %d has a zero normal", i))
				}
			}
		}
	}

	return errs
}

// validateTransforms checks that transform components are finite and that
// scale factors are non-zero.
func validateTransforms(g *Graph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		td, ok := node.Data.(TransformData)
		if !ok {
			continue
		}
		for _, v := range []*Vec3{td.Translation, td.Rotation, td.Scale} {
			if v != nil && !finiteVec(*v) {
				errs = append(errs, geomError(node.ID, "transform has non-finite component %s", *v))
			}
		}
		if s := td.Scale; s != nil && (s.X == 0 || s.Y == 0 || s.Z == 0) {
			errs = append(errs, geomError(node.ID, "scale %s has a zero factor", *s))
		}
	}

	return errs
}

// validateRegionExtent warns about regions whose shape may be unbounded.
// Such regions are legal but cannot be meshed without a world box.
func validateRegionExtent(g *Graph) []ValidationWarning {
	var warnings []ValidationWarning

	for _, node := range g.Regions() {
		if !g.Bounded(node.ID) {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("region %q may be unbounded", node.Name),
			})
		}
	}

	return warnings
}

// validateMaterials warns about regions without a material, and regions
// that repeat their parent's material.
func validateMaterials(g *Graph) []ValidationWarning {
	var warnings []ValidationWarning

	for _, node := range g.Regions() {
		rd := node.Data.(RegionData)
		if rd.Material == "" {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("region %q has no material", node.Name),
			})
			continue
		}
		parentMaterial := g.Defaults.Chamber
		if rd.Parent != "" {
			p := g.Lookup(rd.Parent)
			if p == nil {
				continue
			}
			pd, ok := p.Data.(RegionData)
			if !ok {
				continue
			}
			parentMaterial = pd.Material
		}
		if rd.Material == parentMaterial {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("region %q has the same material %q as its parent", node.Name, rd.Material),
			})
		}
	}

	return warnings
}
