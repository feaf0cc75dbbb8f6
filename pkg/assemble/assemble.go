// Package assemble turns a sample graph into kernel solids: one placed solid
// per region, with shared sub-shapes built once.
package assemble

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/chazu/semtrace/pkg/csg"
	"github.com/chazu/semtrace/pkg/kernel"
	"github.com/chazu/semtrace/pkg/sample"
)

// ErrInvalidGraph is returned when the graph fails structural validation.
var ErrInvalidGraph = errors.New("assemble: invalid sample graph")

// Placed is a region ready for the tracer or the tessellator.
type Placed struct {
	Name     string
	Material string
	Parent   string // empty for regions directly inside the chamber
	Solid    kernel.Solid
}

// Assembly is the kernel-level view of a sample graph.
type Assembly struct {
	Chamber string   // material of the space outside every region
	Regions []Placed // in declaration order
}

// Lookup returns the region with the given name.
func (a *Assembly) Lookup(name string) (Placed, bool) {
	for _, p := range a.Regions {
		if p.Name == name {
			return p, true
		}
	}
	return Placed{}, false
}

// Assembler builds assemblies with one kernel.
type Assembler struct {
	k      kernel.Kernel
	logger *slog.Logger
}

// New returns an Assembler for k. A nil logger means slog.Default().
func New(k kernel.Kernel, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{k: k, logger: logger}
}

// Assemble validates g structurally and builds every region's solid. The
// graph is never mutated.
func (as *Assembler) Assemble(g *sample.Graph) (*Assembly, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil graph", ErrInvalidGraph)
	}
	var findings []error
	for _, ve := range sample.Validate(g) {
		if ve.Severity == sample.SeverityError {
			findings = append(findings, ve)
		}
	}
	if len(findings) > 0 {
		return nil, errors.Join(append([]error{ErrInvalidGraph}, findings...)...)
	}

	b := &build{k: as.k, g: g, memo: make(map[sample.NodeID]kernel.Solid)}
	a := &Assembly{Chamber: g.Defaults.Chamber}
	for _, n := range g.Regions() {
		rd := n.Data.(sample.RegionData)
		s, err := b.solid(n.Children[0])
		if err != nil {
			return nil, fmt.Errorf("assemble: region %q: %w", n.Name, err)
		}
		a.Regions = append(a.Regions, Placed{
			Name:     n.Name,
			Material: rd.Material,
			Parent:   rd.Parent,
			Solid:    s,
		})
	}

	as.logger.Debug("assembled sample",
		"kernel", as.k.Name(),
		"regions", len(a.Regions),
		"solids", len(b.memo),
		"reused", b.hits)
	return a, nil
}

// build holds the state of one Assemble call.
type build struct {
	k    kernel.Kernel
	g    *sample.Graph
	memo map[sample.NodeID]kernel.Solid
	hits int
}

func vec(v sample.Vec3) kernel.Vec3 { return kernel.Vec3(v.Array()) }

// solid returns the kernel solid for a shape node, building it on first use.
func (b *build) solid(id sample.NodeID) (kernel.Solid, error) {
	if s, ok := b.memo[id]; ok {
		b.hits++
		return s, nil
	}
	n := b.g.Get(id)
	if n == nil {
		return nil, fmt.Errorf("node %s does not exist", id.Short())
	}

	s, err := b.construct(n)
	if err != nil {
		if n.Name != "" {
			return nil, fmt.Errorf("shape %q: %w", n.Name, err)
		}
		return nil, fmt.Errorf("%s node %s: %w", n.Kind, id.Short(), err)
	}
	b.memo[id] = s
	return s, nil
}

func (b *build) construct(n *sample.Node) (kernel.Solid, error) {
	switch d := n.Data.(type) {
	case sample.SphereData:
		return b.k.Sphere(vec(d.Center), d.Radius)
	case sample.CylinderData:
		return b.k.Cylinder(vec(d.End0), vec(d.End1), d.Radius)
	case sample.ConeData:
		return b.k.Cone(vec(d.End0), d.R0, vec(d.End1), d.R1)
	case sample.HalfSpaceData:
		return b.k.HalfSpace(vec(d.Normal), vec(d.Point))
	case sample.BoxData:
		return b.k.Box(vec(d.Min), vec(d.Max))
	case sample.PolyhedronData:
		planes := make([]kernel.Plane, len(d.Planes))
		for i, p := range d.Planes {
			planes[i] = kernel.Plane{Normal: vec(p.Normal), Point: vec(p.Point)}
		}
		return b.k.Polyhedron(planes)
	case sample.BooleanData:
		return b.boolean(n, d.Op)
	case sample.TransformData:
		return b.transform(n, d)
	}
	return nil, fmt.Errorf("unsupported data type %T", n.Data)
}

func (b *build) boolean(n *sample.Node, op sample.BooleanOp) (kernel.Solid, error) {
	operands := make([]kernel.Solid, len(n.Children))
	for i, cid := range n.Children {
		s, err := b.solid(cid)
		if err != nil {
			return nil, err
		}
		operands[i] = s
	}
	switch op {
	case sample.OpUnion:
		return b.k.Union(operands[0], operands[1]), nil
	case sample.OpIntersection:
		return b.k.Intersection(operands[0], operands[1]), nil
	case sample.OpDifference:
		return b.k.Difference(operands[0], operands[1]), nil
	case sample.OpComplement:
		return b.k.Complement(operands[0]), nil
	}
	return nil, fmt.Errorf("unknown boolean operation %s", op)
}

// transform applies scale, then rotation, then translation.
func (b *build) transform(n *sample.Node, td sample.TransformData) (kernel.Solid, error) {
	s, err := b.solid(n.Children[0])
	if err != nil {
		return nil, err
	}
	if td.Scale != nil {
		if s, err = b.k.Scale(s, vec(*td.Scale)); err != nil {
			return nil, err
		}
	}
	if td.Rotation != nil && !td.Rotation.IsZero() {
		r := vec(*td.Rotation)
		if err := checkFinite("rotation", r); err != nil {
			return nil, err
		}
		s = b.k.Rotate(s, r)
	}
	if td.Translation != nil && !td.Translation.IsZero() {
		v := vec(*td.Translation)
		if err := checkFinite("translation", v); err != nil {
			return nil, err
		}
		s = b.k.Translate(s, v)
	}
	return s, nil
}

// checkFinite guards Rotate and Translate, which have no error result.
func checkFinite(what string, v kernel.Vec3) error {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%s %v: %w", what, v, csg.ErrNonFinite)
		}
	}
	return nil
}
