package region

import (
	"errors"
	"fmt"

	"github.com/chazu/semtrace/pkg/assemble"
	"github.com/chazu/semtrace/pkg/csg"
	"github.com/chazu/semtrace/pkg/kernel/exact"
	"gonum.org/v1/gonum/spatial/r3"
)

// ChamberName names the root region.
const ChamberName = "chamber"

var (
	ErrDuplicateName = errors.New("region: duplicate region name")
	ErrUnknownParent = errors.New("region: unknown parent")
	ErrCyclicParent  = errors.New("region: cyclic parent chain")
	ErrNilShape      = errors.New("region: nil shape")
)

// Region is one material volume. A nil Shape marks the chamber, which
// contains everything not claimed by a descendant.
type Region struct {
	Name     string
	Material string
	Shape    csg.Shape
	Parent   *Region
	Children []*Region
}

func (r *Region) IsChamber() bool { return r.Shape == nil }

// Depth is 0 for the chamber.
func (r *Region) Depth() int {
	d := 0
	for p := r.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

func (r *Region) String() string {
	if r == nil {
		return "<nil>"
	}
	return r.Name
}

// Tree is an immutable region hierarchy once built. Lookups and traces may
// run concurrently.
type Tree struct {
	chamber *Region
	byName  map[string]*Region
	regions []*Region
}

// New returns a tree holding only a chamber of the given material.
func New(chamber string) *Tree {
	return &Tree{
		chamber: &Region{Name: ChamberName, Material: chamber},
		byName:  make(map[string]*Region),
	}
}

// Add inserts a region under parent, or under the chamber when parent is
// empty. The parent must already be in the tree.
func (t *Tree) Add(name, material string, shape csg.Shape, parent string) (*Region, error) {
	if shape == nil {
		return nil, fmt.Errorf("region %q: %w", name, ErrNilShape)
	}
	if _, dup := t.byName[name]; dup || name == ChamberName {
		return nil, fmt.Errorf("region %q: %w", name, ErrDuplicateName)
	}
	p := t.chamber
	if parent != "" {
		var ok bool
		if p, ok = t.byName[parent]; !ok {
			return nil, fmt.Errorf("region %q: parent %q: %w", name, parent, ErrUnknownParent)
		}
	}
	r := &Region{Name: name, Material: material, Shape: shape, Parent: p}
	p.Children = append(p.Children, r)
	t.byName[name] = r
	t.regions = append(t.regions, r)
	return r, nil
}

// FromAssembly builds a tree from solids made by the exact kernel. Regions
// may name parents declared after them; siblings keep declaration order.
func FromAssembly(a *assemble.Assembly) (*Tree, error) {
	if a == nil {
		return nil, errors.New("region: nil assembly")
	}
	t := New(a.Chamber)

	declared := make(map[string]bool, len(a.Regions))
	pending := make([]assemble.Placed, 0, len(a.Regions))
	shapes := make(map[string]csg.Shape, len(a.Regions))
	for _, p := range a.Regions {
		if declared[p.Name] {
			return nil, fmt.Errorf("region %q: %w", p.Name, ErrDuplicateName)
		}
		declared[p.Name] = true
		sh, err := exact.ShapeOf(p.Solid)
		if err != nil {
			return nil, fmt.Errorf("region %q: %w", p.Name, err)
		}
		shapes[p.Name] = sh
		pending = append(pending, p)
	}

	for len(pending) > 0 {
		var rest []assemble.Placed
		for _, p := range pending {
			if p.Parent != "" && t.byName[p.Parent] == nil {
				rest = append(rest, p)
				continue
			}
			if _, err := t.Add(p.Name, p.Material, shapes[p.Name], p.Parent); err != nil {
				return nil, err
			}
		}
		if len(rest) == len(pending) {
			return nil, stuck(rest, declared)
		}
		pending = rest
	}
	return t, nil
}

// stuck explains why none of the remaining regions could be linked.
func stuck(rest []assemble.Placed, declared map[string]bool) error {
	for _, p := range rest {
		if !declared[p.Parent] {
			return fmt.Errorf("region %q: parent %q: %w", p.Name, p.Parent, ErrUnknownParent)
		}
	}
	return fmt.Errorf("region %q: %w", rest[0].Name, ErrCyclicParent)
}

func (t *Tree) Chamber() *Region { return t.chamber }

// Lookup finds a region by name. The chamber is found under ChamberName.
func (t *Tree) Lookup(name string) (*Region, bool) {
	if name == ChamberName {
		return t.chamber, true
	}
	r, ok := t.byName[name]
	return r, ok
}

// Regions returns the non-chamber regions in insertion order.
func (t *Tree) Regions() []*Region { return t.regions }

// Locate returns the deepest region containing p0, judged as a point about
// to move towards p1. Where siblings overlap the first one added wins.
func (t *Tree) Locate(p0, p1 r3.Vec) *Region {
	r := t.chamber
descend:
	for {
		for _, c := range r.Children {
			if contains(c.Shape, p0, p1) {
				r = c
				continue descend
			}
		}
		return r
	}
}

func contains(s csg.Shape, p0, p1 r3.Vec) bool {
	if p0 == p1 {
		return s.Contains(p0)
	}
	return s.ContainsAlong(p0, p1)
}

// Boundary is the nearest surface met by a step inside one region.
type Boundary struct {
	csg.Crossing
	// Region owns the crossed shape: the current region when Exit is set,
	// otherwise the child being entered.
	Region *Region
	Exit   bool
}

// Step finds the first boundary on p0→p1 for a particle inside r: either
// r's own surface or the surface of one of its children. ok is false when
// the step stays inside r.
func (t *Tree) Step(r *Region, p0, p1 r3.Vec) (b Boundary, ok bool) {
	if r.Shape != nil {
		if c, hit := r.Shape.FirstCrossing(p0, p1); hit {
			b, ok = Boundary{Crossing: c, Region: r, Exit: true}, true
		}
	}
	for _, child := range r.Children {
		c, hit := child.Shape.FirstCrossing(p0, p1)
		if hit && (!ok || c.U < b.U) {
			b, ok = Boundary{Crossing: c, Region: child}, true
		}
	}
	return b, ok
}
