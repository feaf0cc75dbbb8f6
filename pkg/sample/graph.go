package sample

import "fmt"

// DefaultChamber is the material of the space around every region.
const DefaultChamber = "vacuum"

// GlobalDefaults contains graph-wide default settings.
type GlobalDefaults struct {
	Chamber string `json:"chamber"` // material of the unbounded outer region
	Units   string `json:"units"`   // "nm" (only option for now)
}

// Graph is the top-level immutable data structure produced by Lisp evaluation.
// It is never mutated once evaluation returns; each evaluation produces a
// new graph.
type Graph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"` // regions, in declaration order
	NameIndex map[string]NodeID `json:"name_index"`
	Defaults  GlobalDefaults    `json:"defaults"`
	Version   uint64            `json:"version"`
}

// New creates an empty Graph with default settings.
func New() *Graph {
	return &Graph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
		Defaults: GlobalDefaults{
			Chamber: DefaultChamber,
			Units:   "nm",
		},
	}
}

// AddNode adds a node to the graph. Re-adding an ID replaces the node,
// which is harmless for content-addressed anonymous shapes.
func (g *Graph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the graph.
func (g *Graph) AddRoot(id NodeID) {
	g.Roots = append(g.Roots, id)
}

// Lookup returns the node with the given user-assigned name, or nil.
func (g *Graph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (g *Graph) MustLookup(name string) *Node {
	n := g.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("sample: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (g *Graph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Regions returns the region roots in declaration order.
func (g *Graph) Regions() []*Node {
	var regions []*Node
	for _, id := range g.Roots {
		if n := g.Nodes[id]; n != nil && n.Kind == NodeRegion {
			regions = append(regions, n)
		}
	}
	return regions
}

// Children returns the child nodes of the given node.
func (g *Graph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// Bounded reports whether the shape rooted at id is certainly bounded.
// Half-spaces, complements and polyhedra with fewer than four planes are
// treated as unbounded.
func (g *Graph) Bounded(id NodeID) bool {
	n := g.Nodes[id]
	if n == nil {
		return false
	}
	child := func(i int) bool {
		return i < len(n.Children) && g.Bounded(n.Children[i])
	}
	switch d := n.Data.(type) {
	case HalfSpaceData:
		return false
	case PolyhedronData:
		return len(d.Planes) >= 4
	case SphereData, CylinderData, ConeData, BoxData:
		return true
	case BooleanData:
		switch d.Op {
		case OpUnion:
			return child(0) && child(1)
		case OpIntersection:
			return child(0) || child(1)
		case OpDifference:
			return child(0)
		default:
			return false
		}
	case TransformData:
		return child(0)
	case RegionData:
		return child(0)
	}
	return false
}
