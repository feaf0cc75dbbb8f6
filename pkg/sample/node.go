package sample

// NodeKind enumerates the types of nodes in the sample graph.
type NodeKind int

const (
	NodePrimitive NodeKind = iota // sphere, cylinder, cone, half-space, box, polyhedron
	NodeBoolean                   // union, intersection, difference, complement
	NodeTransform                 // translate, rotate, scale
	NodeRegion                    // material region bounded by a shape
)

func (k NodeKind) String() string {
	switch k {
	case NodePrimitive:
		return "primitive"
	case NodeBoolean:
		return "boolean"
	case NodeTransform:
		return "transform"
	case NodeRegion:
		return "region"
	default:
		return "unknown"
	}
}

// IsShape reports whether nodes of this kind describe geometry.
func (k NodeKind) IsShape() bool {
	return k == NodePrimitive || k == NodeBoolean || k == NodeTransform
}

// Node is the fundamental element of the sample graph.
type Node struct {
	ID       NodeID   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []NodeID `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
