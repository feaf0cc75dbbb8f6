package sample

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// NodeID is a content-addressed identifier for graph nodes: the hex SHA-256
// of the node's defining content.
type NodeID string

// ZeroID is the empty NodeID.
const ZeroID NodeID = ""

// NewNodeID derives a NodeID from a path such as "region/substrate" or from
// a node's canonical content.
func NewNodeID(path string) NodeID {
	sum := sha256.Sum256([]byte(path))
	return NodeID(hex.EncodeToString(sum[:]))
}

// ContentID derives the NodeID of an anonymous node from its kind, payload
// and children, so identical sub-shapes share one node.
func ContentID(kind NodeKind, data NodeData, children ...NodeID) NodeID {
	payload, _ := json.Marshal(data)
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%T|%s", kind, data, payload)
	for _, c := range children {
		b.WriteString("|")
		b.WriteString(string(c))
	}
	return NewNodeID(b.String())
}

// IsZero reports whether id is unset.
func (id NodeID) IsZero() bool { return id == ZeroID }

// Short returns an abbreviated form for messages.
func (id NodeID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

func (id NodeID) String() string { return string(id) }
