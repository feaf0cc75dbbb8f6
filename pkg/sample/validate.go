package sample

import "fmt"

// ValidationSeverity says whether a finding stops a graph from being
// assembled.
type ValidationSeverity int

const (
	SeverityError ValidationSeverity = iota
	SeverityWarning
)

var severityNames = [...]string{SeverityError: "error", SeverityWarning: "warning"}

func (s ValidationSeverity) String() string {
	if s >= 0 && int(s) < len(severityNames) {
		return severityNames[s]
	}
	return fmt.Sprintf("ValidationSeverity(%d)", int(s))
}

// ValidationError is one finding. NodeID is zero for graph-wide problems.
type ValidationError struct {
	NodeID   NodeID
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// ValidationWarning is an advisory finding from ValidateAll.
type ValidationWarning struct {
	NodeID  NodeID
	Message string
}

// ValidationResult splits the findings of every tier into blocking errors
// and warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether no blocking errors were found.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

func structural(id NodeID, sev ValidationSeverity, format string, args ...any) ValidationError {
	return ValidationError{NodeID: id, Message: fmt.Sprintf(format, args...), Severity: sev}
}

// Validate runs the structural checks. Warnings are mixed in with errors;
// an empty result means the graph can be assembled. g is not modified.
func Validate(g *Graph) []ValidationError {
	checks := []func(*Graph) []ValidationError{
		validateDAG,
		validateReferences,
		validateNames,
		validateRoots,
		validateArity,
		validateRegionTree,
	}
	var out []ValidationError
	for _, check := range checks {
		out = append(out, check(g)...)
	}
	return out
}

// ValidateAll adds the geometric checks to Validate and sorts the findings
// by severity.
func ValidateAll(g *Graph) ValidationResult {
	var res ValidationResult
	for _, e := range Validate(g) {
		if e.Severity == SeverityError {
			res.Errors = append(res.Errors, e)
			continue
		}
		res.Warnings = append(res.Warnings, ValidationWarning{NodeID: e.NodeID, Message: e.Message})
	}
	errs, warnings := validateGeometry(g)
	res.Errors = append(res.Errors, errs...)
	res.Warnings = append(res.Warnings, warnings...)
	return res
}

// validateDAG reports the first child cycle it finds.
func validateDAG(g *Graph) []ValidationError {
	const (
		unseen = iota
		onPath
		done
	)
	state := make(map[NodeID]int, len(g.Nodes))

	var cycleAt NodeID
	var descend func(id NodeID) bool
	descend = func(id NodeID) bool {
		switch state[id] {
		case done:
			return false
		case onPath:
			cycleAt = id
			return true
		}
		state[id] = onPath
		if n := g.Nodes[id]; n != nil {
			for _, c := range n.Children {
				if descend(c) {
					return true
				}
			}
		}
		state[id] = done
		return false
	}

	for id := range g.Nodes {
		if state[id] == unseen && descend(id) {
			return []ValidationError{structural(cycleAt, SeverityError,
				"cycle detected: node %s is part of a cycle", cycleAt.Short())}
		}
	}
	return nil
}

func validateReferences(g *Graph) []ValidationError {
	var errs []ValidationError
	for _, n := range g.Nodes {
		for _, c := range n.Children {
			if g.Nodes[c] == nil {
				errs = append(errs, structural(n.ID, SeverityError, "child reference %s does not exist", c.Short()))
			}
		}
	}
	return errs
}

// validateNames checks the name index against the nodes: every entry
// resolves, and no name is carried by two nodes.
func validateNames(g *Graph) []ValidationError {
	var errs []ValidationError
	for name, id := range g.NameIndex {
		if g.Nodes[id] == nil {
			errs = append(errs, structural(ZeroID, SeverityError,
				"name index entry %q references non-existent node %s", name, id.Short()))
		}
	}

	carriers := make(map[string]int)
	for _, n := range g.Nodes {
		if n.Name != "" {
			carriers[n.Name]++
		}
	}
	for name, count := range carriers {
		if count > 1 {
			errs = append(errs, structural(ZeroID, SeverityError, "duplicate name %q assigned to %d nodes", name, count))
		}
	}
	return errs
}

// validateRoots requires every root to be a region and warns about nodes
// no region reaches.
func validateRoots(g *Graph) []ValidationError {
	var errs []ValidationError
	for _, id := range g.Roots {
		switch n := g.Nodes[id]; {
		case n == nil:
			errs = append(errs, structural(ZeroID, SeverityError, "root reference %s does not exist", id.Short()))
		case n.Kind != NodeRegion:
			errs = append(errs, structural(id, SeverityError, "root is %s, not region", n.Kind))
		}
	}

	seen := reachable(g)
	for id, n := range g.Nodes {
		if seen[id] {
			continue
		}
		label := n.Name
		if label == "" {
			label = id.Short()
		}
		errs = append(errs, structural(id, SeverityWarning, "node %q is not reachable from any region (orphan)", label))
	}
	return errs
}

// reachable returns the nodes below the roots, roots included.
func reachable(g *Graph) map[NodeID]bool {
	seen := make(map[NodeID]bool, len(g.Nodes))
	stack := make([]NodeID, 0, len(g.Roots))
	for _, id := range g.Roots {
		if g.Nodes[id] != nil {
			stack = append(stack, id)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		if n := g.Nodes[id]; n != nil {
			stack = append(stack, n.Children...)
		}
	}
	return seen
}

// validateArity checks child counts and child kinds for every node.
func validateArity(g *Graph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		want := 0
		switch d := node.Data.(type) {
		case BooleanData:
			want = d.Op.Arity()
		case TransformData, RegionData:
			want = 1
		}
		if len(node.Children) != want {
			errs = append(errs, structural(node.ID, SeverityError,
				"%s node has %d children, want %d", node.Kind, len(node.Children), want))
		}
		for _, cid := range node.Children {
			if c := g.Nodes[cid]; c != nil && !c.Kind.IsShape() {
				errs = append(errs, structural(node.ID, SeverityError, "child %s is %s, not a shape", cid.Short(), c.Kind))
			}
		}
	}

	return errs
}

// validateRegionTree checks that every region parent names another region
// and that parent links do not loop.
func validateRegionTree(g *Graph) []ValidationError {
	var errs []ValidationError

	parentOf := make(map[string]string)
	for _, node := range g.Nodes {
		rd, ok := node.Data.(RegionData)
		if !ok {
			continue
		}
		switch {
		case node.Name == "":
			errs = append(errs, structural(node.ID, SeverityError, "region has no name"))
		case rd.Parent == "":
		case rd.Parent == node.Name:
			errs = append(errs, structural(node.ID, SeverityError, "region %q is its own parent", node.Name))
		default:
			if parent := g.Lookup(rd.Parent); parent == nil || parent.Kind != NodeRegion {
				errs = append(errs, structural(node.ID, SeverityError,
					"region %q names unknown parent region %q", node.Name, rd.Parent))
				continue
			}
			parentOf[node.Name] = rd.Parent
		}
	}

	for name := range parentOf {
		seen := map[string]bool{name: true}
		for p, ok := parentOf[name]; ok; p, ok = parentOf[p] {
			if seen[p] {
				errs = append(errs, structural(g.NameIndex[name], SeverityError, "region %q has a cyclic parent chain", name))
				break
			}
			seen[p] = true
		}
	}

	return errs
}
