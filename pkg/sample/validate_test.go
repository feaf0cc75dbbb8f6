package sample

import (
	"math"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// buildSample creates a valid two-region graph: a silicon substrate slab
// with a gold particle embedded in it.
func buildSample() *Graph {
	g := New()

	slab := BoxData{Min: Vec3{-100, -100, -50}, Max: Vec3{100, 100, 0}}
	slabID := ContentID(NodePrimitive, slab)
	ball := SphereData{Center: Vec3{0, 0, -20}, Radius: 10}
	ballID := ContentID(NodePrimitive, ball)

	substrateID := NewNodeID("region/substrate")
	particleID := NewNodeID("region/particle")

	g.AddNode(&Node{ID: slabID, Kind: NodePrimitive, Data: slab})
	g.AddNode(&Node{ID: ballID, Kind: NodePrimitive, Data: ball})
	g.AddNode(&Node{
		ID: substrateID, Kind: NodeRegion, Name: "substrate",
		Children: []NodeID{slabID},
		Data:     RegionData{Material: "silicon"},
	})
	g.AddNode(&Node{
		ID: particleID, Kind: NodeRegion, Name: "particle",
		Children: []NodeID{ballID},
		Data:     RegionData{Material: "gold", Parent: "substrate"},
	})
	g.AddRoot(substrateID)
	g.AddRoot(particleID)

	return g
}

// hasError returns true if errs contains at least one error-severity finding
// whose message contains substr.
func hasError(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityError && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// hasWarning returns true if errs contains at least one warning whose
// message contains substr.
func hasWarning(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityWarning && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func hasResultWarning(ws []ValidationWarning, substr string) bool {
	for _, w := range ws {
		if strings.Contains(w.Message, substr) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Tier 1
// ---------------------------------------------------------------------------

func TestValidateValidSample(t *testing.T) {
	g := buildSample()
	if errs := Validate(g); len(errs) != 0 {
		t.Fatalf("expected no findings, got %v", errs)
	}
	res := ValidateAll(g)
	if !res.OK() || len(res.Warnings) != 0 {
		t.Fatalf("expected a clean result, got %+v", res)
	}
}

func TestValidateCycle(t *testing.T) {
	g := buildSample()
	a := NewNodeID("cycle/a")
	b := NewNodeID("cycle/b")
	g.AddNode(&Node{ID: a, Kind: NodeTransform, Children: []NodeID{b}, Data: TransformData{}})
	g.AddNode(&Node{ID: b, Kind: NodeTransform, Children: []NodeID{a}, Data: TransformData{}})

	if !hasError(Validate(g), "cycle detected") {
		t.Error("expected a cycle error")
	}
}

func TestValidateDanglingChild(t *testing.T) {
	g := buildSample()
	region := g.MustLookup("particle")
	region.Children = []NodeID{NewNodeID("missing")}

	if !hasError(Validate(g), "does not exist") {
		t.Error("expected a dangling reference error")
	}
}

func TestValidateDuplicateNames(t *testing.T) {
	g := buildSample()
	dup := NewNodeID("shape/particle")
	g.AddNode(&Node{ID: dup, Kind: NodePrimitive, Name: "particle", Data: SphereData{Radius: 1}})

	if !hasError(Validate(g), `duplicate name "particle"`) {
		t.Error("expected a duplicate name error")
	}
}

func TestValidateRoots(t *testing.T) {
	g := buildSample()
	orphan := ContentID(NodePrimitive, SphereData{Radius: 3})
	g.AddNode(&Node{ID: orphan, Kind: NodePrimitive, Data: SphereData{Radius: 3}})
	errs := Validate(g)
	if !hasWarning(errs, "orphan") {
		t.Error("expected an orphan warning")
	}

	g.AddRoot(orphan)
	if !hasError(Validate(g), "not region") {
		t.Error("expected a non-region root error")
	}

	g.AddRoot(NewNodeID("ghost"))
	if !hasError(Validate(g), "root reference") {
		t.Error("expected a missing root error")
	}
}

func TestValidateArity(t *testing.T) {
	g := buildSample()
	slab := g.Get(g.MustLookup("substrate").Children[0])
	diff := ContentID(NodeBoolean, BooleanData{Op: OpDifference}, slab.ID)
	g.AddNode(&Node{ID: diff, Kind: NodeBoolean, Children: []NodeID{slab.ID}, Data: BooleanData{Op: OpDifference}})
	g.MustLookup("substrate").Children = []NodeID{diff}

	if !hasError(Validate(g), "has 1 children, want 2") {
		t.Errorf("expected an arity error, got %v", Validate(g))
	}
}

func TestValidateRegionAsShape(t *testing.T) {
	g := buildSample()
	g.MustLookup("particle").Children = []NodeID{g.MustLookup("substrate").ID}

	if !hasError(Validate(g), "not a shape") {
		t.Error("expected an error for a region used as a shape")
	}
}

func TestValidateRegionParents(t *testing.T) {
	t.Run("unknown parent", func(t *testing.T) {
		g := buildSample()
		p := g.MustLookup("particle")
		p.Data = RegionData{Material: "gold", Parent: "nowhere"}
		if !hasError(Validate(g), "unknown parent") {
			t.Error("expected an unknown parent error")
		}
	})

	t.Run("self parent", func(t *testing.T) {
		g := buildSample()
		p := g.MustLookup("particle")
		p.Data = RegionData{Material: "gold", Parent: "particle"}
		if !hasError(Validate(g), "its own parent") {
			t.Error("expected a self parent error")
		}
	})

	t.Run("parent cycle", func(t *testing.T) {
		g := buildSample()
		s := g.MustLookup("substrate")
		s.Data = RegionData{Material: "silicon", Parent: "particle"}
		if !hasError(Validate(g), "cyclic parent chain") {
			t.Error("expected a parent cycle error")
		}
	})
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Message: "bad", Severity: SeverityError}
	if got := e.Error(); got != "[error] bad" {
		t.Errorf("Error() = %q", got)
	}
	id := NewNodeID("x")
	e = ValidationError{NodeID: id, Message: "odd", Severity: SeverityWarning}
	if got := e.Error(); got != "[warning] node "+id.Short()+": odd" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidationSeverityString(t *testing.T) {
	for s, want := range map[ValidationSeverity]string{
		SeverityError:          "error",
		SeverityWarning:        "warning",
		ValidationSeverity(7):  "ValidationSeverity(7)",
		ValidationSeverity(-1): "ValidationSeverity(-1)",
	} {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(s), got, want)
		}
	}
}

func TestValidateSharedChildIsReachable(t *testing.T) {
	g := buildSample()
	// Both regions now use the slab; the ball is left unreferenced.
	slab := g.MustLookup("substrate").Children[0]
	ball := g.MustLookup("particle").Children[0]
	g.MustLookup("particle").Children = []NodeID{slab}

	var orphans []NodeID
	for _, e := range Validate(g) {
		if e.Severity == SeverityWarning {
			orphans = append(orphans, e.NodeID)
		}
	}
	if len(orphans) != 1 || orphans[0] != ball {
		t.Errorf("orphans = %v, want only %s", orphans, ball.Short())
	}
}

// ---------------------------------------------------------------------------
// Tier 2
// ---------------------------------------------------------------------------

func TestValidateGeometryErrors(t *testing.T) {
	tests := []struct {
		name string
		data NodeData
		want string
	}{
		{"sphere radius", SphereData{Radius: 0}, "sphere radius"},
		{"sphere nan", SphereData{Radius: math.NaN()}, "non-finite"},
		{"cylinder radius", CylinderData{End1: Vec3{0, 0, 1}, Radius: -1}, "cylinder radius"},
		{"cylinder axis", CylinderData{Radius: 1}, "cylinder axis"},
		{"cone radii", ConeData{End1: Vec3{0, 0, 1}}, "not both zero"},
		{"cone negative", ConeData{End1: Vec3{0, 0, 1}, R0: -1, R1: 1}, "non-negative"},
		{"cone axis", ConeData{R0: 1}, "cone axis"},
		{"plane normal", HalfSpaceData{}, "plane normal is zero"},
		{"box inverted", BoxData{Min: Vec3{1, 0, 0}, Max: Vec3{0, 1, 1}}, "must be below max"},
		{"box inf", BoxData{Max: Vec3{math.Inf(1), 1, 1}}, "non-finite"},
		{"polyhedron empty", PolyhedronData{}, "no planes"},
		{"polyhedron normal", PolyhedronData{Planes: []Plane{{}}}, "plane 0 has a zero normal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildSample()
			id := ContentID(NodePrimitive, tt.data)
			g.AddNode(&Node{ID: id, Kind: NodePrimitive, Data: tt.data})
			g.MustLookup("particle").Children = []NodeID{id}

			res := ValidateAll(g)
			if !hasError(res.Errors, tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, res.Errors)
			}
		})
	}
}

func TestValidateScale(t *testing.T) {
	g := buildSample()
	particle := g.MustLookup("particle")
	ball := particle.Children[0]
	data := TransformData{Scale: &Vec3{1, 0, 1}}
	id := ContentID(NodeTransform, data, ball)
	g.AddNode(&Node{ID: id, Kind: NodeTransform, Children: []NodeID{ball}, Data: data})
	particle.Children = []NodeID{id}

	if !hasError(ValidateAll(g).Errors, "zero factor") {
		t.Error("expected a zero scale error")
	}
}

func TestValidateWarnings(t *testing.T) {
	g := buildSample()

	floor := HalfSpaceData{Normal: Vec3{0, 0, 1}}
	floorID := ContentID(NodePrimitive, floor)
	g.AddNode(&Node{ID: floorID, Kind: NodePrimitive, Data: floor})
	g.MustLookup("substrate").Children = []NodeID{floorID}
	g.MustLookup("particle").Data = RegionData{Parent: "substrate"}

	res := ValidateAll(g)
	if !res.OK() {
		t.Fatalf("warnings should not block: %v", res.Errors)
	}
	if !hasResultWarning(res.Warnings, `"substrate" may be unbounded`) {
		t.Error("expected an unbounded warning")
	}
	if !hasResultWarning(res.Warnings, `"particle" has no material`) {
		t.Error("expected a missing material warning")
	}

	g.MustLookup("particle").Data = RegionData{Material: "silicon", Parent: "substrate"}
	if !hasResultWarning(ValidateAll(g).Warnings, "same material") {
		t.Error("expected a same-material warning")
	}
}
