package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/semtrace/pkg/sample"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms sample source code before passing it to
// zygomys. It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: gold-shell -> gold_shell
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator).
//
//  3. Line comments: ; -> //
//
// All transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, kwPrefix...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Only when the hyphen sits between identifier characters (not a minus
		// operator or a negative literal).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a sample.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   sample.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(noderef %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a sample.Vec3.
type sexpVec3 struct {
	vec sample.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpPlane is the value of (plane ...). It only enters the graph when used
// as a shape; polyhedra consume it directly.
type sexpPlane struct {
	plane sample.Plane
}

func (p *sexpPlane) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(plane :normal %s :point %s)", p.plane.Normal, p.plane.Point)
}
func (p *sexpPlane) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// float returns keyword name as a number, or def when absent.
func (pa kwArgs) float(name string, def float64) (float64, error) {
	v, ok := pa.kw[name]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

// requireFloat returns keyword name as a number and fails when absent.
func (pa kwArgs) requireFloat(name string) (float64, error) {
	if _, ok := pa.kw[name]; !ok {
		return 0, fmt.Errorf("missing :%s", name)
	}
	return pa.float(name, 0)
}

// vec returns keyword name as a vec3, or def when absent.
func (pa kwArgs) vec(name string, def sample.Vec3) (sample.Vec3, error) {
	v, ok := pa.kw[name]
	if !ok {
		return def, nil
	}
	vec, err := toVec3(v)
	if err != nil {
		return sample.Vec3{}, fmt.Errorf("%s: %w", name, err)
	}
	return vec, nil
}

// requireVec returns keyword name as a vec3 and fails when absent.
func (pa kwArgs) requireVec(name string) (sample.Vec3, error) {
	if _, ok := pa.kw[name]; !ok {
		return sample.Vec3{}, fmt.Errorf("missing :%s", name)
	}
	return pa.vec(name, sample.Vec3{})
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_gold) and plain strings ("gold").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (sample.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return sample.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toPlane extracts a Plane from a sexpPlane.
func toPlane(s zygo.Sexp) (sample.Plane, error) {
	if p, ok := s.(*sexpPlane); ok {
		return p.plane, nil
	}
	return sample.Plane{}, fmt.Errorf("expected plane, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// flattenArgs expands list and array arguments in place so that variadic
// builtins accept both (union a b c) and (union (list a b c)).
func flattenArgs(args []zygo.Sexp) ([]zygo.Sexp, error) {
	var out []zygo.Sexp
	for _, a := range args {
		switch a.(type) {
		case *zygo.SexpPair, *zygo.SexpArray:
			items, err := sexpListToSlice(a)
			if err != nil {
				return nil, err
			}
			out = append(out, items...)
		default:
			out = append(out, a)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Graph construction
// ---------------------------------------------------------------------------

// builder adds nodes to the graph under construction.
type builder struct {
	g *sample.Graph
}

// add inserts an anonymous node keyed by its content.
func (b *builder) add(kind sample.NodeKind, data sample.NodeData, children ...sample.NodeID) *sexpNodeRef {
	id := sample.ContentID(kind, data, children...)
	b.g.AddNode(&sample.Node{ID: id, Kind: kind, Children: children, Data: data})
	return &sexpNodeRef{id: id}
}

// referenced reports whether any node has id as a child.
func (b *builder) referenced(id sample.NodeID) bool {
	for _, n := range b.g.Nodes {
		for _, c := range n.Children {
			if c == id {
				return true
			}
		}
	}
	return false
}

// shape resolves s to a shape node, materializing planes as half-spaces.
func (b *builder) shape(s zygo.Sexp) (sample.NodeID, error) {
	switch v := s.(type) {
	case *sexpNodeRef:
		n := b.g.Get(v.id)
		if n != nil && n.Kind == sample.NodeRegion {
			return sample.ZeroID, fmt.Errorf("region %q is not a shape", n.Name)
		}
		return v.id, nil
	case *sexpPlane:
		return b.add(sample.NodePrimitive, sample.HalfSpaceData(v.plane)).id, nil
	}
	return sample.ZeroID, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// fold combines shapes pairwise from the left with op.
func (b *builder) fold(op sample.BooleanOp, args []zygo.Sexp) (zygo.Sexp, error) {
	args, err := flattenArgs(args)
	if err != nil {
		return zygo.SexpNull, err
	}
	if len(args) < 2 {
		return zygo.SexpNull, fmt.Errorf("requires at least 2 shapes, got %d", len(args))
	}
	acc, err := b.shape(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("shape 1: %w", err)
	}
	for i, a := range args[1:] {
		next, err := b.shape(a)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape %d: %w", i+2, err)
		}
		acc = b.add(sample.NodeBoolean, sample.BooleanData{Op: op}, acc, next).id
	}
	return &sexpNodeRef{id: acc}, nil
}

// transform wraps the first argument in a transform node built by set from
// the second argument.
func (b *builder) transform(args []zygo.Sexp, set func(td *sample.TransformData, arg zygo.Sexp) error) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("requires a shape and an argument, got %d arguments", len(args))
	}
	child, err := b.shape(args[0])
	if err != nil {
		return zygo.SexpNull, err
	}
	var td sample.TransformData
	if err := set(&td, args[1]); err != nil {
		return zygo.SexpNull, err
	}
	return b.add(sample.NodeTransform, td, child), nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the sample description builtins into a zygomys
// environment. The builtins populate g during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, g *sample.Graph) {
	b := &builder{g: g}

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: sample.Vec3{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere :radius 10 :center (vec3 0 0 -20))
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var sd sample.SphereData
		var err error

		if sd.Center, err = pa.vec("center", sample.Vec3{}); err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		if sd.Radius, err = pa.requireFloat("radius"); err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}

		return b.add(sample.NodePrimitive, sd), nil
	})

	// -----------------------------------------------------------------------
	// (cylinder :from (vec3 0 0 0) :to (vec3 0 0 50) :radius 5)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var cd sample.CylinderData
		var err error

		if cd.End0, err = pa.requireVec("from"); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		if cd.End1, err = pa.requireVec("to"); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		if cd.Radius, err = pa.requireFloat("radius"); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}

		return b.add(sample.NodePrimitive, cd), nil
	})

	// -----------------------------------------------------------------------
	// (cone :from (vec3 0 0 0) :r0 10 :to (vec3 0 0 20) :r1 0)
	// -----------------------------------------------------------------------
	env.AddFunction("cone", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var cd sample.ConeData
		var err error

		if cd.End0, err = pa.requireVec("from"); err != nil {
			return zygo.SexpNull, fmt.Errorf("cone: %w", err)
		}
		if cd.End1, err = pa.requireVec("to"); err != nil {
			return zygo.SexpNull, fmt.Errorf("cone: %w", err)
		}
		if cd.R0, err = pa.float("r0", 0); err != nil {
			return zygo.SexpNull, fmt.Errorf("cone: %w", err)
		}
		if cd.R1, err = pa.float("r1", 0); err != nil {
			return zygo.SexpNull, fmt.Errorf("cone: %w", err)
		}

		return b.add(sample.NodePrimitive, cd), nil
	})

	// -----------------------------------------------------------------------
	// (plane :normal (vec3 0 0 1) :point (vec3 0 0 0))
	//
	// The half-space behind the plane. Used directly as a shape or as a face
	// of a polyhedron.
	// -----------------------------------------------------------------------
	env.AddFunction("plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var p sample.Plane
		var err error

		if p.Normal, err = pa.requireVec("normal"); err != nil {
			return zygo.SexpNull, fmt.Errorf("plane: %w", err)
		}
		if p.Point, err = pa.vec("point", sample.Vec3{}); err != nil {
			return zygo.SexpNull, fmt.Errorf("plane: %w", err)
		}

		return &sexpPlane{plane: p}, nil
	})

	// -----------------------------------------------------------------------
	// (box :min (vec3 -1 -1 -1) :max (vec3 1 1 1))
	// (box :size (vec3 2 2 2) :center (vec3 0 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var bd sample.BoxData

		if _, ok := pa.kw["size"]; ok {
			size, err := pa.requireVec("size")
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: %w", err)
			}
			c, err := pa.vec("center", sample.Vec3{})
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: %w", err)
			}
			bd.Min = sample.Vec3{X: c.X - size.X/2, Y: c.Y - size.Y/2, Z: c.Z - size.Z/2}
			bd.Max = sample.Vec3{X: c.X + size.X/2, Y: c.Y + size.Y/2, Z: c.Z + size.Z/2}
		} else {
			var err error
			if bd.Min, err = pa.requireVec("min"); err != nil {
				return zygo.SexpNull, fmt.Errorf("box: %w", err)
			}
			if bd.Max, err = pa.requireVec("max"); err != nil {
				return zygo.SexpNull, fmt.Errorf("box: %w", err)
			}
		}

		return b.add(sample.NodePrimitive, bd), nil
	})

	// -----------------------------------------------------------------------
	// (polyhedron (plane ...) (plane ...) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("polyhedron", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		items, err := flattenArgs(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polyhedron: %w", err)
		}
		if len(items) == 0 {
			return zygo.SexpNull, fmt.Errorf("polyhedron requires at least one plane")
		}

		pd := sample.PolyhedronData{Planes: make([]sample.Plane, 0, len(items))}
		for i, item := range items {
			p, err := toPlane(item)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polyhedron: plane %d: %w", i+1, err)
			}
			pd.Planes = append(pd.Planes, p)
		}

		return b.add(sample.NodePrimitive, pd), nil
	})

	// -----------------------------------------------------------------------
	// (union a b ...) (intersection a b ...) (difference a b ...)
	//
	// Folded from the left: (difference a b c) removes b and then c from a.
	// -----------------------------------------------------------------------
	for fn, op := range map[string]sample.BooleanOp{
		"union":        sample.OpUnion,
		"intersection": sample.OpIntersection,
		"difference":   sample.OpDifference,
	} {
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			ref, err := b.fold(op, args)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
			}
			return ref, nil
		})
	}

	// -----------------------------------------------------------------------
	// (complement a)
	// -----------------------------------------------------------------------
	env.AddFunction("complement", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("complement requires exactly 1 shape, got %d", len(args))
		}
		child, err := b.shape(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("complement: %w", err)
		}
		return b.add(sample.NodeBoolean, sample.BooleanData{Op: sample.OpComplement}, child), nil
	})

	// -----------------------------------------------------------------------
	// (translate shape (vec3 0 0 10))
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ref, err := b.transform(args, func(td *sample.TransformData, arg zygo.Sexp) error {
			v, err := toVec3(arg)
			if err != nil {
				return err
			}
			td.Translation = &v
			return nil
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// (rotate shape (vec3 0 0 90))  ; Euler angles in degrees
	// -----------------------------------------------------------------------
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ref, err := b.transform(args, func(td *sample.TransformData, arg zygo.Sexp) error {
			v, err := toVec3(arg)
			if err != nil {
				return err
			}
			td.Rotation = &v
			return nil
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// (scale shape 2) or (scale shape (vec3 1 1 2))
	// -----------------------------------------------------------------------
	env.AddFunction("scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ref, err := b.transform(args, func(td *sample.TransformData, arg zygo.Sexp) error {
			if f, err := toFloat64(arg); err == nil {
				td.Scale = &sample.Vec3{X: f, Y: f, Z: f}
				return nil
			}
			v, err := toVec3(arg)
			if err != nil {
				return fmt.Errorf("expected number or vec3: %w", err)
			}
			td.Scale = &v
			return nil
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: %w", err)
		}
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// (defshape "name" shape)
	// -----------------------------------------------------------------------
	env.AddFunction("defshape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("defshape requires a name and a shape expression")
		}

		shapeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defshape: name: %w", err)
		}
		if g.Lookup(shapeName) != nil {
			return zygo.SexpNull, fmt.Errorf("defshape: %q is already defined", shapeName)
		}
		childID, err := b.shape(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defshape: %w", err)
		}

		// Named copy of the anonymous node, so two names may share geometry.
		body := g.Get(childID)
		id := sample.NewNodeID("shape/" + shapeName)
		g.AddNode(&sample.Node{
			ID:       id,
			Kind:     body.Kind,
			Name:     shapeName,
			Children: body.Children,
			Data:     body.Data,
		})
		if body.Name == "" && !b.referenced(childID) {
			delete(g.Nodes, childID)
		}

		return &sexpNodeRef{id: id, name: shapeName}, nil
	})

	// -----------------------------------------------------------------------
	// (shape "name")
	// -----------------------------------------------------------------------
	env.AddFunction("shape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("shape requires a name argument")
		}

		shapeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape: name: %w", err)
		}

		n := g.Lookup(shapeName)
		if n == nil || !n.Kind.IsShape() {
			return zygo.SexpNull, fmt.Errorf("shape: no shape named %q", shapeName)
		}

		return &sexpNodeRef{id: n.ID, name: shapeName}, nil
	})

	// -----------------------------------------------------------------------
	// (region "particle" shape :material "gold" :parent "substrate")
	//
	// :parent accepts a region name or the value of an earlier (region ...).
	// -----------------------------------------------------------------------
	env.AddFunction("region", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("region requires a name and a shape expression")
		}

		regionName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("region: name: %w", err)
		}
		if g.Lookup(regionName) != nil {
			return zygo.SexpNull, fmt.Errorf("region: %q is already defined", regionName)
		}
		shapeID, err := b.shape(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("region %q: %w", regionName, err)
		}

		var rd sample.RegionData
		if v, ok := pa.kw["material"]; ok {
			if rd.Material, err = toKeywordString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("region %q: material: %w", regionName, err)
			}
		}
		if v, ok := pa.kw["parent"]; ok {
			if ref, isRef := v.(*sexpNodeRef); isRef {
				p := g.Get(ref.id)
				if p == nil || p.Kind != sample.NodeRegion {
					return zygo.SexpNull, fmt.Errorf("region %q: parent is not a region", regionName)
				}
				rd.Parent = p.Name
			} else if rd.Parent, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("region %q: parent: %w", regionName, err)
			}
		}

		id := sample.NewNodeID("region/" + regionName)
		g.AddNode(&sample.Node{
			ID:       id,
			Kind:     sample.NodeRegion,
			Name:     regionName,
			Children: []sample.NodeID{shapeID},
			Data:     rd,
		})
		g.AddRoot(id)

		return &sexpNodeRef{id: id, name: regionName}, nil
	})

	// -----------------------------------------------------------------------
	// (chamber "vacuum")
	// -----------------------------------------------------------------------
	env.AddFunction("chamber", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("chamber requires a material argument")
		}
		material, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("chamber: %w", err)
		}
		g.Defaults.Chamber = material
		return zygo.SexpNull, nil
	})
}
