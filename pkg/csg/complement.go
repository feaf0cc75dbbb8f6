package csg

import "gonum.org/v1/gonum/spatial/r3"

// Complement is every point outside its operand. It shares the
// operand's boundary with the outward normal reversed, so a step that
// enters the operand leaves the complement.
type Complement struct {
	s Shape
}

func NewComplement(s Shape) (*Complement, error) {
	if err := checkOperands("complement", s); err != nil {
		return nil, err
	}
	return &Complement{s: s}, nil
}

// Operand returns the complemented shape.
func (c *Complement) Operand() Shape { return c.s }

// Contains negates the operand, so the shared boundary is outside.
func (c *Complement) Contains(p r3.Vec) bool { return !c.s.Contains(p) }

func (c *Complement) ContainsAlong(p0, p1 r3.Vec) bool {
	return c.classify(p0, p1, FlatTangentInside)
}

func (c *Complement) FirstCrossing(p0, p1 r3.Vec) (Crossing, bool) {
	return c.cross(p0, p1, FlatTangentInside)
}

// Negating the operand's classification also negates its flat tie-break
// result, which is exactly the tie-break applied to the reversed normal.
func (c *Complement) classify(p0, p1 r3.Vec, flat tieBreak) bool {
	return !c.s.classify(p0, p1, flat)
}

func (c *Complement) cross(p0, p1 r3.Vec, flat tieBreak) (Crossing, bool) {
	x, ok := c.s.cross(p0, p1, flat)
	if ok {
		x.Normal = r3.Scale(-1, x.Normal)
	}
	return x, ok
}
