package csg

import "errors"

// Construction errors. Constructors wrap these with the offending values;
// match them with errors.Is.
var (
	ErrInvalidRadius     = errors.New("csg: invalid radius")
	ErrDegenerateAxis    = errors.New("csg: degenerate axis")
	ErrZeroNormal        = errors.New("csg: zero-length normal")
	ErrInvalidBox        = errors.New("csg: box min must be below max on every axis")
	ErrEmptyPolyhedron   = errors.New("csg: polyhedron needs at least one plane")
	ErrSingularTransform = errors.New("csg: transform is not invertible")
	ErrNonFinite         = errors.New("csg: non-finite parameter")
	ErrNilShape          = errors.New("csg: nil shape")
)
