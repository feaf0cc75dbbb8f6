// Package region arranges the assembled shapes of a sample into a tree of
// nested material regions and traces straight segments through it.
//
// The chamber is the unbounded root. Every other region belongs to exactly
// one parent and occupies its own shape minus the shapes of its children.
// A tracer walks a segment region by region, reporting each boundary where
// the material changes.
package region
