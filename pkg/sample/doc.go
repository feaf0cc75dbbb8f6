// Package sample defines the sample graph produced by evaluating a sample
// description. The graph is an immutable DAG of shape nodes (primitives,
// booleans, transforms) and region nodes that assign a material to a shape
// and place it inside a parent region.
package sample
