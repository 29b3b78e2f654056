package graph

import "errors"

// Sentinel errors for precedence graph operations.
var (
	// ErrCycle is returned when a precedence graph is not acyclic.
	ErrCycle = errors.New("graph: cycle detected")

	// ErrNoSingleHead is returned when a graph has zero or more than one
	// node with no predecessors.
	ErrNoSingleHead = errors.New("graph: no single head")
)
