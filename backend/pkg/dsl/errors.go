package dsl

import "errors"

// Sentinel errors surfaced at compile time.
var (
	// ErrEmptyComposition is returned when a Parallel or Serial node has
	// zero children.
	ErrEmptyComposition = errors.New("dsl: empty composition")

	// ErrDuplicateName is returned when two distinct jobs in one graph
	// share the same name.
	ErrDuplicateName = errors.New("dsl: duplicate job name")
)
