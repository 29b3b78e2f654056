package dsl

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/taskmesh/engine/backend/pkg/job"
)

// wrapCounter gives every anonymously-Wrap'd value a distinct ordinal, since
// two calls can wrap equal values (Par(Wrap(1), Wrap(1))) and the value's own
// string form would otherwise collide across them.
var wrapCounter atomic.Uint64

// Operand is anything Par/Seq/Wrap accept as an argument: a Node, a Job, or
// a raw value to be lifted via Wrap.
type Operand any

// toNode normalizes an Operand into a Node, auto-wrapping bare jobs and raw
// values. It never panics; an empty composition is not rejected here but
// by Compile, which returns ErrEmptyComposition.
func toNode(op Operand) Node {
	switch v := op.(type) {
	case Node:
		return v
	case job.Job:
		return Leaf(v)
	default:
		return Wrap(v)
	}
}

// Wrap lifts a non-Job value into a leaf job whose Run returns the value's
// canonical string form. Wrap is idempotent: wrapping an already-wrapped
// value (a Node, or something already a job.Job) returns it unchanged.
func Wrap(v any) Node {
	switch x := v.(type) {
	case Node:
		return x
	case job.Job:
		return Leaf(x)
	default:
		name := fmt.Sprintf("value:%v#%d", v, wrapCounter.Add(1))
		return Leaf(job.NewValue(name, v))
	}
}

// WrapNamed lifts v into a leaf job identified by name. If v is already a
// Job, it is returned unchanged (the name binds only to freshly-wrapped raw
// values; renaming an existing Job is not supported, since a Job's name is
// part of its own identity).
func WrapNamed(name string, v any) Node {
	if j, ok := job.AlreadyJob(v); ok {
		return Leaf(j)
	}
	if n, ok := v.(Node); ok {
		return n
	}
	return Leaf(job.NewValue(name, v))
}

// WrapAll lifts a map of name->value pairs into a Parallel of named leaves
// in one call, for fanning out several named constants at once. Supplements
// the distilled spec from the original source's wrap(**kwargs) behavior.
func WrapAll(values map[string]any) Node {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	children := make([]Node, 0, len(names))
	for _, name := range names {
		children = append(children, WrapNamed(name, values[name]))
	}
	return parallelNode{children: children}
}

// Par composes operands so they may execute concurrently; all must complete
// before any downstream consumer runs. Nested Parallel operands are spliced
// into a single flat Parallel — Par(Par(a,b),c) and Par(a,b,c) are the same
// Node shape.
func Par(operands ...Operand) Node {
	var children []Node
	for _, op := range operands {
		n := toNode(op)
		if p, ok := n.(parallelNode); ok {
			children = append(children, p.children...)
		} else {
			children = append(children, n)
		}
	}
	return parallelNode{children: children}
}

// Seq composes operands to execute in declared order, each depending on the
// previous. Nested Serial operands are spliced into a single flat Serial;
// a Parallel operand is kept intact as one child (Serial and Parallel do
// not flatten into each other).
func Seq(operands ...Operand) Node {
	var children []Node
	for _, op := range operands {
		n := toNode(op)
		if s, ok := n.(serialNode); ok {
			children = append(children, s.children...)
		} else {
			children = append(children, n)
		}
	}
	return serialNode{children: children}
}
