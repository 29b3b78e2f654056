// Package dsl implements the graph composition algebra: two composite node
// kinds, Parallel and Serial, combinators that build and normalize them, and
// a compiler that lowers a DSL expression into a graph.PrecedenceGraph.
package dsl

import "github.com/taskmesh/engine/backend/pkg/job"

// Kind identifies which of the three DSL node variants a Node is.
type Kind int

const (
	KindLeaf Kind = iota
	KindParallel
	KindSerial
)

// Node is the closed set of DSL expression variants: {Leaf, Parallel,
// Serial}. The unexported marker method keeps it a sum type nothing outside
// this package can implement, so the compiler's type switch is exhaustive.
type Node interface {
	Kind() Kind
	dslNode()
}

type leafNode struct {
	job job.Job
}

func (leafNode) Kind() Kind { return KindLeaf }
func (leafNode) dslNode()   {}

type parallelNode struct {
	children []Node
}

func (parallelNode) Kind() Kind { return KindParallel }
func (parallelNode) dslNode()   {}

type serialNode struct {
	children []Node
}

func (serialNode) Kind() Kind { return KindSerial }
func (serialNode) dslNode()   {}

// Leaf wraps an already-constructed Job as a DSL leaf node.
func Leaf(j job.Job) Node {
	return leafNode{job: j}
}
