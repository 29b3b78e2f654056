// Package dsl implements the graph composition algebra described in the
// engine's design: Parallel and Serial composites over job.Job leaves, with
// flattening normalization, and a compiler that lowers an expression into a
// graph.PrecedenceGraph plus the set of leaf jobs it references.
//
// Go has no operator overloading, so `|` and `>>` from the algebra's source
// material become the variadic functions Par and Seq.
package dsl
