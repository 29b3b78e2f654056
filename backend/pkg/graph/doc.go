// Package graph provides the precedence-graph representation shared by the
// DSL compiler (pkg/dsl) and the job graph builder (pkg/builder).
//
// A PrecedenceGraph is a map from job name to its ordered, deduplicated
// successor names. It carries no job behavior — only shape. Topological
// sort uses Kahn's algorithm and visits ready nodes in sorted order, so
// the result is deterministic across runs for the same graph.
package graph
