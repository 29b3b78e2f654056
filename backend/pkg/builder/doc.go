// Package builder resolves a graph.PrecedenceGraph against a name->Job
// registry into a fully wired job graph, ready for pkg/engine to execute.
package builder
