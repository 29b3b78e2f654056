package dsl

import (
	"fmt"

	"github.com/taskmesh/engine/backend/pkg/graph"
	"github.com/taskmesh/engine/backend/pkg/job"
)

// Compile lowers a DSL expression into a precedence graph and the name->Job
// registry discovered while walking it. It computes, for each subexpression,
// its entry frontier (leaves that consume inputs from outside the
// subexpression) and terminal frontier (leaves that deliver outputs outside
// it), connecting one component's terminal frontier to the next's entry
// frontier for Serial nodes.
func Compile(root Node) (graph.PrecedenceGraph, map[string]job.Job, error) {
	g := graph.New()
	leaves := make(map[string]job.Job)

	if _, _, err := compileNode(root, g, leaves); err != nil {
		return nil, nil, err
	}
	if err := g.DetectCycle(); err != nil {
		return nil, nil, fmt.Errorf("dsl: %w", err)
	}
	return g, leaves, nil
}

// compileNode returns the entry and terminal frontiers of node, recording
// every leaf it encounters into leaves and every Serial-induced edge into g.
func compileNode(node Node, g graph.PrecedenceGraph, leaves map[string]job.Job) (entry, terminal []string, err error) {
	switch n := node.(type) {
	case leafNode:
		name := n.job.Name()
		if existing, ok := leaves[name]; ok && existing != n.job {
			return nil, nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		leaves[name] = n.job
		g.EnsureNode(name)
		return []string{name}, []string{name}, nil

	case parallelNode:
		if len(n.children) == 0 {
			return nil, nil, ErrEmptyComposition
		}
		for _, child := range n.children {
			ce, ct, err := compileNode(child, g, leaves)
			if err != nil {
				return nil, nil, err
			}
			entry = unionPreserveOrder(entry, ce)
			terminal = unionPreserveOrder(terminal, ct)
		}
		return entry, terminal, nil

	case serialNode:
		if len(n.children) == 0 {
			return nil, nil, ErrEmptyComposition
		}
		var prevTerminal []string
		for i, child := range n.children {
			ce, ct, err := compileNode(child, g, leaves)
			if err != nil {
				return nil, nil, err
			}
			if i == 0 {
				entry = ce
			}
			for _, t := range prevTerminal {
				for _, e := range ce {
					g.AddEdge(t, e)
				}
			}
			prevTerminal = ct
		}
		terminal = prevTerminal
		return entry, terminal, nil

	default:
		return nil, nil, fmt.Errorf("dsl: unknown node kind %T", node)
	}
}

// unionPreserveOrder appends every element of b not already present in a,
// preserving a's existing order and b's relative order for new elements.
func unionPreserveOrder(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	for _, v := range a {
		seen[v] = true
	}
	for _, v := range b {
		if !seen[v] {
			a = append(a, v)
			seen[v] = true
		}
	}
	return a
}
