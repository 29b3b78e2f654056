// Package graph provides precedence-graph operations shared by the DSL compiler
// and the job graph builder: deterministic ordering over job names, cycle
// detection, and terminal-node (sink) discovery.
package graph

import "sort"

// PrecedenceGraph maps a job name to its ordered, deduplicated successor names.
// It is the output of the DSL compiler and the input to the job graph builder.
type PrecedenceGraph map[string][]string

// New returns an empty precedence graph.
func New() PrecedenceGraph {
	return make(PrecedenceGraph)
}

// AddEdge records job -> successor, skipping the edge if it already exists.
// The relative order edges are first added in is preserved.
func (g PrecedenceGraph) AddEdge(job, successor string) {
	if _, ok := g[job]; !ok {
		g[job] = nil
	}
	if _, ok := g[successor]; !ok {
		g[successor] = nil
	}
	for _, existing := range g[job] {
		if existing == successor {
			return
		}
	}
	g[job] = append(g[job], successor)
}

// EnsureNode makes sure name is present in the graph, even with no successors.
func (g PrecedenceGraph) EnsureNode(name string) {
	if _, ok := g[name]; !ok {
		g[name] = nil
	}
}

// Nodes returns every job name appearing in the graph, sorted for determinism.
func (g PrecedenceGraph) Nodes() []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Predecessors computes, for every node, the set of nodes that name it as a
// successor. It is the reverse of the adjacency recorded in g.
func (g PrecedenceGraph) Predecessors() map[string][]string {
	preds := make(map[string][]string, len(g))
	for name := range g {
		preds[name] = nil
	}
	for job, successors := range g {
		for _, s := range successors {
			preds[s] = append(preds[s], job)
		}
	}
	return preds
}

// Sinks returns the names of nodes with zero successors.
func (g PrecedenceGraph) Sinks() []string {
	var sinks []string
	for _, name := range g.Nodes() {
		if len(g[name]) == 0 {
			sinks = append(sinks, name)
		}
	}
	return sinks
}

// TopologicalSort orders the graph's nodes using Kahn's algorithm, returning
// ErrCycle if the graph is not acyclic. The traversal visits zero-in-degree
// nodes in sorted order at each step, so the result is deterministic.
func (g PrecedenceGraph) TopologicalSort() ([]string, error) {
	numNodes := len(g)
	if numNodes == 0 {
		return []string{}, nil
	}

	inDegree := make(map[string]int, numNodes)
	for name := range g {
		inDegree[name] = 0
	}
	for _, successors := range g {
		for _, s := range successors {
			inDegree[s]++
		}
	}

	ready := make([]string, 0, numNodes)
	for name, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, numNodes)
	for len(ready) > 0 {
		current := ready[0]
		ready = ready[1:]
		order = append(order, current)

		var newlyReady []string
		for _, next := range g[current] {
			inDegree[next]--
			if inDegree[next] == 0 {
				newlyReady = append(newlyReady, next)
			}
		}
		sort.Strings(newlyReady)
		ready = mergeSorted(ready, newlyReady)
	}

	if len(order) != numNodes {
		return nil, ErrCycle
	}
	return order, nil
}

// DetectCycle reports whether the graph contains a cycle.
func (g PrecedenceGraph) DetectCycle() error {
	_, err := g.TopologicalSort()
	return err
}

// mergeSorted merges two already-sorted string slices into one sorted slice.
func mergeSorted(a, b []string) []string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
