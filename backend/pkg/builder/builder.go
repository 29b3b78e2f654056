// Package builder implements the Job Graph Builder: it takes a precedence
// graph plus a name->Job registry and wires each job's expected inputs and
// next jobs, returning the graph's unique head.
package builder

import (
	"fmt"
	"sort"

	"github.com/taskmesh/engine/backend/pkg/graph"
	"github.com/taskmesh/engine/backend/pkg/job"
)

// ErrUnknownJob is returned when the precedence graph names a job the
// registry does not contain.
var ErrUnknownJob = fmt.Errorf("builder: job not found in registry")

// wireable is satisfied by any Job built on job.Base; it lets the builder
// fill in ExpectedInputs and NextJobs without the Job interface itself
// exposing a mutation method to ordinary callers.
type wireable interface {
	SetWiring(expectedInputs []string, nextJobs []job.Job)
}

// Result is the wired job graph: its unique head plus every job reachable
// from it, keyed by name.
type Result struct {
	Head job.Job
	Jobs map[string]job.Job
}

// Build resolves g against registry, wiring every job's ExpectedInputs and
// NextJobs in place, and returns the unique head job. It returns
// graph.ErrNoSingleHead if zero or more than one node has no predecessors,
// and ErrUnknownJob if g names a job absent from registry.
func Build(g graph.PrecedenceGraph, registry map[string]job.Job) (*Result, error) {
	preds := g.Predecessors()
	names := g.Nodes()

	jobs := make(map[string]job.Job, len(names))
	for _, name := range names {
		j, ok := registry[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownJob, name)
		}
		jobs[name] = j
	}

	for _, name := range names {
		w, ok := jobs[name].(wireable)
		if !ok {
			return nil, fmt.Errorf("builder: job %q does not support wiring", name)
		}

		nextJobs := make([]job.Job, 0, len(g[name]))
		for _, successor := range g[name] {
			nextJobs = append(nextJobs, jobs[successor])
		}

		expectedInputs := append([]string(nil), preds[name]...)
		sort.Strings(expectedInputs)

		w.SetWiring(expectedInputs, nextJobs)
	}

	var heads []string
	for _, name := range names {
		if len(preds[name]) == 0 {
			heads = append(heads, name)
		}
	}
	if len(heads) != 1 {
		return nil, fmt.Errorf("%w: found %d candidate heads %v", graph.ErrNoSingleHead, len(heads), heads)
	}

	return &Result{Head: jobs[heads[0]], Jobs: jobs}, nil
}
