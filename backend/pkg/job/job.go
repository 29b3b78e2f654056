// Package job defines the abstract unit of work executed by the engine: a
// named, stateless step with declared expected inputs and an ordered list of
// successors.
package job

import "context"

// Inputs is the predecessor-name -> output-map mapping delivered to Run. The
// engine never merges or flattens it; namespacing by predecessor name is a
// contract every Job implementation relies on.
type Inputs map[string]map[string]any

// Outputs is the output map a Job produces for a single task.
type Outputs map[string]any

// TaskInputKey is the synthetic predecessor name under which the head job
// receives the original task payload.
const TaskInputKey = "__task__"

// Job is the abstract contract every node in a graph implements. A Job must
// be re-entrant: nothing about a single task's execution may be stored on
// the Job instance itself, since one Job instance is shared across every
// concurrently in-flight task.
type Job interface {
	// Name returns the job's unique identity within its graph.
	Name() string

	// Run executes the job's behavior for one task, given the outputs of
	// every predecessor named in ExpectedInputs(). It must not retain ctx
	// or inputs beyond the call.
	Run(ctx context.Context, inputs Inputs) (Outputs, error)

	// ExpectedInputs returns the set of predecessor job names this job
	// requires before it is eligible to fire. The job graph builder sets
	// this from the precedence graph; it is empty for the head.
	ExpectedInputs() []string

	// NextJobs returns this job's successors in declared order. The job
	// graph builder sets this from the precedence graph.
	NextJobs() []Job
}

// Base is an embeddable implementation of the wiring fields (name, expected
// inputs, next jobs) that every concrete Job needs regardless of its Run
// behavior. Concrete jobs embed Base and implement Run themselves.
type Base struct {
	name           string
	expectedInputs []string
	nextJobs       []Job
}

// NewBase constructs a Base with the given name. Expected inputs and next
// jobs are populated later by the job graph builder via SetWiring.
func NewBase(name string) Base {
	return Base{name: name}
}

func (b *Base) Name() string { return b.name }

func (b *Base) ExpectedInputs() []string { return b.expectedInputs }

func (b *Base) NextJobs() []Job { return b.nextJobs }

// SetWiring is called exactly once by the job graph builder to fill in a
// job's expected inputs and resolved successors.
func (b *Base) SetWiring(expectedInputs []string, nextJobs []Job) {
	b.expectedInputs = expectedInputs
	b.nextJobs = nextJobs
}

// FuncJob adapts a plain function into a Job, for tests and small leaf jobs
// that don't need a parameter schema.
type FuncJob struct {
	Base
	fn func(ctx context.Context, inputs Inputs) (Outputs, error)
}

// NewFunc builds a Job named name whose Run delegates to fn.
func NewFunc(name string, fn func(ctx context.Context, inputs Inputs) (Outputs, error)) *FuncJob {
	return &FuncJob{Base: NewBase(name), fn: fn}
}

func (f *FuncJob) Run(ctx context.Context, inputs Inputs) (Outputs, error) {
	return f.fn(ctx, inputs)
}
