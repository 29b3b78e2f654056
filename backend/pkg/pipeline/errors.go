package pipeline

import "errors"

// Submit-time errors.
var (
	// ErrInvalidTask is returned by Submit for a nil task.
	ErrInvalidTask = errors.New("pipeline: task must not be nil")
	// ErrMissingGraphName is returned by Submit when more than one graph
	// is registered and the task names none of them.
	ErrMissingGraphName = errors.New("pipeline: graph name required when multiple graphs are registered")
	// ErrUnknownGraph is returned by Submit when the task names a graph
	// the pipeline has no engine for.
	ErrUnknownGraph = errors.New("pipeline: unknown graph")
)

// Construction and runtime errors.
var (
	// ErrNotSerializable is returned by New when a parallel-mode sink
	// fails its Serializable pre-flight check.
	ErrNotSerializable = errors.New("pipeline: result sink is not safe to share across goroutines")
	// ErrWorkerCrashed is returned once the worker goroutine has
	// recovered a panic; it surfaces on the next Submit or
	// MarkInputCompleted call.
	ErrWorkerCrashed = errors.New("pipeline: worker crashed")
)
