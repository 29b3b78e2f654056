package job

import (
	"context"
	"sort"
)

// Callable is a plain Go function a WrappingJob adapts into the Job
// interface, bound against an explicit ParamSchema instead of reflective
// signature introspection.
type Callable func(args map[string]any) (map[string]any, error)

// WrappingJob adapts a Callable into a Job using a declared ParamSchema.
// Unlike the source project's reflective WrappingJob, argument binding here
// is a pure data-driven step: flatten the predecessor outputs into one
// argument map, bind it against the schema, then invoke the callable.
type WrappingJob struct {
	Base
	schema ParamSchema
	fn     Callable
}

// NewWrapping builds a WrappingJob named name that binds fn's arguments
// against schema before every invocation.
func NewWrapping(name string, schema ParamSchema, fn Callable) *WrappingJob {
	return &WrappingJob{Base: NewBase(name), schema: schema, fn: fn}
}

func (w *WrappingJob) Run(_ context.Context, inputs Inputs) (Outputs, error) {
	args := flatten(inputs)
	bound, err := w.schema.Bind(args)
	if err != nil {
		return nil, err
	}
	out, err := w.fn(bound)
	if err != nil {
		return nil, err
	}
	return Outputs(out), nil
}

// flatten merges every predecessor's output map into one argument map. A
// key produced by more than one predecessor is resolved last-writer-wins in
// predecessor-name sorted order, which is acceptable here because this is a
// convenience path for wrapped callables, not the engine's own namespaced
// inputs contract (the engine itself never flattens).
func flatten(inputs Inputs) map[string]any {
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make(map[string]any)
	for _, name := range names {
		for k, v := range inputs[name] {
			args[k] = v
		}
	}
	return args
}
