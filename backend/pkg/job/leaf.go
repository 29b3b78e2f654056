package job

import (
	"context"
	"fmt"
)

// ValueJob is the leaf job produced by lifting a non-Job value (dsl.Wrap).
// Its Run ignores inputs and returns the value's canonical string form,
// primarily useful for testing DSL compositions without writing real jobs.
type ValueJob struct {
	Base
	value any
}

// NewValue builds a leaf job named name that always returns {"value": fmt.Sprintf("%v", v)}.
func NewValue(name string, v any) *ValueJob {
	return &ValueJob{Base: NewBase(name), value: v}
}

func (v *ValueJob) Run(_ context.Context, _ Inputs) (Outputs, error) {
	return Outputs{"value": fmt.Sprintf("%v", v.value)}, nil
}

// AlreadyJob reports whether v is already a Job, used by dsl.WrapNamed to
// leave an existing Job unchanged instead of wrapping it again.
func AlreadyJob(v any) (Job, bool) {
	j, ok := v.(Job)
	return j, ok
}
