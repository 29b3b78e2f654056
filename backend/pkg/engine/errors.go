package engine

import (
	"errors"
	"fmt"
)

// ErrSinkKeyConflict is returned when two sink jobs in the same graph
// produce an overlapping output key for the same task.
var ErrSinkKeyConflict = errors.New("engine: sink key conflict")

// ExecutionError wraps a panic or error raised inside a job's Run. It
// carries the task id and job name so logs and observer events can
// attribute the failure precisely.
type ExecutionError struct {
	TaskID  string
	JobName string
	Cause   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("engine: task %s: job %q: %v", e.TaskID, e.JobName, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}
