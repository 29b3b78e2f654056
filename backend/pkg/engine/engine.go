package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/taskmesh/engine/backend/pkg/builder"
	"github.com/taskmesh/engine/backend/pkg/job"
	"github.com/taskmesh/engine/backend/pkg/logging"
	"github.com/taskmesh/engine/backend/pkg/observer"
)

// Engine runs individual tasks to completion against one wired job graph.
// A single Engine instance is shared across every concurrently in-flight
// task; per-task state lives entirely in a taskContext keyed by task id.
type Engine struct {
	graphName        string
	head             job.Job
	maxExecutionTime time.Duration

	observerMgr *observer.Manager
	logger      *logging.Logger

	mu       sync.Mutex
	contexts map[string]*taskContext
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithMaxExecutionTime bounds a single task's full graph execution. Zero
// (the default) disables the per-task timeout.
func WithMaxExecutionTime(d time.Duration) Option {
	return func(e *Engine) { e.maxExecutionTime = d }
}

// WithObserverManager wires an observer.Manager that receives task- and
// job-level events as execution proceeds.
func WithObserverManager(m *observer.Manager) Option {
	return func(e *Engine) { e.observerMgr = m }
}

// WithLogger attaches a structured logger for execution-error reporting.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New builds an Engine around a wired job graph's head job.
func New(result *builder.Result, graphName string, opts ...Option) *Engine {
	e := &Engine{
		graphName: graphName,
		head:      result.Head,
		contexts:  make(map[string]*taskContext),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// taskContext is the per-(task, graph) execution state: which jobs have
// received which predecessors' outputs, which have fired, and the
// in-progress merge of sink outputs. It is exclusively owned by the
// goroutines executing one task; access to its maps is serialized by mu.
type taskContext struct {
	mu          sync.Mutex
	inputsSoFar map[string]job.Inputs
	fired       map[string]bool
	sinkOutputs map[string]any
	sinkOwner   map[string]string

	wg      sync.WaitGroup
	errOnce sync.Once
	err     error
}

// Execute runs one task through the graph and returns its merged result:
// every sink job's output plus a task_pass_through echo of the payload.
// The task's Execution Context is created on entry and torn down before
// Execute returns, regardless of outcome.
func (e *Engine) Execute(ctx context.Context, taskID string, payload map[string]any) (map[string]any, error) {
	if e.maxExecutionTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.maxExecutionTime)
		defer cancel()
	}
	ctx = job.WithTaskID(ctx, taskID)

	tc := &taskContext{
		inputsSoFar: make(map[string]job.Inputs),
		fired:       make(map[string]bool),
		sinkOutputs: make(map[string]any),
		sinkOwner:   make(map[string]string),
	}

	e.mu.Lock()
	e.contexts[taskID] = tc
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		delete(e.contexts, taskID)
		e.mu.Unlock()
	}()

	start := time.Now()
	e.notify(ctx, observer.EventTaskStart, observer.StatusStarted, taskID, "", nil, 0)

	tc.wg.Add(1)
	go e.fire(ctx, tc, taskID, e.head, job.Inputs{job.TaskInputKey: payload})
	tc.wg.Wait()

	elapsed := time.Since(start)

	if tc.err != nil {
		e.notify(ctx, observer.EventTaskEnd, observer.StatusFailure, taskID, "", tc.err, elapsed)
		return nil, tc.err
	}

	result := make(map[string]any, len(tc.sinkOutputs)+1)
	for k, v := range tc.sinkOutputs {
		result[k] = v
	}
	result["task_pass_through"] = payload

	e.notify(ctx, observer.EventTaskEnd, observer.StatusSuccess, taskID, "", nil, elapsed)
	return result, nil
}

// ActiveTasks returns the number of tasks with a live Execution Context,
// for diagnostics and for tests asserting no context leaks.
func (e *Engine) ActiveTasks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.contexts)
}

// fire runs one job for one task and routes its output to successors,
// recursing (via new goroutines) into whichever successors become
// eligible to fire as a result.
func (e *Engine) fire(ctx context.Context, tc *taskContext, taskID string, j job.Job, inputs job.Inputs) {
	defer tc.wg.Done()

	select {
	case <-ctx.Done():
		tc.errOnce.Do(func() { tc.err = ctx.Err() })
		return
	default:
	}

	start := time.Now()
	e.notify(ctx, observer.EventJobStart, observer.StatusStarted, taskID, j.Name(), nil, 0)

	out, err := runSafely(ctx, j, inputs)
	elapsed := time.Since(start)

	if err != nil {
		execErr := &ExecutionError{TaskID: taskID, JobName: j.Name(), Cause: err}
		e.notify(ctx, observer.EventJobFailure, observer.StatusFailure, taskID, j.Name(), execErr, elapsed)
		if e.logger != nil {
			e.logger.WithTaskID(taskID).WithJobName(j.Name()).WithError(execErr).Error("job execution failed")
		}
		tc.errOnce.Do(func() { tc.err = execErr })
		return
	}

	e.notify(ctx, observer.EventJobSuccess, observer.StatusSuccess, taskID, j.Name(), nil, elapsed)

	successors := j.NextJobs()
	if len(successors) == 0 {
		if mergeErr := mergeSink(tc, j.Name(), out); mergeErr != nil {
			tc.errOnce.Do(func() { tc.err = mergeErr })
		}
		return
	}

	for _, s := range successors {
		inputsForSuccessor, ready := recordAndCheck(tc, s, j.Name(), out)
		if ready {
			tc.wg.Add(1)
			go e.fire(ctx, tc, taskID, s, inputsForSuccessor)
		}
	}
}

// recordAndCheck records out under predName inside successor's input
// buffer and reports whether successor is now eligible to fire (its
// ExpectedInputs is a subset of the keys it has received) and has not
// already fired. Firing is idempotent-guarded here: at most one caller
// ever observes ready == true for a given (task, job) pair.
func recordAndCheck(tc *taskContext, successor job.Job, predName string, out job.Outputs) (job.Inputs, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	name := successor.Name()
	buf, ok := tc.inputsSoFar[name]
	if !ok {
		buf = make(job.Inputs)
		tc.inputsSoFar[name] = buf
	}
	buf[predName] = out

	if tc.fired[name] {
		return nil, false
	}

	for _, expected := range successor.ExpectedInputs() {
		if _, got := buf[expected]; !got {
			return nil, false
		}
	}

	tc.fired[name] = true
	snapshot := make(job.Inputs, len(buf))
	for k, v := range buf {
		snapshot[k] = v
	}
	return snapshot, true
}

// mergeSink folds a sink job's output into the task's result, rejecting
// conflicting keys contributed by a different sink.
func mergeSink(tc *taskContext, jobName string, out job.Outputs) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	for k, v := range out {
		if owner, exists := tc.sinkOwner[k]; exists && owner != jobName {
			return fmt.Errorf("%w: key %q produced by both %q and %q", ErrSinkKeyConflict, k, owner, jobName)
		}
		tc.sinkOutputs[k] = v
		tc.sinkOwner[k] = jobName
	}
	return nil
}

// runSafely invokes a job's Run, converting a panic into an error so one
// misbehaving job cannot take down the worker running other tasks.
func runSafely(ctx context.Context, j job.Job, inputs job.Inputs) (out job.Outputs, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return j.Run(ctx, inputs)
}

func (e *Engine) notify(ctx context.Context, typ observer.EventType, status observer.Status, taskID, jobName string, err error, elapsed time.Duration) {
	if e.observerMgr == nil || !e.observerMgr.HasObservers() {
		return
	}
	var evErr error
	if err != nil {
		evErr = err
	}
	e.observerMgr.Notify(ctx, observer.Event{
		Type:        typ,
		Status:      status,
		Timestamp:   time.Now(),
		TaskID:      taskID,
		Graph:       e.graphName,
		JobName:     jobName,
		ElapsedTime: elapsed,
		Error:       evErr,
	})
}
