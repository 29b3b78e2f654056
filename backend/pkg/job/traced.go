package job

import (
	"context"
	"time"

	"github.com/taskmesh/engine/backend/pkg/observer"
)

// tracedJob wraps an inner Job, publishing observer events around every
// Run call. It picks up a task id from ctx (see WithTaskID) when present,
// so events stay correlated even though Run itself carries no task id
// parameter.
type tracedJob struct {
	Base
	inner Job
	mgr   *observer.Manager
}

// Traced wraps j so every Run call publishes EventJobStart/EventJobSuccess/
// EventJobFailure events to mgr, independent of whichever Engine (if any)
// ends up running it. A job already run inside an Engine is instrumented
// by the Engine itself; wrapping it in Traced too means both publish
// events for the same firing, so Traced is meant for jobs exercised
// outside an Engine's own lifecycle (standalone tests, tooling, a future
// non-Engine job runner), not as a second layer on top of Engine.Execute.
func Traced(j Job, mgr *observer.Manager) Job {
	return &tracedJob{Base: NewBase(j.Name()), inner: j, mgr: mgr}
}

func (t *tracedJob) Run(ctx context.Context, inputs Inputs) (Outputs, error) {
	taskID, _ := TaskIDFromContext(ctx)
	name := t.inner.Name()

	start := time.Now()
	t.notify(ctx, observer.EventJobStart, observer.StatusStarted, taskID, name, nil, 0)

	out, err := t.inner.Run(ctx, inputs)
	elapsed := time.Since(start)

	if err != nil {
		t.notify(ctx, observer.EventJobFailure, observer.StatusFailure, taskID, name, err, elapsed)
		return nil, err
	}

	t.notify(ctx, observer.EventJobSuccess, observer.StatusSuccess, taskID, name, nil, elapsed)
	return out, nil
}

func (t *tracedJob) notify(ctx context.Context, typ observer.EventType, status observer.Status, taskID, jobName string, err error, elapsed time.Duration) {
	if t.mgr == nil || !t.mgr.HasObservers() {
		return
	}
	t.mgr.Notify(ctx, observer.Event{
		Type:        typ,
		Status:      status,
		Timestamp:   time.Now(),
		TaskID:      taskID,
		JobName:     jobName,
		ElapsedTime: elapsed,
		Error:       err,
	})
}
