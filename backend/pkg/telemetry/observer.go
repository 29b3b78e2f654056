package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/taskmesh/engine/backend/pkg/observer"
)

// TelemetryObserver implements observer.Observer and records telemetry data
// for task and job execution events.
type TelemetryObserver struct {
	provider *Provider

	mu sync.Mutex

	// Track active spans for tasks and jobs, keyed by task ID (jobs by
	// task ID + job name).
	taskSpans map[string]trace.Span
	jobSpans  map[string]trace.Span

	taskStartTimes map[string]time.Time
	jobStartTimes  map[string]time.Time
	jobsFired      map[string]int
}

// NewTelemetryObserver creates a new telemetry observer
func NewTelemetryObserver(provider *Provider) *TelemetryObserver {
	return &TelemetryObserver{
		provider:       provider,
		taskSpans:      make(map[string]trace.Span),
		jobSpans:       make(map[string]trace.Span),
		taskStartTimes: make(map[string]time.Time),
		jobStartTimes:  make(map[string]time.Time),
		jobsFired:      make(map[string]int),
	}
}

// OnEvent handles execution events and records telemetry data
func (o *TelemetryObserver) OnEvent(ctx context.Context, event observer.Event) {
	switch event.Type {
	case observer.EventTaskStart:
		o.handleTaskStart(ctx, event)
	case observer.EventTaskEnd:
		o.handleTaskEnd(ctx, event)
	case observer.EventJobStart:
		o.handleJobStart(ctx, event)
	case observer.EventJobSuccess:
		o.handleJobEnd(ctx, event, true)
	case observer.EventJobFailure:
		o.handleJobEnd(ctx, event, false)
	}
}

func (o *TelemetryObserver) handleTaskStart(ctx context.Context, event observer.Event) {
	_, span := o.provider.Tracer().Start(ctx, "task.execute",
		trace.WithAttributes(
			attribute.String("task.id", event.TaskID),
			attribute.String("graph", event.Graph),
		),
	)

	o.mu.Lock()
	o.taskSpans[event.TaskID] = span
	o.taskStartTimes[event.TaskID] = event.Timestamp
	o.jobsFired[event.TaskID] = 0
	o.mu.Unlock()
}

func (o *TelemetryObserver) handleTaskEnd(ctx context.Context, event observer.Event) {
	o.mu.Lock()
	startTime := o.taskStartTimes[event.TaskID]
	jobsFired := o.jobsFired[event.TaskID]
	span := o.taskSpans[event.TaskID]
	delete(o.taskStartTimes, event.TaskID)
	delete(o.jobsFired, event.TaskID)
	delete(o.taskSpans, event.TaskID)
	o.mu.Unlock()

	duration := time.Since(startTime)
	success := event.Status == observer.StatusSuccess
	o.provider.RecordTaskExecution(ctx, event.Graph, duration, success, jobsFired)

	if span != nil {
		if event.Error != nil {
			span.RecordError(event.Error)
			span.SetStatus(codes.Error, event.Error.Error())
		} else {
			span.SetStatus(codes.Ok, "task completed successfully")
		}
		span.End()
	}
}

func (o *TelemetryObserver) handleJobStart(ctx context.Context, event observer.Event) {
	o.mu.Lock()
	taskSpan := o.taskSpans[event.TaskID]
	o.mu.Unlock()

	spanCtx := ctx
	if taskSpan != nil {
		spanCtx = trace.ContextWithSpan(ctx, taskSpan)
	}

	_, span := o.provider.Tracer().Start(spanCtx, "job.run",
		trace.WithAttributes(
			attribute.String("job.name", event.JobName),
			attribute.String("task.id", event.TaskID),
		),
	)

	key := jobKey(event.TaskID, event.JobName)
	o.mu.Lock()
	o.jobSpans[key] = span
	o.jobStartTimes[key] = event.Timestamp
	o.mu.Unlock()
}

func (o *TelemetryObserver) handleJobEnd(ctx context.Context, event observer.Event, success bool) {
	key := jobKey(event.TaskID, event.JobName)

	o.mu.Lock()
	startTime, hasStart := o.jobStartTimes[key]
	span := o.jobSpans[key]
	delete(o.jobStartTimes, key)
	delete(o.jobSpans, key)
	o.jobsFired[event.TaskID]++
	o.mu.Unlock()

	var duration time.Duration
	if hasStart {
		duration = time.Since(startTime)
	}

	o.provider.RecordJobExecution(ctx, event.JobName, duration, success)

	if span != nil {
		if event.Error != nil {
			span.RecordError(event.Error)
			span.SetStatus(codes.Error, event.Error.Error())
		} else {
			span.SetStatus(codes.Ok, "job completed successfully")
		}
		span.End()
	}
}

func jobKey(taskID, jobName string) string {
	return taskID + "/" + jobName
}
