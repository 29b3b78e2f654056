// Package observer implements a small event bus: Manager fans an Event out
// to every registered Observer on its own goroutine, recovering panics so a
// misbehaving observer cannot affect execution or other observers.
//
// pkg/engine emits EventTaskStart/EventTaskEnd and
// EventJobStart/EventJobSuccess/EventJobFailure; pkg/pipeline emits
// EventWorkerCrashed. Observers are purely for monitoring — the task result
// itself always flows through the pipeline's ResultSink, never through here.
package observer
