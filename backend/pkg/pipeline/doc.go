// Package pipeline is the producer/consumer boundary around the engine:
// Submit enqueues a Task onto a bounded input queue, a worker goroutine
// multiplexes many concurrent task executions against the right graph's
// engine.Engine, and a result processor drains completed results to a
// user-supplied ResultSink.
//
// Two result-delivery modes are supported. ModeParallel runs the sink in
// its own goroutine, consuming the result queue as results arrive;
// because the sink then runs concurrently with task execution, New
// pre-flight-checks it via an optional Serializable method before
// starting. ModeSerial runs the sink inline inside MarkInputCompleted,
// for sinks that capture state unsafe to share across goroutines.
package pipeline
