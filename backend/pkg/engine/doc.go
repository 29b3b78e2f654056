// Package engine implements the fan-in/fan-out execution engine: given a
// wired job graph (builder.Result), it runs an individual task to
// completion, firing each job exactly once its declared predecessors have
// all delivered an output, and merges sink outputs into the task's final
// result.
//
// Per-task state lives in an Execution Context keyed by task id; it is
// created on task arrival and torn down once the result is emitted, so
// concurrently in-flight tasks sharing the same graph never observe each
// other's inputs. Job instances themselves are treated as stateless and
// re-entrant.
//
// The engine notifies an observer.Manager around every job firing and
// task completion; pkg/telemetry subscribes to the same events to record
// metrics and spans. Neither concern is required to run the engine.
package engine
