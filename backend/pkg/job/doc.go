// Package job is intentionally small: one interface (Job), one embeddable
// wiring struct (Base), and three concrete leaf kinds (FuncJob for tests,
// ValueJob for values lifted by dsl.Wrap, WrappingJob for adapting plain
// functions via an explicit ParamSchema).
// Job instances are shared across every concurrently in-flight task, so
// nothing here may hold per-task state. Traced adds an optional
// observer-event-emitting wrapper for jobs run outside an Engine's own
// instrumented lifecycle.
package job
