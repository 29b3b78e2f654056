// Package logging provides structured logging for the engine.
//
// Logger wraps slog.Logger with context helpers (WithGraph, WithTaskID,
// WithJobName) for tagging entries as execution proceeds, and the usual
// leveled Info/Warn/Error/Debug calls plus their f-suffixed formatted
// variants. JSON output is the default; Pretty switches to a text handler
// for local development.
//
// A Logger can be attached to a context with WithContext and recovered
// with FromContext, which falls back to a default logger when none is
// present so callers never need a nil check.
package logging
