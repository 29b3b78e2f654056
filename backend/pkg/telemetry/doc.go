// Package telemetry provides OpenTelemetry integration for distributed
// tracing and Prometheus metrics. Provider exposes a tracer and a meter
// and records task- and job-level counters/histograms; TelemetryObserver
// bridges pkg/observer events into both without coupling pkg/engine or
// pkg/pipeline to OpenTelemetry directly.
package telemetry
