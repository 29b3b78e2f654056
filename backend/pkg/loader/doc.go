// Package loader is the reference external-collaborator implementation of
// the engine's config surface: it parses a YAML document describing named
// graphs, named jobs, and optional per-graph parameter groups, resolves
// job names case-insensitively, and asks a JobFactory to turn each
// {type, properties} record into a live job.Job before handing the wired
// result to pkg/builder.
//
// A parameter group fans one graph definition out into multiple concrete
// graphs, one per group, each job renamed to
// "<graph>$$<param_group>$$<job>$$" so the same job type can be
// instantiated several times with different property overrides without
// name collisions.
package loader
