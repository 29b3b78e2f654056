package loader

import "errors"

// ConfigError taxonomy: errors raised while parsing or resolving a
// loader.Document, before any graph is ever executed.
var (
	// ErrBadYAML wraps a YAML syntax error from the underlying document.
	ErrBadYAML = errors.New("loader: malformed yaml document")
	// ErrMissingJob is returned when a Next entry names a job the graph
	// does not define, or a graph's job has no corresponding entry in Jobs.
	ErrMissingJob = errors.New("loader: job referenced but not defined")
	// ErrMissingParameter is returned when a parameter group names a job
	// the graph does not contain.
	ErrMissingParameter = errors.New("loader: parameter group references unknown job")
	// ErrDuplicateName is returned when parameter-group qualification
	// produces two graphs with the same concrete name.
	ErrDuplicateName = errors.New("loader: duplicate graph name after parameter expansion")
)
