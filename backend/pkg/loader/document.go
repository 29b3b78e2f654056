package loader

// NodeDef is one job's position in a graph: its ordered successors.
type NodeDef struct {
	Next []string `yaml:"next"`
}

// JobSpec names a job's type and the properties passed to the JobFactory
// that instantiates it.
type JobSpec struct {
	Type       string         `yaml:"type"`
	Properties map[string]any `yaml:"properties"`
}

// Document is the parsed shape of a graph/job/parameter config file:
//
//	graphs:
//	  pricing:
//	    fetch: {next: [apply_discount]}
//	    apply_discount: {next: []}
//	jobs:
//	  fetch: {type: http_get, properties: {url: "..."}}
//	  apply_discount: {type: percent_off, properties: {percent: 10}}
//	parameters:
//	  pricing:
//	    black_friday:
//	      apply_discount: {percent: 40}
type Document struct {
	Graphs     map[string]map[string]NodeDef                  `yaml:"graphs"`
	Jobs       map[string]JobSpec                              `yaml:"jobs"`
	Parameters map[string]map[string]map[string]map[string]any `yaml:"parameters"`
}
