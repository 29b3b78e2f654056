package loader

import "github.com/taskmesh/engine/backend/pkg/job"

// JobFactory turns a {type, properties} record from a Document into a
// live job.Job. Concrete job catalogs implement this to bridge
// declarative config into the engine's Job interface.
type JobFactory interface {
	New(jobType string, properties map[string]any) (job.Job, error)
}

// FactoryFunc adapts a plain function into a JobFactory.
type FactoryFunc func(jobType string, properties map[string]any) (job.Job, error)

// New implements JobFactory.
func (f FactoryFunc) New(jobType string, properties map[string]any) (job.Job, error) {
	return f(jobType, properties)
}
