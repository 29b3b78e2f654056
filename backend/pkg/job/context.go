package job

import "context"

type taskIDKey struct{}

// WithTaskID attaches taskID to ctx so a Traced job can correlate its
// observer events without Run itself taking a taskID parameter.
func WithTaskID(ctx context.Context, taskID string) context.Context {
	return context.WithValue(ctx, taskIDKey{}, taskID)
}

// TaskIDFromContext retrieves a taskID attached by WithTaskID.
func TaskIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(taskIDKey{}).(string)
	return v, ok
}
