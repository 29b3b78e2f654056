package job

import (
	"fmt"
	"reflect"
)

// Param describes one named argument a wrapped callable expects. It replaces
// the reflective signature introspection the original Python WrappingJob
// performed at call time with a schema declared once at construction.
type Param struct {
	Name     string
	Kind     reflect.Kind
	Required bool
	Default  any
}

// ParamSchema is an ordered list of parameter descriptors.
type ParamSchema []Param

// ErrSchemaViolation reports that inputs failed to satisfy a ParamSchema.
type ErrSchemaViolation struct {
	Job    string
	Param  string
	Reason string
}

func (e *ErrSchemaViolation) Error() string {
	return fmt.Sprintf("job %s: parameter %q: %s", e.Job, e.Param, e.Reason)
}

// Bind resolves values for every parameter in the schema out of a flattened
// argument map (typically the caller's own merge of a job's Inputs), applying
// defaults and checking required-ness and kind. It does not attempt numeric
// widening beyond what reflect.Value.Convert already supports.
func (s ParamSchema) Bind(args map[string]any) (map[string]any, error) {
	bound := make(map[string]any, len(s))
	for _, p := range s {
		v, ok := args[p.Name]
		if !ok {
			if p.Required {
				return nil, &ErrSchemaViolation{Param: p.Name, Reason: "missing required argument"}
			}
			bound[p.Name] = p.Default
			continue
		}
		if p.Kind != reflect.Invalid {
			rv := reflect.ValueOf(v)
			if rv.Kind() != p.Kind {
				if !rv.CanConvert(reflect.TypeOf(reflect.Zero(reflectKindType(p.Kind)).Interface())) {
					return nil, &ErrSchemaViolation{Param: p.Name, Reason: fmt.Sprintf("expected kind %s, got %s", p.Kind, rv.Kind())}
				}
				v = rv.Convert(reflectKindType(p.Kind)).Interface()
			}
		}
		bound[p.Name] = v
	}
	return bound, nil
}

// reflectKindType returns a representative reflect.Type for a basic Kind,
// sufficient for Convert-based coercion of the scalar kinds ParamSchema uses.
func reflectKindType(k reflect.Kind) reflect.Type {
	switch k {
	case reflect.String:
		return reflect.TypeOf("")
	case reflect.Int:
		return reflect.TypeOf(int(0))
	case reflect.Float64:
		return reflect.TypeOf(float64(0))
	case reflect.Bool:
		return reflect.TypeOf(false)
	default:
		return reflect.TypeOf((*any)(nil)).Elem()
	}
}
