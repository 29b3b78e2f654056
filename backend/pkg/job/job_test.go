package job

import (
	"context"
	"reflect"
	"testing"
)

func TestFuncJobRun(t *testing.T) {
	j := NewFunc("A", func(ctx context.Context, inputs Inputs) (Outputs, error) {
		return Outputs{"out": 1}, nil
	})
	out, err := j.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["out"] != 1 {
		t.Errorf("expected out=1, got %v", out["out"])
	}
	if j.Name() != "A" {
		t.Errorf("expected name A, got %s", j.Name())
	}
}

func TestValueJobCanonicalString(t *testing.T) {
	j := NewValue("leaf", 42)
	out, err := j.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["value"] != "42" {
		t.Errorf("expected canonical string \"42\", got %v", out["value"])
	}
}

func TestWrappingJobSchemaBinding(t *testing.T) {
	schema := ParamSchema{
		{Name: "a", Kind: reflect.Int, Required: true},
		{Name: "b", Kind: reflect.Int, Required: false, Default: 1},
	}
	w := NewWrapping("add", schema, func(args map[string]any) (map[string]any, error) {
		return map[string]any{"sum": args["a"].(int) + args["b"].(int)}, nil
	})

	out, err := w.Run(context.Background(), Inputs{
		"__task__": {"a": 10},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["sum"] != 11 {
		t.Errorf("expected sum 11, got %v", out["sum"])
	}
}

func TestWrappingJobMissingRequired(t *testing.T) {
	schema := ParamSchema{{Name: "a", Kind: reflect.Int, Required: true}}
	w := NewWrapping("needs-a", schema, func(args map[string]any) (map[string]any, error) {
		return nil, nil
	})

	_, err := w.Run(context.Background(), Inputs{"__task__": {}})
	var violation *ErrSchemaViolation
	if !errorsAs(err, &violation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func errorsAs(err error, target **ErrSchemaViolation) bool {
	v, ok := err.(*ErrSchemaViolation)
	if ok {
		*target = v
	}
	return ok
}

func TestSetWiring(t *testing.T) {
	a := NewFunc("A", nil)
	b := NewFunc("B", nil)
	a.SetWiring([]string{"X"}, []Job{b})

	if !reflect.DeepEqual(a.ExpectedInputs(), []string{"X"}) {
		t.Errorf("expected inputs [X], got %v", a.ExpectedInputs())
	}
	if len(a.NextJobs()) != 1 || a.NextJobs()[0].Name() != "B" {
		t.Errorf("expected next job B, got %v", a.NextJobs())
	}
}
