package builder

import (
	"context"
	"errors"
	"testing"

	"github.com/taskmesh/engine/backend/pkg/dsl"
	"github.com/taskmesh/engine/backend/pkg/graph"
	"github.com/taskmesh/engine/backend/pkg/job"
)

func noop(name string) job.Job {
	return job.NewFunc(name, func(ctx context.Context, inputs job.Inputs) (job.Outputs, error) {
		return job.Outputs{"k": name}, nil
	})
}

func TestBuildDiamond(t *testing.T) {
	a, b, c, d := noop("A"), noop("B"), noop("C"), noop("D")
	root := dsl.Seq(a, dsl.Par(b, c), d)

	g, leaves, err := dsl.Compile(root)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	result, err := Build(g, leaves)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.Head.Name() != "A" {
		t.Fatalf("expected head A, got %s", result.Head.Name())
	}

	dJob := result.Jobs["D"]
	expected := dJob.ExpectedInputs()
	if len(expected) != 2 || expected[0] != "B" || expected[1] != "C" {
		t.Errorf("expected D's inputs [B C], got %v", expected)
	}

	aJob := result.Jobs["A"]
	next := aJob.NextJobs()
	if len(next) != 2 || next[0].Name() != "B" || next[1].Name() != "C" {
		t.Errorf("expected A's next jobs [B C], got %v", next)
	}
}

func TestBuildNoSingleHead(t *testing.T) {
	g := graph.New()
	g.EnsureNode("A")
	g.EnsureNode("B")
	registry := map[string]job.Job{"A": noop("A"), "B": noop("B")}

	_, err := Build(g, registry)
	if !errors.Is(err, graph.ErrNoSingleHead) {
		t.Fatalf("expected ErrNoSingleHead, got %v", err)
	}
}

func TestBuildUnknownJob(t *testing.T) {
	g := graph.New()
	g.AddEdge("A", "B")
	registry := map[string]job.Job{"A": noop("A")}

	_, err := Build(g, registry)
	if !errors.Is(err, ErrUnknownJob) {
		t.Fatalf("expected ErrUnknownJob, got %v", err)
	}
}
