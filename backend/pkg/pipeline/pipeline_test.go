package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/taskmesh/engine/backend/pkg/builder"
	"github.com/taskmesh/engine/backend/pkg/config"
	"github.com/taskmesh/engine/backend/pkg/engine"
	"github.com/taskmesh/engine/backend/pkg/graph"
	"github.com/taskmesh/engine/backend/pkg/job"
)

type collectingSink struct {
	mu      sync.Mutex
	results []map[string]any
}

func (s *collectingSink) Handle(result map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

func (s *collectingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

type unserializableSink struct {
	collectingSink
}

func (s *unserializableSink) Serializable() error {
	return errors.New("captured a non-shareable file handle")
}

func singleJobEngine(t *testing.T) *engine.Engine {
	t.Helper()
	g := graph.New()
	g.EnsureNode("A")
	a := job.NewFunc("A", func(ctx context.Context, inputs job.Inputs) (job.Outputs, error) {
		return job.Outputs{"k": "A"}, nil
	})
	res, err := builder.Build(g, map[string]job.Job{"A": a})
	if err != nil {
		t.Fatalf("builder.Build: %v", err)
	}
	return engine.New(res, "g1")
}

func TestSubmitAndDrainParallel(t *testing.T) {
	sink := &collectingSink{}
	p, err := New(config.Testing(), map[string]*engine.Engine{"g1": singleJobEngine(t)}, sink, ModeParallel)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := p.Submit(&Task{Payload: map[string]any{}}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	if err := p.MarkInputCompleted(); err != nil {
		t.Fatalf("MarkInputCompleted: %v", err)
	}

	if sink.count() != 5 {
		t.Errorf("expected 5 results, got %d", sink.count())
	}
}

func TestSubmitAndDrainSerial(t *testing.T) {
	sink := &collectingSink{}
	p, err := New(config.Testing(), map[string]*engine.Engine{"g1": singleJobEngine(t)}, sink, ModeSerial)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := p.Submit(&Task{Payload: map[string]any{}}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	if err := p.MarkInputCompleted(); err != nil {
		t.Fatalf("MarkInputCompleted: %v", err)
	}

	if sink.count() != 3 {
		t.Errorf("expected 3 results, got %d", sink.count())
	}
}

// TestSubmitAndDrainSerialExceedsResultQueue exercises the case where the
// number of completed results outruns Config.ResultQueueSize: the serial
// drain must run concurrently with the worker's in-flight tasks, or every
// runTask blocks sending to a full resultCh and MarkInputCompleted hangs.
func TestSubmitAndDrainSerialExceedsResultQueue(t *testing.T) {
	sink := &collectingSink{}
	cfg := config.Testing()
	p, err := New(cfg, map[string]*engine.Engine{"g1": singleJobEngine(t)}, sink, ModeSerial)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	total := cfg.ResultQueueSize * 3
	for i := 0; i < total; i++ {
		if err := p.Submit(&Task{Payload: map[string]any{}}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	done := make(chan error, 1)
	go func() { done <- p.MarkInputCompleted() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("MarkInputCompleted: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("MarkInputCompleted deadlocked draining %d results through a queue of size %d", total, cfg.ResultQueueSize)
	}

	if sink.count() != total {
		t.Errorf("expected %d results, got %d", total, sink.count())
	}
}

func TestSubmitRejectsNilTask(t *testing.T) {
	sink := &collectingSink{}
	p, err := New(config.Testing(), map[string]*engine.Engine{"g1": singleJobEngine(t)}, sink, ModeSerial)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Cleanup()

	if err := p.Submit(nil); !errors.Is(err, ErrInvalidTask) {
		t.Errorf("expected ErrInvalidTask, got %v", err)
	}
}

func TestSubmitUnknownGraph(t *testing.T) {
	sink := &collectingSink{}
	p, err := New(config.Testing(), map[string]*engine.Engine{"g1": singleJobEngine(t)}, sink, ModeSerial)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Cleanup()

	err = p.Submit(&Task{Payload: map[string]any{}}, "no-such-graph")
	if !errors.Is(err, ErrUnknownGraph) {
		t.Errorf("expected ErrUnknownGraph, got %v", err)
	}
}

func TestSubmitMissingGraphNameWithMultipleGraphs(t *testing.T) {
	sink := &collectingSink{}
	engines := map[string]*engine.Engine{
		"g1": singleJobEngine(t),
		"g2": singleJobEngine(t),
	}
	p, err := New(config.Testing(), engines, sink, ModeSerial)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Cleanup()

	err = p.Submit(&Task{Payload: map[string]any{}})
	if !errors.Is(err, ErrMissingGraphName) {
		t.Errorf("expected ErrMissingGraphName, got %v", err)
	}
}

func TestSerializationGating(t *testing.T) {
	badSink := &unserializableSink{}
	_, err := New(config.Testing(), map[string]*engine.Engine{"g1": singleJobEngine(t)}, badSink, ModeParallel)
	if !errors.Is(err, ErrNotSerializable) {
		t.Fatalf("expected ErrNotSerializable in parallel mode, got %v", err)
	}

	p, err := New(config.Testing(), map[string]*engine.Engine{"g1": singleJobEngine(t)}, badSink, ModeSerial)
	if err != nil {
		t.Fatalf("expected serial mode to accept the sink, got %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := p.Submit(&Task{Payload: map[string]any{}}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	if err := p.MarkInputCompleted(); err != nil {
		t.Fatalf("MarkInputCompleted: %v", err)
	}
	if badSink.count() != 3 {
		t.Errorf("expected 3 results drained through serial sink, got %d", badSink.count())
	}
}

func TestCleanupIsIdempotent(t *testing.T) {
	sink := &collectingSink{}
	p, err := New(config.Testing(), map[string]*engine.Engine{"g1": singleJobEngine(t)}, sink, ModeParallel)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := p.Cleanup(); err != nil {
		t.Errorf("Cleanup: %v", err)
	}
	if err := p.Cleanup(); err != nil {
		t.Errorf("second Cleanup: %v", err)
	}
}
