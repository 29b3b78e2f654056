package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/taskmesh/engine/backend/pkg/config"
	"github.com/taskmesh/engine/backend/pkg/engine"
	"github.com/taskmesh/engine/backend/pkg/logging"
	"github.com/taskmesh/engine/backend/pkg/observer"
)

// Task is one unit of work submitted to a Pipeline. Payload is treated as
// immutable once submitted; ID is generated if left empty.
type Task struct {
	ID      string
	Payload map[string]any
	Graph   string
}

// ResultSink receives exactly one Handle call per submitted task that
// completes without error.
type ResultSink interface {
	Handle(result map[string]any) error
}

// Serializable is an optional interface a ResultSink may implement to
// assert it is safe to invoke from a goroutine other than the one that
// constructed it. New calls it once, synchronously, before starting a
// parallel-mode pipeline.
type Serializable interface {
	Serializable() error
}

// Mode selects how completed results are delivered to the ResultSink.
type Mode int

const (
	// ModeParallel runs the result processor on its own goroutine.
	ModeParallel Mode = iota
	// ModeSerial runs the result processor inline inside MarkInputCompleted.
	ModeSerial
)

// Option configures a Pipeline at construction.
type Option func(*Pipeline)

// WithObserverManager wires an observer.Manager that receives
// EventWorkerCrashed notifications.
func WithObserverManager(m *observer.Manager) Option {
	return func(p *Pipeline) { p.obsMgr = m }
}

// WithLogger attaches a structured logger for dropped-task and sink-error
// reporting.
func WithLogger(l *logging.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// Stats summarizes a Pipeline's runtime state for diagnostics.
type Stats struct {
	TasksStarted int64
	Graphs       []string
}

// Pipeline is the bounded-queue producer/consumer boundary between task
// submission and the execution engine(s) backing each registered graph.
type Pipeline struct {
	cfg     *config.Config
	mode    Mode
	sink    ResultSink
	engines map[string]*engine.Engine
	single  string

	obsMgr *observer.Manager
	logger *logging.Logger

	inputCh  chan *Task
	resultCh chan map[string]any
	sem      chan struct{}

	workerDone chan struct{}
	resultDone chan struct{}

	inFlight  sync.WaitGroup
	workerGen atomic.Int64

	markOnce sync.Once
	stopOnce sync.Once

	crashed  atomic.Bool
	mu       sync.Mutex
	crashErr error
}

// New constructs a Pipeline backed by engines, one per graph name, and
// starts its worker (and, in ModeParallel, its result processor)
// immediately. A nil cfg uses config.Default(). In ModeParallel, sink is
// pre-flight checked via Serializable if it implements that interface.
func New(cfg *config.Config, engines map[string]*engine.Engine, sink ResultSink, mode Mode, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(engines) == 0 {
		return nil, fmt.Errorf("pipeline: at least one graph engine is required")
	}
	if mode == ModeParallel {
		if s, ok := sink.(Serializable); ok {
			if err := s.Serializable(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrNotSerializable, err)
			}
		}
	}

	p := &Pipeline{
		cfg:        cfg,
		mode:       mode,
		sink:       sink,
		engines:    engines,
		inputCh:    make(chan *Task, cfg.InputQueueSize),
		resultCh:   make(chan map[string]any, cfg.ResultQueueSize),
		workerDone: make(chan struct{}),
		resultDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if cfg.WorkerConcurrency > 0 {
		p.sem = make(chan struct{}, cfg.WorkerConcurrency)
	}
	if len(engines) == 1 {
		for name := range engines {
			p.single = name
		}
	}

	go p.runWorker()
	if mode == ModeParallel {
		go p.runResultProcessor()
	} else {
		close(p.resultDone)
	}

	return p, nil
}

// Submit enqueues task onto the bounded input queue, blocking if it is
// full. graphName, if given, overrides task.Graph and the task payload's
// "graph" field when selecting which registered graph runs the task.
func (p *Pipeline) Submit(task *Task, graphName ...string) error {
	if task == nil {
		return ErrInvalidTask
	}
	if p.crashed.Load() {
		return p.crashedErr()
	}

	resolved := task.Graph
	if len(graphName) > 0 && graphName[0] != "" {
		resolved = graphName[0]
	}
	if resolved == "" {
		if v, ok := task.Payload["graph"].(string); ok {
			resolved = v
		}
	}
	if resolved == "" {
		if p.single == "" {
			return ErrMissingGraphName
		}
		resolved = p.single
	}
	if _, ok := p.engines[resolved]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownGraph, resolved)
	}

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.Graph = resolved

	p.inputCh <- task
	return nil
}

// MarkInputCompleted places a completion sentinel on the input queue and
// blocks until every in-flight task has drained and the result processor
// (if any) has returned. In serial mode the drain must run concurrently
// with (not after) the worker's in-flight tasks: runTask blocks sending a
// completed result once resultCh's bound is reached, so waiting on
// workerDone first would deadlock against a full result queue.
// drainSerial ranges resultCh until the worker closes it, which happens
// only once every task has finished, so draining first still waits out
// the worker; it just does so without blocking runTask's sends.
func (p *Pipeline) MarkInputCompleted() error {
	p.markOnce.Do(func() { p.inputCh <- nil })

	if p.mode == ModeSerial {
		p.drainSerial()
	}
	<-p.workerDone
	if p.mode != ModeSerial {
		<-p.resultDone
	}

	if p.crashed.Load() {
		return p.crashedErr()
	}
	return nil
}

// Cleanup idempotently stops the worker and result processor by placing the
// completion sentinel (if MarkInputCompleted has not already) and waiting
// for them to exit. If they have not exited within
// Config.ShutdownGracePeriod, Cleanup stops waiting and returns
// ErrWorkerCrashed; goroutines still running are not stopped. In serial
// mode the drain is started concurrently with waiting for the worker,
// since runTask blocks sending a completed result once the bounded
// resultCh fills; waiting for the worker to finish before draining would
// deadlock against a full result queue.
func (p *Pipeline) Cleanup() error {
	var shutdownErr error
	p.stopOnce.Do(func() {
		p.markOnce.Do(func() { p.inputCh <- nil })

		if p.mode == ModeSerial {
			drained := make(chan struct{})
			go func() {
				p.drainSerial()
				close(drained)
			}()

			if !p.waitOrTimeout(drained, p.cfg.ShutdownGracePeriod, p.cfg.ResultPollInterval) {
				shutdownErr = ErrWorkerCrashed
			}
			if !p.waitOrTimeout(p.workerDone, p.cfg.ShutdownGracePeriod, p.cfg.ResultPollInterval) && shutdownErr == nil {
				shutdownErr = ErrWorkerCrashed
			}
			return
		}

		if !p.waitOrTimeout(p.workerDone, p.cfg.ShutdownGracePeriod, p.cfg.ResultPollInterval) {
			shutdownErr = ErrWorkerCrashed
		}
		if !p.waitOrTimeout(p.resultDone, p.cfg.ShutdownGracePeriod, p.cfg.ResultPollInterval) && shutdownErr == nil {
			shutdownErr = ErrWorkerCrashed
		}
	})
	return shutdownErr
}

// Stats reports the pipeline's runtime diagnostics.
func (p *Pipeline) Stats() Stats {
	names := make([]string, 0, len(p.engines))
	for name := range p.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return Stats{TasksStarted: p.workerGen.Load(), Graphs: names}
}

func (p *Pipeline) runWorker() {
	defer close(p.workerDone)

	for t := range p.inputCh {
		if t == nil {
			break
		}
		p.workerGen.Add(1)
		p.inFlight.Add(1)
		go p.runTask(t)
	}

	p.inFlight.Wait()
	close(p.resultCh)
}

func (p *Pipeline) runTask(t *Task) {
	defer p.inFlight.Done()
	defer func() {
		if r := recover(); r != nil {
			p.reportCrash(t, fmt.Errorf("panic executing task %s: %v", t.ID, r))
		}
	}()

	if p.sem != nil {
		p.sem <- struct{}{}
		defer func() { <-p.sem }()
	}

	eng := p.engines[t.Graph]
	result, err := eng.Execute(context.Background(), t.ID, t.Payload)
	if err != nil {
		if p.logger != nil {
			p.logger.WithTaskID(t.ID).WithGraph(t.Graph).WithError(err).Warn("task execution failed, no result emitted")
		}
		return
	}
	p.resultCh <- result
}

func (p *Pipeline) runResultProcessor() {
	defer close(p.resultDone)
	for result := range p.resultCh {
		if err := p.sink.Handle(result); err != nil && p.logger != nil {
			p.logger.WithError(err).Warn("result sink returned an error")
		}
	}
}

func (p *Pipeline) drainSerial() {
	for result := range p.resultCh {
		if err := p.sink.Handle(result); err != nil && p.logger != nil {
			p.logger.WithError(err).Warn("result sink returned an error")
		}
	}
}

func (p *Pipeline) reportCrash(t *Task, err error) {
	p.mu.Lock()
	p.crashErr = err
	p.mu.Unlock()
	p.crashed.Store(true)

	if p.obsMgr != nil {
		p.obsMgr.Notify(context.Background(), observer.Event{
			Type:      observer.EventWorkerCrashed,
			Status:    observer.StatusFailure,
			Timestamp: time.Now(),
			TaskID:    t.ID,
			Graph:     t.Graph,
			Error:     err,
		})
	}
}

func (p *Pipeline) crashedErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fmt.Errorf("%w: %v", ErrWorkerCrashed, p.crashErr)
}

// waitOrTimeout blocks until done closes or timeout elapses, polling at
// the given interval so a bounded-wait caller can still observe
// elapsed-time without busy-spinning.
func (p *Pipeline) waitOrTimeout(done <-chan struct{}, timeout, poll time.Duration) bool {
	if poll <= 0 {
		poll = 10 * time.Millisecond
	}
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return true
		case <-ticker.C:
			if time.Now().After(deadline) {
				select {
				case <-done:
					return true
				default:
					return false
				}
			}
		}
	}
}
