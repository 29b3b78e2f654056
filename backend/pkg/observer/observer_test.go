package observer

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingObserver) OnEvent(ctx context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingObserver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestManagerNotifiesAllObservers(t *testing.T) {
	m := NewManager()
	a := &recordingObserver{}
	b := &recordingObserver{}
	m.Register(a)
	m.Register(b)

	m.Notify(context.Background(), Event{Type: EventTaskStart, TaskID: "t1"})

	deadline := time.After(time.Second)
	for a.count() == 0 || b.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("observers were not notified in time")
		default:
		}
	}
}

type panickingObserver struct{}

func (panickingObserver) OnEvent(ctx context.Context, event Event) {
	panic("boom")
}

func TestManagerRecoversPanickingObserver(t *testing.T) {
	m := NewManager()
	m.Register(panickingObserver{})
	ok := &recordingObserver{}
	m.Register(ok)

	m.Notify(context.Background(), Event{Type: EventTaskStart})

	deadline := time.After(time.Second)
	for ok.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("panicking observer should not have prevented other observers from running")
		default:
		}
	}
}

func TestHasObserversAndCount(t *testing.T) {
	m := NewManager()
	if m.HasObservers() {
		t.Fatal("expected no observers initially")
	}
	m.Register(&recordingObserver{})
	if !m.HasObservers() || m.Count() != 1 {
		t.Errorf("expected 1 observer, got %d", m.Count())
	}
}
