// Package events publishes domain mutation events to a sink without ever
// blocking the caller. Consumers are advisory; losing an event under
// pressure is preferred over stalling a store mutation.
package events

import (
	"log/slog"
	"sync"
	"time"
)

// Event is one domain occurrence, such as an edge upsert or a lens
// creation.
type Event struct {
	Type    string
	Payload map[string]any
	Ts      time.Time
}

// Sink consumes events.
type Sink interface {
	Dispatch(event *Event)
}

// LogSink writes events to the structured log.
type LogSink struct{}

// Dispatch implements Sink.
func (LogSink) Dispatch(event *Event) {
	args := []any{"type", event.Type, "ts", event.Ts.Format(time.RFC3339)}
	for k, v := range event.Payload {
		args = append(args, k, v)
	}
	slog.Info("domain event", args...)
}

// AsyncSink decouples publishers from a downstream sink through a bounded
// queue. Publish never blocks: when the queue is full the event is
// dropped and counted.
type AsyncSink struct {
	ch      chan *Event
	next    Sink
	wg      sync.WaitGroup
	mu      sync.Mutex
	dropped int64
	closed  bool
}

// NewAsyncSink starts an async sink draining into next.
func NewAsyncSink(next Sink, queueSize int) *AsyncSink {
	if queueSize <= 0 {
		queueSize = 256
	}
	s := &AsyncSink{
		ch:   make(chan *Event, queueSize),
		next: next,
	}
	s.wg.Add(1)
	go s.drain()
	return s
}

func (s *AsyncSink) drain() {
	defer s.wg.Done()
	for event := range s.ch {
		s.next.Dispatch(event)
	}
}

// Publish enqueues an event, stamping Ts when unset.
func (s *AsyncSink) Publish(eventType string, payload map[string]any) {
	event := &Event{Type: eventType, Payload: payload, Ts: time.Now()}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- event:
	default:
		s.dropped++
	}
}

// Dropped returns how many events were discarded due to backpressure.
func (s *AsyncSink) Dropped() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Close drains outstanding events and stops the sink. Publish becomes a
// no-op afterwards.
func (s *AsyncSink) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.ch)
	s.mu.Unlock()
	s.wg.Wait()
}
