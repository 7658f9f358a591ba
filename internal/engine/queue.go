package engine

import (
	"sync"

	"github.com/pageforge/flourish/internal/input"
)

// EventType distinguishes host event kinds.
type EventType int

const (
	// EventReady is the document-ready signal that starts setup.
	EventReady EventType = iota + 1
	// EventScroll carries a new scroll position (page px).
	EventScroll
	// EventPointer carries a pointer/touch event.
	EventPointer
	// EventFrame advances logical time by Dt seconds.
	EventFrame
)

// Event wraps one host event for the queue.
type Event struct {
	Type    EventType
	Pos     float64     // EventScroll
	Pointer input.Event // EventPointer
	Dt      float64     // EventFrame
}

// Ready returns a document-ready event.
func Ready() Event { return Event{Type: EventReady} }

// ScrollTo returns a scroll event to the given position.
func ScrollTo(pos float64) Event { return Event{Type: EventScroll, Pos: pos} }

// Pointer returns a pointer event.
func Pointer(ev input.Event) Event { return Event{Type: EventPointer, Pointer: ev} }

// Frame returns a frame event advancing dt seconds.
func Frame(dt float64) Event { return Event{Type: EventFrame, Dt: dt} }

// eventQueue is a thread-safe FIFO queue for host events.
//
// Thread-safety exists for external feeders (a host adapter, the CLI
// script player) while the engine's Run loop dequeues. A channel signals
// availability so Run can wait with context awareness.
type eventQueue struct {
	mu     sync.Mutex
	events []Event
	closed bool
	signal chan struct{} // buffered size 1; coalesces signals
}

func newEventQueue() *eventQueue {
	return &eventQueue{
		events: make([]Event, 0, 64),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds an event to the back of the queue.
// Returns false if the queue is closed.
func (q *eventQueue) Enqueue(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.events = append(q.events, e)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue attempts to dequeue without blocking.
func (q *eventQueue) TryDequeue() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return Event{}, false
	}
	e := q.events[0]

	// Nil the slot so the Event's element pointers can be collected.
	q.events[0] = Event{}
	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}
	return e, true
}

// Wait returns a channel that signals when events may be available.
func (q *eventQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *eventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Close signals that no more events will be enqueued.
func (q *eventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
