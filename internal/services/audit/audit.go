// Package audit records what happened to every feed item and delivery so the
// history can be queried outside the bot. Sinks never fail the caller
package audit

import (
	"context"
	"sync"
	"time"
)

// Kinds of events
const (
	KindItem     = "item"
	KindDelivery = "delivery"
)

// Event is one audit row
type Event struct {
	At         time.Time
	Kind       string
	ItemID     string
	ThreadID   string
	Owner      string
	ReminderID int64
	State      string
	Outcome    string
}

// Sink receives batches of events. Implementations log their own failures
type Sink interface {
	Record(ctx context.Context, events []Event)
}

// Noop drops everything
type Noop struct{}

// Record implements Sink
func (Noop) Record(context.Context, []Event) {}

// Batch buffers events for one cycle and hands them to a Sink on Flush
type Batch struct {
	mu     sync.Mutex
	sink   Sink
	events []Event
	now    func() time.Time
}

// NewBatch returns a Batch writing to sink; a nil sink drops everything
func NewBatch(sink Sink) *Batch {
	if sink == nil {
		sink = Noop{}
	}
	return &Batch{sink: sink, now: time.Now}
}

// Add stamps e if needed and buffers it
func (b *Batch) Add(e Event) {
	if e.At.IsZero() {
		e.At = b.now()
	}
	b.mu.Lock()
	b.events = append(b.events, e)
	b.mu.Unlock()
}

// Len reports buffered events
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// Flush hands the buffered events to the sink and clears the buffer
func (b *Batch) Flush(ctx context.Context) {
	b.mu.Lock()
	evs := b.events
	b.events = nil
	b.mu.Unlock()
	if len(evs) > 0 {
		b.sink.Record(ctx, evs)
	}
}
