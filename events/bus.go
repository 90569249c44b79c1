package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Handler reacts to one event. Handlers run on their own goroutine.
type Handler func(ctx context.Context, event Event)

// Bus fans events out to subscribers asynchronously.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	inflight sync.WaitGroup
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[EventType][]Handler)}
}

// Subscribe registers handler for eventType.
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.mu.Unlock()
}

// Emit starts every handler subscribed to the event's type. A panicking handler is
// logged and does not affect the others.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type()]...)
	b.mu.RUnlock()

	b.inflight.Add(len(handlers))
	for _, handler := range handlers {
		go b.run(ctx, handler, event)
	}
}

func (b *Bus) run(ctx context.Context, handler Handler, event Event) {
	defer b.inflight.Done()
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"event_type": event.Type(),
				"panic":      r,
			}).Error("Event handler panicked")
		}
	}()
	handler(ctx, event)
}

// Wait blocks until every handler started so far has returned.
func (b *Bus) Wait() {
	b.inflight.Wait()
}

// Publish emits with a background context, so the bus can stand in for a publisher
// outside a unit of work.
func (b *Bus) Publish(event Event) error {
	b.Emit(context.Background(), event)
	return nil
}

// TransactionalBus holds events raised inside a unit of work until it commits.
type TransactionalBus struct {
	bus     *Bus
	pending []Event
}

func NewTransactionalBus(bus *Bus) *TransactionalBus {
	return &TransactionalBus{bus: bus}
}

func (b *TransactionalBus) Publish(e Event) error {
	b.pending = append(b.pending, e)
	return nil
}

// Flush emits the held events after a commit. The request context may already be done,
// so handlers get a background one.
func (b *TransactionalBus) Flush(_ context.Context) error {
	for _, e := range b.pending {
		b.bus.Emit(context.Background(), e)
	}
	b.pending = nil
	return nil
}

// Discard drops held events after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
