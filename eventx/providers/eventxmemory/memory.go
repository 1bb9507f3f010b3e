package eventxmemory

import (
	"context"
	"sync"

	"github.com/Conversia-AI/craftable-serialx/eventx"
	"github.com/Conversia-AI/craftable-serialx/serialx"
	"go.uber.org/zap"
)

// EventHandler receives published events
type EventHandler func(ctx context.Context, event eventx.Event) error

// MemoryBus keeps published events in memory and calls subscribed handlers
type MemoryBus struct {
	handlers map[string][]EventHandler
	events   []eventx.Event
	closed   bool
	mutex    sync.RWMutex
}

var _ eventx.Publisher = (*MemoryBus)(nil)

// New creates a new in-memory event bus
func New() *MemoryBus {
	return &MemoryBus{handlers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for an event type. "*" matches every type.
func (mb *MemoryBus) Subscribe(eventType string, handler EventHandler) {
	mb.mutex.Lock()
	defer mb.mutex.Unlock()
	mb.handlers[eventType] = append(mb.handlers[eventType], handler)
}

// Publish records the events and runs their handlers synchronously. Handler
// errors are logged; the first one is returned after all events are handled.
func (mb *MemoryBus) Publish(ctx context.Context, events ...eventx.Event) error {
	mb.mutex.Lock()
	if mb.closed {
		mb.mutex.Unlock()
		return eventx.ErrorRegistry.New(eventx.ErrPublisherClosed)
	}
	for _, e := range events {
		if err := e.Validate(); err != nil {
			mb.mutex.Unlock()
			return err
		}
	}
	mb.events = append(mb.events, events...)
	mb.mutex.Unlock()

	var firstErr error
	for _, e := range events {
		for _, h := range mb.handlersFor(e.Type) {
			if err := h(ctx, e); err != nil {
				serialx.Logger().Warn("event handler failed",
					zap.String("type", e.Type),
					zap.String("id", e.ID),
					zap.Error(err))
				if firstErr == nil {
					firstErr = eventx.ErrorRegistry.NewWithCause(eventx.ErrHandlerFailed, err).
						WithDetail("type", e.Type)
				}
			}
		}
	}
	return firstErr
}

func (mb *MemoryBus) handlersFor(eventType string) []EventHandler {
	mb.mutex.RLock()
	defer mb.mutex.RUnlock()
	out := append([]EventHandler(nil), mb.handlers[eventType]...)
	return append(out, mb.handlers["*"]...)
}

// Events returns a copy of everything published so far
func (mb *MemoryBus) Events() []eventx.Event {
	mb.mutex.RLock()
	defer mb.mutex.RUnlock()
	return append([]eventx.Event(nil), mb.events...)
}

// Close rejects further publishing
func (mb *MemoryBus) Close() error {
	mb.mutex.Lock()
	defer mb.mutex.Unlock()
	mb.closed = true
	return nil
}
