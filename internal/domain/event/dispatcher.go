package event

import (
	"context"
	"sync"
)

// Handler is the interface for handling triggered audit events.
type Handler interface {
	Handle(ctx context.Context, event AuditEvent) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event AuditEvent) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, e AuditEvent) error {
	return f(ctx, e)
}

// Dispatcher triggers events to registered observers.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewDispatcher creates a new event dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]Handler),
	}
}

// Register registers a handler for a specific event name.
func (d *Dispatcher) Register(eventName string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventName] = append(d.handlers[eventName], handler)
}

// Dispatch triggers a validated event. The first handler error aborts the dispatch.
func (d *Dispatcher) Dispatch(ctx context.Context, e AuditEvent) error {
	if !e.Validated() {
		return ErrNotValidated
	}
	if err := e.MarkTriggered(); err != nil {
		return err
	}

	d.mu.RLock()
	handlers := d.handlers[e.EventName()]
	d.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler.Handle(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// DispatchAll dispatches multiple events.
func (d *Dispatcher) DispatchAll(ctx context.Context, events []AuditEvent) error {
	for _, e := range events {
		if err := d.Dispatch(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
