package data

import (
	"context"
	"errors"

	"oublog-audit/internal/domain/event"
	"oublog-audit/internal/infra/eventbus"

	"github.com/go-kratos/kratos/v2/log"
)

var errNoTransaction = errors.New("outbox: no transaction in context")

// OutboxEventHandler stores triggered events in the outbox table of the current transaction.
type OutboxEventHandler struct {
	outbox *eventbus.OutboxPublisher
}

// NewOutboxEventHandler creates a new outbox event handler.
func NewOutboxEventHandler(outbox *eventbus.OutboxPublisher) *OutboxEventHandler {
	return &OutboxEventHandler{outbox: outbox}
}

// Handle writes e to the outbox. It must run inside UnitOfWork.Do.
func (h *OutboxEventHandler) Handle(ctx context.Context, e event.AuditEvent) error {
	tx := TxFromContext(ctx)
	if tx == nil {
		return errNoTransaction
	}
	return h.outbox.PublishInTx(ctx, tx, []event.AuditEvent{e})
}

// LoggingEventHandler logs triggered events.
type LoggingEventHandler struct {
	log *log.Helper
}

// NewLoggingEventHandler creates a new logging event handler.
func NewLoggingEventHandler(logger log.Logger) *LoggingEventHandler {
	return &LoggingEventHandler{
		log: log.NewHelper(logger),
	}
}

// Handle logs the event details.
func (h *LoggingEventHandler) Handle(ctx context.Context, e event.AuditEvent) error {
	switch evt := e.(type) {
	case *event.CommentDeleted:
		h.log.WithContext(ctx).Infof("[Event] comment %s deleted by user %d in cm %d",
			e.AggregateID(), evt.UserID, evt.ContextInstanceID)
	default:
		h.log.WithContext(ctx).Infof("[Event] %s: %s", e.EventName(), e.AggregateID())
	}
	return nil
}

// NewEventDispatcher creates a dispatcher routing every registered event to the
// logging handler and the outbox.
func NewEventDispatcher(registry *event.Registry, outbox *eventbus.OutboxPublisher, logger log.Logger) *event.Dispatcher {
	dispatcher := event.NewDispatcher()
	loggingHandler := NewLoggingEventHandler(logger)
	outboxHandler := NewOutboxEventHandler(outbox)

	for _, name := range registry.Names() {
		dispatcher.Register(name, loggingHandler)
		dispatcher.Register(name, outboxHandler)
	}
	return dispatcher
}
