package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

const (
	// AllEvents subscribes a handler to every event name.
	AllEvents = "*"
	// PoisonTopic receives audit messages a handler still rejects after its retries.
	PoisonTopic = AuditEventsTopic + ".poison"

	handlerRetries     = 3
	handlerRetryDelay  = 50 * time.Millisecond
	routerCloseTimeout = 5 * time.Second
)

// EventHandler consumes audit envelopes off the bus.
type EventHandler interface {
	// HandlerName is unique per router.
	HandlerName() string
	// EventName returns the event name this handler handles, or AllEvents.
	EventName() string
	Handle(ctx context.Context, envelope *EventEnvelope) error
}

// Router subscribes each EventHandler to the audit topic and filters by event name.
type Router struct {
	router   *message.Router
	sub      message.Subscriber
	handlers []EventHandler
	names    map[string]struct{}
	logger   watermill.LoggerAdapter
}

// NewRouter creates a router whose handlers are retried, and whose messages
// are moved to PoisonTopic once the retries run out.
func NewRouter(eventBus *EventBus, logger watermill.LoggerAdapter) (*Router, error) {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: routerCloseTimeout}, logger)
	if err != nil {
		return nil, err
	}

	poison, err := middleware.PoisonQueue(eventBus.Publisher(), PoisonTopic)
	if err != nil {
		return nil, fmt.Errorf("poison queue: %w", err)
	}

	// outermost first: a recovered panic or an exhausted retry ends up on the poison topic
	router.AddMiddleware(
		poison,
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      handlerRetries,
			InitialInterval: handlerRetryDelay,
			Logger:          logger,
		}.Middleware,
	)

	return &Router{
		router: router,
		sub:    eventBus.Subscriber(),
		names:  make(map[string]struct{}),
		logger: logger,
	}, nil
}

// AddHandler subscribes handler to the audit topic. Handler names must be unique.
func (r *Router) AddHandler(handler EventHandler) error {
	name := handler.HandlerName()
	if _, dup := r.names[name]; dup {
		return fmt.Errorf("event handler %q already registered", name)
	}
	r.names[name] = struct{}{}
	r.handlers = append(r.handlers, handler)

	r.router.AddNoPublisherHandler(name, AuditEventsTopic, r.sub, r.dispatch(handler))
	return nil
}

// Handlers returns the registered handlers in registration order.
func (r *Router) Handlers() []EventHandler {
	return r.handlers
}

func subscribed(handler EventHandler, eventName string) bool {
	name := handler.EventName()
	return name == AllEvents || name == eventName
}

func (r *Router) dispatch(handler EventHandler) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		envelope, err := MessageToEnvelope(msg)
		if err != nil {
			// malformed payloads go to the poison topic
			return fmt.Errorf("decode envelope %s: %w", msg.UUID, err)
		}
		if !subscribed(handler, envelope.EventName) {
			return nil
		}

		if err := handler.Handle(msg.Context(), envelope); err != nil {
			r.logger.Error("audit handler failed", err, watermill.LogFields{
				"handler":             handler.HandlerName(),
				"event_name":          envelope.EventName,
				"event_id":            envelope.EventID,
				"context_instance_id": envelope.ContextInstanceID,
			})
			return err
		}
		return nil
	}
}

// Run blocks until ctx is done or the router is closed.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running is closed once all handlers are subscribed.
func (r *Router) Running() chan struct{} {
	return r.router.Running()
}

func (r *Router) Close() error {
	return r.router.Close()
}
