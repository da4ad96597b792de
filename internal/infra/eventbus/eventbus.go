package eventbus

import (
	"context"
	"fmt"

	"oublog-audit/internal/domain/event"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// AuditEventsTopic is the topic all audit events are published on.
const AuditEventsTopic = "oublog.events"

const subscriberBuffer = 100

// EventBus is the in-process audit event bus. Messages published while a
// topic has no subscriber are dropped.
type EventBus struct {
	pubsub *gochannel.GoChannel
}

func NewEventBus(logger watermill.LoggerAdapter) *EventBus {
	return &EventBus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: subscriberBuffer}, logger),
	}
}

func (b *EventBus) Publisher() message.Publisher {
	return b.pubsub
}

func (b *EventBus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Publish sends e straight to AuditEventsTopic, bypassing the outbox.
func (b *EventBus) Publish(ctx context.Context, e event.AuditEvent) error {
	return b.PublishAll(ctx, []event.AuditEvent{e})
}

// PublishAll publishes events one by one and stops at the first failure.
// Subscribers may receive them in any order.
func (b *EventBus) PublishAll(ctx context.Context, events []event.AuditEvent) error {
	for _, e := range events {
		msg, err := EventToMessage(e)
		if err != nil {
			return fmt.Errorf("encode %s: %w", e.EventID(), err)
		}
		msg.SetContext(ctx)
		if err := b.pubsub.Publish(AuditEventsTopic, msg); err != nil {
			return fmt.Errorf("publish %s: %w", e.EventID(), err)
		}
	}
	return nil
}

func (b *EventBus) Close() error {
	return b.pubsub.Close()
}
