package eventbus

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	defaultPollInterval = 100 * time.Millisecond
	defaultBatchSize    = 100
)

// outboxMessage is a pending row of the outbox table.
type outboxMessage struct {
	UUID     string
	Payload  []byte
	Metadata map[string]string
}

// ForwarderOption configures a Forwarder.
type ForwarderOption func(*Forwarder)

// WithPollInterval sets how often the outbox is polled.
func WithPollInterval(d time.Duration) ForwarderOption {
	return func(f *Forwarder) {
		if d > 0 {
			f.pollInterval = d
		}
	}
}

// WithBatchSize sets how many messages are forwarded per poll.
func WithBatchSize(n int) ForwarderOption {
	return func(f *Forwarder) {
		if n > 0 {
			f.batchSize = n
		}
	}
}

// Forwarder reads messages from the outbox table and forwards them to the event bus.
type Forwarder struct {
	db           *entsql.Driver
	publisher    message.Publisher
	topic        string
	pollInterval time.Duration
	batchSize    int
	logger       watermill.LoggerAdapter

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewForwarder creates a new outbox forwarder.
func NewForwarder(
	db *entsql.Driver,
	publisher message.Publisher,
	logger watermill.LoggerAdapter,
	opts ...ForwarderOption,
) *Forwarder {
	f := &Forwarder{
		db:           db,
		publisher:    publisher,
		topic:        AuditEventsTopic,
		pollInterval: defaultPollInterval,
		batchSize:    defaultBatchSize,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Start begins forwarding messages from the outbox.
func (f *Forwarder) Start(ctx context.Context) {
	f.ctx, f.cancel = context.WithCancel(ctx)
	f.wg.Add(1)
	go f.run()
	f.logger.Info("outbox forwarder started", watermill.LogFields{
		"poll_interval": f.pollInterval.String(),
		"batch_size":    f.batchSize,
	})
}

// Stop stops the forwarder gracefully.
func (f *Forwarder) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
	f.wg.Wait()
	f.logger.Info("outbox forwarder stopped", nil)
}

func (f *Forwarder) run() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-f.ctx.Done():
			return
		case <-ticker.C:
			f.forwardBatch()
		}
	}
}

func (f *Forwarder) forwardBatch() {
	messages, err := f.pending(f.ctx)
	if err != nil {
		f.logger.Error("failed to query outbox messages", err, nil)
		return
	}

	for _, om := range messages {
		if err := f.forwardMessage(om); err != nil {
			f.logger.Error("failed to forward message", err, watermill.LogFields{
				"uuid": om.UUID,
			})
			continue
		}

		// Delete the message after successful forwarding
		if err := f.delete(f.ctx, om.UUID); err != nil {
			f.logger.Error("failed to delete outbox message", err, watermill.LogFields{
				"uuid": om.UUID,
			})
		}
	}
}

func (f *Forwarder) pending(ctx context.Context) ([]outboxMessage, error) {
	b := entsql.Dialect(f.db.Dialect())
	query, args := b.Select("uuid", "payload", "metadata").
		From(b.Table(OutboxTable)).
		OrderBy("created_at", "uuid").
		Limit(f.batchSize).
		Query()

	rows := &entsql.Rows{}
	if err := f.db.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []outboxMessage
	for rows.Next() {
		var (
			om       outboxMessage
			metadata string
		)
		if err := rows.Scan(&om.UUID, &om.Payload, &metadata); err != nil {
			return nil, err
		}
		if metadata != "" {
			if err := json.Unmarshal([]byte(metadata), &om.Metadata); err != nil {
				return nil, err
			}
		}
		messages = append(messages, om)
	}
	return messages, rows.Err()
}

func (f *Forwarder) delete(ctx context.Context, uuid string) error {
	query, args := entsql.Dialect(f.db.Dialect()).
		Delete(OutboxTable).
		Where(entsql.EQ("uuid", uuid)).
		Query()
	return f.db.Exec(ctx, query, args, nil)
}

func (f *Forwarder) forwardMessage(om outboxMessage) error {
	msg := message.NewMessage(om.UUID, om.Payload)
	for k, v := range om.Metadata {
		msg.Metadata.Set(k, v)
	}

	if err := f.publisher.Publish(f.topic, msg); err != nil {
		return err
	}

	f.logger.Debug("forwarded message", watermill.LogFields{
		"uuid":       om.UUID,
		"event_name": om.Metadata[MetaEventName],
	})

	return nil
}
