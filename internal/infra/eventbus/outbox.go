package eventbus

import (
	"context"
	"encoding/json"
	"time"

	"oublog-audit/internal/domain/event"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
	"github.com/ThreeDotsLabs/watermill/message"
)

// OutboxTable is the table pending messages are stored in until forwarded.
const OutboxTable = "event_outbox"

var (
	outboxColumns = []*schema.Column{
		{Name: "uuid", Type: field.TypeString, Size: 36},
		{Name: "payload", Type: field.TypeBytes},
		{Name: "metadata", Type: field.TypeString, Size: 2048},
		{Name: "created_at", Type: field.TypeInt64},
	}
	// OutboxSchema describes the outbox table for migration.
	OutboxSchema = &schema.Table{
		Name:       OutboxTable,
		Columns:    outboxColumns,
		PrimaryKey: []*schema.Column{outboxColumns[0]},
		Indexes: []*schema.Index{
			{Name: "event_outbox_created_at", Columns: []*schema.Column{outboxColumns[3]}},
		},
	}
)

// OutboxPublisher stores events in the outbox table within a transaction.
type OutboxPublisher struct {
	dialect string
}

// NewOutboxPublisher creates a new outbox publisher for the driver's dialect.
func NewOutboxPublisher(db *entsql.Driver) *OutboxPublisher {
	return &OutboxPublisher{dialect: db.Dialect()}
}

// PublishInTx stores events in the outbox table using the provided transaction.
func (p *OutboxPublisher) PublishInTx(ctx context.Context, tx dialect.ExecQuerier, events []event.AuditEvent) error {
	for _, e := range events {
		msg, err := EventToMessage(e)
		if err != nil {
			return err
		}

		if err := p.storeMessage(ctx, tx, msg); err != nil {
			return err
		}
	}
	return nil
}

// storeMessage stores a Watermill message in the outbox table.
func (p *OutboxPublisher) storeMessage(ctx context.Context, tx dialect.ExecQuerier, msg *message.Message) error {
	metadata := make(map[string]string)
	for k, v := range msg.Metadata {
		metadata[k] = v
	}
	rawMetadata, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	query, args := entsql.Dialect(p.dialect).
		Insert(OutboxTable).
		Columns("uuid", "payload", "metadata", "created_at").
		Values(msg.UUID, []byte(msg.Payload), string(rawMetadata), time.Now().UTC().UnixNano()).
		Query()

	return tx.Exec(ctx, query, args, nil)
}
