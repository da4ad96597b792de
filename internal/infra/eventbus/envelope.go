package eventbus

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"oublog-audit/internal/domain/event"

	"github.com/ThreeDotsLabs/watermill/message"
)

// Message metadata keys. They duplicate envelope fields so that
// subscribers and the outbox can route without decoding the payload.
const (
	MetaEventName         = "event_name"
	MetaAggregateID       = "aggregate_id"
	MetaContextInstanceID = "context_instance_id"
)

var errIncompleteEnvelope = errors.New("envelope has no event id or name")

// EventEnvelope is the wire form of an audit event. Payload holds the flattened log record.
type EventEnvelope struct {
	EventID           string          `json:"event_id"`
	EventName         string          `json:"event_name"`
	AggregateID       string          `json:"aggregate_id"`
	ContextInstanceID int64           `json:"context_instance_id"`
	OccurredAt        time.Time       `json:"occurred_at"`
	Payload           json.RawMessage `json:"payload"`
}

// Record decodes the payload back into a log record.
func (e *EventEnvelope) Record() (event.Record, error) {
	var rec event.Record
	err := json.Unmarshal(e.Payload, &rec)
	return rec, err
}

// EventToMessage flattens e into its log record and wraps it in a message keyed by the event id.
func EventToMessage(e event.AuditEvent) (*message.Message, error) {
	rec, err := e.Record()
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(EventEnvelope{
		EventID:           e.EventID(),
		EventName:         e.EventName(),
		AggregateID:       e.AggregateID(),
		ContextInstanceID: rec.ContextInstanceID,
		OccurredAt:        e.OccurredAt(),
		Payload:           payload,
	})
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(e.EventID(), data)
	msg.Metadata.Set(MetaEventName, e.EventName())
	msg.Metadata.Set(MetaAggregateID, e.AggregateID())
	msg.Metadata.Set(MetaContextInstanceID, strconv.FormatInt(rec.ContextInstanceID, 10))
	return msg, nil
}

// MessageToEnvelope decodes msg. Envelopes without an event id or name are rejected.
func MessageToEnvelope(msg *message.Message) (*EventEnvelope, error) {
	var envelope EventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		return nil, err
	}
	if envelope.EventID == "" || envelope.EventName == "" {
		return nil, errIncompleteEnvelope
	}
	return &envelope, nil
}
