package eventbus

import (
	"context"
	"testing"
	"time"

	"oublog-audit/internal/domain/event"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventToMessage_SetsRoutingMetadata(t *testing.T) {
	evt := newCommentDeleted(t, 42)

	msg, err := EventToMessage(evt)

	require.NoError(t, err)
	assert.Equal(t, evt.EventID(), msg.UUID)
	assert.Equal(t, event.CommentDeletedName, msg.Metadata.Get(MetaEventName))
	assert.Equal(t, "comments:42", msg.Metadata.Get(MetaAggregateID))
	assert.Equal(t, "5", msg.Metadata.Get(MetaContextInstanceID))
}

func TestMessageToEnvelope_CarriesLogRecord(t *testing.T) {
	evt := newCommentDeleted(t, 42)
	msg, err := EventToMessage(evt)
	require.NoError(t, err)

	envelope, err := MessageToEnvelope(msg)
	require.NoError(t, err)

	assert.Equal(t, evt.EventID(), envelope.EventID)
	assert.Equal(t, int64(5), envelope.ContextInstanceID)
	assert.True(t, evt.OccurredAt().Equal(envelope.OccurredAt))

	rec, err := envelope.Record()
	require.NoError(t, err)
	assert.Equal(t, event.CRUDDelete, rec.CRUD)
	assert.Equal(t, "comments", rec.ObjectTable)
	require.NotNil(t, rec.ObjectID)
	assert.Equal(t, int64(42), *rec.ObjectID)
	assert.Equal(t, int64(7), rec.UserID)
}

func TestMessageToEnvelope_Rejects(t *testing.T) {
	for name, payload := range map[string]string{
		"not json":    "{",
		"no event id": `{"event_name":"oublog.comment_deleted"}`,
		"no name":     `{"event_id":"0190"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := MessageToEnvelope(message.NewMessage(watermill.NewUUID(), []byte(payload)))
			assert.Error(t, err)
		})
	}
}

func TestEventBus_PublishAllDeliversEveryEvent(t *testing.T) {
	bus := NewEventBus(watermill.NopLogger{})
	defer bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	messages, err := bus.Subscriber().Subscribe(ctx, AuditEventsTopic)
	require.NoError(t, err)

	require.NoError(t, bus.PublishAll(ctx, []event.AuditEvent{
		newCommentDeleted(t, 42),
		newCommentDeleted(t, 43),
	}))

	var got []string
	for range 2 {
		select {
		case msg := <-messages:
			envelope, err := MessageToEnvelope(msg)
			require.NoError(t, err)
			got = append(got, envelope.AggregateID)
			msg.Ack()
		case <-ctx.Done():
			t.Fatalf("timeout, received %v", got)
		}
	}
	assert.ElementsMatch(t, []string{"comments:42", "comments:43"}, got)
}

func TestEventBus_PublishWithoutSubscriber(t *testing.T) {
	bus := NewEventBus(watermill.NopLogger{})
	defer bus.Close()

	assert.NoError(t, bus.Publish(context.Background(), newCommentDeleted(t, 42)))
}
