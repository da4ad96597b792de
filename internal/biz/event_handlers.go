package biz

import (
	"context"
	"errors"

	"oublog-audit/internal/domain"
	"oublog-audit/internal/domain/event"
	"oublog-audit/internal/infra/eventbus"

	"github.com/go-kratos/kratos/v2/log"
)

// Compile-time interface checks
var (
	_ eventbus.EventHandler = (*LoggingEventHandler)(nil)
	_ eventbus.EventHandler = (*LogstoreHandler)(nil)
	_ eventbus.EventHandler = (*ActivityHandler)(nil)
)

// LoggingEventHandler logs every audit event passing through the bus.
type LoggingEventHandler struct {
	log *log.Helper
}

// NewLoggingEventHandler creates a new logging event handler.
func NewLoggingEventHandler(logger log.Logger) *LoggingEventHandler {
	return &LoggingEventHandler{
		log: log.NewHelper(logger),
	}
}

func (h *LoggingEventHandler) HandlerName() string {
	return "logging_handler"
}

func (h *LoggingEventHandler) EventName() string {
	return eventbus.AllEvents
}

// Handle logs the event details.
func (h *LoggingEventHandler) Handle(ctx context.Context, envelope *eventbus.EventEnvelope) error {
	switch envelope.EventName {
	case event.CommentDeletedName:
		rec, err := envelope.Record()
		if err != nil {
			return err
		}
		h.log.WithContext(ctx).Infof("[Event] comment %d deleted by user %d in cm %d",
			derefID(rec.ObjectID), rec.UserID, rec.ContextInstanceID)
	default:
		h.log.WithContext(ctx).Infof("[Event] %s: %s", envelope.EventName, envelope.AggregateID)
	}
	return nil
}

// LogstoreHandler writes every audit event to the standard log.
type LogstoreHandler struct {
	logs domain.LogStore
	log  *log.Helper
}

// NewLogstoreHandler creates a new logstore handler.
func NewLogstoreHandler(logs domain.LogStore, logger log.Logger) *LogstoreHandler {
	return &LogstoreHandler{
		logs: logs,
		log:  log.NewHelper(logger),
	}
}

func (h *LogstoreHandler) HandlerName() string {
	return "logstore_handler"
}

func (h *LogstoreHandler) EventName() string {
	return eventbus.AllEvents
}

// Handle stores the envelope's record. A payload that cannot be decoded is dropped.
func (h *LogstoreHandler) Handle(ctx context.Context, envelope *eventbus.EventEnvelope) error {
	rec, err := envelope.Record()
	if err != nil {
		h.log.WithContext(ctx).Warnf("failed to decode %s payload: %v", envelope.EventID, err)
		return nil
	}

	if err := h.logs.Append(ctx, rec); err != nil {
		h.log.WithContext(ctx).Warnf("failed to store %s: %v", envelope.EventID, err)
		return err
	}
	return nil
}

// ActivityHandler renders events and pushes them onto the recent activity cache.
type ActivityHandler struct {
	trail *AuditTrailUsecase
	cache domain.ActivityCache
	log   *log.Helper
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(trail *AuditTrailUsecase, cache domain.ActivityCache, logger log.Logger) *ActivityHandler {
	return &ActivityHandler{
		trail: trail,
		cache: cache,
		log:   log.NewHelper(logger),
	}
}

func (h *ActivityHandler) HandlerName() string {
	return "activity_handler"
}

func (h *ActivityHandler) EventName() string {
	return eventbus.AllEvents
}

// Handle renders the event and caches it. Events that cannot be rendered are skipped.
func (h *ActivityHandler) Handle(ctx context.Context, envelope *eventbus.EventEnvelope) error {
	rec, err := envelope.Record()
	if err != nil {
		h.log.WithContext(ctx).Warnf("failed to decode %s payload: %v", envelope.EventID, err)
		return nil
	}

	entry, err := h.trail.Render(rec)
	switch {
	case errors.Is(err, event.ErrUnknownEvent):
		h.log.WithContext(ctx).Debugf("no renderer for %s, %s not cached", rec.EventName, envelope.EventID)
		return nil
	case err != nil:
		h.log.WithContext(ctx).Warnf("failed to render %s: %v", envelope.EventID, err)
		return nil
	}

	return h.cache.Push(ctx, rec.ContextInstanceID, entry)
}

// RegisterEventHandlers registers all event handlers with the router.
func RegisterEventHandlers(router *eventbus.Router, logs domain.LogStore, cache domain.ActivityCache, trail *AuditTrailUsecase, logger log.Logger) error {
	for _, h := range []eventbus.EventHandler{
		NewLoggingEventHandler(logger),
		NewLogstoreHandler(logs, logger),
		NewActivityHandler(trail, cache, logger),
	} {
		if err := router.AddHandler(h); err != nil {
			return err
		}
	}
	return nil
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
