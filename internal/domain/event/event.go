package event

import (
	"encoding/json"
	"fmt"
	"time"

	"oublog-audit/pkg/weburl"

	"github.com/google/uuid"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventID returns the unique identifier of the event.
	EventID() string
	// EventName returns the name of the event.
	EventName() string
	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time
	// AggregateID returns the ID of the object the event is about.
	AggregateID() string
}

// Localizer looks up display strings by key within a component namespace.
type Localizer interface {
	GetString(key, component string) (string, error)
}

// AuditEvent is an event that can be validated, stored in the log and rendered
// back into an audit trail.
type AuditEvent interface {
	Event
	// Description returns a human readable sentence of what happened.
	Description() string
	// Name returns the localized display name of the event kind.
	Name(loc Localizer) (string, error)
	// URL returns the link to the affected resource.
	URL() *weburl.URL
	// Validate checks the record and returns a *ContractViolation on failure.
	Validate() error
	// Record flattens the event into a log row.
	Record() (Record, error)
	// Validated reports whether Validate succeeded on this record.
	Validated() bool
	// MarkTriggered flags the record as dispatched.
	MarkTriggered() error
}

// Base contains the fields shared by every audit event.
type Base struct {
	ID                string       `json:"event_id"`
	OccurredAtT       time.Time    `json:"occurred_at"`
	Component         string       `json:"component"`
	Target            string       `json:"target"`
	Action            string       `json:"action"`
	CRUD              CRUD         `json:"crud"`
	EduLevel          EduLevel     `json:"edulevel"`
	ObjectTable       string       `json:"objecttable"`
	ObjectID          *int64       `json:"objectid,omitempty"`
	UserID            int64        `json:"userid"`
	RelatedUserID     *int64       `json:"relateduserid,omitempty"`
	CourseID          int64        `json:"courseid"`
	ContextID         int64        `json:"contextid"`
	ContextLevel      ContextLevel `json:"contextlevel"`
	ContextInstanceID int64        `json:"contextinstanceid"`

	validated bool
	triggered bool
}

// NewBase creates a new base event raised by userID in ctx.
func NewBase(component, target, action string, userID int64, ctx Context) Base {
	return Base{
		ID:                uuid.Must(uuid.NewV7()).String(),
		OccurredAtT:       time.Now().UTC(),
		Component:         component,
		Target:            target,
		Action:            action,
		UserID:            userID,
		ContextID:         ctx.ID,
		ContextLevel:      ctx.Level,
		ContextInstanceID: ctx.InstanceID,
	}
}

// EventID returns the unique identifier of the event.
func (e Base) EventID() string {
	return e.ID
}

// OccurredAt returns when the event occurred.
func (e Base) OccurredAt() time.Time {
	return e.OccurredAtT
}

// AggregateID returns "<objecttable>:<objectid>", or the object table alone when no object is set.
func (e Base) AggregateID() string {
	if e.ObjectID == nil {
		return e.ObjectTable
	}
	return fmt.Sprintf("%s:%d", e.ObjectTable, *e.ObjectID)
}

// Context returns the context the event was raised in.
func (e Base) Context() Context {
	return Context{ID: e.ContextID, Level: e.ContextLevel, InstanceID: e.ContextInstanceID}
}

// ValidateBase checks the fields every event must satisfy.
func (e Base) ValidateBase() error {
	if !e.CRUD.Valid() {
		return InvalidValue("crud", e.CRUD)
	}
	if !e.EduLevel.Valid() {
		return InvalidValue("edulevel", e.EduLevel)
	}
	if e.ObjectID != nil && e.ObjectTable == "" {
		return MissingField("objecttable", false)
	}
	return nil
}

// Validated reports whether the record passed validation.
func (e *Base) Validated() bool {
	return e.validated
}

func (e *Base) markValidated() {
	e.validated = true
}

// MarkTriggered flags the record as dispatched. A record can be triggered once.
func (e *Base) MarkTriggered() error {
	if e.triggered {
		return ErrAlreadyTriggered
	}
	e.triggered = true
	return nil
}

// Record is the flattened log row form of an audit event.
type Record struct {
	ID                int64           `json:"id,omitempty"`
	EventID           string          `json:"event_id"`
	EventName         string          `json:"eventname"`
	Component         string          `json:"component"`
	Action            string          `json:"action"`
	Target            string          `json:"target"`
	ObjectTable       string          `json:"objecttable"`
	ObjectID          *int64          `json:"objectid,omitempty"`
	CRUD              CRUD            `json:"crud"`
	EduLevel          EduLevel        `json:"edulevel"`
	ContextID         int64           `json:"contextid"`
	ContextLevel      ContextLevel    `json:"contextlevel"`
	ContextInstanceID int64           `json:"contextinstanceid"`
	UserID            int64           `json:"userid"`
	CourseID          int64           `json:"courseid"`
	RelatedUserID     *int64          `json:"relateduserid,omitempty"`
	Other             json.RawMessage `json:"other,omitempty"`
	TimeCreated       time.Time       `json:"timecreated"`
}

// record flattens the base fields with the given event name and other payload.
func (e Base) record(name string, other any) (Record, error) {
	raw, err := json.Marshal(other)
	if err != nil {
		return Record{}, fmt.Errorf("marshal other: %w", err)
	}
	return Record{
		EventID:           e.ID,
		EventName:         name,
		Component:         e.Component,
		Action:            e.Action,
		Target:            e.Target,
		ObjectTable:       e.ObjectTable,
		ObjectID:          e.ObjectID,
		CRUD:              e.CRUD,
		EduLevel:          e.EduLevel,
		ContextID:         e.ContextID,
		ContextLevel:      e.ContextLevel,
		ContextInstanceID: e.ContextInstanceID,
		UserID:            e.UserID,
		CourseID:          e.CourseID,
		RelatedUserID:     e.RelatedUserID,
		Other:             raw,
		TimeCreated:       e.OccurredAtT,
	}, nil
}

// baseFromRecord rebuilds the base fields of a stored row. The result is not validated.
func baseFromRecord(r Record) Base {
	return Base{
		ID:                r.EventID,
		OccurredAtT:       r.TimeCreated,
		Component:         r.Component,
		Target:            r.Target,
		Action:            r.Action,
		CRUD:              r.CRUD,
		EduLevel:          r.EduLevel,
		ObjectTable:       r.ObjectTable,
		ObjectID:          r.ObjectID,
		UserID:            r.UserID,
		RelatedUserID:     r.RelatedUserID,
		CourseID:          r.CourseID,
		ContextID:         r.ContextID,
		ContextLevel:      r.ContextLevel,
		ContextInstanceID: r.ContextInstanceID,
	}
}
