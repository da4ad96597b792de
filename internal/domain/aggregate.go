package domain

import "oublog-audit/internal/domain/event"

// AggregateRoot is the interface for domain aggregates that can raise events.
type AggregateRoot interface {
	// Events returns all uncommitted domain events.
	Events() []event.AuditEvent
	// ClearEvents clears all domain events after dispatch.
	ClearEvents()
}
