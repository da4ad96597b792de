package domain

import (
	"context"

	"oublog-audit/internal/domain/event"
)

// CommentRepository defines persistence operations on blog comments.
type CommentRepository interface {
	// FindByID loads a comment with its location. Returns ErrCommentNotFound if missing.
	FindByID(ctx context.Context, id int64) (*Comment, error)

	// SaveDeletion persists the deletion fields of c.
	SaveDeletion(ctx context.Context, c *Comment) error
}

// LogStore persists audit records and reads them back for rendering.
type LogStore interface {
	// Append stores rec. Storing the same event id twice is a no-op.
	Append(ctx context.Context, rec event.Record) error

	// ListByContextInstance returns the records of a course module, newest first,
	// and the total count.
	ListByContextInstance(ctx context.Context, cmID int64, offset, limit int) ([]event.Record, int, error)
}

// ActivityCache keeps the most recent rendered entries per course module.
type ActivityCache interface {
	// Push prepends entry to the module's list.
	Push(ctx context.Context, cmID int64, entry AuditEntry) error

	// Recent returns up to limit entries, newest first. A miss returns an empty slice.
	Recent(ctx context.Context, cmID int64, limit int) ([]AuditEntry, error)
}
