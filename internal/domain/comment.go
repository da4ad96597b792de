package domain

import (
	"time"

	"oublog-audit/internal/domain/event"
)

// Compile-time interface check
var _ AggregateRoot = (*Comment)(nil)

// Location places a comment in its post, blog and course module.
type Location struct {
	PostID    int64
	OublogID  int64
	CMID      int64
	ContextID int64
	CourseID  int64
}

// Comment is the aggregate root for a comment on a blog post.
type Comment struct {
	id          int64
	location    Location
	userID      int64
	message     string
	timePosted  time.Time
	deletedBy   *int64
	timeDeleted *time.Time

	events []event.AuditEvent
}

// ReconstructComment reconstructs a Comment from persistence.
func ReconstructComment(
	id int64,
	location Location,
	userID int64,
	message string,
	timePosted time.Time,
	deletedBy *int64,
	timeDeleted *time.Time,
) *Comment {
	return &Comment{
		id:          id,
		location:    location,
		userID:      userID,
		message:     message,
		timePosted:  timePosted,
		deletedBy:   deletedBy,
		timeDeleted: timeDeleted,
	}
}

// ID returns the comment id.
func (c *Comment) ID() int64 {
	return c.id
}

// Location returns where the comment lives.
func (c *Comment) Location() Location {
	return c.location
}

// UserID returns the author of the comment.
func (c *Comment) UserID() int64 {
	return c.userID
}

// Message returns the comment text.
func (c *Comment) Message() string {
	return c.message
}

// TimePosted returns when the comment was posted.
func (c *Comment) TimePosted() time.Time {
	return c.timePosted
}

// DeletedBy returns who deleted the comment, or nil.
func (c *Comment) DeletedBy() *int64 {
	return c.deletedBy
}

// TimeDeleted returns when the comment was deleted, or nil.
func (c *Comment) TimeDeleted() *time.Time {
	return c.timeDeleted
}

// IsDeleted reports whether the comment has been deleted.
func (c *Comment) IsDeleted() bool {
	return c.timeDeleted != nil
}

// Delete marks the comment deleted by actorID and raises a CommentDeleted event.
// If the event cannot be built the comment is left untouched.
func (c *Comment) Delete(actorID int64) error {
	if c.IsDeleted() {
		return ErrCommentAlreadyDeleted
	}

	id := c.id
	e, err := event.NewCommentDeleted(event.CommentDeletedData{
		UserID:    actorID,
		CommentID: &id,
		CourseID:  c.location.CourseID,
		Context:   event.ModuleContext(c.location.ContextID, c.location.CMID),
		OublogID:  nonZero(c.location.OublogID),
		PostID:    nonZero(c.location.PostID),
	})
	if err != nil {
		return err
	}

	now := e.OccurredAt()
	c.deletedBy = &actorID
	c.timeDeleted = &now
	c.events = append(c.events, e)
	return nil
}

// Events returns all uncommitted domain events.
func (c *Comment) Events() []event.AuditEvent {
	return c.events
}

// ClearEvents clears all domain events after they have been dispatched.
func (c *Comment) ClearEvents() {
	c.events = nil
}

func nonZero(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}
