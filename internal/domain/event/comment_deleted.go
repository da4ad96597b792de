package event

import (
	"encoding/json"
	"fmt"
	"strconv"

	"oublog-audit/pkg/weburl"
)

const (
	// Component is the plugin namespace the blog events belong to.
	Component = "mod_oublog"

	// CommentDeletedName is the event name of CommentDeleted.
	CommentDeletedName = "oublog.comment_deleted"

	// CommentsTable is the logical table deleted comments live in.
	CommentsTable = "comments"

	commentDeletedStringKey = "event:commentdeleted"
	viewPostPath            = "/mod/oublog/viewpost.php"
)

// Compile-time interface check
var _ AuditEvent = (*CommentDeleted)(nil)

// CommentDeletedOther holds the blog and post the deleted comment belonged to.
type CommentDeletedOther struct {
	OublogID *int64 `json:"oublogid,omitempty"`
	PostID   *int64 `json:"postid,omitempty"`
}

// CommentDeleted is raised when a comment on a blog post is deleted.
type CommentDeleted struct {
	Base
	Other CommentDeletedOther `json:"other"`
}

// CommentDeletedData is the input needed to raise a CommentDeleted event.
type CommentDeletedData struct {
	UserID    int64
	CommentID *int64
	CourseID  int64
	Context   Context
	OublogID  *int64
	PostID    *int64
}

// NewCommentDeleted creates and validates a CommentDeleted event. On a contract
// violation no event is returned.
func NewCommentDeleted(data CommentDeletedData) (*CommentDeleted, error) {
	e := &CommentDeleted{
		Base: NewBase(Component, "comment", "deleted", data.UserID, data.Context),
		Other: CommentDeletedOther{
			OublogID: data.OublogID,
			PostID:   data.PostID,
		},
	}
	e.Init()
	e.ObjectID = data.CommentID
	e.CourseID = data.CourseID

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// RestoreCommentDeleted rebuilds a stored event for rendering. It is not validated
// and cannot be triggered again.
func RestoreCommentDeleted(r Record) (*CommentDeleted, error) {
	e := &CommentDeleted{Base: baseFromRecord(r)}
	if len(r.Other) > 0 {
		if err := json.Unmarshal(r.Other, &e.Other); err != nil {
			return nil, fmt.Errorf("unmarshal other of %s: %w", r.EventID, err)
		}
	}
	e.triggered = true
	return e, nil
}

// Init sets the fixed classification of the event.
func (e *CommentDeleted) Init() {
	e.CRUD = CRUDDelete
	e.EduLevel = EduLevelOther
	e.ObjectTable = CommentsTable
}

// EventName returns the event name.
func (e *CommentDeleted) EventName() string {
	return CommentDeletedName
}

// Description returns what happened. It assumes the record is valid.
func (e *CommentDeleted) Description() string {
	return fmt.Sprintf("The user with id '%d' has deleted the comment with id '%s' "+
		"on the post with id '%s' in the oublog with the course module id '%d'.",
		e.UserID, formatID(e.ObjectID), formatID(e.Other.PostID), e.ContextInstanceID)
}

// Name returns the localized event name.
func (e *CommentDeleted) Name(loc Localizer) (string, error) {
	return CommentDeletedDisplayName(loc)
}

// CommentDeletedDisplayName returns the localized name of the CommentDeleted kind.
func CommentDeletedDisplayName(loc Localizer) (string, error) {
	return loc.GetString(commentDeletedStringKey, Component)
}

// URL links to the post page, anchored at the deleted comment.
func (e *CommentDeleted) URL() *weburl.URL {
	u := weburl.New(viewPostPath, weburl.Param{Name: "post", Value: formatID(e.Other.PostID)})
	return u.SetAnchor("cid" + formatID(e.ObjectID))
}

// Validate runs the base checks, then requires oublogid, postid and the comment
// id in that order, and finally a resolved module context. A failed call leaves
// the record unvalidated.
func (e *CommentDeleted) Validate() error {
	e.validated = false
	if err := e.ValidateBase(); err != nil {
		return err
	}
	if e.Other.OublogID == nil {
		return MissingField("oublogid", true)
	}
	if e.Other.PostID == nil {
		return MissingField("postid", true)
	}
	if e.ObjectID == nil {
		return MissingField("commentid", false)
	}
	if e.ContextLevel != ContextModule {
		return InvalidContext(e.ContextLevel, ContextModule)
	}
	if e.ContextInstanceID == 0 {
		return UnresolvedContext("contextinstanceid")
	}
	if e.ContextID == 0 {
		return UnresolvedContext("contextid")
	}
	e.markValidated()
	return nil
}

// Record flattens the event into a log row.
func (e *CommentDeleted) Record() (Record, error) {
	return e.record(CommentDeletedName, e.Other)
}

func formatID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
