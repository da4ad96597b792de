package service

import (
	"context"
	"time"

	"oublog-audit/internal/biz"
	"oublog-audit/internal/domain"
	"oublog-audit/internal/domain/valueobject"
)

type DeleteCommentRequest struct {
	CommentID int64
	ActorID   int64
}

type DeleteCommentReply struct {
	CommentID   int64     `json:"comment_id"`
	PostID      int64     `json:"post_id"`
	DeletedBy   int64     `json:"deleted_by"`
	TimeDeleted time.Time `json:"time_deleted"`
}

type ListLogRequest struct {
	CMID     int64
	Page     int
	PageSize int
}

type ListLogReply struct {
	Entries []domain.AuditEntry `json:"entries"`
	Total   int                 `json:"total"`
	Page    int                 `json:"page"`
}

type RecentActivityRequest struct {
	CMID int64
}

type RecentActivityReply struct {
	Entries []domain.AuditEntry `json:"entries"`
}

// OublogService exposes comment deletion and the module audit trail.
type OublogService struct {
	comments *biz.CommentUsecase
	trail    *biz.AuditTrailUsecase
}

func NewOublogService(comments *biz.CommentUsecase, trail *biz.AuditTrailUsecase) *OublogService {
	return &OublogService{comments: comments, trail: trail}
}

func (s *OublogService) DeleteComment(ctx context.Context, req *DeleteCommentRequest) (*DeleteCommentReply, error) {
	if req.ActorID == 0 {
		return nil, ErrMissingActor
	}

	c, err := s.comments.DeleteComment(ctx, req.CommentID, req.ActorID)
	if err != nil {
		return nil, toStatus(err)
	}

	return &DeleteCommentReply{
		CommentID:   c.ID(),
		PostID:      c.Location().PostID,
		DeletedBy:   *c.DeletedBy(),
		TimeDeleted: *c.TimeDeleted(),
	}, nil
}

func (s *OublogService) ListLog(ctx context.Context, req *ListLogRequest) (*ListLogReply, error) {
	entries, total, err := s.trail.List(ctx, req.CMID, req.Page, req.PageSize)
	if err != nil {
		return nil, toStatus(err)
	}

	page := req.Page
	if page == 0 {
		page = 1
	}
	return &ListLogReply{
		Entries: entries,
		Total:   total,
		Page:    page,
	}, nil
}

func (s *OublogService) RecentActivity(ctx context.Context, req *RecentActivityRequest) (*RecentActivityReply, error) {
	entries, err := s.trail.Recent(ctx, req.CMID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &RecentActivityReply{Entries: entries}, nil
}

// parseID reads a path or header id. An empty value is reported as zero.
func parseID(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	id, err := valueobject.ParseID(raw)
	if err != nil {
		return 0, err
	}
	return id.Int64(), nil
}
